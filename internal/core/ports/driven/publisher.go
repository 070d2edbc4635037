package driven

import "context"

// ObjectMeta carries HTTP metadata stored alongside a published object.
type ObjectMeta struct {
	ContentType  string
	CacheControl string
}

// BlobPublisher uploads static snapshot artefacts.
type BlobPublisher interface {
	// Put writes data under name, replacing any previous object.
	Put(ctx context.Context, name string, data []byte, meta ObjectMeta) error

	// Location describes the publish destination, e.g. "s3://bucket/prefix".
	Location() string
}
