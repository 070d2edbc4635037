// Package minio publishes snapshot artefacts to MinIO or any other
// S3-compatible endpoint.
package minio

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure Publisher implements the interface.
var _ driven.BlobPublisher = (*Publisher)(nil)

// Config holds the MinIO destination.
type Config struct {
	Endpoint  string
	Bucket    string
	Prefix    string
	Region    string
	AccessKey string
	SecretKey string
	Secure    bool
}

// Publisher uploads objects with minio-go.
type Publisher struct {
	client *minio.Client
	bucket string
	prefix string
}

// New creates a publisher for cfg.
func New(cfg Config) (*Publisher, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("%w: minio endpoint and bucket are required", domain.ErrConfigNotFound)
	}

	// minio-go wants a bare host:port.
	endpoint := cfg.Endpoint
	secure := cfg.Secure
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "https://"), true
	case strings.HasPrefix(endpoint, "http://"):
		endpoint, secure = strings.TrimPrefix(endpoint, "http://"), false
	}

	client, err := minio.New(strings.TrimSuffix(endpoint, "/"), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	return &Publisher{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
	}, nil
}

// Put uploads data under prefix/name with its HTTP metadata.
func (p *Publisher) Put(ctx context.Context, name string, data []byte, meta driven.ObjectMeta) error {
	key := p.key(name)
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  meta.ContentType,
			CacheControl: meta.CacheControl,
		})
	if err != nil {
		return translateError(err, p.bucket+"/"+key)
	}
	logger.Debug("uploaded %s/%s to %s (%d bytes)", p.bucket, key, p.client.EndpointURL().Host, len(data))
	return nil
}

// Location returns the endpoint, bucket and prefix.
func (p *Publisher) Location() string {
	u := *p.client.EndpointURL()
	u.Path = "/" + path.Join(p.bucket, p.prefix)
	return u.String()
}

// translateError maps throttling responses to domain.ErrRateLimited.
func translateError(err error, object string) error {
	if minio.ToErrorResponse(err).Code == "SlowDown" {
		return fmt.Errorf("%w: upload %s: %w", domain.ErrRateLimited, object, err)
	}
	return fmt.Errorf("upload %s: %w", object, err)
}

func (p *Publisher) key(name string) string {
	return path.Join(p.prefix, name)
}
