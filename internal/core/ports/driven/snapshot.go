package driven

import "context"

// SnapshotFetcher retrieves the published snapshot bytes.
// The payload is handed unmodified to IndexBuilder.Load.
type SnapshotFetcher interface {
	// Fetch returns the snapshot or index document.
	// Errors wrap domain.ErrSnapshotFetch.
	Fetch(ctx context.Context) ([]byte, error)

	// Source describes where the fetcher reads from, for logs and status.
	Source() string
}
