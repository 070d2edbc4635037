package driving

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// SnapshotService builds and caches the published snapshot.
type SnapshotService interface {
	// Current returns the cached snapshot, rebuilding it when stale.
	Current(ctx context.Context) (*domain.PublishedSnapshot, error)

	// Build reads the whole catalog and produces a new snapshot.
	// The result replaces the cached snapshot.
	Build(ctx context.Context) (*domain.PublishedSnapshot, error)

	// Invalidate drops the cached snapshot.
	Invalidate()

	// IndexDocument returns the encoded index for the current snapshot.
	IndexDocument(ctx context.Context) ([]byte, error)
}
