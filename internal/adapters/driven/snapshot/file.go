package snapshot

import (
	"context"
	"fmt"
	"os"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// Ensure FileFetcher implements the interface.
var _ driven.SnapshotFetcher = (*FileFetcher)(nil)

// FileFetcher reads a snapshot or index document from disk.
type FileFetcher struct {
	path string
}

// NewFileFetcher creates a fetcher for path.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{path: path}
}

// Fetch reads the file.
func (f *FileFetcher) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotFetch, err)
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotFetch, err)
	}
	return data, nil
}

// Source returns the file path.
func (f *FileFetcher) Source() string {
	return f.path
}
