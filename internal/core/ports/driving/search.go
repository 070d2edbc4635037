package driving

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// SearchService provides one-shot search to non-interactive actors.
type SearchService interface {
	// Search loads the index on first use and queries it.
	// Returns domain.ErrIndexUnavailable if the index cannot be loaded.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error)

	// Reload fetches the snapshot again and replaces the index wholesale.
	Reload(ctx context.Context) error

	// State reports whether the index is loaded.
	State() domain.LoadState
}
