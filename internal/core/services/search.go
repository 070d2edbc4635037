package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService serves one-shot searches for the CLI and MCP server. The
// index is fetched on the first non-blank query and reused until Reload.
// A failed load is not cached, so the next query retries.
type SearchService struct {
	fetcher driven.SnapshotFetcher
	builder driven.IndexBuilder

	group singleflight.Group

	mu      sync.RWMutex
	index   driven.SearchIndex
	loading bool
}

// NewSearchService creates a new search service.
func NewSearchService(fetcher driven.SnapshotFetcher, builder driven.IndexBuilder) *SearchService {
	return &SearchService{
		fetcher: fetcher,
		builder: builder,
	}
}

// Search queries the index, loading it first if needed.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.QueryResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	if domain.IsBlankQuery(query) {
		logger.Debug("Empty query, returning no results")
		return []domain.QueryResult{}, nil
	}

	if err := s.ensureIndex(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIndexUnavailable, err)
	}

	hits, ok := s.search(query)
	if !ok {
		return nil, domain.ErrIndexUnavailable
	}
	results := opts.Apply(hits)
	logger.Debug("Results: %d", len(results))
	return results, nil
}

// Reload fetches the snapshot again and swaps the index on success.
func (s *SearchService) Reload(ctx context.Context) error {
	return s.load(ctx)
}

// State reports the index load state.
func (s *SearchService) State() domain.LoadState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.index != nil:
		return domain.LoadStateReady
	case s.loading:
		return domain.LoadStateLoading
	default:
		return domain.LoadStateUnloaded
	}
}

// Close releases the loaded index. A later Search loads it again.
func (s *SearchService) Close() error {
	s.mu.Lock()
	idx := s.index
	s.index = nil
	s.mu.Unlock()
	if idx == nil {
		return nil
	}
	return idx.Close()
}

// search queries the current index under the read lock, so a swap waits
// for in-flight queries before the replaced index is closed.
func (s *SearchService) search(query string) ([]domain.QueryResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.index == nil {
		return nil, false
	}
	return s.index.Search(query), true
}

func (s *SearchService) ensureIndex(ctx context.Context) error {
	s.mu.RLock()
	ready := s.index != nil
	s.mu.RUnlock()
	if ready {
		return nil
	}
	return s.load(ctx)
}

// load runs one shared fetch for all concurrent callers. The fetch is
// detached from the caller that started it; a caller whose ctx ends stops
// waiting without failing the others.
func (s *SearchService) load(ctx context.Context) error {
	ch := s.group.DoChan("load", func() (any, error) {
		s.mu.Lock()
		s.loading = true
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		idx, err := loadIndex(context.WithoutCancel(ctx), s.fetcher, s.builder)
		if err != nil {
			logger.Warn("search index load from %s failed: %v", s.fetcher.Source(), err)
			return nil, err
		}

		s.mu.Lock()
		old := s.index
		s.index = idx
		s.mu.Unlock()
		closeIndex(old)
		return nil, nil
	})

	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// closeIndex releases idx, logging any failure.
func closeIndex(idx driven.SearchIndex) {
	if idx == nil {
		return
	}
	if err := idx.Close(); err != nil {
		logger.Warn("closing search index: %v", err)
	}
}

// loadIndex fetches the snapshot and hands it to the reconstruction path.
// Every failure wraps domain.ErrSnapshotFetch.
func loadIndex(ctx context.Context, fetcher driven.SnapshotFetcher, builder driven.IndexBuilder) (driven.SearchIndex, error) {
	data, err := fetcher.Fetch(ctx)
	if err != nil {
		return nil, asFetchError(err)
	}
	idx, err := builder.Load(data)
	if err != nil {
		return nil, asFetchError(err)
	}
	logger.Debug("loaded %d records from %s", idx.Len(), fetcher.Source())
	return idx, nil
}

func asFetchError(err error) error {
	if errors.Is(err, domain.ErrSnapshotFetch) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrSnapshotFetch, err)
}
