package httpapi

import (
	"context"
	"sync"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

var _ driving.SnapshotService = (*mockSnapshotService)(nil)

type mockSnapshotService struct {
	mu       sync.Mutex
	snap     *domain.PublishedSnapshot
	indexDoc []byte
	err      error
	indexErr error
	indexes  int
}

func (m *mockSnapshotService) Current(_ context.Context) (*domain.PublishedSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.snap, nil
}

func (m *mockSnapshotService) Build(ctx context.Context) (*domain.PublishedSnapshot, error) {
	return m.Current(ctx)
}

func (m *mockSnapshotService) Invalidate() {}

func (m *mockSnapshotService) IndexDocument(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.indexes++
	if m.indexErr != nil {
		return nil, m.indexErr
	}
	return m.indexDoc, nil
}

func (m *mockSnapshotService) indexCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.indexes
}
