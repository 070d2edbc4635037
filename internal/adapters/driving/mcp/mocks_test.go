package mcp

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

var (
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.SnapshotService = (*mockSnapshotService)(nil)
	_ driving.CatalogService  = (*mockCatalogService)(nil)
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results   []domain.QueryResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	return opts.Apply(m.results), m.err
}

func (m *mockSearchService) Reload(_ context.Context) error {
	return m.err
}

func (m *mockSearchService) State() domain.LoadState {
	return domain.LoadStateReady
}

// mockSnapshotService is a mock implementation of driving.SnapshotService.
type mockSnapshotService struct {
	snap *domain.PublishedSnapshot
	err  error
}

func (m *mockSnapshotService) Current(_ context.Context) (*domain.PublishedSnapshot, error) {
	return m.snap, m.err
}

func (m *mockSnapshotService) Build(_ context.Context) (*domain.PublishedSnapshot, error) {
	return m.snap, m.err
}

func (m *mockSnapshotService) Invalidate() {}

func (m *mockSnapshotService) IndexDocument(_ context.Context) ([]byte, error) {
	return nil, m.err
}

// mockCatalogService is a mock implementation of driving.CatalogService.
type mockCatalogService struct {
	skills map[domain.SkillKey]domain.Skill
	err    error
}

func (m *mockCatalogService) Import(_ context.Context, _ []domain.Skill) (domain.ImportReport, error) {
	return domain.ImportReport{}, m.err
}

func (m *mockCatalogService) ImportRepository(_ context.Context, _ string) (domain.ImportReport, error) {
	return domain.ImportReport{}, m.err
}

func (m *mockCatalogService) RecordInstall(_ context.Context, _ domain.SkillKey) error {
	return m.err
}

func (m *mockCatalogService) Remove(_ context.Context, _ domain.SkillKey) error {
	return m.err
}

func (m *mockCatalogService) Get(_ context.Context, key domain.SkillKey) (*domain.Skill, error) {
	if m.err != nil {
		return nil, m.err
	}
	s, ok := m.skills[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockCatalogService) List(_ context.Context) ([]domain.Skill, error) {
	out := make([]domain.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	return out, m.err
}

func (m *mockCatalogService) Count(_ context.Context) (int, error) {
	return len(m.skills), m.err
}

func hooksSkill() domain.Skill {
	return domain.Skill{
		Source:       "acme/skills",
		SkillID:      "react-hooks",
		Name:         "React Hooks Guide",
		Description:  "Custom hooks",
		Installs:     100,
		Technologies: []string{"react"},
	}
}
