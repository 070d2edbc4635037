package cli

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	results   []domain.QueryResult
	err       error
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.QueryResult, error) {
	m.lastQuery = query
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	return opts.Apply(m.results), nil
}

func (m *mockSearchService) Reload(context.Context) error { return nil }
func (m *mockSearchService) State() domain.LoadState      { return domain.LoadStateReady }

// mockSnapshotService implements driving.SnapshotService.
type mockSnapshotService struct {
	snap        *domain.PublishedSnapshot
	err         error
	doc         []byte
	builds      int
	invalidated int
}

func (m *mockSnapshotService) Current(ctx context.Context) (*domain.PublishedSnapshot, error) {
	return m.Build(ctx)
}

func (m *mockSnapshotService) Build(context.Context) (*domain.PublishedSnapshot, error) {
	m.builds++
	return m.snap, m.err
}

func (m *mockSnapshotService) Invalidate() { m.invalidated++ }

func (m *mockSnapshotService) IndexDocument(context.Context) ([]byte, error) {
	return m.doc, m.err
}

// mockCatalogService implements driving.CatalogService over a map.
type mockCatalogService struct {
	skills   map[domain.SkillKey]domain.Skill
	imported []domain.Skill
	repo     string
	err      error
}

func newMockCatalog(skills ...domain.Skill) *mockCatalogService {
	m := &mockCatalogService{skills: map[domain.SkillKey]domain.Skill{}}
	for _, s := range skills {
		m.skills[s.Key()] = s
	}
	return m
}

func (m *mockCatalogService) Import(_ context.Context, skills []domain.Skill) (domain.ImportReport, error) {
	var r domain.ImportReport
	for _, s := range skills {
		if s.Validate() != nil {
			r.Skipped++
			continue
		}
		if _, ok := m.skills[s.Key()]; ok {
			r.Updated++
		} else {
			r.Added++
		}
		m.skills[s.Key()] = s
		m.imported = append(m.imported, s)
	}
	return r, m.err
}

func (m *mockCatalogService) ImportRepository(_ context.Context, repo string) (domain.ImportReport, error) {
	m.repo = repo
	if m.err != nil {
		return domain.ImportReport{}, m.err
	}
	return domain.ImportReport{Added: 2}, nil
}

func (m *mockCatalogService) RecordInstall(_ context.Context, key domain.SkillKey) error {
	s, ok := m.skills[key]
	if !ok {
		return domain.ErrNotFound
	}
	s.Installs++
	m.skills[key] = s
	return nil
}

func (m *mockCatalogService) Remove(_ context.Context, key domain.SkillKey) error {
	if _, ok := m.skills[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.skills, key)
	return nil
}

func (m *mockCatalogService) Get(_ context.Context, key domain.SkillKey) (*domain.Skill, error) {
	s, ok := m.skills[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (m *mockCatalogService) List(context.Context) ([]domain.Skill, error) {
	out := make([]domain.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().String() < out[j].Key().String() })
	return out, nil
}

func (m *mockCatalogService) Count(context.Context) (int, error) { return len(m.skills), nil }

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	settings  domain.AppSettings
	values    []domain.Setting
	sets      map[string]string
	resets    []string
	setErr    error
	scheduler domain.SchedulerConfig
}

func newMockSettings() *mockSettingsService {
	return &mockSettingsService{
		settings: domain.DefaultAppSettings(),
		values: []domain.Setting{
			{Key: "search.engine", Value: "inverted"},
			{Key: "store.catalog_file", Value: ""},
			{Key: "github.token", Value: "****abcd", Secret: true},
		},
		sets: map[string]string{},
	}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.sets[key] = value
	return nil
}

func (m *mockSettingsService) Reset(key string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.resets = append(m.resets, key)
	return nil
}

func (m *mockSettingsService) Keys() []string {
	keys := make([]string, len(m.values))
	for i, v := range m.values {
		keys[i] = v.Key
	}
	return keys
}

func (m *mockSettingsService) Values() ([]domain.Setting, error) { return m.values, nil }

func (m *mockSettingsService) GetSchedulerConfig() domain.SchedulerConfig { return m.scheduler }

// mockPublishService implements driving.PublishService.
type mockPublishService struct {
	result *driving.PublishResult
	err    error
}

func (m *mockPublishService) Publish(context.Context) (*driving.PublishResult, error) {
	return m.result, m.err
}

func sampleSkills() []domain.Skill {
	return []domain.Skill{
		{Source: "acme/skills", SkillID: "hooks", Name: "React Hooks", Description: "Hook patterns",
			Installs: 12, Technologies: []string{"react"}},
		{Source: "acme/skills", SkillID: "router", Name: "Router", Installs: 3},
	}
}

func sampleSnapshot() *domain.PublishedSnapshot {
	return &domain.PublishedSnapshot{
		Version: "v-test",
		BuiltAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Records: domain.NewSnapshotRecords(sampleSkills()),
		Body:    []byte(`[{"id":0}]`),
		ETag:    `"abc"`,
	}
}

var errBoom = errors.New("boom")

// runCommand executes the root command with args against the current
// services and returns combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCommandContext(t, context.Background(), args...)
}

func runCommandContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()

	searchLimit, searchJSON = 10, false
	snapshotOut, indexOut = "", ""
	serveAddr, serveWatch = "", false
	scheduleRuns = 5

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := Execute(ctx)
	return buf.String(), err
}

// withServices installs s for the duration of the test.
func withServices(t *testing.T, s *Services) {
	t.Helper()
	SetServices(s)
	t.Cleanup(func() { SetServices(nil) })
}

// mockController implements driving.SearchController.
type mockController struct {
	closed bool
}

func (m *mockController) Focus()                                     {}
func (m *mockController) SetInput(string)                            {}
func (m *mockController) HandleKey(string, domain.FocusTarget) bool { return false }
func (m *mockController) View() domain.SearchView                    { return domain.SearchView{} }
func (m *mockController) Close() error {
	m.closed = true
	return nil
}

// mockScheduler implements driving.Scheduler.
type mockScheduler struct {
	job  *domain.Job
	runs []domain.JobRun
	err  error
}

func (m *mockScheduler) Start(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockScheduler) Stop() error { return nil }

func (m *mockScheduler) Status(_ context.Context, runs int) (*domain.Job, []domain.JobRun, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	if len(m.runs) > runs {
		return m.job, m.runs[:runs], nil
	}
	return m.job, m.runs, nil
}
