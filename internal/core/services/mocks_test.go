package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// mockSchedulerStore implements driven.SchedulerStore in memory.
type mockSchedulerStore struct {
	mu      sync.RWMutex
	jobs    map[string]domain.Job
	runs    map[string][]domain.JobRun
	saveErr error
	listErr error
	getErr  error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		jobs: make(map[string]domain.Job),
		runs: make(map[string][]domain.JobRun),
	}
}

func (m *mockSchedulerStore) Job(_ context.Context, name string) (*domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	job, ok := m.jobs[name]
	if !ok {
		return nil, nil
	}
	return &job, nil
}

func (m *mockSchedulerStore) Jobs(_ context.Context) ([]domain.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	jobs := make([]domain.Job, 0, len(m.jobs))
	for _, j := range m.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, k int) bool { return jobs[i].Name < jobs[k].Name })
	return jobs, nil
}

func (m *mockSchedulerStore) SaveJob(_ context.Context, job *domain.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if job == nil {
		return domain.ErrInvalidInput
	}
	m.jobs[job.Name] = *job
	return nil
}

func (m *mockSchedulerStore) AppendRun(_ context.Context, run *domain.JobRun, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run == nil {
		return domain.ErrInvalidInput
	}
	runs := append([]domain.JobRun{*run}, m.runs[run.Job]...)
	if len(runs) > keep {
		runs = runs[:keep]
	}
	m.runs[run.Job] = runs
	return nil
}

func (m *mockSchedulerStore) Runs(_ context.Context, job string, limit int) ([]domain.JobRun, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	runs := m.runs[job]
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return append([]domain.JobRun(nil), runs...), nil
}

// mockSkillStore implements driven.SkillStore for testing.
type mockSkillStore struct {
	mu      sync.RWMutex
	skills  map[domain.SkillKey]domain.Skill
	listErr error
	saveErr error
	getErr  error
	lists   int
	// gate, when set, blocks List until it is closed or ctx is done.
	gate chan struct{}
}

func newMockSkillStore(skills ...domain.Skill) *mockSkillStore {
	m := &mockSkillStore{skills: make(map[domain.SkillKey]domain.Skill)}
	for _, s := range skills {
		m.skills[s.Key()] = s.Clone()
	}
	return m
}

func (m *mockSkillStore) Save(_ context.Context, skill domain.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.skills[skill.Key()] = skill.Clone()
	return nil
}

func (m *mockSkillStore) SaveBatch(ctx context.Context, skills []domain.Skill) error {
	for _, s := range skills {
		if err := m.Save(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

func (m *mockSkillStore) Get(_ context.Context, key domain.SkillKey) (*domain.Skill, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	s, ok := m.skills[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := s.Clone()
	return &c, nil
}

// List returns skills in reverse key order so callers cannot rely on it.
func (m *mockSkillStore) List(ctx context.Context) ([]domain.Skill, error) {
	m.mu.Lock()
	m.lists++
	gate := m.gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Skill, 0, len(m.skills))
	for _, s := range m.skills {
		out = append(out, s.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key().String() > out[j].Key().String()
	})
	return out, nil
}

func (m *mockSkillStore) Delete(_ context.Context, key domain.SkillKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.skills[key]; !ok {
		return domain.ErrNotFound
	}
	delete(m.skills, key)
	return nil
}

func (m *mockSkillStore) Count(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.skills), nil
}

func (m *mockSkillStore) AddInstalls(_ context.Context, key domain.SkillKey, delta int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.skills[key]
	if !ok {
		return domain.ErrNotFound
	}
	s.Installs += delta
	m.skills[key] = s
	return nil
}

func (m *mockSkillStore) listCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lists
}

// mockFetcher implements driven.SnapshotFetcher for testing. When gate is
// set, Fetch blocks until a value is sent on it or ctx is done.
type mockFetcher struct {
	mu    sync.Mutex
	data  []byte
	errs  []error
	gate  chan struct{}
	calls atomic.Int32
	ctxs  []context.Context
}

func (m *mockFetcher) Fetch(ctx context.Context) ([]byte, error) {
	n := int(m.calls.Add(1))

	m.mu.Lock()
	m.ctxs = append(m.ctxs, ctx)
	gate := m.gate
	var err error
	if n <= len(m.errs) {
		err = m.errs[n-1]
	}
	data := m.data
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSnapshotFetch, err)
	}
	return data, nil
}

func (m *mockFetcher) Source() string {
	return "mock://snapshot"
}

func (m *mockFetcher) fetchCount() int {
	return int(m.calls.Load())
}

func (m *mockFetcher) lastContext() context.Context {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ctxs) == 0 {
		return nil
	}
	return m.ctxs[len(m.ctxs)-1]
}

// fakeIndex matches records whose lower-cased name contains the query.
type fakeIndex struct {
	records []domain.SnapshotRecord
	closed  atomic.Bool
}

func (f *fakeIndex) Search(query string) []domain.QueryResult {
	out := []domain.QueryResult{}
	if domain.IsBlankQuery(query) {
		return out
	}
	q := strings.ToLower(strings.TrimSpace(query))
	for _, r := range f.records {
		if strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, domain.QueryResult{Skill: r.Skill, Score: 1})
		}
	}
	return out
}

func (f *fakeIndex) Len() int {
	return len(f.records)
}

func (f *fakeIndex) Encode() ([]byte, error) {
	return json.Marshal(f.records)
}

func (f *fakeIndex) Close() error {
	f.closed.Store(true)
	return nil
}

// fakeBuilder implements driven.IndexBuilder over fakeIndex.
type fakeBuilder struct {
	builds atomic.Int32

	mu      sync.Mutex
	indexes []*fakeIndex
}

func (b *fakeBuilder) Kind() domain.EngineKind {
	return domain.EngineInverted
}

func (b *fakeBuilder) Build(records []domain.SnapshotRecord) (driven.SearchIndex, error) {
	b.builds.Add(1)
	idx := &fakeIndex{records: records}
	b.mu.Lock()
	b.indexes = append(b.indexes, idx)
	b.mu.Unlock()
	return idx, nil
}

// built returns every index built so far, oldest first.
func (b *fakeBuilder) built() []*fakeIndex {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*fakeIndex(nil), b.indexes...)
}

func (b *fakeBuilder) Load(data []byte) (driven.SearchIndex, error) {
	var records []domain.SnapshotRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSnapshot, err)
	}
	return b.Build(records)
}

// mockPublisher implements driven.BlobPublisher for testing.
type mockPublisher struct {
	mu      sync.Mutex
	objects map[string][]byte
	metas   map[string]driven.ObjectMeta
	order   []string
	putErr  error
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{
		objects: make(map[string][]byte),
		metas:   make(map[string]driven.ObjectMeta),
	}
}

func (m *mockPublisher) Put(_ context.Context, name string, data []byte, meta driven.ObjectMeta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	m.objects[name] = append([]byte(nil), data...)
	m.metas[name] = meta
	m.order = append(m.order, name)
	return nil
}

func (m *mockPublisher) Location() string {
	return "mem://bucket"
}

// mockDiscoverer implements driven.SkillDiscoverer for testing.
type mockDiscoverer struct {
	skills []domain.Skill
	err    error
	repo   string
}

func (m *mockDiscoverer) Discover(_ context.Context, repo string) ([]domain.Skill, error) {
	m.repo = repo
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Skill, len(m.skills))
	for i, s := range m.skills {
		out[i] = s.Clone()
	}
	return out, nil
}

// recordingRenderer implements driven.Renderer and keeps every view.
type recordingRenderer struct {
	mu    sync.Mutex
	views []domain.SearchView
}

func (r *recordingRenderer) Render(view domain.SearchView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.views = append(r.views, view)
}

func (r *recordingRenderer) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// mockSnapshotService implements driving.SnapshotService for testing.
type mockSnapshotService struct {
	mu          sync.Mutex
	snap        *domain.PublishedSnapshot
	indexDoc    []byte
	buildErr    error
	builds      int
	invalidated int
}

func (m *mockSnapshotService) Current(ctx context.Context) (*domain.PublishedSnapshot, error) {
	return m.Build(ctx)
}

func (m *mockSnapshotService) Build(_ context.Context) (*domain.PublishedSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.builds++
	if m.buildErr != nil {
		return nil, m.buildErr
	}
	return m.snap, nil
}

func (m *mockSnapshotService) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invalidated++
}

func (m *mockSnapshotService) IndexDocument(_ context.Context) ([]byte, error) {
	return m.indexDoc, nil
}

func (m *mockSnapshotService) counts() (builds, invalidated int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.builds, m.invalidated
}

// mockPublishService implements driving.PublishService for testing.
type mockPublishService struct {
	mu    sync.Mutex
	snap  *domain.PublishedSnapshot
	err   error
	calls int
}

func (m *mockPublishService) Publish(_ context.Context) (*driving.PublishResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &driving.PublishResult{Location: "mem://bucket", Snapshot: m.snap}, nil
}

func (m *mockPublishService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Ensure mocks implement interfaces
var (
	_ driven.SchedulerStore    = (*mockSchedulerStore)(nil)
	_ driven.SkillStore        = (*mockSkillStore)(nil)
	_ driven.SnapshotFetcher   = (*mockFetcher)(nil)
	_ driven.IndexBuilder      = (*fakeBuilder)(nil)
	_ driven.BlobPublisher     = (*mockPublisher)(nil)
	_ driven.SkillDiscoverer   = (*mockDiscoverer)(nil)
	_ driven.Renderer          = (*recordingRenderer)(nil)
	_ driving.SnapshotService  = (*mockSnapshotService)(nil)
	_ driving.PublishService   = (*mockPublishService)(nil)
)

func skill(source, id, name string, installs int64) domain.Skill {
	return domain.Skill{
		Source:       source,
		SkillID:      id,
		Name:         name,
		Installs:     installs,
		Technologies: []string{},
	}
}

func snapshotJSON(skills ...domain.Skill) []byte {
	data, err := json.Marshal(domain.NewSnapshotRecords(skills))
	if err != nil {
		panic(err)
	}
	return data
}
