package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

var _ driving.Scheduler = (*Scheduler)(nil)

// Scheduler rebuilds the snapshot on a fixed period. The schedule lives in
// a SchedulerStore so a restarted server does not rebuild immediately.
type Scheduler struct {
	config    domain.SchedulerConfig
	store     driven.SchedulerStore
	snapshots driving.SnapshotService
	publisher driving.PublishService
	tick      time.Duration
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
	busy    bool
}

// NewScheduler creates a scheduler. The publisher is optional; without it
// the rebuild only refreshes the served snapshot.
func NewScheduler(
	config domain.SchedulerConfig,
	store driven.SchedulerStore,
	snapshots driving.SnapshotService,
	publisher driving.PublishService,
) *Scheduler {
	return &Scheduler{
		config:    config,
		store:     store,
		snapshots: snapshots,
		publisher: publisher,
		tick:      time.Minute,
		now:       time.Now,
	}
}

// Start runs due jobs every tick. It blocks until ctx is cancelled, which
// returns ctx.Err(), or Stop is called, which returns nil.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	if err := s.syncJob(ctx); err != nil {
		logger.Warn("scheduler: saving rebuild schedule: %v", err)
	}

	s.poll(ctx)

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stop:
			return nil
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// Stop ends Start and waits for a running rebuild.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	return nil
}

// Status returns the rebuild job and its latest runs.
func (s *Scheduler) Status(ctx context.Context, runs int) (*domain.Job, []domain.JobRun, error) {
	job, err := s.store.Job(ctx, domain.JobSnapshotRebuild)
	if err != nil {
		return nil, nil, fmt.Errorf("reading job: %w", err)
	}
	if runs <= 0 {
		return job, nil, nil
	}
	history, err := s.store.Runs(ctx, domain.JobSnapshotRebuild, runs)
	if err != nil {
		return nil, nil, fmt.Errorf("reading runs: %w", err)
	}
	return job, history, nil
}

// syncJob saves the rebuild job with the configured period. A changed
// period reschedules from now; an unchanged one keeps the stored due time.
func (s *Scheduler) syncJob(ctx context.Context) error {
	cfg := s.config.Rebuild
	job, err := s.store.Job(ctx, domain.JobSnapshotRebuild)
	if err != nil {
		return err
	}
	if job == nil && !cfg.Enabled {
		return nil
	}

	if job == nil {
		job = &domain.Job{Name: domain.JobSnapshotRebuild, Every: cfg.Every, Due: s.now().Add(cfg.Every)}
	} else if job.Every != cfg.Every {
		job.Every = cfg.Every
		job.Due = s.now().Add(cfg.Every)
	}
	job.Enabled = cfg.Enabled
	return s.store.SaveJob(ctx, job)
}

// poll starts the rebuild when it is due and not already running.
func (s *Scheduler) poll(ctx context.Context) {
	jobs, err := s.store.Jobs(ctx)
	if err != nil {
		logger.Warn("scheduler: listing jobs: %v", err)
		return
	}

	now := s.now()
	for i := range jobs {
		job := jobs[i]
		if !job.IsDue(now) {
			continue
		}
		if job.Name != domain.JobSnapshotRebuild {
			logger.Warn("scheduler: unknown job %q", job.Name)
			continue
		}
		s.launch(ctx, job)
	}
}

func (s *Scheduler) launch(ctx context.Context, job domain.Job) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return
	}
	s.busy = true
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			s.busy = false
			s.mu.Unlock()
			s.wg.Done()
		}()
		s.execute(ctx, &job)
	}()
}

// execute runs job once and persists the outcome.
func (s *Scheduler) execute(ctx context.Context, job *domain.Job) {
	run := domain.JobRun{Job: job.Name, Started: s.now()}
	snap, err := s.rebuild(ctx)
	run.Finished = s.now()

	if err != nil {
		logger.Error("scheduler: %s failed: %v", job.Name, err)
		run.Error = err.Error()
	} else if snap != nil {
		run.Skills = snap.Len()
		run.Snapshot = snap.Version
		logger.Info("scheduler: rebuilt snapshot %s with %d skills in %s",
			snap.Version, run.Skills, run.Duration().Round(time.Millisecond))
	}

	job.Finish(run)
	if err := s.store.SaveJob(ctx, job); err != nil {
		logger.Warn("scheduler: saving %s: %v", job.Name, err)
	}
	if err := s.store.AppendRun(ctx, &run, domain.RunHistoryLimit); err != nil {
		logger.Warn("scheduler: recording run of %s: %v", job.Name, err)
	}
}

// rebuild publishes a fresh snapshot when a publisher is configured and
// otherwise only replaces the cached one.
func (s *Scheduler) rebuild(ctx context.Context) (*domain.PublishedSnapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}

	if s.publisher != nil {
		res, err := s.publisher.Publish(ctx)
		if err != nil {
			return nil, err
		}
		return res.Snapshot, nil
	}

	s.snapshots.Invalidate()
	snap, err := s.snapshots.Build(ctx)
	if err != nil {
		return nil, fmt.Errorf("rebuild snapshot: %w", err)
	}
	return snap, nil
}
