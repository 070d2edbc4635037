package driven

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// SchedulerStore persists job schedules and run history across restarts.
type SchedulerStore interface {
	// Job returns the named job, or nil and no error if it was never saved.
	Job(ctx context.Context, name string) (*domain.Job, error)

	// Jobs returns every saved job ordered by name.
	Jobs(ctx context.Context) ([]domain.Job, error)

	// SaveJob creates or replaces a job.
	SaveJob(ctx context.Context, job *domain.Job) error

	// AppendRun records a run and drops all but the newest keep runs of
	// the same job. A keep of zero or less keeps every run.
	AppendRun(ctx context.Context, run *domain.JobRun, keep int) error

	// Runs returns up to limit runs of a job, newest first.
	Runs(ctx context.Context, job string, limit int) ([]domain.JobRun, error)
}
