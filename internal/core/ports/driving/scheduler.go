package driving

import (
	"context"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

// Scheduler runs background jobs such as the daily snapshot rebuild.
type Scheduler interface {
	// Start runs due jobs until ctx is cancelled or Stop is called.
	Start(ctx context.Context) error

	// Stop waits for running jobs to finish.
	Stop() error

	// Status returns the rebuild job, nil if it never ran, and up to runs
	// of its most recent runs, newest first.
	Status(ctx context.Context, runs int) (*domain.Job, []domain.JobRun, error)
}
