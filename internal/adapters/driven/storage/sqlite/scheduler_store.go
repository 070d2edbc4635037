package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
)

// schedulerStore implements driven.SchedulerStore over the jobs and
// job_runs tables.
type schedulerStore struct {
	store *Store
}

var _ driven.SchedulerStore = (*schedulerStore)(nil)

const jobColumns = `name, every_ms, enabled, due_at, last_run_at, last_success_at, last_error`

func (s *schedulerStore) Job(ctx context.Context, name string) (*domain.Job, error) {
	row := s.store.db.QueryRowContext(ctx, `SELECT `+jobColumns+` FROM jobs WHERE name = ?`, name)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return job, err
}

func (s *schedulerStore) Jobs(ctx context.Context) ([]domain.Job, error) {
	rows, err := s.store.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("querying jobs: %w", err)
	}
	defer rows.Close()

	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating jobs: %w", err)
	}
	return jobs, nil
}

func (s *schedulerStore) SaveJob(ctx context.Context, job *domain.Job) error {
	if job == nil || job.Name == "" {
		return fmt.Errorf("%w: job needs a name", domain.ErrInvalidInput)
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			every_ms = excluded.every_ms,
			enabled = excluded.enabled,
			due_at = excluded.due_at,
			last_run_at = excluded.last_run_at,
			last_success_at = excluded.last_success_at,
			last_error = excluded.last_error
	`, job.Name, job.Every.Milliseconds(), job.Enabled,
		toMillis(job.Due), toMillis(job.LastRun), toMillis(job.LastSuccess),
		nullString(job.LastError))
	if err != nil {
		return fmt.Errorf("saving job %s: %w", job.Name, err)
	}
	return nil
}

// AppendRun inserts run and trims the job's history in one transaction.
func (s *schedulerStore) AppendRun(ctx context.Context, run *domain.JobRun, keep int) error {
	if run == nil || run.Job == "" {
		return fmt.Errorf("%w: run needs a job", domain.ErrInvalidInput)
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO job_runs (job, started_at, finished_at, error, skills, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.Job, run.Started.UnixMilli(), run.Finished.UnixMilli(),
		nullString(run.Error), run.Skills, nullString(run.Snapshot)); err != nil {
		return fmt.Errorf("recording run of %s: %w", run.Job, err)
	}

	if keep > 0 {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM job_runs
			WHERE job = ? AND seq NOT IN (
				SELECT seq FROM job_runs WHERE job = ? ORDER BY seq DESC LIMIT ?
			)
		`, run.Job, run.Job, keep); err != nil {
			return fmt.Errorf("trimming runs of %s: %w", run.Job, err)
		}
	}

	return tx.Commit()
}

func (s *schedulerStore) Runs(ctx context.Context, job string, limit int) ([]domain.JobRun, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT job, started_at, finished_at, error, skills, snapshot
		FROM job_runs WHERE job = ?
		ORDER BY seq DESC
		LIMIT ?
	`, job, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.JobRun
	for rows.Next() {
		var run domain.JobRun
		var started, finished int64
		var runErr, snapshot sql.NullString
		if err := rows.Scan(&run.Job, &started, &finished, &runErr, &run.Skills, &snapshot); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		run.Started = time.UnixMilli(started).UTC()
		run.Finished = time.UnixMilli(finished).UTC()
		run.Error = runErr.String
		run.Snapshot = snapshot.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

func scanJob(row scanner) (*domain.Job, error) {
	var job domain.Job
	var everyMs int64
	var due, lastRun, lastSuccess sql.NullInt64
	var lastError sql.NullString

	if err := row.Scan(&job.Name, &everyMs, &job.Enabled,
		&due, &lastRun, &lastSuccess, &lastError); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning job: %w", err)
	}

	job.Every = time.Duration(everyMs) * time.Millisecond
	job.Due = fromMillis(due)
	job.LastRun = fromMillis(lastRun)
	job.LastSuccess = fromMillis(lastSuccess)
	job.LastError = lastError.String
	return &job, nil
}

// toMillis stores the zero time as NULL.
func toMillis(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

func fromMillis(v sql.NullInt64) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return time.UnixMilli(v.Int64).UTC()
}
