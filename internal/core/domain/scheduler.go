package domain

import "time"

// JobSnapshotRebuild names the periodic snapshot rebuild.
const JobSnapshotRebuild = "snapshot-rebuild"

// SnapshotMaxAge is how long a published snapshot may be cached by clients
// and intermediaries, and how often it is rebuilt.
const SnapshotMaxAge = 24 * time.Hour

// RunHistoryLimit is how many runs are kept per job.
const RunHistoryLimit = 100

// Job is the persisted schedule of a recurring job.
type Job struct {
	Name    string
	Every   time.Duration
	Enabled bool

	// Due is when the job should next run. Zero means now.
	Due time.Time

	LastRun     time.Time
	LastSuccess time.Time
	LastError   string
}

// IsDue reports whether the job should run at now.
func (j *Job) IsDue(now time.Time) bool {
	return j.Enabled && !now.Before(j.Due)
}

// Finish records run on the job and schedules the next one.
func (j *Job) Finish(run JobRun) {
	j.LastRun = run.Started
	j.Due = run.Finished.Add(j.Every)
	if run.OK() {
		j.LastSuccess = run.Finished
		j.LastError = ""
		return
	}
	j.LastError = run.Error
}

// JobRun is one execution of a job.
type JobRun struct {
	Job      string
	Started  time.Time
	Finished time.Time

	// Error is empty on success.
	Error string

	// Skills is the number of records in the snapshot the run produced.
	Skills int

	// Snapshot is the version of that snapshot.
	Snapshot string
}

// OK reports whether the run succeeded.
func (r JobRun) OK() bool {
	return r.Error == ""
}

// Duration is how long the run took.
func (r JobRun) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// SchedulerConfig holds scheduler configuration.
type SchedulerConfig struct {
	// Enabled is the master switch.
	Enabled bool

	Rebuild JobConfig
}

// JobConfig configures one job.
type JobConfig struct {
	Enabled bool
	Every   time.Duration
}

// DefaultSchedulerConfig rebuilds the snapshot once per SnapshotMaxAge.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Enabled: true,
		Rebuild: JobConfig{Enabled: true, Every: SnapshotMaxAge},
	}
}
