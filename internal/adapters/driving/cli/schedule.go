package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var errNoScheduler = errors.New("scheduler not configured")

var scheduleRuns int

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Show the snapshot rebuild schedule",
	Long: `Show when the snapshot was last rebuilt by 'skilldex serve', when the
next rebuild is due and the outcome of recent runs.`,
	Args: cobra.NoArgs,
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().IntVarP(&scheduleRuns, "runs", "n", 5, "number of recent runs to show")
	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	if scheduler == nil {
		return errNoScheduler
	}

	job, runs, err := scheduler.Status(cmd.Context(), scheduleRuns)
	if err != nil {
		return fmt.Errorf("reading schedule: %w", err)
	}
	if job == nil {
		cmd.Println("The rebuild job has not been scheduled yet. It starts with 'skilldex serve'.")
		return nil
	}

	state := "enabled"
	if !job.Enabled {
		state = "disabled"
	}
	cmd.Printf("Snapshot rebuild: every %s (%s)\n", job.Every, state)
	cmd.Printf("  Next run:     %s\n", formatWhen(job.Due))
	cmd.Printf("  Last run:     %s\n", formatWhen(job.LastRun))
	cmd.Printf("  Last success: %s\n", formatWhen(job.LastSuccess))
	if job.LastError != "" {
		cmd.Printf("  Last error:   %s\n", job.LastError)
	}

	if len(runs) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Println("Recent runs:")
	for _, r := range runs {
		outcome := fmt.Sprintf("%d skills, snapshot %s", r.Skills, r.Snapshot)
		if !r.OK() {
			outcome = "failed: " + r.Error
		}
		cmd.Printf("  %s  %6s  %s\n", formatWhen(r.Started), r.Duration().Round(time.Millisecond), outcome)
	}
	return nil
}

func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
