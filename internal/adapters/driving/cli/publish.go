package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// errNoPublish is returned when no publish target is configured.
var errNoPublish = errors.New("publishing not configured; set publish.target and its options with 'skilldex settings set'")

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the snapshot as static files",
	Long: `Build the snapshot and upload snapshot.json, index.json and
manifest.json to the configured target (a local directory, S3 or MinIO),
each with a 24 hour Cache-Control.`,
	Args: cobra.NoArgs,
	RunE: runPublish,
}

func init() {
	rootCmd.AddCommand(publishCmd)
}

func runPublish(cmd *cobra.Command, _ []string) error {
	if publishService == nil {
		if publishErr != nil {
			return fmt.Errorf("%w: %w", errNoPublish, publishErr)
		}
		return errNoPublish
	}

	res, err := publishService.Publish(cmd.Context())
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	cmd.Printf("Published snapshot %s (%d skills) to %s\n", res.Snapshot.Version, res.Snapshot.Len(), res.Location)
	for _, name := range res.Objects {
		cmd.Printf("  %s\n", name)
	}
	return nil
}
