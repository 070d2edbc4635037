package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Snapshot commands",
}

var snapshotBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the snapshot from the catalog",
	Long: `Build the snapshot from the catalog and write it as a JSON array of
records, ordered by source and skillId, to --out or stdout.`,
	Args: cobra.NoArgs,
	RunE: runSnapshotBuild,
}

var indexOut string

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index commands",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the serialized index document",
	Long: `Build the snapshot and encode its index with the configured engine.
Clients can load the document without tokenizing the records again.`,
	Args: cobra.NoArgs,
	RunE: runIndexBuild,
}

func init() {
	snapshotBuildCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "output file (default stdout)")
	snapshotCmd.AddCommand(snapshotBuildCmd)
	rootCmd.AddCommand(snapshotCmd)

	indexBuildCmd.Flags().StringVarP(&indexOut, "out", "o", "", "output file (default stdout)")
	indexCmd.AddCommand(indexBuildCmd)
	rootCmd.AddCommand(indexCmd)
}

func runSnapshotBuild(cmd *cobra.Command, _ []string) error {
	if snapshotService == nil {
		return errNoSnapshots
	}

	snap, err := snapshotService.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("building snapshot: %w", err)
	}
	if err := writeOutput(cmd, snapshotOut, snap.Body); err != nil {
		return err
	}
	cmd.PrintErrf("Snapshot %s: %d skills\n", snap.Version, snap.Len())
	return nil
}

func runIndexBuild(cmd *cobra.Command, _ []string) error {
	if snapshotService == nil {
		return errNoSnapshots
	}

	if _, err := snapshotService.Build(cmd.Context()); err != nil {
		return fmt.Errorf("building snapshot: %w", err)
	}
	doc, err := snapshotService.IndexDocument(cmd.Context())
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := writeOutput(cmd, indexOut, doc); err != nil {
		return err
	}
	cmd.PrintErrf("Index document: %d bytes\n", len(doc))
	return nil
}

// writeOutput writes data to path, or to the command's stdout when path is empty.
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" {
		w := cmd.OutOrStdout()
		if _, err := w.Write(data); err != nil {
			return err
		}
		_, err := io.WriteString(w, "\n")
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
