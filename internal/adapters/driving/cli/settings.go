package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `Show and change settings stored in config.toml.

Secrets (publish.secret_key, github.token) are shown masked.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runSettingsShow,
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsGet,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Long: `Change one setting. Values are validated before they are written, for
example search.engine must be inverted or bleve and search.debounce is
clamped to 150ms..300ms.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsSet,
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset <key>",
	Short: "Remove a setting so its default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsReset,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	rootCmd.AddCommand(settingsCmd)
}

func loadSettingValues() ([]domain.Setting, error) {
	if settingsService == nil {
		return nil, errNoSettings
	}
	values, err := settingsService.Values()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return values, nil
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	values, err := loadSettingValues()
	if err != nil {
		return err
	}

	width := 0
	for _, v := range values {
		if len(v.Key) > width {
			width = len(v.Key)
		}
	}
	for _, v := range values {
		value := v.Value
		if value == "" {
			value = "(not set)"
		}
		cmd.Printf("%-*s  %s\n", width, v.Key, value)
	}
	return nil
}

func runSettingsGet(cmd *cobra.Command, args []string) error {
	values, err := loadSettingValues()
	if err != nil {
		return err
	}
	for _, v := range values {
		if v.Key == args[0] {
			cmd.Println(v.Value)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, args[0])
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("setting %s: %w", args[0], err)
	}
	cmd.Printf("%s updated\n", args[0])
	return nil
}

func runSettingsReset(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errNoSettings
	}
	if err := settingsService.Reset(args[0]); err != nil {
		return fmt.Errorf("resetting %s: %w", args[0], err)
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}
