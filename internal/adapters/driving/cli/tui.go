package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/tui"
)

// errNotTerminal is returned when the TUI is started without a terminal.
var errNotTerminal = errors.New("tui requires an interactive terminal; use 'skilldex search' instead")

// isTerminal is replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive search UI",
	Long: `Launch the interactive terminal UI.

The snapshot is only downloaded the first time you focus the search box, and
results update as you type.

Controls:
  /          - Focus search
  esc/enter  - Back to results
  ↑/k, ↓/j   - Navigate results
  s          - Settings
  ?          - Help
  q          - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("tui panic: %v", r)
		}
	}()

	if controllerFactory == nil {
		return errNoSearch
	}
	if !isTerminal() {
		return errNotTerminal
	}

	renderer := tui.NewRenderer()
	ports := &tui.Ports{
		Search:   controllerFactory(renderer),
		Settings: settingsService,
	}

	app, err := tui.NewApp(ports, renderer)
	if err != nil {
		_ = ports.Search.Close()
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
