package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

var (
	searchLimit int
	searchJSON  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search skills by name",
	Long: `Downloads the published snapshot once, builds the index locally and
searches skill names. Terms match by prefix and tolerate small typos; ties
are broken by install count.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errNoSearch
	}

	query := strings.Join(args, " ")
	results, err := searchService.Search(cmd.Context(), query, domain.SearchOptions{Limit: searchLimit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}
	outputSearchTable(cmd, results)
	return nil
}

func outputSearchJSON(cmd *cobra.Command, results []domain.QueryResult) error {
	skills := make([]domain.Skill, len(results))
	for i := range results {
		skills[i] = results[i].Skill
		if skills[i].Technologies == nil {
			skills[i].Technologies = []string{}
		}
	}
	data, err := json.MarshalIndent(skills, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.QueryResult) {
	if len(results) == 0 {
		cmd.Println("No skills found.")
		return
	}

	width := terminalWidth(cmd.OutOrStdout())
	for i := range results {
		r := &results[i]
		cmd.Printf("  [%d] %s  (%d installs)\n", i+1, r.Name, r.Installs)
		cmd.Printf("      %s/%s\n", r.Source, r.SkillID)
		if r.Description != "" {
			cmd.Printf("      %s\n", clip(r.Description, width-6))
		}
		if len(r.Technologies) > 0 {
			cmd.Printf("      [%s]\n", strings.Join(r.Technologies, ", "))
		}
		cmd.Println()
	}
}

// terminalWidth returns the width of w when it is a terminal, or 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil {
		return 0
	}
	return width
}

// clip shortens s to max runes. A max below 10 disables clipping.
func clip(s string, max int) string {
	if max < 10 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
