package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skilldex/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import skills into the catalog",
	Long: `Import a JSON array of skills into the catalog. Each entry needs source,
skillId and name; installs defaults to 0. Existing skills are replaced.

Use 'skilldex import github <owner/repo>' to import SKILL.md files from a
GitHub repository.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var importGitHubCmd = &cobra.Command{
	Use:   "github <owner/repo>",
	Short: "Import the SKILL.md files of a GitHub repository",
	Long: `Discover every SKILL.md in a repository's default branch and import it.
Front matter supplies name, description and technologies (or tags); the
skill id is the directory containing the file. Install counts of skills
already in the catalog are kept.

Set github.token or GITHUB_TOKEN to raise the API rate limit.`,
	Args: cobra.ExactArgs(1),
	RunE: runImportGitHub,
}

var installCmd = &cobra.Command{
	Use:   "install <source> <skillId>",
	Short: "Record an install of a skill",
	Args:  cobra.ExactArgs(2),
	RunE:  runInstall,
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect and edit the catalog",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog skills",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogRemoveCmd = &cobra.Command{
	Use:   "remove <source> <skillId>",
	Short: "Remove a skill from the catalog",
	Args:  cobra.ExactArgs(2),
	RunE:  runCatalogRemove,
}

func init() {
	importCmd.AddCommand(importGitHubCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(installCmd)

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogRemoveCmd)
	rootCmd.AddCommand(catalogCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errNoCatalog
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	var skills []domain.Skill
	if err := json.Unmarshal(data, &skills); err != nil {
		return fmt.Errorf("%w: %s is not a JSON array of skills: %v", domain.ErrInvalidInput, args[0], err)
	}

	report, err := catalogService.Import(cmd.Context(), skills)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printReport(cmd, report)
	return nil
}

func runImportGitHub(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errNoCatalog
	}

	report, err := catalogService.ImportRepository(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, r domain.ImportReport) {
	cmd.Printf("Imported %d skills (%d added, %d updated, %d skipped)\n",
		r.Total(), r.Added, r.Updated, r.Skipped)
}

func runInstall(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errNoCatalog
	}

	key := skillKey(args[0], args[1])
	if err := catalogService.RecordInstall(cmd.Context(), key); err != nil {
		return fmt.Errorf("recording install of %s: %w", key, err)
	}
	skill, err := catalogService.Get(cmd.Context(), key)
	if err != nil {
		return fmt.Errorf("reading %s: %w", key, err)
	}
	cmd.Printf("%s now has %d installs\n", skill.Name, skill.Installs)
	return nil
}

func runCatalogList(cmd *cobra.Command, _ []string) error {
	if catalogService == nil {
		return errNoCatalog
	}

	skills, err := catalogService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing catalog: %w", err)
	}
	if len(skills) == 0 {
		cmd.Println("Catalog is empty.")
		return nil
	}
	for i := range skills {
		cmd.Printf("  %s/%s  %s  (%d installs)\n",
			skills[i].Source, skills[i].SkillID, skills[i].Name, skills[i].Installs)
	}
	cmd.Printf("\n%d skills\n", len(skills))
	return nil
}

func runCatalogRemove(cmd *cobra.Command, args []string) error {
	if catalogService == nil {
		return errNoCatalog
	}

	key := skillKey(args[0], args[1])
	if err := catalogService.Remove(cmd.Context(), key); err != nil {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	cmd.Printf("Removed %s\n", key)
	return nil
}
