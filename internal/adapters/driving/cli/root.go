// Package cli implements the skilldex command line on cobra.
//
// Commands read their services from package state that main fills in through
// SetBootstrap (or tests through SetServices) before the command runs.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// annotationNoServices marks commands that run without bootstrapping.
const annotationNoServices = "skilldex/no-services"

var (
	version = "dev"

	verbose   bool
	configDir string
	dataDir   string
)

// Options are the global flag values handed to the bootstrap function.
type Options struct {
	ConfigDir string
	DataDir   string
}

// ControllerFactory creates a search controller that publishes to renderer.
type ControllerFactory func(renderer driven.Renderer) driving.SearchController

// WatchFunc blocks, calling onChange whenever the catalog changes on disk.
type WatchFunc func(ctx context.Context, onChange func()) error

// Services are the driving ports the commands use. Only Settings is
// required; commands report which service they are missing.
type Services struct {
	Search        driving.SearchService
	Snapshots     driving.SnapshotService
	Catalog       driving.CatalogService
	Settings      driving.SettingsService
	Scheduler     driving.Scheduler
	NewController ControllerFactory

	// Publish is nil when no publish target is configured; PublishErr says why.
	Publish    driving.PublishService
	PublishErr error

	// Watch is set when the catalog lives in a file that can be watched.
	Watch WatchFunc
}

// Bootstrap builds the services once flags are parsed. The returned closer
// runs after the command finishes.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func() error, error)

var (
	bootstrap Bootstrap
	closer    func() error

	searchService     driving.SearchService
	snapshotService   driving.SnapshotService
	catalogService    driving.CatalogService
	publishService    driving.PublishService
	publishErr        error
	settingsService   driving.SettingsService
	scheduler         driving.Scheduler
	controllerFactory ControllerFactory
	catalogWatch      WatchFunc
)

var rootCmd = &cobra.Command{
	Use:   "skilldex",
	Short: "Search and publish AI coding skills",
	Long: `skilldex indexes a catalog of AI coding skills and searches it as you type.

The catalog is served as a static snapshot that clients download once and
search locally, so typing never waits on the network.`,
	SilenceUsage:      true,
	PersistentPreRunE: runBootstrap,
}

func init() {
	rootCmd.SetOut(os.Stdout)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "config directory (default ~/.skilldex)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default ~/.skilldex/data)")
}

// SetVersion sets the version reported by `skilldex version`.
func SetVersion(v string) {
	version = v
}

// SetBootstrap installs the function that builds services before each command.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices installs services directly.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	searchService = s.Search
	snapshotService = s.Snapshots
	catalogService = s.Catalog
	publishService = s.Publish
	publishErr = s.PublishErr
	settingsService = s.Settings
	scheduler = s.Scheduler
	controllerFactory = s.NewController
	catalogWatch = s.Watch
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closer != nil {
		if cerr := closer(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closer = nil
	}
	return err
}

func runBootstrap(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cmd.Annotations[annotationNoServices] != "" {
		return nil
	}

	svcs, c, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	SetServices(svcs)
	closer = c
	return nil
}

// Errors returned when a command runs without the service it needs.
var (
	errNoSearch    = errors.New("search service not configured")
	errNoSnapshots = errors.New("snapshot service not configured")
	errNoCatalog   = errors.New("catalog service not configured")
	errNoSettings  = errors.New("settings service not configured")
)

// skillKey builds a key from positional arguments.
func skillKey(source, skillID string) domain.SkillKey {
	return domain.SkillKey{Source: source, SkillID: skillID}
}
