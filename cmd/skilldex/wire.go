package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/github"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/index"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/publish"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/snapshot"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/storage/catalog"
	"github.com/custodia-labs/skilldex/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/cli"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
	"github.com/custodia-labs/skilldex/internal/core/services"
	"github.com/custodia-labs/skilldex/internal/logger"
)

// bootstrap builds every service from the config file and data directory.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func() error, error) {
	dataDir, err := resolveDataDir(opts.DataDir)
	if err != nil {
		return nil, nil, err
	}

	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, dataDir)
	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("reading settings: %w", err)
	}

	// Scheduler state always lives in SQLite; the catalog may not.
	db, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}

	svcs, err := wire(ctx, settingsService, settings, db)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	cleanup := func() error {
		if search, ok := svcs.Search.(io.Closer); ok {
			if err := search.Close(); err != nil {
				logger.Warn("closing search index: %v", err)
			}
		}
		return db.Close()
	}
	return svcs, cleanup, nil
}

func wire(
	ctx context.Context,
	settingsService *services.SettingsService,
	settings *domain.AppSettings,
	db *sqlite.Store,
) (*cli.Services, error) {
	svcs := &cli.Services{Settings: settingsService}

	var skills driven.SkillStore = db.SkillStore()
	if settings.Store.Backend == domain.StoreCatalogFile {
		store, err := catalog.Open(settings.Store.CatalogFile)
		if err != nil {
			return nil, fmt.Errorf("opening catalog file: %w", err)
		}
		skills = store
		svcs.Watch = store.Watch
		logger.Debug("catalog backed by %s", store.Path())
	}

	builder, err := index.NewBuilder(settings.Search.Engine)
	if err != nil {
		return nil, err
	}

	snapshots := services.NewSnapshotService(skills, builder)
	svcs.Snapshots = snapshots

	discoverer := github.NewDiscoverer(github.NewClient(ctx, settings.GitHub.Token))
	svcs.Catalog = services.NewCatalogService(skills, discoverer, snapshots)

	var publisher driving.PublishService
	if settings.Publish.IsConfigured() {
		blobs, err := publish.New(ctx, settings.Publish)
		if err != nil {
			svcs.PublishErr = err
			logger.Warn("publish target unavailable: %v", err)
		} else {
			publisher = services.NewPublishService(snapshots, blobs)
			svcs.Publish = publisher
		}
	}

	svcs.Scheduler = services.NewScheduler(
		settingsService.GetSchedulerConfig(),
		db.SchedulerStore(),
		snapshots,
		publisher,
	)

	fetcher, err := snapshot.NewFetcher(settings.Snapshot.URL)
	if err != nil {
		// Search is unavailable but catalog and publish commands still work.
		logger.Warn("snapshot source unavailable: %v", err)
		return svcs, nil
	}
	svcs.Search = services.NewSearchService(fetcher, builder)
	svcs.NewController = func(r driven.Renderer) driving.SearchController {
		return services.NewController(fetcher, builder, r, services.ControllerConfig{
			Debounce: settings.Search.Debounce,
		})
	}

	return svcs, nil
}

// resolveDataDir returns dir, or ~/.skilldex/data when dir is empty.
func resolveDataDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".skilldex", "data"), nil
}
