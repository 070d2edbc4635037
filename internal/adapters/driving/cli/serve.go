package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/skilldex/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/skilldex/internal/logger"
)

var (
	serveAddr  string
	serveWatch bool
)

// errNoWatch is returned by --watch when the catalog is not a file.
var errNoWatch = errors.New("--watch needs store.backend = catalog")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the snapshot over HTTP",
	Long: `Serve the skill snapshot and its prebuilt index over HTTP.

Endpoints:
  GET /api/snapshot   - snapshot records (JSON array)
  GET /api/index      - serialized index document
  GET /healthz        - record count and snapshot version

The scheduler rebuilds the snapshot daily while the server runs. With
--watch the catalog file is reloaded whenever it changes.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default server.listen)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "reload the catalog file when it changes")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if snapshotService == nil {
		return errNoSnapshots
	}
	if settingsService == nil {
		return errNoSettings
	}
	if serveWatch && catalogWatch == nil {
		return errNoWatch
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = settings.Server.Listen
	}
	server, err := httpapi.NewServer(snapshotService, httpapi.Config{
		Addr:      addr,
		RateLimit: settings.Server.RateLimit,
		Burst:     settings.Server.Burst,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := snapshotService.Build(ctx)
	if err != nil {
		return fmt.Errorf("building snapshot: %w", err)
	}
	cmd.PrintErrf("Serving %d skills (snapshot %s) on http://%s\n", snap.Len(), snap.Version, server.Addr())

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return server.Run(gctx)
	})

	if scheduler != nil && settingsService.GetSchedulerConfig().Enabled {
		g.Go(func() error {
			return scheduler.Start(gctx)
		})
		g.Go(func() error {
			<-gctx.Done()
			return scheduler.Stop()
		})
	}

	if serveWatch {
		g.Go(func() error {
			return catalogWatch(gctx, func() {
				snapshotService.Invalidate()
				logger.Info("catalog changed, snapshot invalidated")
			})
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
