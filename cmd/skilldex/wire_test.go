package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/config/file"
	"github.com/custodia-labs/skilldex/internal/adapters/driving/cli"
	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/services"
)

func TestBootstrap_Defaults(t *testing.T) {
	ctx := context.Background()
	opts := cliOptions(t)

	svcs, closer, err := bootstrap(ctx, opts)
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	assert.NotNil(t, svcs.Search)
	assert.NotNil(t, svcs.Snapshots)
	assert.NotNil(t, svcs.Catalog)
	assert.NotNil(t, svcs.Settings)
	assert.NotNil(t, svcs.Scheduler)
	assert.NotNil(t, svcs.NewController)
	assert.NotNil(t, svcs.Publish, "dir target defaults to the data directory")
	assert.Nil(t, svcs.Watch, "sqlite catalog is not watchable")

	_, err = os.Stat(filepath.Join(opts.DataDir, "catalog.db"))
	assert.NoError(t, err)
}

func TestBootstrap_ImportThenSnapshot(t *testing.T) {
	ctx := context.Background()

	svcs, closer, err := bootstrap(ctx, cliOptions(t))
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	report, err := svcs.Catalog.Import(ctx, []domain.Skill{
		{Source: "acme/skills", SkillID: "hooks", Name: "React Hooks", Installs: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)

	snap, err := svcs.Snapshots.Build(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.Len())
}

func TestBootstrap_CatalogBackend(t *testing.T) {
	ctx := context.Background()
	opts := cliOptions(t)
	catalogFile := filepath.Join(t.TempDir(), "skills.json")
	require.NoError(t, os.WriteFile(catalogFile,
		[]byte(`[{"source":"acme/skills","skillId":"router","name":"Router"}]`), 0o600))

	configure(t, opts.ConfigDir, map[string]string{
		"store.backend":      "catalog",
		"store.catalog_file": catalogFile,
	})

	svcs, closer, err := bootstrap(ctx, opts)
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	assert.NotNil(t, svcs.Watch)
	n, err := svcs.Catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestBootstrap_BadSnapshotURL(t *testing.T) {
	opts := cliOptions(t)
	configure(t, opts.ConfigDir, map[string]string{"snapshot.url": "ftp://example.com/snapshot"})

	svcs, closer, err := bootstrap(context.Background(), opts)
	require.NoError(t, err)
	defer closer() //nolint:errcheck

	assert.Nil(t, svcs.Search)
	assert.Nil(t, svcs.NewController)
	assert.NotNil(t, svcs.Catalog)
}

func TestResolveDataDir(t *testing.T) {
	dir, err := resolveDataDir("/tmp/x")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x", dir)

	dir, err = resolveDataDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(".skilldex", "data"), filepath.Join(filepath.Base(filepath.Dir(dir)), filepath.Base(dir)))
}

func cliOptions(t *testing.T) cli.Options {
	t.Helper()
	root := t.TempDir()
	return cli.Options{ConfigDir: filepath.Join(root, "config"), DataDir: filepath.Join(root, "data")}
}

func configure(t *testing.T, configDir string, values map[string]string) {
	t.Helper()
	store, err := file.NewConfigStore(configDir)
	require.NoError(t, err)
	settings := services.NewSettingsService(store, "")
	for k, v := range values {
		require.NoError(t, settings.Set(k, v), k)
	}
}
