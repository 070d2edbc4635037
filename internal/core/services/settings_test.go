package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skilldex/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/skilldex/internal/core/domain"
)

func newTestSettings(seed map[string]any) (*SettingsService, *memory.ConfigStore) {
	store := memory.NewConfigStore(seed)
	svc := NewSettingsService(store, "/data")
	svc.getenv = func(string) string { return "" }
	return svc, store
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	svc, _ := newTestSettings(nil)

	settings, err := svc.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Snapshot.URL, settings.Snapshot.URL)
	assert.Equal(t, domain.EngineInverted, settings.Search.Engine)
	assert.Equal(t, domain.DefaultDebounce, settings.Search.Debounce)
	assert.Equal(t, domain.DefaultServerAddr, settings.Server.Listen)
	assert.Equal(t, 20, settings.Server.RateLimit)
	assert.Equal(t, 40, settings.Server.Burst)
	assert.Equal(t, domain.StoreSQLite, settings.Store.Backend)
	assert.Equal(t, domain.PublishDir, settings.Publish.Target)
	assert.Equal(t, filepath.Join("/data", "public"), settings.Publish.Dir)
	assert.True(t, settings.Publish.Secure)
	assert.Empty(t, settings.GitHub.Token)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"snapshot.url":       "https://skills.example.com/snapshot.json",
		"search.engine":      "bleve",
		"search.debounce":    "250ms",
		"server.rate_limit":  5,
		"store.backend":      "catalog",
		"store.catalog_file": "/etc/skills.json",
		"publish.target":     "minio",
		"publish.bucket":     "skills",
		"publish.endpoint":   "minio.local:9000",
		"publish.secure":     false,
		"github.token":       "ghp_configured",
	})

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, "https://skills.example.com/snapshot.json", settings.Snapshot.URL)
	assert.Equal(t, domain.EngineBleve, settings.Search.Engine)
	assert.Equal(t, 250*time.Millisecond, settings.Search.Debounce)
	assert.Equal(t, 5, settings.Server.RateLimit)
	assert.Equal(t, 10, settings.Server.Burst)
	assert.Equal(t, domain.StoreCatalogFile, settings.Store.Backend)
	assert.Equal(t, "/etc/skills.json", settings.Store.CatalogFile)
	assert.Equal(t, domain.PublishMinIO, settings.Publish.Target)
	assert.True(t, settings.Publish.IsConfigured())
	assert.False(t, settings.Publish.Secure)
	assert.Equal(t, "ghp_configured", settings.GitHub.Token)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"search.engine":     "lucene",
		"search.debounce":   "soon",
		"store.backend":     "postgres",
		"publish.target":    "ftp",
		"server.rate_limit": -3,
	})

	settings, err := svc.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.EngineInverted, settings.Search.Engine)
	assert.Equal(t, domain.DefaultDebounce, settings.Search.Debounce)
	assert.Equal(t, domain.StoreSQLite, settings.Store.Backend)
	assert.Equal(t, domain.PublishDir, settings.Publish.Target)
	assert.Equal(t, 20, settings.Server.RateLimit)
}

func TestSettingsService_Get_ClampsDebounce(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{"search.debounce": "2s"})

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.MaxDebounce, settings.Search.Debounce)
}

func TestSettingsService_Get_GitHubTokenFromEnv(t *testing.T) {
	svc, _ := newTestSettings(nil)
	svc.getenv = func(key string) string {
		if key == GitHubTokenEnv {
			return "ghp_env"
		}
		return ""
	}

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "ghp_env", settings.GitHub.Token)
}

func TestSettingsService_Set(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		stored  any
		wantErr error
	}{
		{name: "engine", key: "search.engine", value: "bleve", stored: "bleve"},
		{name: "bad engine", key: "search.engine", value: "lucene", wantErr: domain.ErrUnsupportedEngine},
		{name: "debounce", key: "search.debounce", value: "180ms", stored: "180ms"},
		{name: "debounce clamped", key: "search.debounce", value: "1s", stored: "300ms"},
		{name: "bad debounce", key: "search.debounce", value: "-1s", wantErr: domain.ErrInvalidInput},
		{name: "rate limit", key: "server.rate_limit", value: "50", stored: 50},
		{name: "bad rate limit", key: "server.rate_limit", value: "many", wantErr: domain.ErrInvalidInput},
		{name: "backend", key: "store.backend", value: "catalog", stored: "catalog"},
		{name: "bad backend", key: "store.backend", value: "mysql", wantErr: domain.ErrInvalidInput},
		{name: "target", key: "publish.target", value: "s3", stored: "s3"},
		{name: "bad target", key: "publish.target", value: "ftp", wantErr: domain.ErrUnsupportedTarget},
		{name: "secure", key: "publish.secure", value: "false", stored: false},
		{name: "bad bool", key: "scheduler.enabled", value: "maybe", wantErr: domain.ErrInvalidInput},
		{name: "interval", key: "scheduler.snapshot_rebuild.interval", value: "6h", stored: "6h0m0s"},
		{name: "interval too short", key: "scheduler.snapshot_rebuild.interval", value: "5s", wantErr: domain.ErrInvalidInput},
		{name: "free text", key: "publish.bucket", value: "skills", stored: "skills"},
		{name: "unknown key", key: "llm.provider", value: "openai", wantErr: domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestSettings(nil)

			err := svc.Set(tt.key, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, exists := store.Lookup(tt.key)
				assert.False(t, exists)
				return
			}
			require.NoError(t, err)
			got, _ := store.Lookup(tt.key)
			assert.Equal(t, tt.stored, got)
		})
	}
}

func TestSettingsService_Set_StoreError(t *testing.T) {
	svc, store := newTestSettings(nil)
	store.FailWrites(errors.New("disk full"))

	err := svc.Set("publish.bucket", "skills")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestSettingsService_SetThenGet(t *testing.T) {
	svc, _ := newTestSettings(nil)

	require.NoError(t, svc.Set("server.rate_limit", "8"))
	require.NoError(t, svc.Set("search.debounce", "160ms"))

	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, settings.Server.RateLimit)
	assert.Equal(t, 160*time.Millisecond, settings.Search.Debounce)
}

func TestSettingsService_Reset(t *testing.T) {
	t.Run("restores default", func(t *testing.T) {
		svc, store := newTestSettings(map[string]any{"search.engine": "bleve", "publish.bucket": "skills"})

		require.NoError(t, svc.Reset("search.engine"))

		settings, err := svc.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.EngineInverted, settings.Search.Engine)
		assert.Equal(t, []string{"publish.bucket"}, store.Keys())
	})

	t.Run("unset key", func(t *testing.T) {
		svc, _ := newTestSettings(nil)
		assert.NoError(t, svc.Reset("publish.bucket"))
	})

	t.Run("unknown key", func(t *testing.T) {
		svc, _ := newTestSettings(nil)
		assert.ErrorIs(t, svc.Reset("llm.provider"), domain.ErrInvalidInput)
	})

	t.Run("store error", func(t *testing.T) {
		svc, store := newTestSettings(map[string]any{"publish.bucket": "skills"})
		store.FailWrites(errors.New("disk full"))
		assert.ErrorContains(t, svc.Reset("publish.bucket"), "disk full")
	})
}

func TestSettingsService_Keys(t *testing.T) {
	svc, _ := newTestSettings(nil)

	keys := svc.Keys()
	assert.Contains(t, keys, "snapshot.url")
	assert.Contains(t, keys, "scheduler.snapshot_rebuild.interval")
	assert.Equal(t, "snapshot.url", keys[0])

	keys[0] = "mutated"
	assert.Equal(t, "snapshot.url", svc.Keys()[0])

	for _, key := range keys[1:] {
		if err := svc.Set(key, "x"); err != nil {
			assert.NotContains(t, err.Error(), "unknown setting", key)
		}
	}
}

func TestSettingsService_GetSchedulerConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		svc, _ := newTestSettings(nil)
		cfg := svc.GetSchedulerConfig()

		assert.True(t, cfg.Enabled)
		assert.True(t, cfg.Rebuild.Enabled)
		assert.Equal(t, domain.SnapshotMaxAge, cfg.Rebuild.Every)
	})

	t.Run("configured", func(t *testing.T) {
		svc, _ := newTestSettings(map[string]any{
			"scheduler.enabled":                   false,
			"scheduler.snapshot_rebuild.enabled":  false,
			"scheduler.snapshot_rebuild.interval": "6h",
		})
		cfg := svc.GetSchedulerConfig()

		assert.False(t, cfg.Enabled)
		assert.False(t, cfg.Rebuild.Enabled)
		assert.Equal(t, 6*time.Hour, cfg.Rebuild.Every)
	})

	t.Run("bad interval ignored", func(t *testing.T) {
		svc, _ := newTestSettings(map[string]any{"scheduler.snapshot_rebuild.interval": "weekly"})
		cfg := svc.GetSchedulerConfig()
		assert.Equal(t, domain.SnapshotMaxAge, cfg.Rebuild.Every)
	})
}

func TestSettingsService_Values(t *testing.T) {
	svc, _ := newTestSettings(map[string]any{
		"search.engine":      "bleve",
		"server.rate_limit":  5,
		"github.token":       "ghp_abcdefgh1234",
		"publish.secret_key": "",
	})

	values, err := svc.Values()
	require.NoError(t, err)
	require.Len(t, values, len(svc.Keys()))

	byKey := make(map[string]domain.Setting, len(values))
	for i, v := range values {
		assert.Equal(t, svc.Keys()[i], v.Key, "display order")
		byKey[v.Key] = v
	}

	assert.Equal(t, "bleve", byKey["search.engine"].Value)
	assert.Equal(t, "200ms", byKey["search.debounce"].Value)
	assert.Equal(t, "5", byKey["server.rate_limit"].Value)
	assert.Equal(t, "24h0m0s", byKey["scheduler.snapshot_rebuild.interval"].Value)
	assert.Equal(t, "true", byKey["scheduler.enabled"].Value)

	token := byKey["github.token"]
	assert.True(t, token.Secret)
	assert.Equal(t, "****1234", token.Value)
	assert.Empty(t, byKey["publish.secret_key"].Value)
	assert.False(t, byKey["publish.bucket"].Secret)
}
