package services

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/custodia-labs/skilldex/internal/core/domain"
	"github.com/custodia-labs/skilldex/internal/core/ports/driven"
	"github.com/custodia-labs/skilldex/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySnapshotURL      = "snapshot.url"
	keySearchEngine     = "search.engine"
	keySearchDebounce   = "search.debounce"
	keyServerListen     = "server.listen"
	keyServerRateLimit  = "server.rate_limit"
	keyStoreBackend     = "store.backend"
	keyStoreCatalogFile = "store.catalog_file"
	keyPublishTarget    = "publish.target"
	keyPublishDir       = "publish.dir"
	keyPublishBucket    = "publish.bucket"
	keyPublishPrefix    = "publish.prefix"
	keyPublishEndpoint  = "publish.endpoint"
	keyPublishRegion    = "publish.region"
	keyPublishAccessKey = "publish.access_key"
	keyPublishSecretKey = "publish.secret_key"
	keyPublishSecure    = "publish.secure"
	keyGitHubToken      = "github.token"
	keySchedulerEnabled = "scheduler.enabled"
	keyRebuildEnabled   = "scheduler.snapshot_rebuild.enabled"
	keyRebuildInterval  = "scheduler.snapshot_rebuild.interval"
)

// GitHubTokenEnv is read when github.token is not configured.
const GitHubTokenEnv = "GITHUB_TOKEN"

// settingKeys lists every settable key in display order.
var settingKeys = []string{
	keySnapshotURL,
	keySearchEngine,
	keySearchDebounce,
	keyServerListen,
	keyServerRateLimit,
	keyStoreBackend,
	keyStoreCatalogFile,
	keyPublishTarget,
	keyPublishDir,
	keyPublishBucket,
	keyPublishPrefix,
	keyPublishEndpoint,
	keyPublishRegion,
	keyPublishAccessKey,
	keyPublishSecretKey,
	keyPublishSecure,
	keyGitHubToken,
	keySchedulerEnabled,
	keyRebuildEnabled,
	keyRebuildInterval,
}

var secretKeys = map[string]bool{
	keyPublishSecretKey: true,
	keyGitHubToken:      true,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	dataDir     string
	getenv      func(string) string
}

// NewSettingsService creates a new settings service. dataDir anchors the
// default publish directory.
func NewSettingsService(configStore driven.ConfigStore, dataDir string) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		dataDir:     dataDir,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()
	defaults.Publish.Dir = filepath.Join(s.dataDir, "public")

	rateLimit := s.getInt(keyServerRateLimit, defaults.Server.RateLimit)
	if rateLimit < 0 {
		rateLimit = defaults.Server.RateLimit
	}

	token := s.configStore.String(keyGitHubToken)
	if token == "" {
		token = s.getenv(GitHubTokenEnv)
	}

	settings := &domain.AppSettings{
		Snapshot: domain.SnapshotSettings{
			URL: s.getString(keySnapshotURL, defaults.Snapshot.URL),
		},
		Search: domain.SearchSettings{
			Engine:   s.getEngine(defaults.Search.Engine),
			Debounce: domain.ClampDebounce(s.getDuration(keySearchDebounce, defaults.Search.Debounce)),
		},
		Server: domain.ServerSettings{
			Listen:    s.getString(keyServerListen, defaults.Server.Listen),
			RateLimit: rateLimit,
			Burst:     2 * rateLimit,
		},
		Store: domain.StoreSettings{
			Backend:     s.getBackend(defaults.Store.Backend),
			CatalogFile: s.configStore.String(keyStoreCatalogFile),
		},
		Publish: domain.PublishSettings{
			Target:    s.getTarget(defaults.Publish.Target),
			Dir:       s.getString(keyPublishDir, defaults.Publish.Dir),
			Bucket:    s.configStore.String(keyPublishBucket),
			Prefix:    s.configStore.String(keyPublishPrefix),
			Endpoint:  s.configStore.String(keyPublishEndpoint),
			Region:    s.configStore.String(keyPublishRegion),
			AccessKey: s.configStore.String(keyPublishAccessKey),
			SecretKey: s.configStore.String(keyPublishSecretKey),
			Secure:    s.getBool(keyPublishSecure, defaults.Publish.Secure),
		},
		GitHub: domain.GitHubSettings{
			Token: token,
		},
	}

	return settings, nil
}

// Set validates value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	var stored any
	switch key {
	case keySearchEngine:
		if !domain.EngineKind(value).IsValid() {
			return fmt.Errorf("%w: unknown engine %q", domain.ErrUnsupportedEngine, value)
		}
		stored = value
	case keyStoreBackend:
		if !domain.StoreBackend(value).IsValid() {
			return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, value)
		}
		stored = value
	case keyPublishTarget:
		if !domain.PublishTarget(value).IsValid() {
			return fmt.Errorf("%w: unknown publish target %q", domain.ErrUnsupportedTarget, value)
		}
		stored = value
	case keySearchDebounce:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration", domain.ErrInvalidInput, key)
		}
		stored = domain.ClampDebounce(d).String()
	case keyRebuildInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d < time.Minute {
			return fmt.Errorf("%w: %s must be a duration of at least 1m", domain.ErrInvalidInput, key)
		}
		stored = d.String()
	case keyServerRateLimit:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: %s must be a non-negative integer", domain.ErrInvalidInput, key)
		}
		stored = n
	case keyPublishSecure, keySchedulerEnabled, keyRebuildEnabled:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		stored = b
	case keySnapshotURL, keyServerListen, keyStoreCatalogFile, keyPublishDir,
		keyPublishBucket, keyPublishPrefix, keyPublishEndpoint, keyPublishRegion,
		keyPublishAccessKey, keyPublishSecretKey, keyGitHubToken:
		stored = value
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Reset drops the stored value for key.
func (s *SettingsService) Reset(key string) error {
	if !slices.Contains(settingKeys, key) {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}
	if err := s.configStore.Unset(key); err != nil {
		return fmt.Errorf("reset %s: %w", key, err)
	}
	return nil
}

// Keys returns every settable key in display order.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Values returns every key with its effective value in display order.
// Credentials are masked.
func (s *SettingsService) Values() ([]domain.Setting, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}
	sched := s.GetSchedulerConfig()

	values := map[string]string{
		keySnapshotURL:      settings.Snapshot.URL,
		keySearchEngine:     settings.Search.Engine.String(),
		keySearchDebounce:   settings.Search.Debounce.String(),
		keyServerListen:     settings.Server.Listen,
		keyServerRateLimit:  strconv.Itoa(settings.Server.RateLimit),
		keyStoreBackend:     string(settings.Store.Backend),
		keyStoreCatalogFile: settings.Store.CatalogFile,
		keyPublishTarget:    string(settings.Publish.Target),
		keyPublishDir:       settings.Publish.Dir,
		keyPublishBucket:    settings.Publish.Bucket,
		keyPublishPrefix:    settings.Publish.Prefix,
		keyPublishEndpoint:  settings.Publish.Endpoint,
		keyPublishRegion:    settings.Publish.Region,
		keyPublishAccessKey: settings.Publish.AccessKey,
		keyPublishSecretKey: settings.Publish.SecretKey,
		keyPublishSecure:    strconv.FormatBool(settings.Publish.Secure),
		keyGitHubToken:      settings.GitHub.Token,
		keySchedulerEnabled: strconv.FormatBool(sched.Enabled),
		keyRebuildEnabled:   strconv.FormatBool(sched.Rebuild.Enabled),
		keyRebuildInterval:  sched.Rebuild.Every.String(),
	}

	out := make([]domain.Setting, 0, len(settingKeys))
	for _, key := range settingKeys {
		setting := domain.Setting{Key: key, Value: values[key]}
		if secretKeys[key] {
			setting.Secret = true
			setting.Value = domain.MaskSecret(setting.Value)
		}
		out = append(out, setting)
	}
	return out, nil
}

// GetSchedulerConfig returns the scheduler configuration over defaults.
func (s *SettingsService) GetSchedulerConfig() domain.SchedulerConfig {
	cfg := domain.DefaultSchedulerConfig()
	cfg.Enabled = s.getBool(keySchedulerEnabled, cfg.Enabled)
	cfg.Rebuild.Enabled = s.getBool(keyRebuildEnabled, cfg.Rebuild.Enabled)
	cfg.Rebuild.Every = s.getDuration(keyRebuildInterval, cfg.Rebuild.Every)
	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.String(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Lookup(key); !exists {
		return defaultVal
	}
	return s.configStore.Int(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Lookup(key); !exists {
		return defaultVal
	}
	return s.configStore.Bool(key)
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.String(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getEngine(defaultVal domain.EngineKind) domain.EngineKind {
	engine := domain.EngineKind(s.configStore.String(keySearchEngine))
	if !engine.IsValid() {
		return defaultVal
	}
	return engine
}

func (s *SettingsService) getBackend(defaultVal domain.StoreBackend) domain.StoreBackend {
	backend := domain.StoreBackend(s.configStore.String(keyStoreBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) getTarget(defaultVal domain.PublishTarget) domain.PublishTarget {
	target := domain.PublishTarget(s.configStore.String(keyPublishTarget))
	if !target.IsValid() {
		return defaultVal
	}
	return target
}
