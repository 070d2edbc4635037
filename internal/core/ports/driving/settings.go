package driving

import "github.com/custodia-labs/skilldex/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, with defaults applied.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single key.
	Set(key, value string) error

	// Reset removes a stored key so its default applies again.
	Reset(key string) error

	// Keys returns every settable key in display order.
	Keys() []string

	// Values returns every key with its effective value, secrets masked.
	Values() ([]domain.Setting, error)

	// GetSchedulerConfig returns the scheduler configuration.
	GetSchedulerConfig() domain.SchedulerConfig
}
