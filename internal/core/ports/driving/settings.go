package driving

import "github.com/custodia-labs/quill/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings. Missing or invalid
	// values are replaced by their defaults.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEnabledSources replaces the list of sources registered at startup.
	SetEnabledSources(kinds []domain.SourceKind) error

	// SetMaxResults updates how many entries a cycle delivers.
	SetMaxResults(k int) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ConfigPath returns where settings are stored.
	ConfigPath() string
}
