package services

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyMaxResults      = "completion.max_results"
	keyDebounce        = "completion.debounce"
	keyRelayBuffer     = "completion.relay_buffer"
	keyMaxConcurrent   = "completion.max_concurrent_sources"
	keySourceTimeout   = "completion.source_timeout"
	keySourcesEnabled  = "sources.enabled"
	keyStaticWords     = "sources.static.words"
	keyBufferAllBuffer = "sources.buffer.all_buffers"
	keyLogPath         = "log.path"
	keyLogLevel        = "log.level"
)

// SettingsService reads and writes application settings through a ConfigStore.
type SettingsService struct {
	configStore driven.ConfigStore
	logger      *zap.Logger
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{
		configStore: configStore,
		logger:      logger,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Completion: domain.CompletionSettings{
			MaxResults:           s.getPositiveInt(keyMaxResults, defaults.Completion.MaxResults),
			Debounce:             s.getDuration(keyDebounce, defaults.Completion.Debounce),
			RelayBuffer:          s.getPositiveInt(keyRelayBuffer, defaults.Completion.RelayBuffer),
			MaxConcurrentSources: s.getNonNegativeInt(keyMaxConcurrent, defaults.Completion.MaxConcurrentSources),
			SourceTimeout:        s.getDuration(keySourceTimeout, defaults.Completion.SourceTimeout),
		},
		Sources: domain.SourceSettings{
			Enabled:     s.getSourceKinds(defaults.Sources.Enabled),
			StaticWords: s.configStore.GetStringSlice(keyStaticWords),
			AllBuffers:  s.getBool(keyBufferAllBuffer, defaults.Sources.AllBuffers),
		},
		Log: domain.LogSettings{
			Path:  s.configStore.GetString(keyLogPath),
			Level: s.getLogLevel(defaults.Log.Level),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Completion.Validate(); err != nil {
		return fmt.Errorf("completion settings: %w", err)
	}

	enabled := make([]string, len(settings.Sources.Enabled))
	for i, k := range settings.Sources.Enabled {
		if !k.IsValid() {
			return fmt.Errorf("invalid source kind %q: %w", k, domain.ErrInvalidInput)
		}
		enabled[i] = k.String()
	}

	values := []struct {
		key   string
		value any
	}{
		{keyMaxResults, settings.Completion.MaxResults},
		{keyDebounce, settings.Completion.Debounce.String()},
		{keyRelayBuffer, settings.Completion.RelayBuffer},
		{keyMaxConcurrent, settings.Completion.MaxConcurrentSources},
		{keySourceTimeout, settings.Completion.SourceTimeout.String()},
		{keySourcesEnabled, enabled},
		{keyStaticWords, settings.Sources.StaticWords},
		{keyBufferAllBuffer, settings.Sources.AllBuffers},
		{keyLogLevel, settings.Log.Level.String()},
	}
	if settings.Log.Path != "" {
		values = append(values, struct {
			key   string
			value any
		}{keyLogPath, settings.Log.Path})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetEnabledSources updates the sources registered at startup.
func (s *SettingsService) SetEnabledSources(kinds []domain.SourceKind) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Sources.Enabled = kinds
	return s.Save(settings)
}

// SetMaxResults updates how many entries a cycle delivers.
func (s *SettingsService) SetMaxResults(k int) error {
	if k < 1 {
		return fmt.Errorf("max results %d: %w", k, domain.ErrInvalidInput)
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Completion.MaxResults = k
	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are stored.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

// Helper methods for reading config with defaults. Present but invalid
// values are logged and replaced by the default.

func (s *SettingsService) invalid(key string, val any) {
	s.logger.Warn("invalid config value, using default", zap.String("key", key), zap.Any("value", val))
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 1 {
		s.invalid(key, raw)
		return defaultVal
	}
	return val
}

func (s *SettingsService) getNonNegativeInt(key string, defaultVal int) int {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	val := s.configStore.GetInt(key)
	if val < 0 {
		s.invalid(key, raw)
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	raw, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	val, ok := s.configStore.GetDuration(key)
	if !ok || val < 0 {
		s.invalid(key, raw)
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getSourceKinds(defaultVal []domain.SourceKind) []domain.SourceKind {
	if _, exists := s.configStore.Get(keySourcesEnabled); !exists {
		return defaultVal
	}
	names := s.configStore.GetStringSlice(keySourcesEnabled)
	kinds := make([]domain.SourceKind, 0, len(names))
	seen := make(map[domain.SourceKind]bool, len(names))
	for _, name := range names {
		kind := domain.SourceKind(name)
		if !kind.IsValid() {
			s.invalid(keySourcesEnabled, name)
			continue
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	return kinds
}

func (s *SettingsService) getLogLevel(defaultVal domain.LogLevel) domain.LogLevel {
	val := s.configStore.GetString(keyLogLevel)
	if val == "" {
		return defaultVal
	}
	level := domain.LogLevel(val)
	if !level.IsValid() {
		s.invalid(keyLogLevel, val)
		return defaultVal
	}
	return level
}
