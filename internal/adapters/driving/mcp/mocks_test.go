package mcp

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// mockCompletionService is a mock implementation of driving.CompletionService.
type mockCompletionService struct {
	sources  []string
	entries  []domain.Entry
	settings domain.CompletionSettings
	err      error

	gotContext domain.MatchContext
	gotEnabled map[string]bool
}

func (m *mockCompletionService) Register(_ string, _ driven.Source) error { return nil }
func (m *mockCompletionService) Unregister(_ string) bool                { return false }
func (m *mockCompletionService) Sources() []string                       { return m.sources }
func (m *mockCompletionService) SetBoundaryChar(_ string) error          { return nil }
func (m *mockCompletionService) UpdateUserMatch()                        {}
func (m *mockCompletionService) TypeChar(_ string) error                 { return nil }
func (m *mockCompletionService) ClearUserMatch()                         {}
func (m *mockCompletionService) UserMatch() string                       { return "" }

func (m *mockCompletionService) Trigger(
	_ context.Context,
	_ domain.CompletionRequest,
	_ driving.DeliverFunc,
) (driving.Cycle, error) {
	return nil, nil
}

func (m *mockCompletionService) CompleteSync(
	_ context.Context,
	mc domain.MatchContext,
	enabled map[string]bool,
) ([]domain.Entry, error) {
	m.gotContext = mc
	m.gotEnabled = enabled
	return m.entries, m.err
}

func (m *mockCompletionService) NotifyLinesChanged(_ context.Context, _, _, _ int, _ []string) {}

func (m *mockCompletionService) Settings() domain.CompletionSettings { return m.settings }

func (m *mockCompletionService) SetSettings(s domain.CompletionSettings) error {
	m.settings = s
	return nil
}

func (m *mockCompletionService) Close() error { return nil }

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings *domain.AppSettings
	path     string
	err      error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) { return m.settings, m.err }
func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return m.err }
func (m *mockSettingsService) SetEnabledSources(_ []domain.SourceKind) error {
	return m.err
}
func (m *mockSettingsService) SetMaxResults(_ int) error { return m.err }
func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}
func (m *mockSettingsService) ConfigPath() string { return m.path }

var (
	_ driving.CompletionService = (*mockCompletionService)(nil)
	_ driving.SettingsService   = (*mockSettingsService)(nil)
)
