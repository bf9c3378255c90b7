package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/services"
	"github.com/custodia-labs/quill/internal/keyword"
)

type testEnv struct {
	completor *services.Completor
	store     *memory.ConfigStore
	settings  *services.SettingsService
}

// setupTestServices injects a completor with the default sources and an
// in-memory config store. Everything is restored when the test ends.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	store := memory.NewConfigStore()
	settings := services.NewSettingsService(store, nil)
	completor := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	registry := keyword.NewRegistry()

	app := domain.DefaultAppSettings()
	app.Sources.StaticWords = []string{"alpha", "album", "beta"}
	require.NoError(t, registerSources(completor, app.Sources, registry, nil))

	SetServices(&ServiceSet{
		Completion:  completor,
		Settings:    settings,
		ConfigStore: store,
		Matchers:    registry,
	})

	t.Cleanup(func() {
		SetServices(nil)
		_ = completor.Close()
		resetFlags()
	})

	return &testEnv{completor: completor, store: store, settings: settings}
}

// resetFlags restores command flags that persist between executions.
func resetFlags() {
	completeUserMatch = ""
	completeCwd = ""
	completeBuffer = 0
	completeDisable = nil
	completeJSON = false
	tryNoBlink = false
	for _, name := range []string{"json", "match", "cwd", "buffer", "disable"} {
		if f := completeCmd.Flags().Lookup(name); f != nil {
			f.Changed = false
		}
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
