// Package cli provides the quill command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/keyword"
)

// version is set at build time via -ldflags.
var version = "dev"

// Global flags.
var (
	configPath string
	logFile    string
	verbose    bool
)

// Services wired by bootstrap, or injected with SetServices.
var (
	completionService driving.CompletionService
	settingsService   driving.SettingsService
	configStore       driven.ConfigStore
	matchers          *keyword.Registry
	logger            = zap.NewNop()

	// cleanup releases what bootstrap built. Nil when services were injected.
	cleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Editor completion aggregator",
	Long: `quill merges completion candidates from several sources, ranks them
against what you typed and hands the best few to your editor.

It runs as a Neovim remote plugin ('quill serve'), as an MCP server for
assistants ('quill mcp serve') and as an interactive playground ('quill try').`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  bootstrap,
	PersistentPostRunE: teardown,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/quill/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (overrides log.path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	// PersistentPostRunE is skipped when a command fails.
	_ = teardown(rootCmd, nil)
	return err
}

// SetVersion sets the version reported by 'quill version'.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// ServiceSet holds pre-built services. Commands use them instead of
// building their own from the config file.
type ServiceSet struct {
	Completion  driving.CompletionService
	Settings    driving.SettingsService
	ConfigStore driven.ConfigStore
	Matchers    *keyword.Registry
	Logger      *zap.Logger
}

// SetServices injects services. Passing nil restores config-driven wiring.
func SetServices(s *ServiceSet) {
	if s == nil {
		completionService = nil
		settingsService = nil
		configStore = nil
		matchers = nil
		logger = zap.NewNop()
		return
	}
	completionService = s.Completion
	settingsService = s.Settings
	configStore = s.ConfigStore
	matchers = s.Matchers
	if matchers == nil {
		matchers = keyword.NewRegistry()
	}
	logger = s.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
}
