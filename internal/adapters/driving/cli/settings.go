package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure completion settings and the sources registered at startup.

Running servers pick up changes to the config file automatically.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSourcesCmd = &cobra.Command{
	Use:   "sources KIND...",
	Short: "Set the sources registered at startup",
	Long: `Set the sources registered at startup, in order. Order breaks ties
between equally ranked completions.

Available sources:
  buffer      - Buffer words (per-line word index)
  filesystem  - Filesystem paths
  static      - Static word list
  counter     - Counter (diagnostic)`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsSources,
}

var settingsMaxResultsCmd = &cobra.Command{
	Use:   "max-results N",
	Short: "Set how many completions are delivered",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsMaxResults,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSourcesCmd)
	settingsCmd.AddCommand(settingsMaxResultsCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Println()

	c := settings.Completion
	cmd.Println("[Completion]")
	cmd.Printf("  Max results: %d\n", c.MaxResults)
	cmd.Printf("  Debounce: %s\n", describeDuration(c.Debounce.String(), c.Debounce == 0))
	cmd.Printf("  Relay buffer: %d\n", c.RelayBuffer)
	if c.MaxConcurrentSources == 0 {
		cmd.Println("  Max concurrent sources: unbounded")
	} else {
		cmd.Printf("  Max concurrent sources: %d\n", c.MaxConcurrentSources)
	}
	cmd.Printf("  Source timeout: %s\n", describeDuration(c.SourceTimeout.String(), c.SourceTimeout == 0))
	cmd.Println()

	cmd.Println("[Sources]")
	for i, kind := range settings.Sources.Enabled {
		cmd.Printf("  %d. %s (%s)\n", i+1, kind, kind.Description())
	}
	if len(settings.Sources.Enabled) == 0 {
		cmd.Println("  (none)")
	}
	if settings.Sources.IsEnabled(domain.SourceStatic) {
		cmd.Printf("  Static words: %d\n", len(settings.Sources.StaticWords))
	}
	if settings.Sources.IsEnabled(domain.SourceBuffer) {
		cmd.Printf("  Buffer words from all buffers: %t\n", settings.Sources.AllBuffers)
	}
	cmd.Println()

	cmd.Println("[Log]")
	path := settings.Log.Path
	if path == "" {
		path = "(default)"
	}
	cmd.Printf("  Path: %s\n", path)
	cmd.Printf("  Level: %s\n", settings.Log.Level)

	return nil
}

func describeDuration(s string, off bool) string {
	if off {
		return "off"
	}
	return s
}

func runSettingsSources(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	kinds, err := parseSourceKinds(args)
	if err != nil {
		return err
	}

	if err := settingsService.SetEnabledSources(kinds); err != nil {
		return fmt.Errorf("failed to set sources: %w", err)
	}

	cmd.Printf("Sources set to: %s\n", strings.Join(args, ", "))
	cmd.Println("Restart running servers to register the new sources.")
	return nil
}

func parseSourceKinds(args []string) ([]domain.SourceKind, error) {
	kinds := make([]domain.SourceKind, 0, len(args))
	seen := make(map[domain.SourceKind]bool, len(args))
	for _, arg := range args {
		kind := domain.SourceKind(strings.ToLower(strings.TrimSpace(arg)))
		if !kind.IsValid() {
			return nil, fmt.Errorf("unknown source %q: %w", arg, domain.ErrInvalidInput)
		}
		if seen[kind] {
			continue
		}
		seen[kind] = true
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func runSettingsMaxResults(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	k, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("max results must be a number: %w", domain.ErrInvalidInput)
	}
	if err := settingsService.SetMaxResults(k); err != nil {
		return fmt.Errorf("failed to set max results: %w", err)
	}

	cmd.Printf("Max results set to: %d\n", k)
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("quill Settings Wizard")
	cmd.Println("=====================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Sources
	cmd.Println("Step 1: Select Sources")
	cmd.Println("----------------------")
	var kinds []domain.SourceKind
	for _, kind := range domain.AllSourceKinds() {
		def := "n"
		if settings.Sources.IsEnabled(kind) {
			def = "y"
		}
		cmd.Printf("  Enable %s? [%s]: ", kind.Description(), def)
		if parseYesNo(readLine(reader), def == "y") {
			kinds = append(kinds, kind)
		}
	}
	settings.Sources.Enabled = kinds
	cmd.Println()

	// Step 2: Result count
	cmd.Println("Step 2: Completions per popup")
	cmd.Println("-----------------------------")
	cmd.Printf("  Max results [%d]: ", settings.Completion.MaxResults)
	settings.Completion.MaxResults = parseChoice(readLine(reader), 100, settings.Completion.MaxResults)
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Printf("Saved to %s\n", settingsService.ConfigPath())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func parseYesNo(input string, defaultVal bool) bool {
	switch strings.ToLower(input) {
	case "y", "yes":
		return true
	case "n", "no":
		return false
	default:
		return defaultVal
	}
}
