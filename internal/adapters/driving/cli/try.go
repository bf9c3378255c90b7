package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/quill/internal/adapters/driving/tui"
)

// errNotTerminal is returned when 'quill try' is not attached to a terminal.
var errNotTerminal = errors.New("quill try needs an interactive terminal")

// isTerminal reports whether fd is a terminal.
var isTerminal = term.IsTerminal

var tryNoBlink bool

var tryCmd = &cobra.Command{
	Use:   "try",
	Short: "Launch the interactive completion playground",
	Long: `Launch a small editor-like playground that drives the completion engine
keystroke by keystroke, the way an editor would.

Controls:
  (type)     Edit the line; completions update as you type
  ↑/↓        Move through completions
  Tab        Accept the selected completion
  Enter      Commit the line to the playground buffer
  Ctrl+U     Clear the line
  Esc        Quit`,
	Args: cobra.NoArgs,
	RunE: runTry,
}

func init() {
	tryCmd.Flags().BoolVar(&tryNoBlink, "no-blink", false, "disable cursor blinking")
	rootCmd.AddCommand(tryCmd)
}

func runTry(cmd *cobra.Command, _ []string) (err error) {
	if completionService == nil {
		return errors.New("completion service not configured")
	}
	if !isTerminal(int(os.Stdin.Fd())) {
		return errNotTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in playground: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("playground panicked: %v", r)
		}
	}()

	cwd, _ := os.Getwd() //nolint:errcheck // empty cwd falls back inside sources
	ports := tui.NewPorts(completionService, cwd)

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create playground: %w", err)
	}
	app.WithContext(cmd.Context()).SetBlink(!tryNoBlink)

	stop := watchConfig(cmd.Context())
	defer stop()

	if err := app.Run(); err != nil {
		return fmt.Errorf("playground error: %w", err)
	}
	return nil
}
