package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/core/domain"
)

var (
	completeUserMatch string
	completeCwd       string
	completeBuffer    int
	completeDisable   []string
	completeJSON      bool
)

var completeCmd = &cobra.Command{
	Use:   "complete WORD",
	Short: "Complete a word once and print the results",
	Long: `Runs one completion cycle against every enabled source and prints the
ranked results, best first. Useful for checking configuration without an
editor. The buffer source has nothing indexed outside an editor session.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

func init() {
	completeCmd.Flags().StringVar(&completeUserMatch, "match", "", "match string to rank against (default WORD)")
	completeCmd.Flags().StringVar(&completeCwd, "cwd", "", "working directory for path completion (default current)")
	completeCmd.Flags().IntVar(&completeBuffer, "buffer", 0, "buffer number to report to sources")
	completeCmd.Flags().StringSliceVar(&completeDisable, "disable", nil, "sources to skip")
	completeCmd.Flags().BoolVar(&completeJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(completeCmd)
}

func runComplete(cmd *cobra.Command, args []string) error {
	if completionService == nil {
		return errors.New("completion service not configured")
	}

	cwd := completeCwd
	if cwd == "" {
		if wd, err := os.Getwd(); err == nil {
			cwd = wd
		}
	}

	mc := domain.MatchContext{
		UserMatch: completeUserMatch,
		Word:      args[0],
		Cwd:       cwd,
		BufferID:  completeBuffer,
	}

	var enabled map[string]bool
	if len(completeDisable) > 0 {
		enabled = make(map[string]bool, len(completeDisable))
		for _, name := range completeDisable {
			enabled[name] = false
		}
	}

	entries, err := completionService.CompleteSync(cmd.Context(), mc, enabled)
	if err != nil {
		return fmt.Errorf("completion failed: %w", err)
	}

	items := domain.Texts(entries)
	if completeJSON {
		data, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(items) == 0 {
		cmd.Println("No completions.")
		return nil
	}
	for _, item := range items {
		cmd.Println(item)
	}
	return nil
}
