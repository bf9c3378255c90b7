package cli

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/adapters/driving/nvim"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a Neovim remote plugin",
	Long: `Serve completion requests from Neovim over msgpack-rpc on stdin/stdout.

Start it as an RPC job from your config:

  local chan = vim.fn.jobstart({ "quill", "serve" }, { rpc = true })

Nothing but RPC traffic is written to stdout; logs go to the log file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if completionService == nil {
		return errors.New("completion service not configured")
	}

	ports := &nvim.Ports{
		Completion: completionService,
		Matchers:   matchers,
	}
	server, err := nvim.NewServer(ports, logger)
	if err != nil {
		return err
	}

	stop := watchConfig(cmd.Context())
	defer stop()

	in, out := cmd.InOrStdin(), cmd.OutOrStdout()
	var closer io.Closer = io.NopCloser(nil)
	if c, ok := out.(io.Closer); ok {
		closer = c
	}

	return server.Serve(cmd.Context(), in, out, closer)
}
