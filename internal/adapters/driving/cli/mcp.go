package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/quill/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so assistants can request
completions and inspect the registered sources.

By default, the server communicates over stdio using JSON-RPC.
Use --port to start an HTTP server instead, for example to test with the
MCP Inspector.

Examples:
  # Stdio mode (default)
  quill mcp serve

  # HTTP mode
  quill mcp serve --port 8080`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if completionService == nil {
		return errors.New("completion service not configured")
	}

	ports := &mcp.Ports{
		Completion: completionService,
		Settings:   settingsService,
	}

	server, err := mcp.NewServer(ports, logger)
	if err != nil {
		return err
	}

	stop := watchConfig(cmd.Context())
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		cmd.PrintErrf("MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
