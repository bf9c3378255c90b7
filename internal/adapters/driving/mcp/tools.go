package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// CompleteInput is the input schema for the complete tool.
type CompleteInput struct {
	Word      string   `json:"word" jsonschema:"the keyword under the cursor"`
	UserMatch string   `json:"user_match,omitempty" jsonschema:"text typed since the last boundary; defaults to word"`
	Cwd       string   `json:"cwd,omitempty" jsonschema:"working directory used by path completion"`
	Buffer    int      `json:"buffer,omitempty" jsonschema:"editor buffer number, 0 when unknown"`
	Disabled  []string `json:"disabled,omitempty" jsonschema:"names of sources to skip for this request"`
	Limit     int      `json:"limit,omitempty" jsonschema:"maximum number of completions to return"`
}

// CompleteOutput is the output schema for the complete tool.
type CompleteOutput struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "complete",
		Description: "Return ranked completions for a word from every enabled source",
	}, s.handleComplete)
}

// handleComplete handles the complete tool invocation.
func (s *Server) handleComplete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CompleteInput,
) (*mcp.CallToolResult, CompleteOutput, error) {
	if input.Word == "" && input.UserMatch == "" {
		return nil, CompleteOutput{}, errors.New("word or user_match is required")
	}

	mc := domain.MatchContext{
		UserMatch: input.UserMatch,
		Word:      input.Word,
		Cwd:       input.Cwd,
		BufferID:  input.Buffer,
	}

	var enabled map[string]bool
	if len(input.Disabled) > 0 {
		enabled = make(map[string]bool, len(input.Disabled))
		for _, name := range input.Disabled {
			enabled[name] = false
		}
	}

	entries, err := s.ports.Completion.CompleteSync(ctx, mc, enabled)
	if err != nil {
		return nil, CompleteOutput{}, fmt.Errorf("completing %q: %w", mc.Query(), err)
	}
	if input.Limit > 0 && len(entries) > input.Limit {
		entries = entries[:input.Limit]
	}

	s.logger.Debug("complete tool",
		zap.String("word", input.Word),
		zap.Int("count", len(entries)),
	)

	items := domain.Texts(entries)
	return nil, CompleteOutput{Items: items, Count: len(items)}, nil
}
