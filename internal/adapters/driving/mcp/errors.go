// Package mcp exposes the completion engine to MCP clients.
// Assistants can request completions for a word and inspect which sources
// are registered and how the orchestrator is tuned.
package mcp

import "errors"

// ErrMissingCompletionService is returned when the completion service is not provided.
var ErrMissingCompletionService = errors.New("mcp: completion service is required")
