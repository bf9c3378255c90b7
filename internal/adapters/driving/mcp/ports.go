package mcp

import (
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ports aggregates the driving ports the MCP server needs.
type Ports struct {
	// Completion runs completion cycles and lists sources.
	Completion driving.CompletionService

	// Settings exposes the persisted configuration. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Completion == nil {
		return ErrMissingCompletionService
	}
	return nil
}
