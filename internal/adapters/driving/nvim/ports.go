package nvim

import (
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/keyword"
)

// Ports aggregates what the host adapter drives.
type Ports struct {
	// Completion is the orchestrator.
	Completion driving.CompletionService

	// Matchers holds the keyword matcher of each initialised buffer. The
	// buffer word source splits lines with the same registry.
	Matchers *keyword.Registry
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Completion == nil {
		return ErrMissingCompletionService
	}
	if p.Matchers == nil {
		return ErrMissingMatchers
	}
	return nil
}
