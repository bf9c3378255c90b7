// Package tui provides the interactive completion playground.
// It plays the part of an editor: every keystroke updates the match string
// and triggers a cycle, so the orchestrator can be exercised without one.
package tui

import (
	"github.com/custodia-labs/quill/internal/core/ports/driving"
	"github.com/custodia-labs/quill/internal/keyword"
)

// PlaygroundBuffer is the buffer ID the playground reports to sources.
const PlaygroundBuffer = 1

// Ports aggregates what the playground needs.
type Ports struct {
	// Completion runs completion cycles.
	Completion driving.CompletionService

	// Matcher decides which characters form the word under the cursor.
	// Nil means the default keyword set.
	Matcher *keyword.Matcher

	// Cwd is reported to path-aware sources.
	Cwd string
}

// NewPorts creates a new Ports aggregate with the given service.
func NewPorts(completion driving.CompletionService, cwd string) *Ports {
	return &Ports{Completion: completion, Cwd: cwd}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Completion == nil {
		return ErrMissingCompletionService
	}
	return nil
}
