// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/quill/internal/core/domain"
)

// CompletionsReady reports the end of a completion cycle.
type CompletionsReady struct {
	// Generation identifies the cycle. Older generations are stale.
	Generation uint64

	// State is the terminal state the cycle reached.
	State domain.CycleState

	// Items holds the delivered texts. Empty unless State is delivered.
	Items []string
}

// Delivered reports whether the cycle handed entries to the playground.
func (m CompletionsReady) Delivered() bool {
	return m.State == domain.CycleDelivered
}

// LineCommitted is sent when a line is committed to the playground buffer.
type LineCommitted struct {
	Line  int
	Text  string
	Words int
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
