package driving

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// DeliverFunc hands a ranked list to the editor.
// It is called at most once per cycle and never for a superseded cycle.
type DeliverFunc func(ctx context.Context, entries []domain.Entry) error

// Cycle is a handle on one notification-driven completion cycle.
type Cycle interface {
	// ID uniquely identifies the cycle in logs.
	ID() string

	// Generation is the cancellation token value the cycle was issued with.
	Generation() uint64

	// State returns the current lifecycle stage.
	State() domain.CycleState

	// Done is closed when the cycle reaches a terminal state.
	Done() <-chan struct{}
}

// CompletionService is the completion orchestrator as seen by host adapters.
type CompletionService interface {
	// Register adds source under name. Re-registering a name replaces the
	// source and keeps its position in the registration order.
	Register(name string, source driven.Source) error

	// Unregister removes a source. Returns false if name was not registered.
	Unregister(name string) bool

	// Sources returns registered names in registration order.
	Sources() []string

	// SetBoundaryChar records the most recently typed character.
	// s must hold exactly one character.
	SetBoundaryChar(s string) error

	// UpdateUserMatch folds the recorded character into the match string:
	// a space clears it, anything else is appended.
	UpdateUserMatch()

	// TypeChar applies SetBoundaryChar and UpdateUserMatch as one step.
	TypeChar(s string) error

	// ClearUserMatch empties the match string.
	ClearUserMatch()

	// UserMatch returns a consistent snapshot of the match string.
	UserMatch() string

	// Trigger starts a completion cycle, superseding any cycle still in
	// flight. It returns nil when the debounce gate suppressed the trigger.
	Trigger(ctx context.Context, req domain.CompletionRequest, deliver DeliverFunc) (Cycle, error)

	// CompleteSync runs one cycle against mc and returns the ranked entries
	// directly. enabled selects sources by name; names absent from the map
	// are enabled. It does not supersede notification-driven cycles.
	CompleteSync(ctx context.Context, mc domain.MatchContext, enabled map[string]bool) ([]domain.Entry, error)

	// NotifyLinesChanged forwards a buffer line change to every source that
	// observes lines.
	NotifyLinesChanged(ctx context.Context, bufferID, start, end int, lines []string)

	// Settings returns the active completion settings.
	Settings() domain.CompletionSettings

	// SetSettings replaces the completion settings for future cycles.
	SetSettings(settings domain.CompletionSettings) error

	// Close cancels in-flight cycles and waits for them to finish.
	Close() error
}
