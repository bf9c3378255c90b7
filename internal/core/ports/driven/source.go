package driven

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// Source produces completion candidates.
// Each source kind (buffer words, filesystem, static list, ...) implements
// this interface.
//
// A Source must tolerate an empty or repeated MatchContext.UserMatch and must
// not share mutable state with other sources. The orchestrator never calls
// the same Source instance concurrently.
type Source interface {
	// Produce returns the candidates for mc. Entries carry the neutral score;
	// ranking against what the user typed happens downstream.
	Produce(ctx context.Context, mc domain.MatchContext) ([]domain.Entry, error)
}

// LineObserver is implemented by sources that maintain editor-derived state.
type LineObserver interface {
	// OnLinesChanged reports that lines [start, end) of bufferID were
	// replaced by lines. Line numbers are zero-based.
	OnLinesChanged(ctx context.Context, bufferID, start, end int, lines []string) error
}

// SourceFunc adapts an ordinary function to the Source interface.
type SourceFunc func(ctx context.Context, mc domain.MatchContext) ([]domain.Entry, error)

// Produce calls f(ctx, mc).
func (f SourceFunc) Produce(ctx context.Context, mc domain.MatchContext) ([]domain.Entry, error) {
	return f(ctx, mc)
}
