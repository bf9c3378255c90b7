// Package static provides a source backed by a fixed word list.
package static

import (
	"context"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.Source = (*Source)(nil)

// Source always returns the same entries with the neutral score.
// Scoring against what the user typed happens downstream.
type Source struct {
	entries []domain.Entry
}

// New creates a source for words. Empty words are skipped.
func New(words ...string) *Source {
	entries := make([]domain.Entry, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		entries = append(entries, domain.NewEntry(w))
	}
	return &Source{entries: entries}
}

// Produce implements driven.Source. The returned slice is a copy.
func (s *Source) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	out := make([]domain.Entry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// Len returns the number of words.
func (s *Source) Len() int {
	return len(s.entries)
}
