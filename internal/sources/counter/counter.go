// Package counter provides a diagnostic source whose single entry reports
// how many times it has been asked for candidates.
package counter

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.Source = (*Source)(nil)

// Source returns one entry per call embedding its call count.
type Source struct {
	n atomic.Uint64
}

// New creates a counter starting at start.
func New(start uint64) *Source {
	s := &Source{}
	s.n.Store(start)
	return s
}

// Produce implements driven.Source.
func (s *Source) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	n := s.n.Add(1) - 1
	return []domain.Entry{domain.NewEntry(fmt.Sprintf("The counter is %d", n))}, nil
}

// Value returns the number the next call will report.
func (s *Source) Value() uint64 {
	return s.n.Load()
}
