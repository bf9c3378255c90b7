package bufferwords

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/keyword"
)

// Ensure Source implements the interfaces.
var (
	_ driven.Source       = (*Source)(nil)
	_ driven.LineObserver = (*Source)(nil)
)

// SplitFunc extracts the words of one line of a buffer.
type SplitFunc func(bufferID int, line string) []string

// DefaultSplit splits with the default keyword grammar.
func DefaultSplit(_ int, line string) []string {
	return defaultMatcher.Words(line)
}

var defaultMatcher = keyword.Default()

// Source produces the exact-prefix matches of the user match from buffer
// indexes. Indexes are created on the first line change reported for a
// buffer.
type Source struct {
	split      SplitFunc
	allBuffers bool
	logger     *zap.Logger

	mu      sync.RWMutex
	indexes map[int]*Index
}

// New creates a buffer word source. A nil split uses DefaultSplit. When
// allBuffers is set, every indexed buffer contributes, not only the
// requesting one.
func New(split SplitFunc, allBuffers bool, logger *zap.Logger) *Source {
	if split == nil {
		split = DefaultSplit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{
		split:      split,
		allBuffers: allBuffers,
		logger:     logger,
		indexes:    make(map[int]*Index),
	}
}

// Produce implements driven.Source.
func (s *Source) Produce(_ context.Context, mc domain.MatchContext) ([]domain.Entry, error) {
	if mc.UserMatch == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var words []string
	if s.allBuffers {
		ids := slices.Sorted(maps.Keys(s.indexes))
		for _, id := range ids {
			words = append(words, s.indexes[id].ExactPrefixMatches(mc.UserMatch)...)
		}
		slices.Sort(words)
		words = slices.Compact(words)
	} else if idx, ok := s.indexes[mc.BufferID]; ok {
		words = idx.ExactPrefixMatches(mc.UserMatch)
	}

	entries := make([]domain.Entry, len(words))
	for i, w := range words {
		entries[i] = domain.NewEntry(w)
	}
	return entries, nil
}

// OnLinesChanged implements driven.LineObserver. Lines [start, end) of the
// buffer are replaced by lines; an end below zero means the end of the
// buffer.
func (s *Source) OnLinesChanged(_ context.Context, bufferID, start, end int, lines []string) error {
	if start < 0 || (end >= 0 && end < start) {
		return fmt.Errorf("buffer %d lines [%d, %d): %w", bufferID, start, end, domain.ErrInvalidInput)
	}

	words := make([][]string, len(lines))
	for i, line := range lines {
		words[i] = s.split(bufferID, line)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.indexes[bufferID]
	if !ok {
		idx = NewIndex()
		s.indexes[bufferID] = idx
		s.logger.Debug("buffer indexed", zap.Int("buffer", bufferID))
	}
	idx.Splice(start, end, words)
	return nil
}

// Forget drops the index of bufferID.
func (s *Source) Forget(bufferID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.indexes, bufferID)
}

// Buffers returns the ids of indexed buffers, sorted.
func (s *Source) Buffers() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.indexes))
}
