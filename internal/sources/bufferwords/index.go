// Package bufferwords completes words that already appear in editor
// buffers. Each buffer keeps an Index of the words on every line, updated
// incrementally as the editor reports line changes.
package bufferwords

import (
	"maps"
	"slices"
	"strings"
)

// Index is a per-line word-frequency index for one buffer.
//
// For every word w, Count(w) equals the number of occurrences of w across
// all recorded lines, and w is present exactly while that number is
// positive. Index is not safe for concurrent use.
type Index struct {
	lines  map[int][]string
	counts map[string]int
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{
		lines:  make(map[int][]string),
		counts: make(map[string]int),
	}
}

// Update replaces the words recorded for line. Every occurrence previously
// recorded for the line is removed from the counts before the new words are
// added, so a word present in both is counted once per new occurrence.
func (x *Index) Update(line int, words []string) {
	x.remove(line)
	x.add(line, words)
}

// Splice replaces lines [start, end) with one line per element of lines,
// shifting every later line by the difference in line count. An end below
// zero means the end of the recorded lines.
func (x *Index) Splice(start, end int, lines [][]string) {
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = max(x.lineCount(), start)
	}
	if end < start {
		end = start
	}

	for line := start; line < end; line++ {
		x.remove(line)
	}

	if delta := len(lines) - (end - start); delta != 0 {
		x.shift(end, delta)
	}

	for i, words := range lines {
		x.add(start+i, words)
	}
}

// ExactPrefixMatches returns every indexed word starting with prefix, sorted.
// An empty prefix matches nothing.
func (x *Index) ExactPrefixMatches(prefix string) []string {
	if prefix == "" {
		return nil
	}
	var out []string
	for w := range x.counts {
		if strings.HasPrefix(w, prefix) {
			out = append(out, w)
		}
	}
	slices.Sort(out)
	return out
}

// Count returns the number of recorded occurrences of word.
func (x *Index) Count(word string) int {
	return x.counts[word]
}

// Len returns the number of distinct words.
func (x *Index) Len() int {
	return len(x.counts)
}

// Line returns a copy of the words recorded for line.
func (x *Index) Line(line int) []string {
	return slices.Clone(x.lines[line])
}

// Counts returns a copy of the word counts.
func (x *Index) Counts() map[string]int {
	return maps.Clone(x.counts)
}

func (x *Index) remove(line int) {
	for _, w := range x.lines[line] {
		x.counts[w]--
		if x.counts[w] <= 0 {
			delete(x.counts, w)
		}
	}
	delete(x.lines, line)
}

func (x *Index) add(line int, words []string) {
	if len(words) == 0 {
		return
	}
	recorded := make([]string, 0, len(words))
	for _, w := range words {
		if w == "" {
			continue
		}
		x.counts[w]++
		recorded = append(recorded, w)
	}
	if len(recorded) > 0 {
		x.lines[line] = recorded
	}
}

// shift moves every line at or after from by delta.
func (x *Index) shift(from, delta int) {
	moved := make(map[int][]string)
	for line, words := range x.lines {
		if line >= from {
			moved[line+delta] = words
			delete(x.lines, line)
		}
	}
	for line, words := range moved {
		x.lines[line] = words
	}
}

// lineCount returns one past the highest recorded line.
func (x *Index) lineCount() int {
	n := 0
	for line := range x.lines {
		n = max(n, line+1)
	}
	return n
}
