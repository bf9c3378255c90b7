package services

import (
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// Scorer assigns relevance to candidates against what the user typed.
type Scorer interface {
	// Score returns the entries that match query, each carrying its score,
	// in the same relative order as entries. Non-matching entries are dropped.
	Score(query string, entries []domain.Entry) []domain.Entry
}

// Ensure FuzzyScorer implements the interface.
var _ Scorer = FuzzyScorer{}

// FuzzyScorer scores by single-pass subsequence matching.
// An empty query matches everything with the neutral score.
type FuzzyScorer struct{}

// Score implements Scorer.
func (FuzzyScorer) Score(query string, entries []domain.Entry) []domain.Entry {
	if query == "" {
		out := make([]domain.Entry, len(entries))
		for i := range entries {
			out[i] = entries[i].WithScore(domain.NeutralScore)
		}
		return out
	}

	matches := fuzzy.FindFrom(query, entrySource(entries))
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Index < matches[j].Index
	})

	out := make([]domain.Entry, len(matches))
	for i, m := range matches {
		out[i] = entries[m.Index].WithScore(domain.Score(m.Score))
	}
	return out
}

// entrySource lets fuzzy.FindFrom search entry texts without copying them.
type entrySource []domain.Entry

func (s entrySource) String(i int) string { return s[i].Text }
func (s entrySource) Len() int            { return len(s) }

// rank scores entries against query, orders them by descending score and
// keeps at most k. Equal scores keep their input order, which is source
// registration order followed by the order each source produced them.
func rank(scorer Scorer, query string, entries []domain.Entry, k int) []domain.Entry {
	scored := scorer.Score(query, entries)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// dedupe drops repeated texts, keeping the first occurrence.
func dedupe(entries []domain.Entry) []domain.Entry {
	seen := make(map[string]struct{}, len(entries))
	out := entries[:0:0]
	for _, e := range entries {
		if _, ok := seen[e.Text]; ok {
			continue
		}
		seen[e.Text] = struct{}{}
		out = append(out, e)
	}
	return out
}
