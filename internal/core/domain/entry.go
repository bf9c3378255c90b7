package domain

// Score orders completion entries. Higher is more relevant.
// It carries no meaning beyond ordering.
type Score int64

// NeutralScore is the baseline a source assigns before the entry is
// scored against what the user typed.
const NeutralScore Score = 0

// Entry is a single completion candidate.
type Entry struct {
	// Text is the word offered to the editor.
	Text string

	// Score is the relevance assigned by the ranking step.
	Score Score
}

// NewEntry creates an entry with the neutral baseline score.
func NewEntry(text string) Entry {
	return Entry{Text: text, Score: NeutralScore}
}

// WithScore returns a copy of the entry carrying score.
func (e Entry) WithScore(score Score) Entry {
	e.Score = score
	return e
}

// Texts returns the text of every entry, in order.
// This is the only form in which entries leave the process.
func Texts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i := range entries {
		out[i] = entries[i].Text
	}
	return out
}
