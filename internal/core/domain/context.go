package domain

// MatchContext is what a source is asked to complete.
type MatchContext struct {
	// UserMatch is the text typed since the last boundary reset.
	UserMatch string

	// Word is the keyword under the cursor, as the editor sees it.
	// Sources that interpret paths use it in preference to UserMatch.
	Word string

	// Cwd is the editor's working directory.
	Cwd string

	// BufferID identifies the buffer being edited. Zero means unknown.
	BufferID int
}

// Query returns the text sources should match against.
func (c MatchContext) Query() string {
	if c.Word != "" {
		return c.Word
	}
	return c.UserMatch
}

// CompletionRequest describes a notification-driven completion trigger.
// The orchestrator fills in UserMatch from its own state.
type CompletionRequest struct {
	Word     string
	Cwd      string
	BufferID int
}

// LineRange is the keyword span around a cursor.
// Offsets are code-point indices into the line; Finish is the index of the
// last keyword code point, so the word is runes[Start:Finish+1].
type LineRange struct {
	Start  int
	Finish int
}

// Len returns the number of code points covered by the range.
func (r LineRange) Len() int {
	if r.Finish < r.Start {
		return 0
	}
	return r.Finish - r.Start + 1
}
