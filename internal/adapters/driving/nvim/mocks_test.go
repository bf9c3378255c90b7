package nvim

import (
	"context"
	"sync"
	"testing"
	"time"
)

// shown is one ShowCompletion call.
type shown struct {
	startCol int
	words    []string
}

// fakeEditor serves a fixed cursor and records popups.
type fakeEditor struct {
	mu     sync.Mutex
	cursor Cursor
	err    error
	popups chan shown
}

func newFakeEditor(cursor Cursor) *fakeEditor {
	return &fakeEditor{cursor: cursor, popups: make(chan shown, 16)}
}

func (e *fakeEditor) setCursor(c Cursor) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cursor = c
}

func (e *fakeEditor) Cursor(_ context.Context) (Cursor, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cursor, e.err
}

func (e *fakeEditor) ShowCompletion(_ context.Context, startCol int, words []string) error {
	e.popups <- shown{startCol: startCol, words: words}
	return nil
}

func (e *fakeEditor) nextPopup(t *testing.T) shown {
	t.Helper()
	select {
	case p := <-e.popups:
		return p
	case <-time.After(5 * time.Second):
		t.Fatal("no completion popup shown")
		return shown{}
	}
}
