package nvim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/services"
	"github.com/custodia-labs/quill/internal/keyword"
	"github.com/custodia-labs/quill/internal/sources/bufferwords"
	"github.com/custodia-labs/quill/internal/sources/static"
)

type fixture struct {
	handler   *Handler
	editor    *fakeEditor
	completor *services.Completor
	matchers  *keyword.Registry
}

func newFixture(t *testing.T, cursor Cursor) *fixture {
	t.Helper()
	completor := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	matchers := keyword.NewRegistry()
	require.NoError(t, completor.Register("buffer", bufferwords.New(matchers.Split, false, nil)))
	require.NoError(t, completor.Register("static", static.New("alpha", "album", "beta")))

	editor := newFakeEditor(cursor)
	h, err := NewHandler(context.Background(), &Ports{Completion: completor, Matchers: matchers}, editor, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		h.Close()
		_ = completor.Close()
	})
	return &fixture{handler: h, editor: editor, completor: completor, matchers: matchers}
}

// flush waits until every notification queued so far has been applied.
func (f *fixture) flush(t *testing.T) {
	t.Helper()
	require.NoError(t, f.handler.queue.do(func() error { return nil }))
}

func TestNewHandler_ValidatesPorts(t *testing.T) {
	_, err := NewHandler(context.Background(), &Ports{}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingCompletionService)

	c := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	defer c.Close()
	_, err = NewHandler(context.Background(), &Ports{Completion: c}, nil, nil)
	assert.ErrorIs(t, err, ErrMissingMatchers)
}

func TestHandler_Methods(t *testing.T) {
	f := newFixture(t, Cursor{})

	methods := f.handler.Methods()

	for _, name := range []string{
		MethodVChar, MethodInsertLeave, MethodComplete, MethodBufInitialize,
		MethodBufAttachLines, MethodFindStart, MethodCompleteSync,
	} {
		assert.Contains(t, methods, name)
	}
}

func TestHandler_VCharAndInsertLeave(t *testing.T) {
	f := newFixture(t, Cursor{})

	for _, c := range []string{"a", "l"} {
		_, err := f.handler.VChar(c)
		require.NoError(t, err)
	}
	f.flush(t)
	assert.Equal(t, "al", f.completor.UserMatch())

	_, err := f.handler.VChar(" ")
	require.NoError(t, err)
	f.flush(t)
	assert.Equal(t, "", f.completor.UserMatch())

	_, err = f.handler.VChar("x")
	require.NoError(t, err)
	_, err = f.handler.InsertLeave()
	require.NoError(t, err)
	f.flush(t)
	assert.Equal(t, "", f.completor.UserMatch())
}

func TestHandler_VChar_BadArguments(t *testing.T) {
	f := newFixture(t, Cursor{})

	_, err := f.handler.VChar()
	assert.ErrorIs(t, err, domain.ErrMissingContext)

	_, err = f.handler.VChar(42)
	assert.ErrorIs(t, err, domain.ErrMissingContext)

	// A multi-character string is rejected on the worker and changes nothing.
	_, err = f.handler.VChar("ab")
	require.NoError(t, err)
	f.flush(t)
	assert.Equal(t, "", f.completor.UserMatch())
}

func TestHandler_Complete_ShowsRankedWords(t *testing.T) {
	// Cursor just after "al" in "x al": byte offset 4, column 5.
	f := newFixture(t, Cursor{BufferID: 1, Line: "x al", Col: 5, Cwd: "/"})

	for _, c := range []string{"a", "l"} {
		_, err := f.handler.VChar(c)
		require.NoError(t, err)
	}
	_, err := f.handler.Complete()
	require.NoError(t, err)

	popup := f.editor.nextPopup(t)
	assert.Equal(t, 3, popup.startCol)
	assert.ElementsMatch(t, []string{"alpha", "album"}, popup.words)
}

func TestHandler_Complete_UsesBufferWords(t *testing.T) {
	f := newFixture(t, Cursor{BufferID: 7, Line: "gop", Col: 4})

	_, err := f.handler.BufInitialize(7, "@,48-57,95")
	require.NoError(t, err)
	_, err = f.handler.BufAttachLines(7, 0, -1, []interface{}{"gopher go_routine", "gopherish"})
	require.NoError(t, err)
	for _, c := range []string{"g", "o", "p"} {
		_, err := f.handler.VChar(c)
		require.NoError(t, err)
	}
	_, err = f.handler.Complete()
	require.NoError(t, err)

	popup := f.editor.nextPopup(t)
	assert.Equal(t, 1, popup.startCol)
	assert.ElementsMatch(t, []string{"gopher", "gopherish"}, popup.words)
}

func TestHandler_Complete_EditorError(t *testing.T) {
	f := newFixture(t, Cursor{})
	f.editor.err = assert.AnError

	_, err := f.handler.Complete()
	require.NoError(t, err)
	f.flush(t)

	select {
	case p := <-f.editor.popups:
		t.Fatalf("unexpected popup %+v", p)
	default:
	}
}

func TestHandler_BufInitialize(t *testing.T) {
	f := newFixture(t, Cursor{})

	t.Run("installs the matcher", func(t *testing.T) {
		_, err := f.handler.BufInitialize(int64(3), "@,-")
		require.NoError(t, err)

		m, ok := f.matchers.Get(3)
		require.True(t, ok)
		assert.Equal(t, "@,-", m.Spec())
	})

	t.Run("parse error is reported", func(t *testing.T) {
		_, err := f.handler.BufInitialize(4, "a,,,b")
		assert.ErrorIs(t, err, domain.ErrParse)

		_, ok := f.matchers.Get(4)
		assert.False(t, ok)
	})

	t.Run("missing arguments", func(t *testing.T) {
		_, err := f.handler.BufInitialize(4)
		assert.ErrorIs(t, err, domain.ErrMissingContext)

		_, err = f.handler.BufInitialize("four", "@")
		assert.ErrorIs(t, err, domain.ErrMissingContext)
	})
}

func TestHandler_BufAttachLines_BadArguments(t *testing.T) {
	f := newFixture(t, Cursor{})

	tests := []struct {
		name string
		args []interface{}
	}{
		{"no arguments", nil},
		{"start missing", []interface{}{1}},
		{"end not a number", []interface{}{1, 0, "x", []interface{}{}}},
		{"lines not a list", []interface{}{1, 0, 1, "line"}},
		{"line not a string", []interface{}{1, 0, 1, []interface{}{"ok", 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.handler.BufAttachLines(tt.args...)
			assert.ErrorIs(t, err, domain.ErrMissingContext)
		})
	}
}

func TestHandler_FindStart(t *testing.T) {
	f := newFixture(t, Cursor{})
	_, err := f.handler.BufInitialize(1, "@,48-57,95")
	require.NoError(t, err)

	tests := []struct {
		name   string
		buffer int
		line   string
		cursor int
		want   int
	}{
		{"uninitialised buffer", 2, "foo", 3, NoMatcher},
		{"after a word", 1, "foo ba", 6, 4},
		{"inside a word", 1, "foo_bar", 3, 0},
		{"after a separator", 1, "foo ", 4, 4},
		{"start of line", 1, "foo", 0, 0},
		{"multi-byte prefix", 1, "héllo wö", len("héllo wö"), len("héllo ")},
		{"cursor past the end", 1, "abc", 99, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.handler.FindStart(tt.buffer, tt.line, tt.cursor)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("bad arguments", func(t *testing.T) {
		_, err := f.handler.FindStart(1, "foo")
		assert.ErrorIs(t, err, domain.ErrMissingContext)
	})
}

func TestHandler_CompleteSync(t *testing.T) {
	f := newFixture(t, Cursor{})

	t.Run("ranks against the word", func(t *testing.T) {
		got, err := f.handler.CompleteSync(map[string]interface{}{"word": "al"})
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"alpha", "album"}, got)
	})

	t.Run("interface keyed map and enabled flags", func(t *testing.T) {
		got, err := f.handler.CompleteSync(
			map[interface{}]interface{}{"user_match": "be", "buffer": uint64(1)},
			map[string]interface{}{"static": true, "buffer": false},
		)
		require.NoError(t, err)
		assert.Equal(t, []string{"beta"}, got)
	})

	t.Run("disabled source contributes nothing", func(t *testing.T) {
		got, err := f.handler.CompleteSync(
			map[string]interface{}{"word": "al"},
			map[string]interface{}{"static": int64(0)},
		)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("empty table for enabled", func(t *testing.T) {
		got, err := f.handler.CompleteSync(map[string]interface{}{"word": "be"}, []interface{}{})
		require.NoError(t, err)
		assert.Equal(t, []string{"beta"}, got)
	})

	t.Run("bad arguments", func(t *testing.T) {
		_, err := f.handler.CompleteSync()
		assert.ErrorIs(t, err, domain.ErrMissingContext)

		_, err = f.handler.CompleteSync("word")
		assert.ErrorIs(t, err, domain.ErrMissingContext)

		_, err = f.handler.CompleteSync(map[string]interface{}{"word": 1})
		assert.ErrorIs(t, err, domain.ErrMissingContext)

		_, err = f.handler.CompleteSync(map[string]interface{}{}, map[string]interface{}{"static": "yes"})
		assert.ErrorIs(t, err, domain.ErrMissingContext)
	})
}

func TestHandler_Close(t *testing.T) {
	f := newFixture(t, Cursor{})
	f.handler.Close()

	_, err := f.handler.VChar("a")
	assert.ErrorIs(t, err, domain.ErrClosed)

	_, err = f.handler.BufInitialize(1, "@")
	assert.ErrorIs(t, err, domain.ErrClosed)
}
