package nvim

import (
	"context"
	"fmt"

	client "github.com/neovim/go-client/nvim"
)

// Cursor is the editor state a completion cycle starts from.
type Cursor struct {
	BufferID int
	Line     string
	// Col is the 1-based byte column of the cursor, as col('.') reports it.
	Col int
	Cwd string
}

// Editor is what the adapter needs from the running editor.
type Editor interface {
	// Cursor reads the current buffer, line, cursor column and working
	// directory in one round trip.
	Cursor(ctx context.Context) (Cursor, error)

	// ShowCompletion opens the completion popup at the 1-based byte column
	// startCol with words.
	ShowCompletion(ctx context.Context, startCol int, words []string) error
}

// Ensure clientEditor implements the interface.
var _ Editor = (*clientEditor)(nil)

// clientEditor implements Editor over a go-client connection.
type clientEditor struct {
	v *client.Nvim
}

func (e *clientEditor) Cursor(ctx context.Context) (Cursor, error) {
	if err := ctx.Err(); err != nil {
		return Cursor{}, err
	}

	var (
		buf  client.Buffer
		line []byte
		col  int
		cwd  string
	)
	b := e.v.NewBatch()
	b.CurrentBuffer(&buf)
	b.CurrentLine(&line)
	b.Call("col", &col, ".")
	b.Call("getcwd", &cwd)
	if err := b.Execute(); err != nil {
		return Cursor{}, fmt.Errorf("read cursor: %w", err)
	}

	return Cursor{BufferID: int(buf), Line: string(line), Col: col, Cwd: cwd}, nil
}

func (e *clientEditor) ShowCompletion(ctx context.Context, startCol int, words []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if words == nil {
		words = []string{}
	}
	if err := e.v.Call("complete", nil, startCol, words); err != nil {
		return fmt.Errorf("show completion: %w", err)
	}
	return nil
}
