package nvim

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/services"
	"github.com/custodia-labs/quill/internal/keyword"
)

type pipeCloser struct {
	closers []io.Closer
}

func (p pipeCloser) Close() error {
	for _, c := range p.closers {
		_ = c.Close()
	}
	return nil
}

func TestNewServer_ValidatesPorts(t *testing.T) {
	s, err := NewServer(&Ports{}, nil)

	assert.ErrorIs(t, err, ErrMissingCompletionService)
	assert.Nil(t, s)
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	completor := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	defer completor.Close()

	s, err := NewServer(&Ports{Completion: completor, Matchers: keyword.NewRegistry()}, nil)
	require.NoError(t, err)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() { _, _ = io.Copy(io.Discard, outR) }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, inR, outW, pipeCloser{closers: []io.Closer{inR, inW, outW}})
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServer_ServeReturnsOnDisconnect(t *testing.T) {
	completor := services.NewCompletor(domain.DefaultCompletionSettings(), nil)
	defer completor.Close()

	s, err := NewServer(&Ports{Completion: completor, Matchers: keyword.NewRegistry()}, nil)
	require.NoError(t, err)

	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	go func() { _, _ = io.Copy(io.Discard, outR) }()

	done := make(chan error, 1)
	go func() {
		done <- s.Serve(context.Background(), inR, outW, pipeCloser{closers: []io.Closer{inR, outW}})
	}()

	// The editor closing its end looks like EOF on stdin.
	require.NoError(t, inW.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after disconnect")
	}
}
