package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ensure Cycle implements the interface.
var _ driving.Cycle = (*Cycle)(nil)

// Cycle tracks one notification-driven completion pass.
type Cycle struct {
	id         string
	generation uint64

	mu    sync.Mutex
	state domain.CycleState
	done  chan struct{}
}

func newCycle(generation uint64) *Cycle {
	return &Cycle{
		id:         uuid.NewString(),
		generation: generation,
		state:      domain.CycleIdle,
		done:       make(chan struct{}),
	}
}

// ID returns the cycle's unique identifier.
func (c *Cycle) ID() string {
	return c.id
}

// Generation returns the token value the cycle was issued with.
func (c *Cycle) Generation() uint64 {
	return c.generation
}

// State returns the current lifecycle stage.
func (c *Cycle) State() domain.CycleState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Done is closed once the cycle reaches a terminal state.
func (c *Cycle) Done() <-chan struct{} {
	return c.done
}

func (c *Cycle) setState(state domain.CycleState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.IsTerminal() {
		return
	}
	c.state = state
	if state.IsTerminal() {
		close(c.done)
	}
}
