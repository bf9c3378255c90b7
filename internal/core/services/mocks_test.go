package services

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// --- Fake sources ---

// listSource returns a fixed list of texts.
type listSource struct {
	texts []string
}

func (s *listSource) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	entries := make([]domain.Entry, len(s.texts))
	for i, text := range s.texts {
		entries[i] = domain.NewEntry(text)
	}
	return entries, nil
}

// failingSource always returns err.
type failingSource struct {
	err error
}

func (s *failingSource) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	return nil, s.err
}

// panickingSource panics on every call.
type panickingSource struct{}

func (panickingSource) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	panic("boom")
}

// gatedSource signals started, then blocks until gate is closed. When
// honourCtx is set it also returns early once ctx is done.
type gatedSource struct {
	texts     []string
	started   chan struct{}
	gate      chan struct{}
	honourCtx bool
}

func newGatedSource(honourCtx bool, texts ...string) *gatedSource {
	return &gatedSource{
		texts:     texts,
		started:   make(chan struct{}, 16),
		gate:      make(chan struct{}),
		honourCtx: honourCtx,
	}
}

func (s *gatedSource) Produce(ctx context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	s.started <- struct{}{}
	if s.honourCtx {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else {
		<-s.gate
	}
	entries := make([]domain.Entry, len(s.texts))
	for i, text := range s.texts {
		entries[i] = domain.NewEntry(text)
	}
	return entries, nil
}

func (s *gatedSource) release() {
	close(s.gate)
}

// slowSource blocks until ctx is done.
type slowSource struct{}

func (slowSource) Produce(ctx context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// burstSource produces n distinct entries.
type burstSource struct {
	n int
}

func (s *burstSource) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	entries := make([]domain.Entry, s.n)
	for i := range entries {
		entries[i] = domain.NewEntry(fmt.Sprintf("word%03d", i))
	}
	return entries, nil
}

// probeSource records the highest number of simultaneous calls.
type probeSource struct {
	active atomic.Int32
	peak   atomic.Int32
	delay  time.Duration
}

func (s *probeSource) Produce(_ context.Context, _ domain.MatchContext) ([]domain.Entry, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		peak := s.peak.Load()
		if n <= peak || s.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(s.delay)
	return []domain.Entry{domain.NewEntry("probe")}, nil
}

// lineCall is one recorded OnLinesChanged invocation.
type lineCall struct {
	bufferID, start, end int
	lines                []string
}

// observingSource records line changes and returns err from OnLinesChanged.
type observingSource struct {
	listSource
	mu    sync.Mutex
	calls []lineCall
	err   error
}

func (s *observingSource) OnLinesChanged(_ context.Context, bufferID, start, end int, lines []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, lineCall{bufferID: bufferID, start: start, end: end, lines: lines})
	return s.err
}

// --- Delivery recording ---

type delivery struct {
	tag     string
	entries []domain.Entry
}

type recorder struct {
	mu         sync.Mutex
	deliveries []delivery
}

func (r *recorder) deliverAs(tag string) driving.DeliverFunc {
	return func(_ context.Context, entries []domain.Entry) error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.deliveries = append(r.deliveries, delivery{tag: tag, entries: entries})
		return nil
	}
}

func (r *recorder) tags() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.deliveries))
	for i, d := range r.deliveries {
		out[i] = d.tag
	}
	return out
}

func (r *recorder) last() []domain.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.deliveries) == 0 {
		return nil
	}
	return r.deliveries[len(r.deliveries)-1].entries
}

// --- Helpers ---

func waitCycle(t *testing.T, cycle driving.Cycle) {
	t.Helper()
	select {
	case <-cycle.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("cycle %s did not finish, state %s", cycle.ID(), cycle.State())
	}
}

func waitStarted(t *testing.T, s *gatedSource) {
	t.Helper()
	select {
	case <-s.started:
	case <-time.After(5 * time.Second):
		t.Fatal("source was not invoked")
	}
}

func typeString(t *testing.T, c *Completor, s string) {
	t.Helper()
	for _, r := range s {
		if err := c.TypeChar(string(r)); err != nil {
			t.Fatalf("type %q: %v", r, err)
		}
	}
}
