package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/quill/internal/core/domain"
	"github.com/custodia-labs/quill/internal/core/ports/driven"
	"github.com/custodia-labs/quill/internal/core/ports/driving"
)

// Ensure Completor implements the interface.
var _ driving.CompletionService = (*Completor)(nil)

// registeredSource is one entry in the registration table.
// mu serialises every call into source, so overlapping cycles never run
// the same instance concurrently.
type registeredSource struct {
	name   string
	mu     sync.Mutex
	source driven.Source
}

// sourcedEntry is what travels over the relay: the entry plus the
// registration slot of the source that produced it.
type sourcedEntry struct {
	slot  int
	entry domain.Entry
}

// Completor is the completion orchestrator. It owns the registered sources,
// the text typed since the last boundary reset and the lifecycle of
// in-flight cycles.
//
// Shared state is guarded by one lock per piece: tableMu for the
// registration table, matchMu for the match string, tokenMu for the
// cancellation token and settingsMu for settings. deliverMu serialises the
// delivery boundary so a later cycle's result always lands last.
type Completor struct {
	logger *zap.Logger
	scorer Scorer

	tableMu sync.RWMutex
	table   map[string]*registeredSource
	order   []string

	matchMu      sync.Mutex
	boundaryChar rune
	hasBoundary  bool
	userMatch    string

	settingsMu sync.RWMutex
	settings   domain.CompletionSettings
	gate       *rate.Limiter

	tokenMu    sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
	closed     bool

	deliverMu sync.Mutex

	baseCtx context.Context
	stop    context.CancelFunc
	wg      sync.WaitGroup
}

// NewCompletor creates an orchestrator with no sources registered.
// Invalid settings are replaced by their defaults. A nil logger disables logging.
func NewCompletor(settings domain.CompletionSettings, logger *zap.Logger) *Completor {
	if logger == nil {
		logger = zap.NewNop()
	}

	baseCtx, stop := context.WithCancel(context.Background())
	c := &Completor{
		logger:  logger,
		scorer:  FuzzyScorer{},
		table:   make(map[string]*registeredSource),
		baseCtx: baseCtx,
		stop:    stop,
	}
	c.applySettings(settings.Normalise())
	return c
}

// SetScorer replaces the relevance scorer used by future cycles.
func (c *Completor) SetScorer(scorer Scorer) {
	if scorer == nil {
		scorer = FuzzyScorer{}
	}
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()
	c.scorer = scorer
}

// Register adds source under name, replacing any source already registered
// under that name.
func (c *Completor) Register(name string, source driven.Source) error {
	if name == "" || source == nil {
		return fmt.Errorf("register source %q: %w", name, domain.ErrInvalidInput)
	}

	c.tableMu.Lock()
	defer c.tableMu.Unlock()

	if _, exists := c.table[name]; !exists {
		c.order = append(c.order, name)
	}
	c.table[name] = &registeredSource{name: name, source: source}

	c.logger.Debug("source registered", zap.String("source", name))
	return nil
}

// Unregister removes the source registered under name.
func (c *Completor) Unregister(name string) bool {
	c.tableMu.Lock()
	defer c.tableMu.Unlock()

	if _, exists := c.table[name]; !exists {
		return false
	}
	delete(c.table, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Sources returns registered names in registration order.
func (c *Completor) Sources() []string {
	c.tableMu.RLock()
	defer c.tableMu.RUnlock()
	return append([]string(nil), c.order...)
}

// snapshot returns the registered sources in order, keeping only those
// enabled allows. A nil enabled map keeps everything.
func (c *Completor) snapshot(enabled map[string]bool) []*registeredSource {
	c.tableMu.RLock()
	defer c.tableMu.RUnlock()

	out := make([]*registeredSource, 0, len(c.order))
	for _, name := range c.order {
		if on, ok := enabled[name]; ok && !on {
			continue
		}
		out = append(out, c.table[name])
	}
	return out
}

// SetBoundaryChar records the most recently typed character.
func (c *Completor) SetBoundaryChar(s string) error {
	r, err := singleChar(s)
	if err != nil {
		return err
	}

	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	c.boundaryChar = r
	c.hasBoundary = true
	return nil
}

// UpdateUserMatch folds the recorded character into the match string.
func (c *Completor) UpdateUserMatch() {
	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	c.updateLocked()
}

// TypeChar records s and folds it into the match string under one lock.
func (c *Completor) TypeChar(s string) error {
	r, err := singleChar(s)
	if err != nil {
		return err
	}

	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	c.boundaryChar = r
	c.hasBoundary = true
	c.updateLocked()
	return nil
}

func (c *Completor) updateLocked() {
	if !c.hasBoundary {
		return
	}
	if c.boundaryChar == ' ' {
		c.userMatch = ""
		return
	}
	c.userMatch += string(c.boundaryChar)
}

// ClearUserMatch empties the match string.
func (c *Completor) ClearUserMatch() {
	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	c.userMatch = ""
}

// UserMatch returns a snapshot of the match string.
func (c *Completor) UserMatch() string {
	c.matchMu.Lock()
	defer c.matchMu.Unlock()
	return c.userMatch
}

// Settings returns the active completion settings.
func (c *Completor) Settings() domain.CompletionSettings {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.settings
}

// SetSettings replaces the completion settings for future cycles.
func (c *Completor) SetSettings(settings domain.CompletionSettings) error {
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("completion settings: %w", err)
	}
	c.applySettings(settings)
	c.logger.Info("completion settings applied",
		zap.Int("max_results", settings.MaxResults),
		zap.Duration("debounce", settings.Debounce),
		zap.Int("relay_buffer", settings.RelayBuffer),
		zap.Int("max_concurrent_sources", settings.MaxConcurrentSources),
		zap.Duration("source_timeout", settings.SourceTimeout))
	return nil
}

func (c *Completor) applySettings(settings domain.CompletionSettings) {
	c.settingsMu.Lock()
	defer c.settingsMu.Unlock()

	c.settings = settings
	c.gate = nil
	if settings.Debounce > 0 {
		c.gate = rate.NewLimiter(rate.Every(settings.Debounce), 1)
	}
}

// allow reports whether the debounce gate lets a trigger through.
func (c *Completor) allow() bool {
	c.settingsMu.RLock()
	gate := c.gate
	c.settingsMu.RUnlock()
	return gate == nil || gate.Allow()
}

func (c *Completor) config() (domain.CompletionSettings, Scorer) {
	c.settingsMu.RLock()
	defer c.settingsMu.RUnlock()
	return c.settings, c.scorer
}

// Trigger starts a completion cycle in the background, superseding the
// current one. The previous cycle's context is cancelled, and its result is
// discarded at the delivery boundary even if its sources run to completion.
func (c *Completor) Trigger(
	ctx context.Context, req domain.CompletionRequest, deliver driving.DeliverFunc,
) (driving.Cycle, error) {
	if deliver == nil {
		return nil, fmt.Errorf("trigger: nil deliver: %w", domain.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !c.allow() {
		c.logger.Debug("trigger suppressed by debounce")
		return nil, nil
	}

	mc := domain.MatchContext{
		UserMatch: c.UserMatch(),
		Word:      req.Word,
		Cwd:       req.Cwd,
		BufferID:  req.BufferID,
	}
	sources := c.snapshot(nil)
	settings, scorer := c.config()

	c.tokenMu.Lock()
	if c.closed {
		c.tokenMu.Unlock()
		return nil, domain.ErrClosed
	}
	if c.cancelPrev != nil {
		c.cancelPrev()
	}
	c.generation++
	cycle := newCycle(c.generation)
	cycleCtx, cancel := context.WithCancel(c.baseCtx)
	c.cancelPrev = cancel
	c.wg.Add(1)
	c.tokenMu.Unlock()

	go func() {
		defer c.wg.Done()
		defer cancel()
		c.run(cycleCtx, cycle, mc, sources, settings, scorer, deliver)
	}()

	return cycle, nil
}

// isCurrent reports whether generation is still the latest issued token.
func (c *Completor) isCurrent(generation uint64) bool {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()
	return !c.closed && c.generation == generation
}

func (c *Completor) run(
	ctx context.Context,
	cycle *Cycle,
	mc domain.MatchContext,
	sources []*registeredSource,
	settings domain.CompletionSettings,
	scorer Scorer,
	deliver driving.DeliverFunc,
) {
	log := c.logger.With(
		zap.String("cycle", cycle.ID()),
		zap.Uint64("generation", cycle.Generation()),
		zap.String("user_match", mc.UserMatch),
	)
	start := time.Now()

	cycle.setState(domain.CycleDispatching)
	log.Debug("dispatching", zap.Int("sources", len(sources)))

	entries := c.fanOut(ctx, cycle, log, mc, sources, settings)

	if !c.isCurrent(cycle.Generation()) {
		cycle.setState(domain.CycleSuperseded)
		log.Debug("superseded before ranking")
		return
	}

	cycle.setState(domain.CycleRanking)
	ranked := rank(scorer, mc.UserMatch, dedupe(entries), settings.MaxResults)

	c.deliverMu.Lock()
	defer c.deliverMu.Unlock()

	if !c.isCurrent(cycle.Generation()) {
		cycle.setState(domain.CycleSuperseded)
		log.Debug("superseded before delivery")
		return
	}

	if err := deliver(ctx, ranked); err != nil {
		cycle.setState(domain.CycleFailed)
		log.Warn("delivery failed", zap.Error(err))
		return
	}

	cycle.setState(domain.CycleDelivered)
	log.Debug("delivered",
		zap.Int("collected", len(entries)),
		zap.Int("delivered", len(ranked)),
		zap.Duration("elapsed", time.Since(start)))
}

// CompleteSync runs one cycle in the caller's goroutine and returns the
// ranked entries. It ranks against mc.UserMatch, or mc.Word when no match
// string is given.
func (c *Completor) CompleteSync(
	ctx context.Context, mc domain.MatchContext, enabled map[string]bool,
) ([]domain.Entry, error) {
	c.tokenMu.Lock()
	if c.closed {
		c.tokenMu.Unlock()
		return nil, domain.ErrClosed
	}
	c.wg.Add(1)
	c.tokenMu.Unlock()
	defer c.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stopAfter := context.AfterFunc(c.baseCtx, cancel)
	defer stopAfter()

	if mc.UserMatch == "" {
		mc.UserMatch = mc.Word
	}
	settings, scorer := c.config()
	sources := c.snapshot(enabled)

	log := c.logger.With(zap.String("user_match", mc.UserMatch), zap.Bool("sync", true))
	entries := c.fanOut(ctx, nil, log, mc, sources, settings)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return rank(scorer, mc.UserMatch, dedupe(entries), settings.MaxResults), nil
}

// fanOut invokes every source concurrently and collects their entries over a
// bounded relay. The result is ordered by registration slot, then by the
// order each source produced its entries. A failing source contributes
// nothing.
func (c *Completor) fanOut(
	ctx context.Context,
	cycle *Cycle,
	log *zap.Logger,
	mc domain.MatchContext,
	sources []*registeredSource,
	settings domain.CompletionSettings,
) []domain.Entry {
	relay := make(chan sourcedEntry, settings.RelayBuffer)

	var g errgroup.Group
	if settings.MaxConcurrentSources > 0 {
		g.SetLimit(settings.MaxConcurrentSources)
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer close(relay)

		for slot, src := range sources {
			g.Go(func() error {
				entries, err := c.invoke(ctx, src, mc, settings.SourceTimeout)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						log.Debug("source abandoned", zap.String("source", src.name))
					} else {
						log.Warn("source failed", zap.String("source", src.name), zap.Error(err))
					}
					return nil
				}
				for _, e := range entries {
					select {
					case relay <- sourcedEntry{slot: slot, entry: e}:
					case <-ctx.Done():
						return nil
					}
				}
				return nil
			})
		}
		_ = g.Wait()
	}()

	if cycle != nil {
		cycle.setState(domain.CycleCollecting)
	}

	perSlot := make([][]domain.Entry, len(sources))
	total := 0
	for se := range relay {
		perSlot[se.slot] = append(perSlot[se.slot], se.entry)
		total++
	}

	merged := make([]domain.Entry, 0, total)
	for _, entries := range perSlot {
		merged = append(merged, entries...)
	}
	return merged
}

// invoke calls one source under its lock. The wait is bounded by timeout
// and by ctx; an abandoned call keeps the lock until the source returns.
func (c *Completor) invoke(
	ctx context.Context, src *registeredSource, mc domain.MatchContext, timeout time.Duration,
) ([]domain.Entry, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		entries []domain.Entry
		err     error
	}
	done := make(chan result, 1)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		entries, err := src.produce(ctx, mc)
		done <- result{entries: entries, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, &SourceError{Source: src.name, Err: r.err}
		}
		return r.entries, nil
	case <-ctx.Done():
		return nil, &SourceError{Source: src.name, Err: ctx.Err()}
	}
}

func (s *registeredSource) produce(ctx context.Context, mc domain.MatchContext) (entries []domain.Entry, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	defer func() {
		if r := recover(); r != nil {
			entries, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()
	return s.source.Produce(ctx, mc)
}

// NotifyLinesChanged forwards a buffer change to every LineObserver source.
// Failures are logged per source and never propagated.
func (c *Completor) NotifyLinesChanged(ctx context.Context, bufferID, start, end int, lines []string) {
	for _, src := range c.snapshot(nil) {
		observer, ok := src.source.(driven.LineObserver)
		if !ok {
			continue
		}
		if err := src.observe(ctx, observer, bufferID, start, end, lines); err != nil {
			c.logger.Warn("source failed to apply line change",
				zap.String("source", src.name),
				zap.Int("buffer", bufferID),
				zap.Int("start", start),
				zap.Int("end", end),
				zap.Error(&SourceError{Source: src.name, Err: err}))
		}
	}
}

func (s *registeredSource) observe(
	ctx context.Context, observer driven.LineObserver, bufferID, start, end int, lines []string,
) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return observer.OnLinesChanged(ctx, bufferID, start, end, lines)
}

// Close cancels in-flight cycles and waits for every goroutine the
// orchestrator started, including abandoned source calls.
func (c *Completor) Close() error {
	c.tokenMu.Lock()
	if c.closed {
		c.tokenMu.Unlock()
		return nil
	}
	c.closed = true
	if c.cancelPrev != nil {
		c.cancelPrev()
	}
	c.tokenMu.Unlock()

	c.stop()
	c.wg.Wait()
	return nil
}

// singleChar validates that s holds exactly one character.
func singleChar(s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("expected one character, got %q: %w", s, domain.ErrMissingContext)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return 0, fmt.Errorf("invalid character %q: %w", s, domain.ErrMissingContext)
	}
	return r, nil
}
