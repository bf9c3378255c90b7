package nvim

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/custodia-labs/quill/internal/core/domain"
)

// Methods served to the editor.
const (
	MethodVChar          = "v_char"
	MethodInsertLeave    = "insert_leave"
	MethodComplete       = "complete"
	MethodBufInitialize  = "buf_initialize"
	MethodBufAttachLines = "buf_attach_lines"
	MethodFindStart      = "find_start"
	MethodCompleteSync   = "complete_sync"
)

// NoMatcher is what find_start returns for a buffer that has not been
// initialised. Used as a completefunc result it cancels silently.
const NoMatcher = -2

// queueSize bounds the notifications waiting for the worker.
const queueSize = 256

// MethodFunc is the shape of every RPC handler.
type MethodFunc func(args ...interface{}) (interface{}, error)

// Handler implements the RPC methods. Notifications that change state are
// applied in arrival order on a single worker; requests run on the
// caller's goroutine.
type Handler struct {
	ports  *Ports
	editor Editor
	logger *zap.Logger
	queue  *queue
	ctx    context.Context
}

// NewHandler creates a handler. ctx bounds every cycle the handler starts.
func NewHandler(ctx context.Context, ports *Ports, editor Editor, logger *zap.Logger) (*Handler, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		ports:  ports,
		editor: editor,
		logger: logger,
		queue:  newQueue(queueSize),
		ctx:    ctx,
	}, nil
}

// Methods returns the method table to register with the RPC endpoint.
func (h *Handler) Methods() map[string]MethodFunc {
	return map[string]MethodFunc{
		MethodVChar:          h.VChar,
		MethodInsertLeave:    h.InsertLeave,
		MethodComplete:       h.Complete,
		MethodBufInitialize:  h.BufInitialize,
		MethodBufAttachLines: h.BufAttachLines,
		MethodFindStart:      h.FindStart,
		MethodCompleteSync:   h.CompleteSync,
	}
}

// Close waits for queued notifications to finish. Later notifications
// fail with domain.ErrClosed.
func (h *Handler) Close() {
	h.queue.close()
}

// VChar records one typed character: v_char(char).
func (h *Handler) VChar(args ...interface{}) (interface{}, error) {
	char, err := stringArg(MethodVChar, args, 0, "char")
	if err != nil {
		return nil, h.rejected(MethodVChar, err)
	}
	return nil, h.enqueue(MethodVChar, func(context.Context) error {
		return h.ports.Completion.TypeChar(char)
	})
}

// InsertLeave clears the match string: insert_leave().
func (h *Handler) InsertLeave(_ ...interface{}) (interface{}, error) {
	return nil, h.enqueue(MethodInsertLeave, func(context.Context) error {
		h.ports.Completion.ClearUserMatch()
		return nil
	})
}

// Complete starts a completion cycle at the cursor: complete().
func (h *Handler) Complete(_ ...interface{}) (interface{}, error) {
	return nil, h.enqueue(MethodComplete, h.complete)
}

func (h *Handler) complete(ctx context.Context) error {
	if h.editor == nil {
		return fmt.Errorf("no editor connected: %w", domain.ErrMissingContext)
	}

	cur, err := h.editor.Cursor(ctx)
	if err != nil {
		return err
	}

	start, word := wordBeforeCursor(h.ports.Matchers.Lookup(cur.BufferID), cur.Line, cur.Col-1)
	req := domain.CompletionRequest{Word: word, Cwd: cur.Cwd, BufferID: cur.BufferID}

	cycle, err := h.ports.Completion.Trigger(ctx, req, func(ctx context.Context, entries []domain.Entry) error {
		return h.editor.ShowCompletion(ctx, start+1, domain.Texts(entries))
	})
	if err != nil {
		return err
	}
	if cycle != nil {
		h.logger.Debug("completion triggered",
			zap.String("cycle", cycle.ID()),
			zap.Int("buffer", cur.BufferID),
			zap.String("word", word))
	}
	return nil
}

// BufInitialize installs a buffer's keyword definition:
// buf_initialize(buffer, iskeyword). As a request it reports parse errors.
func (h *Handler) BufInitialize(args ...interface{}) (interface{}, error) {
	buf, err := intArg(MethodBufInitialize, args, 0, "buffer")
	if err != nil {
		return nil, h.rejected(MethodBufInitialize, err)
	}
	spec, err := stringArg(MethodBufInitialize, args, 1, "iskeyword")
	if err != nil {
		return nil, h.rejected(MethodBufInitialize, err)
	}

	err = h.queue.do(func() error {
		_, err := h.ports.Matchers.Set(buf, spec)
		return err
	})
	if err != nil {
		h.logger.Warn("buffer not initialised",
			zap.Int("buffer", buf), zap.String("iskeyword", spec), zap.Error(err))
		return nil, err
	}
	h.logger.Debug("buffer initialised", zap.Int("buffer", buf), zap.String("iskeyword", spec))
	return nil, nil
}

// BufAttachLines reports replaced lines:
// buf_attach_lines(buffer, start, end, lines). Lines [start, end) are
// replaced; an end of -1 means the end of the buffer.
func (h *Handler) BufAttachLines(args ...interface{}) (interface{}, error) {
	buf, err := intArg(MethodBufAttachLines, args, 0, "buffer")
	if err != nil {
		return nil, h.rejected(MethodBufAttachLines, err)
	}
	start, err := intArg(MethodBufAttachLines, args, 1, "start")
	if err != nil {
		return nil, h.rejected(MethodBufAttachLines, err)
	}
	end, err := intArg(MethodBufAttachLines, args, 2, "end")
	if err != nil {
		return nil, h.rejected(MethodBufAttachLines, err)
	}
	lines, err := stringsArg(MethodBufAttachLines, args, 3, "lines")
	if err != nil {
		return nil, h.rejected(MethodBufAttachLines, err)
	}

	return nil, h.enqueue(MethodBufAttachLines, func(ctx context.Context) error {
		h.ports.Completion.NotifyLinesChanged(ctx, buf, start, end, lines)
		return nil
	})
}

// FindStart returns the 0-based byte offset where the word before the
// cursor starts: find_start(buffer, line, cursor). cursor is the 0-based
// byte offset of the cursor. Returns NoMatcher for an uninitialised buffer.
func (h *Handler) FindStart(args ...interface{}) (interface{}, error) {
	buf, err := intArg(MethodFindStart, args, 0, "buffer")
	if err != nil {
		return nil, h.rejected(MethodFindStart, err)
	}
	line, err := stringArg(MethodFindStart, args, 1, "line")
	if err != nil {
		return nil, h.rejected(MethodFindStart, err)
	}
	cursor, err := intArg(MethodFindStart, args, 2, "cursor")
	if err != nil {
		return nil, h.rejected(MethodFindStart, err)
	}

	m, ok := h.ports.Matchers.Get(buf)
	if !ok {
		return NoMatcher, nil
	}
	start, _ := wordBeforeCursor(m, line, cursor)
	return start, nil
}

// CompleteSync ranks candidates and returns their texts:
// complete_sync(context, enabled). context may hold "word", "user_match",
// "cwd" and "buffer"; enabled maps source names to booleans and may be
// omitted.
func (h *Handler) CompleteSync(args ...interface{}) (interface{}, error) {
	mc, err := matchContextArg(args)
	if err != nil {
		return nil, h.rejected(MethodCompleteSync, err)
	}
	enabled, err := enabledArg(args)
	if err != nil {
		return nil, h.rejected(MethodCompleteSync, err)
	}

	entries, err := h.ports.Completion.CompleteSync(h.ctx, mc, enabled)
	if err != nil {
		return nil, err
	}
	return domain.Texts(entries), nil
}

func matchContextArg(args []interface{}) (domain.MatchContext, error) {
	m, err := mapArg(MethodCompleteSync, args, 0, "context")
	if err != nil {
		return domain.MatchContext{}, err
	}

	var mc domain.MatchContext
	for key, dst := range map[string]*string{"word": &mc.Word, "user_match": &mc.UserMatch, "cwd": &mc.Cwd} {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		s, ok := toString(v)
		if !ok {
			return domain.MatchContext{}, argError(MethodCompleteSync, "context."+key, "must be a string")
		}
		*dst = s
	}
	if v, ok := m["buffer"]; ok && v != nil {
		n, ok := toInt(v)
		if !ok {
			return domain.MatchContext{}, argError(MethodCompleteSync, "context.buffer", "must be an integer")
		}
		mc.BufferID = n
	}
	return mc, nil
}

func enabledArg(args []interface{}) (map[string]bool, error) {
	if len(args) < 2 || args[1] == nil {
		return nil, nil
	}
	m, ok := toMap(args[1])
	if !ok {
		// An empty Lua table arrives as an empty list.
		if list, isList := args[1].([]interface{}); isList && len(list) == 0 {
			return nil, nil
		}
		return nil, argError(MethodCompleteSync, "enabled", "must be a map")
	}
	enabled := make(map[string]bool, len(m))
	for name, v := range m {
		on, ok := toBool(v)
		if !ok {
			return nil, argError(MethodCompleteSync, "enabled."+name, "must be a boolean")
		}
		enabled[name] = on
	}
	return enabled, nil
}

// enqueue schedules job on the worker. Failures are logged there since a
// notification has nobody to report to.
func (h *Handler) enqueue(method string, job func(ctx context.Context) error) error {
	err := h.queue.push(func() {
		if err := job(h.ctx); err != nil {
			h.logger.Warn("notification failed", zap.String("method", method), zap.Error(err))
		}
	})
	if err != nil {
		h.logger.Debug("notification dropped", zap.String("method", method), zap.Error(err))
	}
	return err
}

func (h *Handler) rejected(method string, err error) error {
	h.logger.Warn("bad arguments", zap.String("method", method), zap.Error(err))
	return err
}
