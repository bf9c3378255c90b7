package nvim

import (
	"context"
	"errors"
	"fmt"
	"io"

	client "github.com/neovim/go-client/nvim"
	"go.uber.org/zap"
)

// Server connects the handler to an editor over msgpack-rpc.
type Server struct {
	ports  *Ports
	logger *zap.Logger
}

// NewServer creates a server with the given ports.
func NewServer(ports *Ports, logger *zap.Logger) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ports: ports, logger: logger}, nil
}

// Serve speaks msgpack-rpc over r and w until the editor disconnects or ctx
// is cancelled. When started as an editor job, r is stdin and w is stdout.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer, c io.Closer) error {
	v, err := client.New(r, w, c, s.logger.Sugar().Named("rpc").Debugf)
	if err != nil {
		return fmt.Errorf("create rpc client: %w", err)
	}

	h, err := NewHandler(ctx, s.ports, &clientEditor{v: v}, s.logger)
	if err != nil {
		return err
	}
	defer h.Close()

	for name, fn := range h.Methods() {
		if err := v.RegisterHandler(name, fn); err != nil {
			return fmt.Errorf("register %s: %w", name, err)
		}
	}

	stop := context.AfterFunc(ctx, func() {
		_ = v.Close()
	})
	defer stop()

	s.logger.Info("serving editor", zap.Int("methods", len(h.Methods())))
	err = v.Serve()
	if ctx.Err() != nil || err == nil || errors.Is(err, io.EOF) {
		s.logger.Info("editor disconnected")
		return nil
	}
	return fmt.Errorf("serve: %w", err)
}
