// Package logger builds the process logger. Standard output carries the
// editor's RPC stream, so logs are written as JSON lines to a file.
package logger

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/custodia-labs/quill/internal/core/domain"
)

const fileName = "quill.log"

// DefaultPath returns the log file used when no path is configured.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "quill", fileName)
}

// Level maps a configured level to zap's. Unknown levels map to info.
func Level(l domain.LogLevel) zapcore.Level {
	switch l {
	case domain.LogLevelDebug:
		return zapcore.DebugLevel
	case domain.LogLevelWarn:
		return zapcore.WarnLevel
	case domain.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds a logger for settings. verbose forces the debug level.
// Callers should Sync the logger before exit.
func New(settings domain.LogSettings, verbose bool) (*zap.Logger, error) {
	path := settings.Path
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	level := Level(settings.Level)
	if verbose {
		level = zapcore.DebugLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.TimeKey = "ts"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.Sampling = nil

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.With(zap.Int("pid", os.Getpid())), nil
}
