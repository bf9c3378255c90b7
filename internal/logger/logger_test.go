package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/custodia-labs/quill/internal/core/domain"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "quill.log")

	log, err := New(domain.LogSettings{Path: path, Level: domain.LogLevelInfo}, false)
	require.NoError(t, err)

	log.Info("cycle delivered", zap.String("cycle", "abc"))
	log.Debug("hidden at info")
	_ = log.Sync()

	out := readLog(t, path)
	assert.Contains(t, out, `"msg":"cycle delivered"`)
	assert.Contains(t, out, `"cycle":"abc"`)
	assert.Contains(t, out, `"pid":`)
	assert.NotContains(t, out, "hidden at info")
}

func TestNew_VerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.log")

	log, err := New(domain.LogSettings{Path: path, Level: domain.LogLevelError}, true)
	require.NoError(t, err)

	log.Debug("visible")
	_ = log.Sync()

	assert.Contains(t, readLog(t, path), "visible")
}

func TestNew_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quill.log")

	log, err := New(domain.LogSettings{Path: path, Level: domain.LogLevelWarn}, false)
	require.NoError(t, err)

	log.Info("dropped")
	log.Warn("kept")
	_ = log.Sync()

	out := readLog(t, path)
	assert.False(t, strings.Contains(out, "dropped"))
	assert.Contains(t, out, "kept")
}

func TestLevel(t *testing.T) {
	tests := []struct {
		in   domain.LogLevel
		want zapcore.Level
	}{
		{domain.LogLevelDebug, zapcore.DebugLevel},
		{domain.LogLevelInfo, zapcore.InfoLevel},
		{domain.LogLevelWarn, zapcore.WarnLevel},
		{domain.LogLevelError, zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"loud", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, Level(tt.in))
		})
	}
}

func TestDefaultPath(t *testing.T) {
	path := DefaultPath()

	assert.Equal(t, "quill.log", filepath.Base(path))
	assert.Equal(t, "quill", filepath.Base(filepath.Dir(path)))
}
