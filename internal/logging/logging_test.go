package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "ParseLevel(%q)", tt.in)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "thermo.log")
	logger, closer, err := New(path, slog.LevelInfo)
	require.NoError(t, err)

	Wrap(logger).Warn("fetch failed", "attempt", 2)
	Wrap(logger).Debug("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "attempt=2")
	assert.NotContains(t, out, "hidden", "debug should be filtered")
}

func TestLogger_NilIsSafe(t *testing.T) {
	var l Logger
	assert.NotPanics(t, func() {
		l.Info("nothing")
		l.With("k", "v").Error("still nothing")
	})
	assert.NotNil(t, l.Slog(), "Slog() returned nil for zero Logger")
}
