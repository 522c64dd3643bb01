package logtail

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	require.NoError(t, os.WriteFile(logPath, []byte(content.String()), 0644))

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLevel(t *testing.T) {
	tests := []struct {
		line   string
		want   slog.Level
		wantOK bool
	}{
		{`time=2026-01-01T10:00:00Z level=INFO msg="fetch ok"`, slog.LevelInfo, true},
		{`time=2026-01-01T10:00:00Z level=WARN msg="attempt failed" attempt=1`, slog.LevelWarn, true},
		{`time=2026-01-01T10:00:00Z level=ERROR msg="retries exhausted"`, slog.LevelError, true},
		{`time=2026-01-01T10:00:00Z level=DEBUG msg=tick`, slog.LevelDebug, true},
		{`time=2026-01-01T10:00:00Z level=WARN+2 msg=odd`, slog.LevelWarn, true},
		{"panic: boom", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := Level(tt.line)
		assert.Equal(t, tt.want, got, tt.line)
		assert.Equal(t, tt.wantOK, ok, tt.line)
	}
}

func TestFilter(t *testing.T) {
	lines := []string{
		"level=DEBUG msg=tick",
		"level=INFO msg=started",
		"level=WARN msg=slow",
		"    continuation of warn",
		"level=DEBUG msg=tick",
		"    continuation of debug",
		"level=ERROR msg=down",
	}

	got := Filter(lines, slog.LevelWarn)
	want := []string{
		"level=WARN msg=slow",
		"    continuation of warn",
		"level=ERROR msg=down",
	}
	assert.Equal(t, want, got)

	assert.Len(t, Filter(lines, slog.LevelDebug), len(lines))
}
