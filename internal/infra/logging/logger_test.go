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
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nutshell.log")
	logger := New(path, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("timer", "test message")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[timer]")
	assert.Contains(t, string(content), "test message")
}

func TestLogger_LevelFilter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutshell.log")
	logger := New(path, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug("timer", "dropped")
	logger.Info("timer", "dropped too")
	logger.Error("timer", "kept")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "dropped")
	assert.Contains(t, string(content), "[ERROR] [timer] kept")
}

func TestLogger_DisabledWithoutPath(t *testing.T) {
	logger := New("", slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	// must not create files or panic
	logger.Info("timer", "into the void")
}
