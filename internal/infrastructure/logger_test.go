package infrastructure

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salespulse/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	t.Cleanup(ResetLoggerForTesting)

	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "debug",
		Format:   "json",
		Output:   "file",
		FilePath: logPath,
	})

	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("hello")
	require.NoError(t, CloseLogFile())

	assert.FileExists(t, logPath)
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "run-123")
	assert.Equal(t, "run-123", GetRunID(ctx))

	// EnsureRunID keeps an existing ID
	assert.Equal(t, "run-123", GetRunID(EnsureRunID(ctx)))

	// and generates one when absent
	generated := GetRunID(EnsureRunID(context.Background()))
	assert.NotEmpty(t, generated)
}

func TestGenerateRunID_Unique(t *testing.T) {
	a := GenerateRunID()
	b := GenerateRunID()

	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
