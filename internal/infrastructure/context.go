package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// GenerateRunID creates a new unique run ID using UUID v4
func GenerateRunID() string {
	return uuid.New().String()
}

// ContextWithRunID creates a new context with a generated run ID
func ContextWithRunID(ctx context.Context) context.Context {
	return WithRunID(ctx, GenerateRunID())
}

// EnsureRunID ensures the context has a run ID, generating one if needed
func EnsureRunID(ctx context.Context) context.Context {
	if GetRunID(ctx) == "" {
		return ContextWithRunID(ctx)
	}
	return ctx
}

// LoggerWithContext creates a logger that includes the run ID from context.
// This is the preferred way to get a logger inside pipeline stages.
func LoggerWithContext(ctx context.Context) *slog.Logger {
	logger := GetLogger()

	if runID := GetRunID(ctx); runID != "" {
		logger = logger.With("run_id", runID)
	}

	return logger
}
