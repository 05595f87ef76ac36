package common

import (
	"context"

	"github.com/andrescamacho/bizsim-go/internal/domain/shared"
)

// Logger is the structured logger shared by handlers and domain components
type Logger = shared.Logger

type contextKey int

const (
	loggerKey contextKey = iota
)

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts the logger from context, falling back to a no-op logger
func LoggerFromContext(ctx context.Context) Logger {
	if logger, ok := ctx.Value(loggerKey).(Logger); ok && logger != nil {
		return logger
	}
	return shared.NopLogger{}
}
