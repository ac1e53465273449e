package utils

import (
	"context"
	"log/slog"
	"os"
)

type ctxKey string

const ctxKeyRequestID ctxKey = "request_id"

var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Logger returns the process-wide JSON logger
func Logger() *slog.Logger {
	return logger
}

// SetLogger replaces the process-wide logger (used for verbose mode and tests)
func SetLogger(l *slog.Logger) {
	logger = l
}

// WithRequestID stores a request id in the context
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, requestID)
}

// RequestID returns the request id stored in ctx, if any
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKeyRequestID).(string)
	return id
}

// LoggerFromContext adds request_id if present
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return logger.With("request_id", id)
	}
	return logger
}
