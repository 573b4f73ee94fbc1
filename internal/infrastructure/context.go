package infrastructure

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type contextKey string

// TraceIDContextKey holds the run trace id. Every job process and every HTTP
// request gets one.
const TraceIDContextKey contextKey = "trace_id"

// WithTraceID returns ctx carrying traceID
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, TraceIDContextKey, traceID)
}

// GetTraceID returns the trace id carried by ctx, or "".
func GetTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(TraceIDContextKey).(string)
	return id
}

// EnsureTraceID adds a fresh uuid trace id unless ctx already has one
func EnsureTraceID(ctx context.Context) context.Context {
	if GetTraceID(ctx) != "" {
		return ctx
	}
	return WithTraceID(ctx, uuid.NewString())
}

// WithComponent tags logger with the component name
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}
