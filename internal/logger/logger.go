package logger

import (
	"context"
	"io"
	"log/slog"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// New builds a slog.Logger backed by charmbracelet/log. Unknown levels fall
// back to info; format is "text" or "json".
func New(w io.Writer, level, format string) *slog.Logger {
	lvl, err := charmlog.ParseLevel(level)
	if err != nil {
		lvl = charmlog.InfoLevel
	}

	formatter := charmlog.TextFormatter
	if format == "json" {
		formatter = charmlog.JSONFormatter
	}

	handler := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Level:           lvl,
		Prefix:          "ledger",
		Formatter:       formatter,
	})
	return slog.New(handler)
}

type requestIDKey struct{}

// WithRequestID returns a copy of ctx carrying the request id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// FromContext tags l with the request id carried by ctx, if any.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if id := RequestID(ctx); id != "" {
		return l.With("request_id", id)
	}
	return l
}
