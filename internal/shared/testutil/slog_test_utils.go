package testutil

import (
	"context"
	"log/slog"
	"sync"
	"testing"
)

// LogRecord is one captured log event
type LogRecord struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// recorder is shared by a handler and every handler derived from it with
// WithAttrs, so records logged through logger.With are captured too.
type recorder struct {
	mu      sync.Mutex
	records []LogRecord
}

// BufferedSlogHandler captures log records for assertions
type BufferedSlogHandler struct {
	rec   *recorder
	attrs []slog.Attr
	t     *testing.T
}

// NewBufferedSlogHandler creates a handler; t may be nil to silence test output
func NewBufferedSlogHandler(t *testing.T) *BufferedSlogHandler {
	return &BufferedSlogHandler{rec: &recorder{}, t: t}
}

// NewTestLogger creates a logger backed by a buffered handler
func NewTestLogger(t *testing.T) (*slog.Logger, *BufferedSlogHandler) {
	h := NewBufferedSlogHandler(t)
	return slog.New(h), h
}

func (h *BufferedSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *BufferedSlogHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	h.rec.mu.Lock()
	h.rec.records = append(h.rec.records, LogRecord{Level: r.Level, Message: r.Message, Attrs: attrs})
	h.rec.mu.Unlock()

	if h.t != nil {
		h.t.Logf("[%s] %s %v", r.Level, r.Message, attrs)
	}
	return nil
}

func (h *BufferedSlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &BufferedSlogHandler{rec: h.rec, attrs: merged, t: h.t}
}

// WithGroup is a no-op; group names are not recorded.
func (h *BufferedSlogHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of every captured record
func (h *BufferedSlogHandler) Records() []LogRecord {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	out := make([]LogRecord, len(h.rec.records))
	copy(out, h.rec.records)
	return out
}

// Find returns the records whose message is exactly message
func (h *BufferedSlogHandler) Find(message string) []LogRecord {
	var out []LogRecord
	for _, r := range h.Records() {
		if r.Message == message {
			out = append(out, r)
		}
	}
	return out
}

// Messages returns the message of every record in order
func (h *BufferedSlogHandler) Messages() []string {
	records := h.Records()
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Message
	}
	return out
}

// AssertLogged fails t unless an event named message was logged at level
// with every attr in want.
func AssertLogged(t *testing.T, h *BufferedSlogHandler, level slog.Level, message string, want map[string]any) {
	t.Helper()
	for _, r := range h.Find(message) {
		if r.Level != level {
			continue
		}
		matched := true
		for k, v := range want {
			if r.Attrs[k] != v {
				matched = false
				break
			}
		}
		if matched {
			return
		}
	}
	t.Errorf("no %s record %q with attrs %v; captured %v", level, message, want, h.Messages())
}

// AssertNoErrors fails t if anything was logged at error level
func AssertNoErrors(t *testing.T, h *BufferedSlogHandler) {
	t.Helper()
	for _, r := range h.Records() {
		if r.Level >= slog.LevelError {
			t.Errorf("unexpected error log %q: %v", r.Message, r.Attrs)
		}
	}
}
