package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"gopkg.in/natefinch/lumberjack.v2"

	"indicators/internal/config"
)

var (
	// globalLogger holds the process-wide logger instance
	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
	// globalLogFile holds the rotating log file for cleanup
	globalLogFile *lumberjack.Logger
	logFileMu     sync.Mutex
)

// InitializeLogger creates and configures the global slog logger. Console
// output goes to console; job binaries pass os.Stderr so stdout stays free
// for results.
func InitializeLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	var err error
	globalLoggerOnce.Do(func() {
		globalLogger, err = NewLogger(cfg, console)
		if globalLogger != nil {
			slog.SetDefault(globalLogger)
		}
	})
	return globalLogger, err
}

// GetLogger returns the global logger instance.
// If not initialized, returns the default slog logger.
func GetLogger() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

// NewLogger builds a JSON slog logger writing to console, to a rotating file,
// or to both.
func NewLogger(cfg config.LoggingConfig, console io.Writer) (*slog.Logger, error) {
	if console == nil {
		console = os.Stdout
	}
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     parseLogLevel(cfg.Level),
	}

	var output io.Writer
	switch strings.ToLower(cfg.Output) {
	case "file":
		file, err := openLogFile(cfg)
		if err != nil {
			return nil, err
		}
		output = file
	case "both":
		file, err := openLogFile(cfg)
		if err != nil {
			return nil, err
		}
		output = io.MultiWriter(console, file)
	default:
		output = console
	}

	handler := slog.NewJSONHandler(output, opts)
	return slog.New(&contextHandler{Handler: handler}), nil
}

// contextHandler stamps every record with the run trace id and, inside an
// OpenTelemetry span, the span id.
type contextHandler struct {
	slog.Handler
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasSpanID() {
		r.AddAttrs(slog.String("span_id", sc.SpanID().String()))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name)}
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// CloseLogFile closes the rotating log file if open.
func CloseLogFile() error {
	logFileMu.Lock()
	defer logFileMu.Unlock()

	if globalLogFile != nil {
		err := globalLogFile.Close()
		globalLogFile = nil
		return err
	}
	return nil
}

// ResetLoggerForTesting resets the global logger state.
// This should only be called in tests.
func ResetLoggerForTesting() {
	_ = CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}
}

// openLogFile prepares a size-rotated log file
func openLogFile(cfg config.LoggingConfig) (*lumberjack.Logger, error) {
	dir := filepath.Dir(cfg.FilePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
	}

	file := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
	}

	logFileMu.Lock()
	if globalLogFile != nil {
		_ = globalLogFile.Close()
	}
	globalLogFile = file
	logFileMu.Unlock()

	return file, nil
}
