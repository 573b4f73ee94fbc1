package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"indicators/internal/config"
)

func TestInitializeLoggerBothOutputs(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	var console bytes.Buffer

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:     "info",
		Output:    "both",
		FilePath:  logFile,
		MaxSizeMB: 1,
	}, &console)
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("job_started", "job", "inflation")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"job_started"`)
	assert.Contains(t, console.String(), `"job":"inflation"`)
	assert.Same(t, logger, GetLogger())
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "warn", Output: "console"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
}

func TestTraceHandlerInjectsTraceID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), "run-123")
	logger.With("component", "test").InfoContext(ctx, "fetch_completed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, "run-123", entry["trace_id"])
	assert.Equal(t, "test", entry["component"])
	assert.Contains(t, entry, "source")
}

func TestContextHandlerAddsSpanID(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(config.LoggingConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider()
	defer func() { _ = tp.Shutdown(context.Background()) }()
	ctx, span := tp.Tracer("test").Start(context.Background(), "load")
	logger.InfoContext(ctx, "load_completed")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &entry))
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
	assert.NotContains(t, entry, "trace_id")
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "ERROR", parseLogLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}

func TestEnsureTraceID(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, 36)
	assert.Equal(t, id, GetTraceID(EnsureTraceID(ctx)))
	assert.Empty(t, GetTraceID(context.Background()))
}
