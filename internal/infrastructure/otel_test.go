package infrastructure

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric"

	"indicators/internal/config"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeTelemetryExposesMetrics(t *testing.T) {
	ctx := context.Background()
	p, err := InitializeTelemetry(ctx, config.TelemetryConfig{ServiceName: "test", TraceExporter: "none"}, nil, quietLogger())
	require.NoError(t, err)
	defer p.Shutdown(ctx)

	counter, err := p.Meter.Int64Counter("indicators_test_total", metric.WithDescription("test counter"))
	require.NoError(t, err)
	counter.Add(ctx, 3)

	rec := httptest.NewRecorder()
	p.MetricsHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "indicators_test_total")
}

func TestInitializeTelemetryStdoutTraces(t *testing.T) {
	ctx := context.Background()
	var traces bytes.Buffer
	p, err := InitializeTelemetry(ctx, config.TelemetryConfig{ServiceName: "test", TraceExporter: "stdout"}, &traces, quietLogger())
	require.NoError(t, err)

	spanCtx, span := p.Tracer.Start(ctx, "job")
	assert.NotEmpty(t, SpanTraceID(spanCtx))
	span.End()

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	require.NoError(t, p.Shutdown(shutdownCtx))
	assert.Contains(t, traces.String(), `"Name":"job"`)
}

func TestInitializeTelemetryRejectsUnknownExporter(t *testing.T) {
	_, err := InitializeTelemetry(context.Background(), config.TelemetryConfig{TraceExporter: "zipkin"}, nil, quietLogger())
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	ctx := context.Background()
	p, err := InitializeTelemetry(ctx, config.TelemetryConfig{ServiceName: "test"}, nil, quietLogger())
	require.NoError(t, err)
	defer p.Shutdown(ctx)

	counter, err := p.Meter.Int64Counter("indicators_batch_jobs_total")
	require.NoError(t, err)
	counter.Add(ctx, 1)

	path := filepath.Join(t.TempDir(), "textfile", "indicators.prom")
	require.NoError(t, p.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "indicators_batch_jobs_total")

	assert.NoError(t, p.WriteTextfile(""))
}

func TestSpanTraceIDWithoutSpan(t *testing.T) {
	assert.Empty(t, SpanTraceID(context.Background()))
}
