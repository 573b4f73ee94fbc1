package operations

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestJobTracerRecordsSpansAndMetrics(t *testing.T) {
	ctx := context.Background()

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() {
		_ = tp.Shutdown(ctx)
		_ = mp.Shutdown(ctx)
	})

	tracer, err := NewJobTracer(tp.Tracer(TracerName), mp.Meter(TracerName))
	require.NoError(t, err)

	runner := &fakeRunner{exitCodes: map[string]int{"inflation": 1}}
	orch := NewOrchestrator(runner, slog.New(slog.DiscardHandler), tracer)
	orch.Run(ctx, []JobSpec{
		spec("employment", time.Second),
		spec("inflation", time.Second),
	})

	ended := spans.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "job.employment", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Equal(t, "job.inflation", ended[1].Name())
	assert.Equal(t, codes.Error, ended[1].Status().Code)
	assert.Contains(t, ended[1].Attributes(), attribute.String("job.status", "failure"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	runs := findMetric(t, rm, "job_runs")
	sum, ok := runs.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	byStatus := map[string]int64{}
	for _, dp := range sum.DataPoints {
		status, _ := dp.Attributes.Value("status")
		byStatus[status.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{"success": 1, "failure": 1}, byStatus)

	duration := findMetric(t, rm, "job_duration")
	assert.Equal(t, "s", duration.Unit)
}

func TestJobTracerRecordsError(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	tracer, err := NewJobTracer(tp.Tracer(TracerName), nil)
	require.NoError(t, err)

	ctx, span := tracer.StartJob(context.Background(), spec("B", time.Second), 1)
	tracer.FinishJob(ctx, span, JobResult{JobName: "B", Status: StatusTimeout, Err: errors.New("deadline")})

	ended := spans.Ended()
	require.Len(t, ended, 1)
	require.Len(t, ended[0].Events(), 1)
	assert.Equal(t, "exception", ended[0].Events()[0].Name)
	assert.Contains(t, ended[0].Attributes(), attribute.Int("job.index", 1))
}

func findMetric(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Metrics {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m
			}
		}
	}
	t.Fatalf("metric %s not collected", name)
	return metricdata.Metrics{}
}
