package operations

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	TracerName = "indicators.operations"
)

// JobTracer records a span and metrics for every job
type JobTracer struct {
	tracer   trace.Tracer
	runs     metric.Int64Counter
	duration metric.Float64Histogram
	output   metric.Int64Histogram
}

// NewJobTracer creates a JobTracer. Nil arguments fall back to the global
// providers.
func NewJobTracer(tracer trace.Tracer, meter metric.Meter) (*JobTracer, error) {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if meter == nil {
		meter = otel.Meter(TracerName)
	}

	runs, err := meter.Int64Counter("job_runs",
		metric.WithDescription("Jobs run by the orchestrator, by job and status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create job_runs counter: %w", err)
	}

	duration, err := meter.Float64Histogram("job_duration",
		metric.WithDescription("Wall clock duration of each job"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(1, 5, 15, 30, 60, 120, 300, 600, 1200))
	if err != nil {
		return nil, fmt.Errorf("failed to create job_duration histogram: %w", err)
	}

	output, err := meter.Int64Histogram("job_output",
		metric.WithDescription("Bytes of output captured from each job"),
		metric.WithUnit("By"))
	if err != nil {
		return nil, fmt.Errorf("failed to create job_output histogram: %w", err)
	}

	return &JobTracer{tracer: tracer, runs: runs, duration: duration, output: output}, nil
}

// StartJob opens the span of one job
func (t *JobTracer) StartJob(ctx context.Context, spec JobSpec, index int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "job."+spec.Name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("job.name", spec.Name),
			attribute.String("job.command", spec.Command),
			attribute.StringSlice("job.args", spec.Args),
			attribute.Int("job.index", index),
			attribute.Float64("job.timeout_seconds", spec.Timeout.Seconds()),
		),
	)
}

// FinishJob records the result on span and in the job metrics, then ends span
func (t *JobTracer) FinishJob(ctx context.Context, span trace.Span, res JobResult) {
	attrs := metric.WithAttributes(
		attribute.String("job", res.JobName),
		attribute.String("status", string(res.Status)),
	)
	t.runs.Add(ctx, 1, attrs)
	t.duration.Record(ctx, res.Duration.Seconds(), attrs)
	t.output.Record(ctx, int64(len(res.Stdout)+len(res.Stderr)), attrs)

	span.SetAttributes(
		attribute.String("job.status", string(res.Status)),
		attribute.Int("job.exit_code", res.ExitCode),
		attribute.Float64("job.duration_seconds", res.Duration.Seconds()),
	)
	if res.Succeeded() {
		span.SetStatus(codes.Ok, "job completed")
	} else {
		if res.Err != nil {
			span.RecordError(res.Err)
		}
		span.SetStatus(codes.Error, fmt.Sprintf("job finished with status %s", res.Status))
	}
	span.End()
}
