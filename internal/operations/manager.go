package operations

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"indicators/internal/config"
)

// Orchestrator runs jobs sequentially with a timeout each
type Orchestrator struct {
	runner Runner
	logger *slog.Logger
	tracer *JobTracer
	now    func() time.Time
}

// NewOrchestrator creates an orchestrator. A nil tracer records to the
// global OpenTelemetry providers.
func NewOrchestrator(runner Runner, logger *slog.Logger, tracer *JobTracer) *Orchestrator {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if tracer == nil {
		// Instrument creation only fails on invalid names.
		tracer, _ = NewJobTracer(nil, nil)
	}
	return &Orchestrator{
		runner: runner,
		logger: logger.With(slog.String("component", "orchestrator")),
		tracer: tracer,
		now:    time.Now,
	}
}

// Run executes specs in order and returns exactly one result per spec, in
// the same order. A failed or timed out job does not stop the batch. Once
// ctx is cancelled the remaining jobs are reported as failures without
// being started.
func (o *Orchestrator) Run(ctx context.Context, specs []JobSpec) []JobResult {
	batchStart := o.now()
	o.logBatchStart(ctx, specs)

	results := make([]JobResult, 0, len(specs))
	for i, spec := range specs {
		results = append(results, o.runJob(ctx, spec, i))
	}

	o.logBatchComplete(ctx, Summarize(results), o.now().Sub(batchStart))
	return results
}

func (o *Orchestrator) runJob(ctx context.Context, spec JobSpec, index int) JobResult {
	ctx, span := o.tracer.StartJob(ctx, spec, index)
	res := o.execute(ctx, spec)
	o.tracer.FinishJob(ctx, span, res)
	o.logJobComplete(ctx, res)
	return res
}

func (o *Orchestrator) execute(ctx context.Context, spec JobSpec) JobResult {
	res := JobResult{JobName: spec.Name, StartTime: o.now(), ExitCode: -1}

	if err := config.Validator().Struct(spec); err != nil {
		res.Status = StatusFailure
		res.Err = NewValidationError(spec.Name, err)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status = StatusFailure
		res.Err = NewCancellationError(spec.Name, err)
		return res
	}

	o.logJobStart(ctx, spec)

	jobCtx, cancel := context.WithTimeout(ctx, spec.Timeout)
	defer cancel()

	out := o.runner.Run(jobCtx, spec)
	res.Duration = o.now().Sub(res.StartTime)
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	res.ExitCode = out.ExitCode

	switch {
	case out.Err == nil && out.ExitCode == 0:
		res.Status = StatusSuccess
	case ctx.Err() != nil:
		res.Status = StatusFailure
		res.Err = NewCancellationError(spec.Name, ctx.Err())
	case errors.Is(jobCtx.Err(), context.DeadlineExceeded):
		res.Status = StatusTimeout
		res.Err = NewTimeoutError(spec.Name, spec.Timeout)
	case !out.Started:
		res.Status = StatusFailure
		res.Err = NewStartError(spec.Name, out.Err)
	default:
		res.Status = StatusFailure
		res.Err = NewExecutionError(spec.Name, out.ExitCode, out.Err)
	}
	return res
}
