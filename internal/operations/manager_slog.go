package operations

import (
	"context"
	"log/slog"
	"time"
)

// outputTail limits how much captured output is copied into a log record
const outputTail = 2048

func (o *Orchestrator) logBatchStart(ctx context.Context, specs []JobSpec) {
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	o.logger.InfoContext(ctx, "batch_start",
		slog.Int("job_count", len(specs)),
		slog.Any("jobs", names))
}

func (o *Orchestrator) logJobStart(ctx context.Context, spec JobSpec) {
	o.logger.InfoContext(ctx, "job_start",
		slog.String("job", spec.Name),
		slog.String("command", spec.Command),
		slog.Any("args", spec.Args),
		slog.Duration("timeout", spec.Timeout))
}

func (o *Orchestrator) logJobComplete(ctx context.Context, res JobResult) {
	if res.Succeeded() {
		o.logger.InfoContext(ctx, "job_complete",
			slog.String("job", res.JobName),
			slog.String("status", string(res.Status)),
			slog.Duration("duration", res.Duration))
		return
	}

	errorMsg := "unknown error"
	if res.Err != nil {
		errorMsg = res.Err.Error()
	}
	o.logger.ErrorContext(ctx, "job_error",
		slog.String("job", res.JobName),
		slog.String("status", string(res.Status)),
		slog.Int("exit_code", res.ExitCode),
		slog.Duration("duration", res.Duration),
		slog.String("error", errorMsg),
		slog.String("stderr", tail(res.Stderr, outputTail)))
}

func (o *Orchestrator) logBatchComplete(ctx context.Context, s Summary, duration time.Duration) {
	o.logger.InfoContext(ctx, "batch_complete",
		slog.Int("succeeded", s.Count(StatusSuccess)),
		slog.Int("failed", s.Count(StatusFailure)),
		slog.Int("timed_out", s.Count(StatusTimeout)),
		slog.Duration("duration", duration))
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
