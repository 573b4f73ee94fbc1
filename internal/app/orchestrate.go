package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"indicators/internal/config"
	"indicators/internal/infrastructure"
	"indicators/internal/operations"
)

// RunOrchestrator runs the batch described by the manifest at manifestPath,
// or the default batch when the path is empty, and prints the summary on
// stdout. It returns ExitFailure when any job did not succeed.
func RunOrchestrator(ctx context.Context, manifestPath string, runner operations.Runner, stdout, stderr io.Writer) int {
	rt, err := NewRuntime(ctx, "orchestrator", stderr)
	if err != nil {
		fmt.Fprintf(stderr, "orchestrator: %v\n", err)
		return ExitFailure
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = rt.Close(shutdownCtx)
	}()

	return orchestrate(infrastructure.EnsureTraceID(ctx), rt, manifestPath, runner, stdout, stderr)
}

func orchestrate(ctx context.Context, rt *Runtime, manifestPath string, runner operations.Runner, stdout, stderr io.Writer) int {
	manifest := config.DefaultJobs(time.Now())
	if manifestPath != "" {
		m, err := config.LoadJobs(manifestPath)
		if err != nil {
			fmt.Fprintf(stderr, "orchestrator: %v\n", err)
			return ExitFailure
		}
		manifest = m
	}

	binDir, err := rt.Config.Paths.JobBinDir()
	if err != nil {
		fmt.Fprintf(stderr, "orchestrator: %v\n", err)
		return ExitFailure
	}

	var tracer *operations.JobTracer
	if rt.Telemetry != nil {
		tracer, err = operations.NewJobTracer(rt.Telemetry.Tracer, rt.Telemetry.Meter)
		if err != nil {
			fmt.Fprintf(stderr, "orchestrator: %v\n", err)
			return ExitFailure
		}
	}

	orch := operations.NewOrchestrator(runner, rt.Logger, tracer)
	summary := operations.Summarize(orch.Run(ctx, operations.SpecsFromManifest(manifest, binDir)))
	if err := summary.Write(stdout); err != nil {
		rt.Logger.WarnContext(ctx, "summary_write_failed", slog.String("error", err.Error()))
	}

	if path := rt.Config.Telemetry.MetricsTextfile; path != "" && rt.Telemetry != nil {
		if err := rt.Telemetry.WriteTextfile(path); err != nil {
			rt.Logger.WarnContext(ctx, "metrics_textfile_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		}
	}

	if summary.Failed() > 0 {
		return ExitFailure
	}
	return ExitOK
}
