package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"indicators/internal/archive"
	"indicators/internal/exporter"
	"indicators/internal/infrastructure"
	"indicators/internal/jobs"
	"indicators/internal/sources"
	"indicators/internal/store"
)

// Exit codes of the job binaries and the orchestrator
const (
	ExitOK      = 0
	ExitFailure = 1
)

const shutdownTimeout = 5 * time.Second

// Job describes one job binary
type Job[A any] struct {
	Name  string
	Parse func(argv []string) (A, error)
	Run   func(ctx context.Context, deps jobs.Deps, args A) (jobs.Report, error)
}

// RunJob parses argv, opens the job handles, runs the job and prints its
// report on stdout. Diagnostics go to stderr. It returns the exit code.
func RunJob[A any](ctx context.Context, job Job[A], argv []string, stdout, stderr io.Writer) int {
	args, err := job.Parse(argv)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return ExitFailure
	}

	rt, err := NewRuntime(ctx, job.Name, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", job.Name, err)
		return ExitFailure
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = rt.Close(shutdownCtx)
	}()

	ctx = infrastructure.EnsureTraceID(ctx)
	deps, closeDeps, err := OpenJobDeps(ctx, rt)
	if err != nil {
		rt.Logger.ErrorContext(ctx, "job_setup_failed", slog.String("error", err.Error()))
		fmt.Fprintf(stderr, "%s: %v\n", job.Name, err)
		return ExitFailure
	}
	defer func() {
		if err := closeDeps(); err != nil {
			rt.Logger.WarnContext(ctx, "job_close_failed", slog.String("error", err.Error()))
		}
	}()

	start := time.Now()
	report, err := job.Run(ctx, deps, args)
	if werr := report.Write(stdout); werr != nil {
		rt.Logger.WarnContext(ctx, "report_write_failed", slog.String("error", werr.Error()))
	}
	if err != nil {
		rt.Logger.ErrorContext(ctx, "job_failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		fmt.Fprintf(stderr, "%s: %v\n", job.Name, err)
		return ExitFailure
	}
	return ExitOK
}

// OpenJobDeps opens the store, archive, fetcher and report exporter from
// the runtime configuration. The returned func closes what was opened.
func OpenJobDeps(ctx context.Context, rt *Runtime) (jobs.Deps, func() error, error) {
	cfg := rt.Config

	st, err := store.Open(cfg.Database, rt.Logger)
	if err != nil {
		return jobs.Deps{}, nil, err
	}
	arc, err := archive.New(ctx, cfg.Archive)
	if err != nil {
		return jobs.Deps{}, nil, errors.Join(err, st.Close())
	}

	deps := jobs.Deps{
		Fetcher: sources.NewFetcher(sources.Options{
			Timeout:   cfg.Fetch.Timeout,
			UserAgent: cfg.Fetch.UserAgent,
		}, rt.Logger),
		Store:   st,
		Archive: arc,
		Reports: exporter.NewReportExporter(cfg.Paths.ReportsDir, rt.Logger),
		Logger:  rt.Logger,
	}
	if rt.Telemetry != nil {
		deps.Tracer = rt.Telemetry.TracerProvider.Tracer("indicators.jobs")
	}
	return deps, st.Close, nil
}
