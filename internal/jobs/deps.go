// Package jobs implements the three ingestion jobs. Each job fetches one
// publisher's payload, normalizes it, loads it into its dataset, and writes
// any derived artifact.
//
// Every dependency a job touches is passed in through Deps, built once by the
// job binary and closed when it exits.
package jobs

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"indicators/internal/archive"
	"indicators/internal/exporter"
	"indicators/internal/normalize"
	"indicators/internal/sources"
	"indicators/internal/store"
)

const tracerName = "indicators.jobs"

// Fetcher downloads a source payload
type Fetcher interface {
	Fetch(ctx context.Context, ep sources.Endpoint) (*sources.Payload, error)
}

// Loader persists normalized records
type Loader interface {
	Load(ctx context.Context, ds store.Dataset, records []normalize.Record) (store.LoadStats, error)
}

// Deps are the handles a job runs with
type Deps struct {
	Fetcher Fetcher
	Store   Loader
	Archive archive.Archive
	Reports *exporter.ReportExporter
	Logger  *slog.Logger
	Tracer  trace.Tracer
}

func (d Deps) withDefaults(job string) (Deps, error) {
	if d.Fetcher == nil || d.Store == nil {
		return d, fmt.Errorf("%s: fetcher and store are required", job)
	}
	if d.Archive == nil {
		d.Archive = archive.Nop{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	d.Logger = d.Logger.With(slog.String("job", job))
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	return d, nil
}

// step runs fn inside a span named <job>.<name> and wraps its error
func step(ctx context.Context, d Deps, job, name string, fn func(ctx context.Context) error) error {
	ctx, span := d.Tracer.Start(ctx, job+"."+name, trace.WithAttributes(attribute.String("job", job)))
	defer span.End()

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, name+" failed")
		return &StepError{Job: job, Step: name, Cause: err}
	}
	return nil
}

// fetch downloads ep and retains the raw payload. A failed retention is
// logged and does not fail the job.
func fetch(ctx context.Context, d Deps, job string, ep sources.Endpoint, rep *Report) (*sources.Payload, error) {
	var payload *sources.Payload
	err := step(ctx, d, job, "fetch", func(ctx context.Context) error {
		var err error
		payload, err = d.Fetcher.Fetch(ctx, ep)
		return err
	})
	if err != nil {
		return nil, err
	}
	rep.FetchedBytes = len(payload.Body)

	loc, err := d.Archive.Put(ctx, job, ep.FileName, payload.Body)
	if err != nil {
		d.Logger.WarnContext(ctx, "archive_failed",
			slog.String("source", ep.Name),
			slog.String("error", err.Error()))
	} else if loc != "" {
		rep.Archived = loc
		d.Logger.InfoContext(ctx, "payload_archived", slog.String("location", loc))
	}
	return payload, nil
}

func load(ctx context.Context, d Deps, job string, ds store.Dataset, records []normalize.Record, rep *Report) error {
	return step(ctx, d, job, "load", func(ctx context.Context) error {
		stats, err := d.Store.Load(ctx, ds, records)
		rep.Load = stats
		return err
	})
}

func logNormalized(ctx context.Context, d Deps, res normalize.Result, kept int) {
	d.Logger.InfoContext(ctx, "normalize_completed",
		slog.Int("records", len(res.Records)),
		slog.Int("kept", kept),
		slog.Int("dropped", res.Dropped),
		slog.Int("skipped", res.Skipped))
}
