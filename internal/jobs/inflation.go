package jobs

import (
	"context"
	"log/slog"

	"indicators/internal/config"
	"indicators/internal/normalize"
	"indicators/internal/period"
	"indicators/internal/projection"
	"indicators/internal/sources"
	"indicators/internal/store"
)

// RunInflation appends the national headline CPI between the requested
// periods, logs its statistics and writes the projection report.
//
// A failed projection is recorded on the report and leaves the load in
// place; the stale report is removed.
func RunInflation(ctx context.Context, deps Deps, args InflationArgs) (Report, error) {
	const job = config.JobInflation
	rep := Report{Job: job}

	d, err := deps.withDefaults(job)
	if err != nil {
		return rep, err
	}
	d.Logger.InfoContext(ctx, "job_started",
		slog.String("from", args.From.String()),
		slog.String("until", args.Until.String()),
		slog.Int("horizon", args.Horizon))

	payload, err := fetch(ctx, d, job, InflationEndpoint, &rep)
	if err != nil {
		return rep, err
	}

	var records []normalize.Record
	err = step(ctx, d, job, "normalize", func(ctx context.Context) error {
		table, err := sources.DecodeDelimited(SourceINDEC, payload.Body, inflationCSV)
		if err != nil {
			return err
		}
		if err := sources.CheckLayout(SourceINDEC, table, inflationLayout); err != nil {
			return err
		}
		res := normalize.Normalize(table, inflationSchema)
		records = normalize.Between(res.Records, args.From.String(), args.Until.String())
		normalize.SortByTimestamp(records)

		rep.Normalized, rep.Kept = len(res.Records), len(records)
		rep.Dropped, rep.Skipped = res.Dropped, res.Skipped
		logNormalized(ctx, d, res, len(records))
		return nil
	})
	if err != nil {
		return rep, err
	}

	if err := load(ctx, d, job, store.Inflation, records, &rep); err != nil {
		return rep, err
	}

	series := toPoints(records)
	if stats, ok := projection.Summarize(series); ok {
		rep.Stats = &stats
		d.Logger.InfoContext(ctx, "inflation_stats",
			slog.Int("count", stats.Count),
			slog.Float64("mean", stats.Mean),
			slog.Float64("min", stats.Min),
			slog.Float64("max", stats.Max))
	}

	if err := project(ctx, d, job, series, args.Horizon, &rep); err != nil {
		rep.ProjectionErr = err
		d.Logger.WarnContext(ctx, "projection_failed", slog.String("error", err.Error()))
		if d.Reports != nil {
			if derr := d.Reports.Discard(config.InflationProjectionFile); derr != nil {
				d.Logger.WarnContext(ctx, "report_discard_failed", slog.String("error", derr.Error()))
			}
		}
	}

	d.Logger.InfoContext(ctx, "job_completed", slog.Int64("inserted", rep.Load.Inserted))
	return rep, nil
}

func project(ctx context.Context, d Deps, job string, series []projection.Point, horizon int, rep *Report) error {
	return step(ctx, d, job, "project", func(ctx context.Context) error {
		res, err := projection.Project(series, projection.Request{
			Window:  config.InflationProjectionWindow,
			Horizon: horizon,
		})
		if err != nil {
			return err
		}
		rep.Projected = len(res.Points)
		d.Logger.InfoContext(ctx, "projection_completed",
			slog.Float64("slope", res.Slope),
			slog.Float64("intercept", res.Intercept),
			slog.Int("points", len(res.Points)))

		if d.Reports == nil {
			return nil
		}
		path, err := d.Reports.WriteProjection(series, res.Points)
		if err != nil {
			return err
		}
		rep.Artifacts = append(rep.Artifacts, path)
		return nil
	})
}

func toPoints(records []normalize.Record) []projection.Point {
	out := make([]projection.Point, 0, len(records))
	for _, r := range records {
		out = append(out, projection.Point{Period: period.Period(r.Timestamp), Value: r.Value})
	}
	return out
}
