package jobs

import (
	"context"
	"log/slog"

	"indicators/internal/config"
	"indicators/internal/normalize"
	"indicators/internal/sources"
	"indicators/internal/store"
)

// RunExchangeRate refreshes the exchange rate history inside the requested
// date bounds. The table is replaced as a whole.
func RunExchangeRate(ctx context.Context, deps Deps, args ExchangeRateArgs) (Report, error) {
	const job = config.JobExchangeRate
	rep := Report{Job: job}

	d, err := deps.withDefaults(job)
	if err != nil {
		return rep, err
	}
	d.Logger.InfoContext(ctx, "job_started",
		slog.String("from", args.From),
		slog.String("until", args.Until))

	payload, err := fetch(ctx, d, job, ExchangeRateEndpoint, &rep)
	if err != nil {
		return rep, err
	}

	var records []normalize.Record
	err = step(ctx, d, job, "normalize", func(ctx context.Context) error {
		table, err := sources.DecodeWorkbook(SourceBCRA, payload.Body, exchangeRateMinRows)
		if err != nil {
			return err
		}
		if err := sources.CheckLayout(SourceBCRA, table, exchangeRateLayout); err != nil {
			return err
		}
		res := normalize.Normalize(table, exchangeRateSchema)
		if len(res.Records) == 0 && res.Dropped > 0 {
			return sources.NewFormatError(SourceBCRA, "none of %d data rows could be read", res.Dropped)
		}
		records = normalize.Between(res.Records, args.From, args.Until)
		normalize.SortByTimestamp(records)
		records = lastPerTimestamp(records)

		rep.Normalized, rep.Kept = len(res.Records), len(records)
		rep.Dropped, rep.Skipped = res.Dropped, res.Skipped
		logNormalized(ctx, d, res, len(records))
		return nil
	})
	if err != nil {
		return rep, err
	}

	if err := load(ctx, d, job, store.ExchangeRate, records, &rep); err != nil {
		return rep, err
	}

	d.Logger.InfoContext(ctx, "job_completed", slog.Int64("inserted", rep.Load.Inserted))
	return rep, nil
}

// lastPerTimestamp keeps the last record of each run of equal timestamps in
// sorted input. The publisher repeats a date when it restates a rate.
func lastPerTimestamp(records []normalize.Record) []normalize.Record {
	out := records[:0]
	for i, r := range records {
		if i+1 < len(records) && records[i+1].Timestamp == r.Timestamp {
			continue
		}
		out = append(out, r)
	}
	return out
}
