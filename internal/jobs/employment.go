package jobs

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"indicators/internal/config"
	"indicators/internal/exporter"
	"indicators/internal/normalize"
	"indicators/internal/sources"
	"indicators/internal/store"
)

// RunEmployment replaces the unemployment table with the World Bank series
// and writes the yearly summary for the requested country next to the global
// average. An unknown country is logged and produces an empty highlight
// column.
func RunEmployment(ctx context.Context, deps Deps, args EmploymentArgs) (Report, error) {
	const job = config.JobEmployment
	rep := Report{Job: job}

	d, err := deps.withDefaults(job)
	if err != nil {
		return rep, err
	}
	d.Logger.InfoContext(ctx, "job_started", slog.String("country", args.Country))

	payload, err := fetch(ctx, d, job, EmploymentEndpoint, &rep)
	if err != nil {
		return rep, err
	}

	var records []normalize.Record
	err = step(ctx, d, job, "normalize", func(ctx context.Context) error {
		members, err := sources.DecodeArchive(SourceWorldBank, payload.Body, employmentArchive)
		if err != nil {
			return err
		}
		table, err := dataMember(members)
		if err != nil {
			return err
		}
		res := normalize.Wide(table, employmentSchema)
		records = res.Records

		rep.Normalized, rep.Kept = len(res.Records), len(records)
		rep.Dropped, rep.Skipped = res.Dropped, res.Skipped
		logNormalized(ctx, d, res, len(records))
		return nil
	})
	if err != nil {
		return rep, err
	}

	if err := load(ctx, d, job, store.Employment, records, &rep); err != nil {
		return rep, err
	}

	years, found := summarizeEmployment(records, args.Country)
	if !found {
		d.Logger.WarnContext(ctx, "country_not_found", slog.String("country", args.Country))
	}
	if d.Reports != nil {
		err := step(ctx, d, job, "report", func(ctx context.Context) error {
			path, err := d.Reports.WriteEmploymentSummary(args.Country, years)
			if err != nil {
				return err
			}
			rep.Artifacts = append(rep.Artifacts, path)
			return nil
		})
		if err != nil {
			return rep, err
		}
	}

	d.Logger.InfoContext(ctx, "job_completed",
		slog.Int64("inserted", rep.Load.Inserted),
		slog.Int("years", len(years)))
	return rep, nil
}

// dataMember returns the first member carrying the data header and checks
// its layout.
func dataMember(members []sources.Member) ([][]string, error) {
	for _, m := range members {
		idx := employmentSchema.HeaderRow(m.Table)
		if idx < 0 {
			continue
		}
		layout := sources.Layout{MinRows: idx + 2, HeaderRow: idx, Columns: employmentHeader}
		if err := sources.CheckLayout(SourceWorldBank, m.Table, layout); err != nil {
			return nil, err
		}
		return m.Table, nil
	}
	return nil, sources.NewFormatError(SourceWorldBank, "no member has a %q header", employmentSchema.HeaderMarker)
}

// summarizeEmployment averages every reporting country per year and picks
// the value of the country matching name by name or code. found is false
// when no record matches.
func summarizeEmployment(records []normalize.Record, name string) (years []exporter.EmploymentYear, found bool) {
	type agg struct {
		sum       float64
		reporting int
		highlight *float64
	}
	byYear := make(map[int]*agg)

	for _, r := range records {
		year, err := strconv.Atoi(r.Timestamp)
		if err != nil {
			continue
		}
		a, ok := byYear[year]
		if !ok {
			a = &agg{}
			byYear[year] = a
		}
		match := strings.EqualFold(r.Dimensions[normalize.DimCountryName], name) ||
			strings.EqualFold(r.Dimensions[normalize.DimCountryCode], name)
		if match {
			found = true
		}
		if r.Value == nil {
			continue
		}
		a.sum += *r.Value
		a.reporting++
		if match {
			v := *r.Value
			a.highlight = &v
		}
	}

	for year, a := range byYear {
		if a.reporting == 0 {
			continue
		}
		avg := a.sum / float64(a.reporting)
		years = append(years, exporter.EmploymentYear{
			Year:          year,
			Highlight:     a.highlight,
			GlobalAverage: &avg,
			Reporting:     a.reporting,
		})
	}
	sort.Slice(years, func(i, j int) bool { return years[i].Year < years[j].Year })
	return years, found
}
