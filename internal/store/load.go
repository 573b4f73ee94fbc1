package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"gorm.io/gorm"

	"indicators/internal/normalize"
)

// LoadStats summarizes one load.
type LoadStats struct {
	Dataset  string
	Policy   Policy
	Deleted  int64
	Inserted int64
}

// Load persists records into the dataset table according to its policy.
// The table is created first when absent. A Replace load deletes and inserts
// inside one transaction, so a failure leaves the previous rows in place.
func (s *Store) Load(ctx context.Context, ds Dataset, records []normalize.Record) (LoadStats, error) {
	stats := LoadStats{Dataset: ds.Name, Policy: ds.Policy}
	db := s.db.WithContext(ctx)

	if err := ensureTable(db, ds); err != nil {
		return stats, &StoreTransactionError{Dataset: ds.Name, Op: "create", Cause: err}
	}

	rows, err := toRows(ds, records)
	if err != nil {
		return stats, &StoreTransactionError{Dataset: ds.Name, Op: "convert", Cause: err}
	}

	switch ds.Policy {
	case Replace:
		err = db.Transaction(func(tx *gorm.DB) error {
			res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Table(ds.Table).Delete(modelFor(ds))
			if res.Error != nil {
				return &StoreTransactionError{Dataset: ds.Name, Op: "delete", Cause: res.Error}
			}
			stats.Deleted = res.RowsAffected

			inserted, err := insert(tx, ds, rows)
			if err != nil {
				return &StoreTransactionError{Dataset: ds.Name, Op: "insert", Cause: err}
			}
			stats.Inserted = inserted
			return nil
		})
	case Append:
		var inserted int64
		inserted, err = insert(db, ds, rows)
		if err != nil {
			err = &StoreTransactionError{Dataset: ds.Name, Op: "insert", Cause: err}
		}
		stats.Inserted = inserted
	default:
		err = fmt.Errorf("unknown load policy %d", ds.Policy)
	}

	if err != nil {
		s.logger.ErrorContext(ctx, "load_failed",
			slog.String("dataset", ds.Name),
			slog.String("policy", ds.Policy.String()),
			slog.String("error", err.Error()))
		return LoadStats{Dataset: ds.Name, Policy: ds.Policy}, err
	}

	s.logger.InfoContext(ctx, "load_completed",
		slog.String("dataset", ds.Name),
		slog.String("table", ds.Table),
		slog.String("policy", ds.Policy.String()),
		slog.Int64("deleted", stats.Deleted),
		slog.Int64("inserted", stats.Inserted))
	return stats, nil
}

func modelFor(ds Dataset) any {
	if ds.Layout == LayoutEmployment {
		return &EmploymentRow{}
	}
	return &SeriesRow{}
}

func insert(db *gorm.DB, ds Dataset, rows any) (int64, error) {
	switch r := rows.(type) {
	case []SeriesRow:
		if len(r) == 0 {
			return 0, nil
		}
		res := db.Table(ds.Table).CreateInBatches(r, insertBatchSize)
		return res.RowsAffected, res.Error
	case []EmploymentRow:
		if len(r) == 0 {
			return 0, nil
		}
		res := db.Table(ds.Table).CreateInBatches(r, insertBatchSize)
		return res.RowsAffected, res.Error
	default:
		return 0, fmt.Errorf("unsupported rows %T", rows)
	}
}

func toRows(ds Dataset, records []normalize.Record) (any, error) {
	if ds.Layout == LayoutEmployment {
		rows := make([]EmploymentRow, 0, len(records))
		for _, rec := range records {
			year, err := strconv.Atoi(rec.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("record timestamp %q is not a year", rec.Timestamp)
			}
			rows = append(rows, EmploymentRow{
				CountryName:   rec.Dimensions[normalize.DimCountryName],
				CountryCode:   rec.Dimensions[normalize.DimCountryCode],
				IndicatorName: rec.Dimensions[normalize.DimIndicatorName],
				IndicatorCode: rec.Dimensions[normalize.DimIndicatorCode],
				Year:          year,
				Value:         rec.Value,
			})
		}
		return rows, nil
	}

	rows := make([]SeriesRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, SeriesRow{Timestamp: rec.Timestamp, Value: rec.Value})
	}
	return rows, nil
}
