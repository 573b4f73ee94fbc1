package store

import (
	"context"
)

// Count returns the number of rows in the dataset table.
func (s *Store) Count(ctx context.Context, ds Dataset) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Table(ds.Table).Count(&n).Error
	return n, err
}

// Series returns every row of a series dataset in chronological order.
func (s *Store) Series(ctx context.Context, ds Dataset) ([]SeriesRow, error) {
	var rows []SeriesRow
	err := s.db.WithContext(ctx).Table(ds.Table).
		Order("timestamp ASC").Order("id ASC").
		Find(&rows).Error
	return rows, err
}

// RecentSeries returns up to limit non-null rows at or after since, newest
// first.
func (s *Store) RecentSeries(ctx context.Context, ds Dataset, since string, limit int) ([]SeriesRow, error) {
	var rows []SeriesRow
	err := s.db.WithContext(ctx).Table(ds.Table).
		Where("timestamp >= ? AND value IS NOT NULL", since).
		Order("timestamp DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// Employment returns the employment rows ordered by country and year.
func (s *Store) Employment(ctx context.Context, ds Dataset) ([]EmploymentRow, error) {
	var rows []EmploymentRow
	err := s.db.WithContext(ctx).Table(ds.Table).
		Order("country_code ASC").Order("year ASC").
		Find(&rows).Error
	return rows, err
}
