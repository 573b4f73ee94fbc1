// Package normalize maps raw source tables into canonical time series
// records.
//
// Row-level coercion failures never surface as errors: a row whose timestamp
// cannot be parsed is always dropped, and a row whose value cannot be parsed
// is either dropped or kept with a null value depending on the dataset's
// schema. Dropped rows are counted in Result so callers can report them.
package normalize

import (
	"sort"
	"strconv"
	"strings"
)

// TimestampKind selects how the timestamp column is coerced.
type TimestampKind int

const (
	// KindDate parses calendar dates and stores them as YYYY-MM-DD.
	KindDate TimestampKind = iota
	// KindPeriod parses YYYYMM month identifiers.
	KindPeriod
	// KindYear parses four digit years.
	KindYear
)

func (k TimestampKind) String() string {
	switch k {
	case KindDate:
		return "date"
	case KindPeriod:
		return "period"
	case KindYear:
		return "year"
	default:
		return "unknown"
	}
}

// Dimension keys carried by employment records.
const (
	DimCountryName   = "country_name"
	DimCountryCode   = "country_code"
	DimIndicatorName = "indicator_name"
	DimIndicatorCode = "indicator_code"
)

// Record is one canonical observation. Value is nil when the source value was
// unparsable and the dataset keeps such rows.
type Record struct {
	Dataset    string
	Timestamp  string
	Value      *float64
	Source     string
	Dimensions map[string]string
}

// Schema describes the fixed layout of a long-form table: one observation per
// row.
type Schema struct {
	Dataset         string
	Source          string
	SkipRows        int
	TimestampColumn int
	ValueColumn     int
	TimestampKind   TimestampKind
	DateLayouts     []string
	// NullOnBadValue keeps rows with an unparsable value as nulls instead of
	// dropping them.
	NullOnBadValue bool
	// Filters selects rows whose column equals the given text. Rows that do not
	// match are skipped, not counted as dropped.
	Filters map[int]string
}

// Result is the outcome of normalizing one table.
type Result struct {
	Records []Record
	// Dropped counts malformed rows.
	Dropped int
	// Skipped counts rows excluded by filters.
	Skipped int
}

// Normalize converts table rows past the header into records.
func Normalize(table [][]string, s Schema) Result {
	var res Result
	if s.SkipRows >= len(table) {
		return res
	}

	need := s.TimestampColumn
	if s.ValueColumn > need {
		need = s.ValueColumn
	}

	for _, row := range table[s.SkipRows:] {
		if isBlank(row) {
			continue
		}
		if !matches(row, s.Filters) {
			res.Skipped++
			continue
		}
		if len(row) <= need {
			res.Dropped++
			continue
		}

		ts, ok := coerceTimestamp(row[s.TimestampColumn], s)
		if !ok {
			res.Dropped++
			continue
		}

		rec := Record{Dataset: s.Dataset, Timestamp: ts, Source: s.Source}
		if v, ok := ParseDecimal(row[s.ValueColumn]); ok {
			rec.Value = &v
		} else if !s.NullOnBadValue {
			res.Dropped++
			continue
		}
		res.Records = append(res.Records, rec)
	}
	return res
}

// WideSchema describes a table with one row per entity and one column per
// year, as published by the World Bank.
type WideSchema struct {
	Dataset string
	Source  string
	// HeaderMarker is the first cell of the header row. The header must appear
	// within the first MaxHeaderRow+1 rows.
	HeaderMarker    string
	MaxHeaderRow    int
	FirstYearColumn int
	// TrailingColumns excluded from the year range at the end of each row.
	TrailingColumns int
	// Dimensions maps record dimension keys to column indices.
	Dimensions     map[string]int
	KeyDimension   string
	FirstYear      int
	LastYear       int
	NullOnBadValue bool
}

// HeaderRow returns the index of the header row or -1.
func (ws WideSchema) HeaderRow(table [][]string) int {
	for i := 0; i < len(table) && i <= ws.MaxHeaderRow; i++ {
		if len(table[i]) > 0 && strings.TrimSpace(table[i][0]) == ws.HeaderMarker {
			return i
		}
	}
	return -1
}

// Wide unpivots a wide table into one record per entity and year. Callers
// are expected to have checked the layout; a missing header yields an empty
// result.
func Wide(table [][]string, ws WideSchema) Result {
	var res Result
	headerIdx := ws.HeaderRow(table)
	if headerIdx < 0 {
		return res
	}
	header := table[headerIdx]

	type yearColumn struct {
		index int
		year  int
	}
	var years []yearColumn
	for i := ws.FirstYearColumn; i < len(header)-ws.TrailingColumns; i++ {
		year, ok := ParseYear(header[i])
		if !ok || year < ws.FirstYear || year > ws.LastYear {
			continue
		}
		years = append(years, yearColumn{index: i, year: year})
	}

	for _, row := range table[headerIdx+1:] {
		if isBlank(row) {
			continue
		}
		dims := make(map[string]string, len(ws.Dimensions))
		for key, col := range ws.Dimensions {
			if col < len(row) {
				dims[key] = strings.TrimSpace(row[col])
			}
		}
		if ws.KeyDimension != "" && dims[ws.KeyDimension] == "" {
			res.Dropped++
			continue
		}

		for _, yc := range years {
			rec := Record{
				Dataset:    ws.Dataset,
				Timestamp:  strconv.Itoa(yc.year),
				Source:     ws.Source,
				Dimensions: dims,
			}
			cell := ""
			if yc.index < len(row) {
				cell = row[yc.index]
			}
			if v, ok := ParseDecimal(cell); ok {
				rec.Value = &v
			} else if !ws.NullOnBadValue {
				res.Dropped++
				continue
			}
			res.Records = append(res.Records, rec)
		}
	}
	return res
}

// Between keeps records whose timestamp lies in [from, until]. Empty bounds
// are open. Timestamps of one dataset share a fixed-width layout, so string
// comparison orders them.
func Between(records []Record, from, until string) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if from != "" && r.Timestamp < from {
			continue
		}
		if until != "" && r.Timestamp > until {
			continue
		}
		out = append(out, r)
	}
	return out
}

// SortByTimestamp orders records chronologically, keeping source order for
// equal timestamps.
func SortByTimestamp(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp < records[j].Timestamp
	})
}

func coerceTimestamp(raw string, s Schema) (string, bool) {
	switch s.TimestampKind {
	case KindPeriod:
		return ParsePeriod(raw)
	case KindYear:
		year, ok := ParseYear(raw)
		if !ok {
			return "", false
		}
		return strconv.Itoa(year), true
	default:
		return ParseDate(raw, s.DateLayouts)
	}
}

func matches(row []string, filters map[int]string) bool {
	for col, want := range filters {
		if col >= len(row) || strings.TrimSpace(row[col]) != want {
			return false
		}
	}
	return true
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
