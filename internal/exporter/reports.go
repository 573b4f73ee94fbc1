package exporter

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"indicators/internal/config"
	"indicators/internal/projection"
)

// Series kinds in the projection report
const (
	KindObserved  = "observed"
	KindProjected = "projected"
)

// EmploymentYear is one row of the employment summary
type EmploymentYear struct {
	Year      int
	Highlight *float64
	// GlobalAverage is the mean over every country reporting a value.
	GlobalAverage *float64
	Reporting     int
}

// ReportExporter writes the derived artifacts of the jobs
type ReportExporter struct {
	csvWriter *CSVWriter
}

// NewReportExporter creates an exporter writing under reportsDir
func NewReportExporter(reportsDir string, logger *slog.Logger) *ReportExporter {
	return &ReportExporter{csvWriter: NewCSVWriter(reportsDir, logger)}
}

// WriteProjection writes the observed inflation points followed by the
// projected ones and returns the file path.
func (e *ReportExporter) WriteProjection(observed []projection.Point, forecast []projection.Forecast) (string, error) {
	records := make([][]string, 0, len(observed)+len(forecast))
	for _, p := range observed {
		records = append(records, []string{p.Period.String(), formatOptional(p.Value), KindObserved})
	}
	for _, f := range forecast {
		records = append(records, []string{f.Period.String(), formatFloat(f.Value), KindProjected})
	}
	return e.csvWriter.WriteCSV(config.InflationProjectionFile, WriteOptions{
		Headers:   []string{"period", "value", "kind"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteEmploymentSummary writes one row per year for the highlighted country
// and returns the file path.
func (e *ReportExporter) WriteEmploymentSummary(country string, years []EmploymentYear) (string, error) {
	records := make([][]string, 0, len(years))
	for _, y := range years {
		records = append(records, []string{
			formatInt(y.Year),
			formatOptional(y.Highlight),
			formatOptional(y.GlobalAverage),
			formatInt(y.Reporting),
		})
	}
	return e.csvWriter.WriteCSV(config.EmploymentSummaryFile, WriteOptions{
		Headers:   []string{"year", country, "global_average", "countries_reporting"},
		Records:   records,
		BOMPrefix: true,
	})
}

// Discard removes the report named name if it exists
func (e *ReportExporter) Discard(name string) error {
	err := os.Remove(e.csvWriter.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove report %s: %w", name, err)
	}
	return nil
}
