// Package exporter writes the CSV artifacts derived by the ingestion jobs.
//
// CSVWriter is the low level writer: UTF-8 with an optional BOM so the files
// open cleanly in Excel, replaced atomically on every write. ReportExporter
// builds the two reports on top of it:
//
//	inflation_projection.csv  period,value,kind (observed or projected)
//	employment_summary.csv    year,<country>,global_average,countries_reporting
//
// A job whose derived step fails discards the report, so a file left by an
// earlier run is never taken for the current one.
package exporter
