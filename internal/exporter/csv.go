package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// CSVWriter writes report files under a reports directory
type CSVWriter struct {
	dir    string
	logger *slog.Logger
}

// NewCSVWriter creates a writer rooted at reportsDir
func NewCSVWriter(reportsDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{dir: reportsDir, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// Path returns where a report named name is written
func (w *CSVWriter) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(w.dir, name)
}

// WriteCSV replaces the report at name. The file is written next to its
// destination and renamed into place, so readers never see a partial file.
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) (string, error) {
	fullPath := w.Path(name)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(fullPath)+".*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := writeRecords(tmp, options); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fullPath); err != nil {
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}

	w.logger.Info("report_written",
		slog.String("path", fullPath),
		slog.Int("record_count", len(options.Records)))
	return fullPath, nil
}

func writeRecords(f *os.File, options WriteOptions) error {
	if options.BOMPrefix {
		if _, err := f.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(f)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
