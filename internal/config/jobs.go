package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"indicators/internal/period"
)

// JobManifest lists the jobs of one orchestrator batch.
type JobManifest struct {
	Jobs []JobEntry `yaml:"jobs" validate:"required,min=1,dive"`
}

// JobEntry is one job as written in the manifest.
type JobEntry struct {
	Name string `yaml:"name" validate:"required"`
	// Command defaults to Name, resolved against the job bin directory.
	Command        string   `yaml:"command"`
	Args           []string `yaml:"args"`
	TimeoutSeconds int      `yaml:"timeout_seconds" validate:"gte=0"`
}

// Timeout returns the entry timeout, or fallback when unset.
func (e JobEntry) Timeout(fallback time.Duration) time.Duration {
	if e.TimeoutSeconds == 0 {
		return fallback
	}
	return time.Duration(e.TimeoutSeconds) * time.Second
}

// LoadJobs reads and validates a YAML job manifest.
func LoadJobs(path string) (*JobManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job manifest: %w", err)
	}

	var m JobManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse job manifest %s: %w", path, err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("invalid job manifest %s: %w", path, err)
	}
	return &m, nil
}

// DefaultJobs is the standard batch: employment for the default country,
// inflation from January of last year to the current month without a
// projection, and the exchange rate history.
func DefaultJobs(now time.Time) *JobManifest {
	timeout := int(DefaultJobTimeout / time.Second)
	return &JobManifest{Jobs: []JobEntry{
		{
			Name:           JobEmployment,
			Args:           []string{DefaultHighlightCountry},
			TimeoutSeconds: timeout,
		},
		{
			Name: JobInflation,
			Args: []string{
				period.FirstOfYear(now.Year() - 1).String(),
				period.Current(now).String(),
				strconv.Itoa(DefaultProjectionHorizon),
			},
			TimeoutSeconds: timeout,
		},
		{
			Name:           JobExchangeRate,
			Args:           []string{},
			TimeoutSeconds: timeout,
		},
	}}
}
