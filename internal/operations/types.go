package operations

import (
	"strings"
	"time"
)

// Status is the outcome of one job
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailure Status = "failure"
	StatusTimeout Status = "timeout"
)

// JobSpec describes one job. Args is passed to the process as is; it is
// never joined into a shell command line.
type JobSpec struct {
	Name    string        `json:"name" validate:"required"`
	Command string        `json:"command" validate:"required"`
	Args    []string      `json:"args,omitempty"`
	Timeout time.Duration `json:"timeout" validate:"gt=0"`
}

// RunOutcome is what a Runner observed of a single process.
type RunOutcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Started is false when the process never launched.
	Started bool
	Err     error
}

// JobResult is the recorded outcome of one job
type JobResult struct {
	JobName   string        `json:"job_name"`
	Status    Status        `json:"status"`
	Stdout    string        `json:"stdout,omitempty"`
	Stderr    string        `json:"stderr,omitempty"`
	ExitCode  int           `json:"exit_code"`
	Err       error         `json:"-"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
}

// Output returns the captured stdout followed by stderr.
func (r JobResult) Output() string {
	var b strings.Builder
	b.WriteString(r.Stdout)
	if r.Stdout != "" && r.Stderr != "" && !strings.HasSuffix(r.Stdout, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(r.Stderr)
	return b.String()
}

// Succeeded reports whether the job finished with status success
func (r JobResult) Succeeded() bool {
	return r.Status == StatusSuccess
}
