package jobs

import "fmt"

// UsageError reports invalid job arguments
type UsageError struct {
	Job      string
	Synopsis string
	Reason   string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("%s: %s\nusage: %s %s", e.Job, e.Reason, e.Job, e.Synopsis)
}

func usage(job, synopsis, reason string) *UsageError {
	return &UsageError{Job: job, Synopsis: synopsis, Reason: reason}
}

// StepError names the pipeline step a job failed in
type StepError struct {
	Job   string
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Job, e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}
