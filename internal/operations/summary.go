package operations

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"
)

// Summary is the pass/fail view of one batch
type Summary struct {
	Results []JobResult
}

// Summarize wraps results in a Summary
func Summarize(results []JobResult) Summary {
	return Summary{Results: results}
}

// Count returns how many jobs finished with status
func (s Summary) Count(status Status) int {
	n := 0
	for _, r := range s.Results {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Failed returns how many jobs did not succeed
func (s Summary) Failed() int {
	return len(s.Results) - s.Count(StatusSuccess)
}

// Write prints one line per job followed by the error of every job that did
// not succeed.
func (s Summary) Write(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "JOB\tSTATUS\tEXIT\tDURATION")
	for _, r := range s.Results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.JobName, strings.ToUpper(string(r.Status)), r.ExitCode, r.Duration.Round(time.Millisecond))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, r := range s.Results {
		if r.Succeeded() || r.Err == nil {
			continue
		}
		if _, err := fmt.Fprintf(w, "\n%s: %v\n", r.JobName, r.Err); err != nil {
			return err
		}
		if stderr := strings.TrimSpace(tail(r.Stderr, outputTail)); stderr != "" {
			if _, err := fmt.Fprintf(w, "%s\n", stderr); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintf(w, "\n%d succeeded, %d failed, %d timed out\n",
		s.Count(StatusSuccess), s.Count(StatusFailure), s.Count(StatusTimeout))
	return err
}
