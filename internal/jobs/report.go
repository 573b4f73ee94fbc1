package jobs

import (
	"fmt"
	"io"

	"indicators/internal/projection"
	"indicators/internal/store"
)

// Report is what a job did, printed on stdout by the job binaries
type Report struct {
	Job          string
	FetchedBytes int
	Archived     string
	Normalized   int
	Kept         int
	Dropped      int
	Skipped      int
	Load         store.LoadStats
	Stats        *projection.Stats
	Projected    int
	// ProjectionErr is set when the derived step failed; the load still stands.
	ProjectionErr error
	Artifacts     []string
}

// Write prints the report as key=value lines
func (r Report) Write(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("job=%s", r.Job),
		fmt.Sprintf("fetched_bytes=%d", r.FetchedBytes),
		fmt.Sprintf("records=%d kept=%d dropped=%d skipped=%d", r.Normalized, r.Kept, r.Dropped, r.Skipped),
		fmt.Sprintf("policy=%s deleted=%d inserted=%d", r.Load.Policy, r.Load.Deleted, r.Load.Inserted),
	}
	if r.Archived != "" {
		lines = append(lines, "archived="+r.Archived)
	}
	if r.Stats != nil {
		lines = append(lines, fmt.Sprintf("mean=%.4f min=%.4f max=%.4f", r.Stats.Mean, r.Stats.Min, r.Stats.Max))
	}
	if r.ProjectionErr != nil {
		lines = append(lines, "projection_error="+r.ProjectionErr.Error())
	} else if r.Projected > 0 {
		lines = append(lines, fmt.Sprintf("projected=%d", r.Projected))
	}
	for _, a := range r.Artifacts {
		lines = append(lines, "artifact="+a)
	}

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
