package operations

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long output pipes are drained after a job is
// killed at its deadline.
const DefaultWaitDelay = 5 * time.Second

// Runner executes one job and reports what it observed. The context carries
// the job deadline; a Runner must stop the job when it is done.
type Runner interface {
	Run(ctx context.Context, spec JobSpec) RunOutcome
}

// ExecRunner runs jobs as child processes.
type ExecRunner struct {
	// Dir is the working directory of every job; empty inherits ours.
	Dir string
	// Env is appended to the current environment.
	Env []string
	// WaitDelay overrides DefaultWaitDelay.
	WaitDelay time.Duration
}

// Run starts spec.Command directly with spec.Args and captures stdout and
// stderr separately. The process is killed when ctx is done.
func (r ExecRunner) Run(ctx context.Context, spec JobSpec) RunOutcome {
	cmd := exec.CommandContext(ctx, spec.Command, spec.Args...)
	cmd.Dir = r.Dir
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}
	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay <= 0 {
		cmd.WaitDelay = DefaultWaitDelay
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		return RunOutcome{ExitCode: -1, Err: err}
	}
	err := cmd.Wait()

	out := RunOutcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: -1,
		Started:  true,
		Err:      err,
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	return out
}
