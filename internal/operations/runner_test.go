package operations

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHelperProcess is not a test. It is the child process started by the
// ExecRunner tests.
func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	args := os.Args
	for len(args) > 0 && args[0] != "--" {
		args = args[1:]
	}
	if len(args) < 2 {
		os.Exit(2)
	}

	switch args[1] {
	case "ok":
		fmt.Fprintln(os.Stdout, "rows loaded:", len(args)-2)
		fmt.Fprintln(os.Stderr, "progress on stderr")
		os.Exit(0)
	case "echo":
		for _, a := range args[2:] {
			fmt.Fprintln(os.Stdout, a)
		}
		os.Exit(0)
	case "fail":
		fmt.Fprintln(os.Stderr, "source unreachable")
		os.Exit(3)
	case "sleep":
		time.Sleep(30 * time.Second)
		os.Exit(0)
	}
	os.Exit(2)
}

func helperSpec(t *testing.T, name string, timeout time.Duration, args ...string) JobSpec {
	t.Helper()
	return JobSpec{
		Name:    name,
		Command: os.Args[0],
		Args:    append([]string{"-test.run=TestHelperProcess", "--"}, args...),
		Timeout: timeout,
	}
}

func helperRunner() ExecRunner {
	return ExecRunner{Env: []string{"GO_WANT_HELPER_PROCESS=1"}, WaitDelay: time.Second}
}

func TestExecRunnerCapturesStreamsSeparately(t *testing.T) {
	out := helperRunner().Run(context.Background(), helperSpec(t, "ok", 10*time.Second, "ok", "a", "b"))

	require.NoError(t, out.Err)
	assert.True(t, out.Started)
	assert.Equal(t, 0, out.ExitCode)
	assert.Contains(t, out.Stdout, "rows loaded: 2")
	assert.NotContains(t, out.Stdout, "progress on stderr")
	assert.Contains(t, out.Stderr, "progress on stderr")
}

func TestExecRunnerPassesArgsVerbatim(t *testing.T) {
	tricky := []string{"Argentina; rm -rf /", "$(whoami)", "two words"}
	out := helperRunner().Run(context.Background(), helperSpec(t, "echo", 10*time.Second, append([]string{"echo"}, tricky...)...))

	require.NoError(t, out.Err)
	assert.Contains(t, out.Stdout, "Argentina; rm -rf /\n$(whoami)\ntwo words\n")
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	out := helperRunner().Run(context.Background(), helperSpec(t, "fail", 10*time.Second, "fail"))

	require.Error(t, out.Err)
	assert.True(t, out.Started)
	assert.Equal(t, 3, out.ExitCode)
	assert.Contains(t, out.Stderr, "source unreachable")
}

func TestExecRunnerMissingBinary(t *testing.T) {
	out := ExecRunner{}.Run(context.Background(), JobSpec{
		Name:    "missing",
		Command: filepath.Join(t.TempDir(), "does-not-exist"),
		Timeout: time.Second,
	})

	require.Error(t, out.Err)
	assert.False(t, out.Started)
	assert.Equal(t, -1, out.ExitCode)
}

func TestOrchestratorWithExecRunner(t *testing.T) {
	orch := NewOrchestrator(helperRunner(), slog.New(slog.DiscardHandler), nil)

	start := time.Now()
	results := orch.Run(context.Background(), []JobSpec{
		helperSpec(t, "first", 10*time.Second, "ok"),
		helperSpec(t, "stuck", 300*time.Millisecond, "sleep"),
		helperSpec(t, "broken", 10*time.Second, "fail"),
		helperSpec(t, "last", 10*time.Second, "ok"),
	})

	require.Len(t, results, 4)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusTimeout, results[1].Status)
	assert.Equal(t, StatusFailure, results[2].Status)
	assert.Equal(t, 3, results[2].ExitCode)
	assert.Equal(t, StatusSuccess, results[3].Status)
	assert.Less(t, time.Since(start), 20*time.Second)
}
