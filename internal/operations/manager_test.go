package operations

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"indicators/internal/shared/testutil"
)

// fakeRunner simulates jobs by name. A job sleeps for its duration unless
// its context ends first.
type fakeRunner struct {
	mu        sync.Mutex
	durations map[string]time.Duration
	exitCodes map[string]int
	startErr  map[string]error
	stdout    map[string]string
	calls     []string
	cancelOn  string
	cancel    context.CancelFunc
}

func (f *fakeRunner) Run(ctx context.Context, spec JobSpec) RunOutcome {
	f.mu.Lock()
	f.calls = append(f.calls, spec.Name)
	f.mu.Unlock()

	if err := f.startErr[spec.Name]; err != nil {
		return RunOutcome{ExitCode: -1, Err: err}
	}
	if spec.Name == f.cancelOn && f.cancel != nil {
		f.cancel()
	}

	select {
	case <-time.After(f.durations[spec.Name]):
	case <-ctx.Done():
		return RunOutcome{ExitCode: -1, Started: true, Err: ctx.Err(), Stderr: "killed"}
	}

	code := f.exitCodes[spec.Name]
	out := RunOutcome{ExitCode: code, Started: true, Stdout: f.stdout[spec.Name]}
	if code != 0 {
		out.Err = errors.New("exit status")
		out.Stderr = spec.Name + " failed"
	}
	return out
}

func (f *fakeRunner) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func spec(name string, timeout time.Duration) JobSpec {
	return JobSpec{Name: name, Command: name, Timeout: timeout}
}

func TestOrchestratorTimeoutIsolation(t *testing.T) {
	runner := &fakeRunner{durations: map[string]time.Duration{
		"A": 10 * time.Millisecond,
		"B": 5 * time.Second,
		"C": 10 * time.Millisecond,
	}}
	logger, logs := testutil.NewTestLogger(nil)
	orch := NewOrchestrator(runner, logger, nil)

	start := time.Now()
	results := orch.Run(context.Background(), []JobSpec{
		spec("A", time.Second),
		spec("B", 50*time.Millisecond),
		spec("C", time.Second),
	})

	require.Len(t, results, 3)
	assert.Equal(t, []string{"A", "B", "C"}, []string{results[0].JobName, results[1].JobName, results[2].JobName})
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusTimeout, results[1].Status)
	assert.Equal(t, StatusSuccess, results[2].Status)
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(results[1].Err))
	assert.Less(t, time.Since(start), 2*time.Second, "B must be cut at its deadline")
	assert.Equal(t, []string{"A", "B", "C"}, runner.Calls())

	testutil.AssertLogged(t, logs, slog.LevelError, "job_error", map[string]any{"job": "B", "status": "timeout"})
	testutil.AssertLogged(t, logs, slog.LevelInfo, "batch_complete", map[string]any{"succeeded": int64(2), "timed_out": int64(1)})
}

func TestOrchestratorFailureDoesNotStopBatch(t *testing.T) {
	runner := &fakeRunner{
		exitCodes: map[string]int{"employment": 1},
		startErr:  map[string]error{"inflation": errors.New("exec: no such file")},
		stdout:    map[string]string{"exchangerate": "loaded 120 rows\n"},
	}
	orch := NewOrchestrator(runner, slog.New(slog.DiscardHandler), nil)

	results := orch.Run(context.Background(), []JobSpec{
		spec("employment", time.Second),
		spec("inflation", time.Second),
		spec("exchangerate", time.Second),
	})

	require.Len(t, results, 3)

	assert.Equal(t, StatusFailure, results[0].Status)
	assert.Equal(t, 1, results[0].ExitCode)
	assert.Equal(t, ErrorTypeExecution, GetErrorType(results[0].Err))
	assert.Equal(t, "employment failed", results[0].Stderr)

	assert.Equal(t, StatusFailure, results[1].Status)
	assert.Equal(t, ErrorTypeStart, GetErrorType(results[1].Err))

	assert.Equal(t, StatusSuccess, results[2].Status)
	assert.Equal(t, "loaded 120 rows\n", results[2].Output())
	assert.NoError(t, results[2].Err)

	assert.Equal(t, 2, Summarize(results).Failed())
}

func TestOrchestratorCancelledBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runner := &fakeRunner{
		durations: map[string]time.Duration{"A": 10 * time.Millisecond, "B": 5 * time.Second},
		cancelOn:  "B",
		cancel:    cancel,
	}
	orch := NewOrchestrator(runner, slog.New(slog.DiscardHandler), nil)

	results := orch.Run(ctx, []JobSpec{
		spec("A", time.Second),
		spec("B", 10*time.Second),
		spec("C", time.Second),
	})

	require.Len(t, results, 3)
	assert.Equal(t, StatusSuccess, results[0].Status)
	assert.Equal(t, StatusFailure, results[1].Status)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(results[1].Err))
	assert.Equal(t, StatusFailure, results[2].Status)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(results[2].Err))
	assert.Equal(t, []string{"A", "B"}, runner.Calls(), "C must not start")
}

func TestOrchestratorRejectsInvalidSpec(t *testing.T) {
	runner := &fakeRunner{}
	orch := NewOrchestrator(runner, slog.New(slog.DiscardHandler), nil)

	results := orch.Run(context.Background(), []JobSpec{
		{Name: "no-timeout", Command: "x"},
		{Command: "x", Timeout: time.Second},
		spec("ok", time.Second),
	})

	require.Len(t, results, 3)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(results[0].Err))
	assert.Equal(t, ErrorTypeValidation, GetErrorType(results[1].Err))
	assert.Equal(t, StatusSuccess, results[2].Status)
	assert.Equal(t, []string{"ok"}, runner.Calls())
}

func TestOrchestratorEmptyBatch(t *testing.T) {
	orch := NewOrchestrator(&fakeRunner{}, slog.New(slog.DiscardHandler), nil)
	results := orch.Run(context.Background(), nil)
	assert.Empty(t, results)
	assert.Zero(t, Summarize(results).Failed())
}

func TestOperationError(t *testing.T) {
	cause := errors.New("boom")
	err := NewExecutionError("inflation", 2, cause)

	assert.Equal(t, "[execution] inflation: job exited with code 2: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ErrorTypeExecution, GetErrorType(err))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
	assert.Equal(t, "[timeout] B: job exceeded timeout of 1s", NewTimeoutError("B", time.Second).Error())

	var nilErr *OperationError
	assert.Equal(t, "unknown operation error", nilErr.Error())
	assert.Nil(t, nilErr.Unwrap())
}
