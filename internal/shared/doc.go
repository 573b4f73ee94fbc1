// Package shared holds helpers used by more than one package.
//
// The testutil subpackage captures slog output so tests can assert on the
// events a component logs:
//
//	logger, logs := testutil.NewTestLogger(t)
//	runSomething(logger)
//	testutil.AssertLogged(t, logs, slog.LevelInfo, "load_completed", map[string]any{"dataset": "inflation"})
package shared
