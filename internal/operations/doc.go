// Package operations runs a batch of ingestion jobs, one after another.
//
// Each job is an external process described by a JobSpec: a command, an
// argument vector and a timeout. The Orchestrator starts the jobs in order,
// waits for each to finish or hit its deadline, and records one JobResult per
// job. A job that fails or times out never stops the batch:
//
//	orch := operations.NewOrchestrator(operations.ExecRunner{}, logger, tracer)
//	results := orch.Run(ctx, specs)
//	summary := operations.Summarize(results)
//	if summary.Failed() > 0 {
//		os.Exit(1)
//	}
//
// A job killed at its deadline gets no chance to clean up. Anything it
// committed before the kill stays committed.
package operations
