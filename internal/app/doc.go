// Package app wires configuration, logging, telemetry and storage into the
// binaries under cmd/.
//
// # Lifecycle
//
// Every binary starts the same way:
//
//  1. Load configuration from .env, the environment and config.yaml
//  2. Initialize the slog logger and OpenTelemetry providers
//  3. Open the handles it needs (store, archive, fetcher)
//  4. Run, then close every handle it opened
//
// Job binaries run through RunJob, which owns steps 1 to 4 and maps the
// outcome to an exit code. The query service runs through Server.
package app
