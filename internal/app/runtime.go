package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"indicators/internal/config"
	"indicators/internal/infrastructure"
)

// Runtime is the configuration, logger and telemetry shared by one process
type Runtime struct {
	Config    *config.Config
	Logger    *slog.Logger
	Telemetry *infrastructure.TelemetryProviders
}

// NewRuntime loads configuration and initializes logging and telemetry.
// Console logs and exported spans go to console.
func NewRuntime(ctx context.Context, component string, console io.Writer) (*Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return newRuntime(ctx, cfg, component, console)
}

func newRuntime(ctx context.Context, cfg *config.Config, component string, console io.Writer) (*Runtime, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging, console)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = infrastructure.WithComponent(logger, component)
	slog.SetDefault(logger)

	telemetry, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, console, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize telemetry: %w", err)
	}

	return &Runtime{Config: cfg, Logger: logger, Telemetry: telemetry}, nil
}

// Close flushes telemetry and releases the log file
func (rt *Runtime) Close(ctx context.Context) error {
	var errs []error
	if rt.Telemetry != nil {
		if err := rt.Telemetry.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
