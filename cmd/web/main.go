package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"indicators/internal/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := app.NewRuntime(ctx, "web", os.Stderr)
	if err != nil {
		slog.Error("Failed to initialize runtime", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv, err := app.NewServer(rt)
	if err != nil {
		rt.Logger.Error("Failed to initialize server", slog.String("error", err.Error()))
		_ = rt.Close(context.Background())
		os.Exit(1)
	}

	runErr := srv.Run(ctx)

	closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = rt.Close(closeCtx)

	if runErr != nil {
		slog.Error("Server error", slog.String("error", runErr.Error()))
		os.Exit(1)
	}
}
