package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"indicators/internal/app"
	"indicators/internal/config"
	"indicators/internal/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.RunJob(ctx, app.Job[jobs.InflationArgs]{
		Name:  config.JobInflation,
		Parse: jobs.ParseInflationArgs,
		Run:   jobs.RunInflation,
	}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
