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
	code := app.RunJob(ctx, app.Job[jobs.ExchangeRateArgs]{
		Name:  config.JobExchangeRate,
		Parse: jobs.ParseExchangeRateArgs,
		Run:   jobs.RunExchangeRate,
	}, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
