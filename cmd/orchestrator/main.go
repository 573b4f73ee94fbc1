package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"indicators/internal/app"
	"indicators/internal/operations"
)

func main() {
	manifest := flag.String("jobs", "", "YAML job manifest; the default batch runs when empty")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := app.RunOrchestrator(ctx, *manifest, operations.ExecRunner{}, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
