package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"brickstats/internal/app"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("Application error", slog.String("error", err.Error()))
		cancel()
		os.Exit(1)
	}
}

// run serves the stats API until ctx is cancelled
func run(ctx context.Context) error {
	application, err := app.NewApplication()
	if err != nil {
		return err
	}
	return application.Serve(ctx)
}
