// Command reporter computes the catalog statistics from the merged tables,
// renders the charts and writes the CSV and workbook exports.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"brickstats/internal/analytics"
	"brickstats/internal/config"
	"brickstats/internal/infrastructure"
	"brickstats/internal/operations"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		slog.Error("Report failed", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("reporter", flag.ContinueOnError)
	dataDir := fs.String("data", "", "directory holding the merged CSVs (default data)")
	visualsDir := fs.String("visuals", "", "chart output directory (default visuals)")
	resultsDir := fs.String("results", "", "statistics export directory (default results)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *dataDir != "" {
		cfg.Paths.DataDir = *dataDir
	}
	if *visualsDir != "" {
		cfg.Paths.VisualsDir = *visualsDir
	}
	if *resultsDir != "" {
		cfg.Paths.ResultsDir = *resultsDir
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer providers.Shutdown(context.Background())

	ctx, runID := infrastructure.NewRunContext(ctx)
	logger.InfoContext(ctx, "Starting catalog report",
		slog.String("run_id", runID),
		slog.String("data_dir", paths.DataDir),
		slog.Int("min_year", cfg.Report.MinYear))

	tracer := operations.NewOperationTracer(providers.Tracer, providers.Metrics)
	manager := operations.NewCatalogManager(paths, analytics.OptionsFromConfig(cfg.Report), tracer, logger)

	resp, err := manager.Execute(ctx, operations.OperationRequest{ID: runID, Pipeline: operations.PipelineReport})
	if err != nil {
		return err
	}

	if stats, ok := resp.Statistics(); ok {
		fmt.Fprintf(out, "years: %d, themes: %d, growth entries: %d\n",
			len(stats.SetsPerYear.Points), len(stats.TopThemes), len(stats.YoYGrowth))
	}
	for _, key := range []string{operations.ContextKeyCharts, operations.ContextKeyExports} {
		for _, path := range resp.Files(key) {
			fmt.Fprintf(out, "wrote %s\n", path)
		}
	}

	logger.InfoContext(ctx, "Catalog report completed",
		slog.String("run_id", runID),
		slog.Duration("duration", resp.Duration))
	return nil
}
