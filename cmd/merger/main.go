// Command merger joins the raw catalog tables along the relationship
// manifest and writes data/merged_<table>.csv.
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
	"brickstats/internal/relations"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		slog.Error("Merge failed", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("merger", flag.ContinueOnError)
	dataDir := fs.String("data", "", "directory holding the catalog CSVs (default data)")
	manifest := fs.String("manifest", "", "relationship manifest CSV (default results/relationships.csv)")
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
	if *manifest != "" {
		cfg.Paths.ManifestFile = *manifest
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
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
	logger.InfoContext(ctx, "Starting catalog merge",
		slog.String("run_id", runID),
		slog.String("data_dir", paths.DataDir),
		slog.String("manifest", paths.ManifestFile))

	tracer := operations.NewOperationTracer(providers.Tracer, providers.Metrics)
	manager := operations.NewCatalogManager(paths, analytics.OptionsFromConfig(cfg.Report), tracer, logger)

	resp, err := manager.Execute(ctx, operations.OperationRequest{ID: runID, Pipeline: operations.PipelineMerge})
	if err != nil {
		return err
	}

	for _, res := range resp.StepResults() {
		if res.Status == relations.StepSkipped {
			fmt.Fprintf(out, "skipped %s.%s -> %s.%s (%s)\n",
				res.Relationship.SourceTable, res.Relationship.SourceColumn,
				res.Relationship.TargetTable, res.Relationship.TargetColumn, res.Reason)
			continue
		}
		fmt.Fprintf(out, "merged %s.%s -> %s.%s: %d rows\n",
			res.Relationship.SourceTable, res.Relationship.SourceColumn,
			res.Relationship.TargetTable, res.Relationship.TargetColumn, res.RowsAfter)
	}
	for _, path := range resp.Files(operations.ContextKeyMergedFiles) {
		fmt.Fprintf(out, "wrote %s\n", path)
	}

	logger.InfoContext(ctx, "Catalog merge completed",
		slog.String("run_id", runID),
		slog.Duration("duration", resp.Duration))
	return nil
}
