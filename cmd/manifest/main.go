// Command manifest reads the foreign keys of a Postgres catalog and writes
// them as the relationship manifest used by merger. BRICK_DATABASE_URL must
// point at the database.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"brickstats/internal/config"
	"brickstats/internal/infrastructure"
	"brickstats/internal/schema"
)

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err != nil {
		slog.Error("Manifest export failed", slog.String("error", err.Error()))
	}
	infrastructure.CloseLogFile()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("manifest", flag.ContinueOnError)
	outFile := fs.String("out", "", "manifest CSV to write (default results/relationships.csv)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if *outFile != "" {
		cfg.Paths.ManifestFile = *outFile
	}

	paths, err := cfg.ResolvePaths()
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx, runID := infrastructure.NewRunContext(ctx)

	pool, err := schema.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	logger.InfoContext(ctx, "Introspecting foreign keys",
		slog.String("run_id", runID),
		slog.String("schema", cfg.Database.Schema),
		slog.String("out", paths.ManifestFile))

	introspector := schema.NewIntrospector(pool, cfg.Database.Schema, cfg.Database.QueryTimeout, logger)
	rels, err := introspector.ExportManifest(ctx, paths.ManifestFile)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %d relationships to %s\n", len(rels), paths.ManifestFile)
	return nil
}
