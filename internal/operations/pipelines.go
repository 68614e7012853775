package operations

import (
	"log/slog"

	"brickstats/internal/analytics"
	"brickstats/internal/charts"
	"brickstats/internal/config"
	"brickstats/internal/exporter"
	"brickstats/internal/infrastructure"
	"brickstats/internal/relations"
)

// NewMergePipeline builds load base tables -> load manifest -> apply
// relationships -> write merged tables.
func NewMergePipeline(paths *config.Paths, metrics *infrastructure.CatalogMetrics, logger *slog.Logger) *Registry {
	return NewRegistry().MustRegister(
		NewLoadTablesStep(StepIDLoadBaseTables, StepNameLoadBaseTables, config.BaseTables, paths.BaseTablePath, logger),
		NewLoadManifestStep(paths.ManifestFile, logger),
		NewApplyRelationshipsStep(relations.NewMerger(logger, metrics)),
		NewWriteMergedStep(paths.DataDir, metrics, logger),
	)
}

// NewReportPipeline builds load merged tables -> statistics -> charts ->
// exports.
func NewReportPipeline(paths *config.Paths, opts analytics.Options, metrics *infrastructure.CatalogMetrics, logger *slog.Logger) *Registry {
	csvWriter := exporter.NewCSVWriter(paths, logger)
	return NewRegistry().MustRegister(
		NewLoadTablesStep(StepIDLoadMergedTables, StepNameLoadMergedTables, analytics.RequiredTables, paths.MergedTablePath, logger),
		NewSummarizeStep(opts),
		NewRenderChartsStep(charts.NewRenderer(logger, metrics), paths, opts.TopN),
		NewExportStatisticsStep(exporter.NewStatsExporter(csvWriter, logger), exporter.NewWorkbookWriter(logger), paths.WorkbookFile, opts.TopN, metrics),
	)
}

// NewRefreshPipeline loads every merged table and computes the statistics
// without writing anything. The loaded registry backs the table listing.
func NewRefreshPipeline(paths *config.Paths, opts analytics.Options, logger *slog.Logger) *Registry {
	return NewRegistry().MustRegister(
		NewLoadTablesStep(StepIDLoadMergedTables, StepNameLoadMergedTables, config.BaseTables, paths.MergedTablePath, logger),
		NewSummarizeStep(opts),
	)
}

// NewCatalogManager returns a manager with the merge, report and refresh
// pipelines registered.
func NewCatalogManager(paths *config.Paths, opts analytics.Options, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if tracer == nil {
		tracer = NewOperationTracer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := NewManager(NewConfig(), tracer, logger)
	m.RegisterPipeline(PipelineMerge, NewMergePipeline(paths, tracer.Metrics(), logger))
	m.RegisterPipeline(PipelineReport, NewReportPipeline(paths, opts, tracer.Metrics(), logger))
	m.RegisterPipeline(PipelineRefresh, NewRefreshPipeline(paths, opts, logger))
	return m
}
