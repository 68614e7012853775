package operations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"brickstats/internal/analytics"
	"brickstats/internal/charts"
	"brickstats/internal/config"
	"brickstats/internal/dataset"
	"brickstats/internal/exporter"
	"brickstats/internal/infrastructure"
	"brickstats/internal/relations"
	"brickstats/pkg/contracts/domain"
)

// LoadTablesStep reads a fixed list of CSV tables into a registry
type LoadTablesStep struct {
	BaseStep
	tables  []string
	pathFor func(string) string
	logger  *slog.Logger
}

// NewLoadTablesStep creates a step loading tables through pathFor
func NewLoadTablesStep(id, name string, tables []string, pathFor func(string) string, logger *slog.Logger) *LoadTablesStep {
	return &LoadTablesStep{
		BaseStep: NewBaseStep(id, name),
		tables:   tables,
		pathFor:  pathFor,
		logger:   logger.With(slog.String("step", id)),
	}
}

// Execute loads every table and stores the registry in the context
func (s *LoadTablesStep) Execute(ctx context.Context, state *OperationState) error {
	reg, err := dataset.LoadRegistry(ctx, s.tables, s.pathFor, s.logger)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyRegistry, reg)
	state.GetStep(s.ID()).SetMetadata("tables", reg.Len())
	return nil
}

// LoadManifestStep parses the relationship manifest
type LoadManifestStep struct {
	BaseStep
	path   string
	logger *slog.Logger
}

// NewLoadManifestStep creates a step reading the manifest at path
func NewLoadManifestStep(path string, logger *slog.Logger) *LoadManifestStep {
	return &LoadManifestStep{
		BaseStep: NewBaseStep(StepIDLoadManifest, StepNameLoadManifest),
		path:     path,
		logger:   logger.With(slog.String("step", StepIDLoadManifest)),
	}
}

// Execute parses the manifest into the context
func (s *LoadManifestStep) Execute(ctx context.Context, state *OperationState) error {
	rels, err := relations.LoadManifest(s.path)
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "manifest loaded",
		slog.String("path", s.path),
		slog.Int("relationships", len(rels)))

	state.SetContext(ContextKeyManifest, rels)
	state.GetStep(s.ID()).SetMetadata("relationships", len(rels))
	return nil
}

// ApplyRelationshipsStep folds the manifest over the loaded registry
type ApplyRelationshipsStep struct {
	BaseStep
	merger *relations.Merger
}

// NewApplyRelationshipsStep creates the merge step
func NewApplyRelationshipsStep(merger *relations.Merger) *ApplyRelationshipsStep {
	return &ApplyRelationshipsStep{
		BaseStep: NewBaseStep(StepIDApplyRelationships, StepNameApplyRelationships),
		merger:   merger,
	}
}

// Validate requires a registry and a manifest from earlier steps
func (s *ApplyRelationshipsStep) Validate(state *OperationState) error {
	if _, ok := contextValue[*dataset.Registry](state, ContextKeyRegistry); !ok {
		return fmt.Errorf("no table registry loaded")
	}
	if _, ok := contextValue[[]relations.Relationship](state, ContextKeyManifest); !ok {
		return fmt.Errorf("no relationship manifest loaded")
	}
	return nil
}

// Execute replaces the context registry with the merged one
func (s *ApplyRelationshipsStep) Execute(ctx context.Context, state *OperationState) error {
	reg, _ := contextValue[*dataset.Registry](state, ContextKeyRegistry)
	rels, _ := contextValue[[]relations.Relationship](state, ContextKeyManifest)

	merged, results, err := s.merger.Apply(ctx, reg, rels)
	state.SetContext(ContextKeyStepResults, results)
	if err != nil {
		return err
	}

	var applied, skipped int
	for _, res := range results {
		if res.Status == relations.StepApplied {
			applied++
		} else {
			skipped++
		}
	}

	state.SetContext(ContextKeyRegistry, merged)
	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("applied", applied)
	stepState.SetMetadata("skipped", skipped)
	return nil
}

// WriteMergedStep persists the merged registry as merged_<table>.csv files
type WriteMergedStep struct {
	BaseStep
	dir     string
	metrics *infrastructure.CatalogMetrics
	logger  *slog.Logger
}

// NewWriteMergedStep creates a step writing into dir
func NewWriteMergedStep(dir string, metrics *infrastructure.CatalogMetrics, logger *slog.Logger) *WriteMergedStep {
	if metrics == nil {
		metrics = infrastructure.NoopCatalogMetrics()
	}
	return &WriteMergedStep{
		BaseStep: NewBaseStep(StepIDWriteMerged, StepNameWriteMerged),
		dir:      dir,
		metrics:  metrics,
		logger:   logger.With(slog.String("step", StepIDWriteMerged)),
	}
}

// Validate requires a registry
func (s *WriteMergedStep) Validate(state *OperationState) error {
	if _, ok := contextValue[*dataset.Registry](state, ContextKeyRegistry); !ok {
		return fmt.Errorf("no table registry to write")
	}
	return nil
}

// Execute writes each table and counts the rows written
func (s *WriteMergedStep) Execute(ctx context.Context, state *OperationState) error {
	reg, _ := contextValue[*dataset.Registry](state, ContextKeyRegistry)

	files, err := relations.WriteMerged(ctx, reg, s.dir)
	state.SetContext(ContextKeyMergedFiles, files)
	if err != nil {
		return err
	}

	var rows int64
	for _, t := range reg.Tables() {
		rows += int64(t.Len())
	}
	s.metrics.RowsWritten.Add(ctx, rows, metric.WithAttributes(attribute.String("output", "merged")))

	s.logger.InfoContext(ctx, "merged tables written",
		slog.String("dir", s.dir),
		slog.Int("files", len(files)),
		slog.Int64("rows", rows))
	state.GetStep(s.ID()).SetMetadata("files", len(files))
	return nil
}

// SummarizeStep computes the four statistics reports
type SummarizeStep struct {
	BaseStep
	opts analytics.Options
}

// NewSummarizeStep creates the statistics step
func NewSummarizeStep(opts analytics.Options) *SummarizeStep {
	return &SummarizeStep{
		BaseStep: NewBaseStep(StepIDSummarize, StepNameSummarize),
		opts:     opts,
	}
}

// Validate requires a registry
func (s *SummarizeStep) Validate(state *OperationState) error {
	if _, ok := contextValue[*dataset.Registry](state, ContextKeyRegistry); !ok {
		return fmt.Errorf("no merged tables loaded")
	}
	return nil
}

// Execute stores the statistics in the context
func (s *SummarizeStep) Execute(ctx context.Context, state *OperationState) error {
	reg, _ := contextValue[*dataset.Registry](state, ContextKeyRegistry)

	stats, err := analytics.Summarize(reg, s.opts)
	if err != nil {
		return err
	}

	state.SetContext(ContextKeyStatistics, stats)
	stepState := state.GetStep(s.ID())
	stepState.SetMetadata("years", len(stats.SetsPerYear.Points))
	stepState.SetMetadata("themes", len(stats.TopThemes))
	return nil
}

// RenderChartsStep draws the report charts
type RenderChartsStep struct {
	BaseStep
	renderer *charts.Renderer
	paths    *config.Paths
	topN     int
}

// NewRenderChartsStep creates the chart step. The theme rankings are drawn
// with at most topN bars.
func NewRenderChartsStep(renderer *charts.Renderer, paths *config.Paths, topN int) *RenderChartsStep {
	return &RenderChartsStep{
		BaseStep: NewBaseStep(StepIDRenderCharts, StepNameRenderCharts),
		renderer: renderer,
		paths:    paths,
		topN:     topN,
	}
}

// Validate requires statistics
func (s *RenderChartsStep) Validate(state *OperationState) error {
	if _, ok := contextValue[*domain.Statistics](state, ContextKeyStatistics); !ok {
		return fmt.Errorf("no statistics to chart")
	}
	return nil
}

// Execute renders every chart
func (s *RenderChartsStep) Execute(ctx context.Context, state *OperationState) error {
	stats, _ := contextValue[*domain.Statistics](state, ContextKeyStatistics)

	files, err := s.renderer.RenderAll(ctx, analytics.Truncate(stats, s.topN), s.paths)
	state.SetContext(ContextKeyCharts, files)
	if err != nil {
		return err
	}
	state.GetStep(s.ID()).SetMetadata("charts", len(files))
	return nil
}

// ExportStatisticsStep writes the report CSVs and the workbook
type ExportStatisticsStep struct {
	BaseStep
	csv          *exporter.StatsExporter
	workbook     *exporter.WorkbookWriter
	workbookPath string
	topN         int
	metrics      *infrastructure.CatalogMetrics
}

// NewExportStatisticsStep creates the export step. The theme rankings are
// written with at most topN rows.
func NewExportStatisticsStep(csv *exporter.StatsExporter, workbook *exporter.WorkbookWriter, workbookPath string, topN int, metrics *infrastructure.CatalogMetrics) *ExportStatisticsStep {
	if metrics == nil {
		metrics = infrastructure.NoopCatalogMetrics()
	}
	return &ExportStatisticsStep{
		BaseStep:     NewBaseStep(StepIDExportStatistics, StepNameExportStatistics),
		csv:          csv,
		workbook:     workbook,
		workbookPath: workbookPath,
		topN:         topN,
		metrics:      metrics,
	}
}

// Validate requires statistics
func (s *ExportStatisticsStep) Validate(state *OperationState) error {
	if _, ok := contextValue[*domain.Statistics](state, ContextKeyStatistics); !ok {
		return fmt.Errorf("no statistics to export")
	}
	return nil
}

// Execute writes one CSV per report plus the combined workbook
func (s *ExportStatisticsStep) Execute(ctx context.Context, state *OperationState) error {
	stats, _ := contextValue[*domain.Statistics](state, ContextKeyStatistics)
	reports := exporter.BuildReports(analytics.Truncate(stats, s.topN))

	files, err := s.csv.Export(ctx, reports)
	if err != nil {
		state.SetContext(ContextKeyExports, files)
		return err
	}
	if err := s.workbook.Write(ctx, reports, s.workbookPath); err != nil {
		state.SetContext(ContextKeyExports, files)
		return err
	}
	files = append(files, s.workbookPath)
	state.SetContext(ContextKeyExports, files)

	var rows int64
	for _, r := range reports {
		rows += int64(len(r.Rows))
	}
	s.metrics.RowsWritten.Add(ctx, rows, metric.WithAttributes(attribute.String("output", "export")))

	state.GetStep(s.ID()).SetMetadata("files", len(files))
	return nil
}
