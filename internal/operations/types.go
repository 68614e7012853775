package operations

import (
	"time"

	"brickstats/internal/dataset"
	"brickstats/internal/relations"
	"brickstats/pkg/contracts/domain"
)

// Pipeline names
const (
	PipelineMerge   = "merge"
	PipelineReport  = "report"
	PipelineRefresh = "refresh"
)

// Step identifiers
const (
	StepIDLoadBaseTables     = "load_base_tables"
	StepIDLoadManifest       = "load_manifest"
	StepIDApplyRelationships = "apply_relationships"
	StepIDWriteMerged        = "write_merged"
	StepIDLoadMergedTables   = "load_merged_tables"
	StepIDSummarize          = "summarize"
	StepIDRenderCharts       = "render_charts"
	StepIDExportStatistics   = "export_statistics"
)

// Step names
const (
	StepNameLoadBaseTables     = "Load Base Tables"
	StepNameLoadManifest       = "Load Relationship Manifest"
	StepNameApplyRelationships = "Apply Relationships"
	StepNameWriteMerged        = "Write Merged Tables"
	StepNameLoadMergedTables   = "Load Merged Tables"
	StepNameSummarize          = "Compute Statistics"
	StepNameRenderCharts       = "Render Charts"
	StepNameExportStatistics   = "Export Statistics"
)

// Context keys shared between steps
const (
	ContextKeyRegistry    = "registry"
	ContextKeyManifest    = "manifest"
	ContextKeyStepResults = "step_results"
	ContextKeyMergedFiles = "merged_files"
	ContextKeyStatistics  = "statistics"
	ContextKeyCharts      = "charts"
	ContextKeyExports     = "exports"
)

// Default timeouts
const (
	DefaultStepTimeout = 10 * time.Minute
)

// OperationRequest asks the manager to run one pipeline. Parameters seed the
// operation context.
type OperationRequest struct {
	ID         string         `json:"id,omitempty"`
	Pipeline   string         `json:"pipeline"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

// OperationResponse reports the outcome of a pipeline execution
type OperationResponse struct {
	ID       string          `json:"id"`
	Pipeline string          `json:"pipeline"`
	Status   OperationStatus `json:"status"`
	Duration time.Duration   `json:"duration"`
	Steps    []*StepState    `json:"steps"`
	Error    string          `json:"error,omitempty"`

	context map[string]any
}

// Registry returns the table registry left by the pipeline
func (r *OperationResponse) Registry() (*dataset.Registry, bool) {
	reg, ok := r.context[ContextKeyRegistry].(*dataset.Registry)
	return reg, ok
}

// Statistics returns the statistics computed by the pipeline
func (r *OperationResponse) Statistics() (*domain.Statistics, bool) {
	stats, ok := r.context[ContextKeyStatistics].(*domain.Statistics)
	return stats, ok
}

// StepResults returns the per-relationship outcomes of a merge
func (r *OperationResponse) StepResults() []relations.StepResult {
	results, _ := r.context[ContextKeyStepResults].([]relations.StepResult)
	return results
}

// Files returns the paths written under key (merged files, charts, exports)
func (r *OperationResponse) Files(key string) []string {
	files, _ := r.context[key].([]string)
	return files
}
