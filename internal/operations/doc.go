// Package operations runs brickstats batch jobs as ordered step pipelines.
//
// A pipeline is a Registry of Steps executed in registration order by a
// Manager. Steps share data through the OperationState context: the merge
// pipeline loads the base tables, loads the manifest, applies the
// relationships and writes merged_<table>.csv files; the report pipeline
// loads the merged tables, computes the statistics, renders the charts and
// writes the exports. Execution stops at the first failing step and the
// remaining steps are marked skipped.
//
// Every step runs inside its own span and is counted in the
// pipeline_steps_total and pipeline_step_duration_seconds metrics.
package operations
