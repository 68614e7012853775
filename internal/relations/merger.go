package relations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"brickstats/internal/dataset"
	"brickstats/internal/infrastructure"
)

// StepStatus describes what happened to one relationship
type StepStatus string

const (
	StepApplied StepStatus = "applied"
	StepSkipped StepStatus = "skipped"
)

// StepResult records the outcome of folding one relationship
type StepResult struct {
	Relationship Relationship `json:"relationship"`
	Status       StepStatus   `json:"status"`
	Reason       string       `json:"reason,omitempty"`
	RowsBefore   int          `json:"rows_before"`
	RowsAfter    int          `json:"rows_after"`
}

// Step applies one relationship to reg and returns the next registry value.
// When either table is absent the same registry is returned and the result
// is marked skipped. reg itself is never modified.
func Step(reg *dataset.Registry, rel Relationship) (*dataset.Registry, StepResult, error) {
	res := StepResult{Relationship: rel}

	source, ok := reg.Get(rel.SourceTable)
	if !ok {
		res.Status = StepSkipped
		res.Reason = fmt.Sprintf("table %s not loaded", rel.SourceTable)
		return reg, res, nil
	}
	target, ok := reg.Get(rel.TargetTable)
	if !ok {
		res.Status = StepSkipped
		res.Reason = fmt.Sprintf("table %s not loaded", rel.TargetTable)
		return reg, res, nil
	}

	merged, err := dataset.LeftJoin(source, target, rel.SourceColumn, rel.TargetColumn, rel.Suffix())
	if err != nil {
		return nil, res, fmt.Errorf("relationship %s: %w", rel, err)
	}

	res.Status = StepApplied
	res.RowsBefore = source.Len()
	res.RowsAfter = merged.Len()
	return reg.With(merged), res, nil
}

// Apply folds rels over reg in order. Each step sees the registry produced by
// the previous one, so later relationships join against merged tables.
func Apply(ctx context.Context, reg *dataset.Registry, rels []Relationship) (*dataset.Registry, []StepResult, error) {
	results := make([]StepResult, 0, len(rels))
	for _, rel := range rels {
		if err := ctx.Err(); err != nil {
			return nil, results, err
		}
		next, res, err := Step(reg, rel)
		if err != nil {
			return nil, results, err
		}
		results = append(results, res)
		reg = next
	}
	return reg, results, nil
}

// Merger runs Apply with logging and metrics
type Merger struct {
	logger  *slog.Logger
	metrics *infrastructure.CatalogMetrics
}

// NewMerger creates a merger. A nil metrics value records nothing.
func NewMerger(logger *slog.Logger, metrics *infrastructure.CatalogMetrics) *Merger {
	if metrics == nil {
		metrics = infrastructure.NoopCatalogMetrics()
	}
	return &Merger{
		logger:  logger.With(slog.String("component", "merger")),
		metrics: metrics,
	}
}

// Apply folds rels over reg, logging each step
func (m *Merger) Apply(ctx context.Context, reg *dataset.Registry, rels []Relationship) (*dataset.Registry, []StepResult, error) {
	out, results, err := Apply(ctx, reg, rels)

	var applied, skipped int64
	for _, res := range results {
		attrs := metric.WithAttributes(attribute.String("source_table", res.Relationship.SourceTable))
		switch res.Status {
		case StepApplied:
			applied++
			m.metrics.RelationshipsApplied.Add(ctx, 1, attrs)
			m.logger.DebugContext(ctx, "relationship applied",
				slog.String("relationship", res.Relationship.String()),
				slog.Int("rows_before", res.RowsBefore),
				slog.Int("rows_after", res.RowsAfter))
		case StepSkipped:
			skipped++
			m.metrics.RelationshipsSkipped.Add(ctx, 1, attrs)
			m.logger.InfoContext(ctx, "relationship skipped",
				slog.String("relationship", res.Relationship.String()),
				slog.String("reason", res.Reason))
		}
	}

	if err != nil {
		m.logger.ErrorContext(ctx, "merge failed",
			slog.Int("completed", len(results)),
			slog.String("error", err.Error()))
		return nil, results, err
	}

	m.logger.InfoContext(ctx, "relationships merged",
		slog.Int64("applied", applied),
		slog.Int64("skipped", skipped),
		slog.Int("tables", out.Len()))
	return out, results, nil
}
