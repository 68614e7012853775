package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"brickstats/internal/infrastructure"
)

const (
	TracerName = "brickstats.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipelines
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.CatalogMetrics
}

// NewOperationTracer creates a tracer. A nil tracer uses the global provider
// and nil metrics record nothing.
func NewOperationTracer(tracer trace.Tracer, metrics *infrastructure.CatalogMetrics) *OperationTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	if metrics == nil {
		metrics = infrastructure.NoopCatalogMetrics()
	}
	return &OperationTracer{tracer: tracer, metrics: metrics}
}

// TraceOperation creates a span for the entire pipeline execution
func (pt *OperationTracer) TraceOperation(ctx context.Context, operationID, pipeline string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("operation.execute.%s", pipeline),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("operation.pipeline", pipeline),
		),
	)
}

// TraceStep creates a span for one step
func (pt *OperationTracer) TraceStep(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	return pt.tracer.Start(ctx, fmt.Sprintf("operation.step.%s", stepID),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion closes out a step span and records the step metrics
func (pt *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "failure"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	attrs := metric.WithAttributes(
		attribute.String("step_id", stepID),
		attribute.String("status", status),
	)
	pt.metrics.StepsTotal.Add(ctx, 1, attrs)
	pt.metrics.StepDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordOperationCompletion sets the final status on the pipeline span
func (pt *OperationTracer) RecordOperationCompletion(span trace.Span, duration time.Duration, err error) {
	span.SetAttributes(attribute.Float64("operation.duration_seconds", duration.Seconds()))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}

// Metrics exposes the catalog metrics to steps
func (pt *OperationTracer) Metrics() *infrastructure.CatalogMetrics {
	return pt.metrics
}
