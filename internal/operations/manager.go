package operations

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"brickstats/internal/infrastructure"
)

// Manager orchestrates pipeline execution
type Manager struct {
	config *Config
	tracer *OperationTracer
	logger *slog.Logger

	pipelinesMu sync.RWMutex
	pipelines   map[string]*Registry

	// Active operations
	mu         sync.RWMutex
	operations map[string]*OperationState
}

// NewManager creates a new pipeline manager
func NewManager(config *Config, tracer *OperationTracer, logger *slog.Logger) *Manager {
	if config == nil {
		config = NewConfig()
	}
	if tracer == nil {
		tracer = NewOperationTracer(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		config:     config,
		tracer:     tracer,
		logger:     logger.With("component", "operations"),
		pipelines:  make(map[string]*Registry),
		operations: make(map[string]*OperationState),
	}
}

// RegisterPipeline adds or replaces the steps run for name
func (m *Manager) RegisterPipeline(name string, registry *Registry) {
	m.pipelinesMu.Lock()
	defer m.pipelinesMu.Unlock()
	m.pipelines[name] = registry
}

// Execute runs the requested pipeline. The response is returned even when a
// step fails so callers can report per-step states.
func (m *Manager) Execute(ctx context.Context, req OperationRequest) (*OperationResponse, error) {
	m.pipelinesMu.RLock()
	registry, ok := m.pipelines[req.Pipeline]
	m.pipelinesMu.RUnlock()
	if !ok {
		return nil, NewPipelineNotFoundError(req.Pipeline)
	}

	if req.ID == "" {
		req.ID = infrastructure.GetRunID(ctx)
	}
	if req.ID == "" {
		req.ID = infrastructure.GenerateTraceID()
	}

	state := NewOperationState(req.ID, req.Pipeline)
	for k, v := range req.Parameters {
		state.SetContext(k, v)
	}

	steps := registry.List()
	for _, step := range steps {
		state.SetStep(step.ID(), NewStepState(step.ID(), step.Name()))
	}

	m.storeOperation(state)
	defer m.removeOperation(req.ID)

	ctx, span := m.tracer.TraceOperation(ctx, req.ID, req.Pipeline)
	defer span.End()

	m.logger.InfoContext(ctx, "executing_pipeline",
		slog.String("operation_id", req.ID),
		slog.String("pipeline", req.Pipeline),
		slog.Int("step_count", len(steps)))

	state.Start()
	err := m.executeSequential(ctx, state, steps)
	if err != nil {
		state.Fail(err)
		m.logger.ErrorContext(ctx, "pipeline_failed",
			slog.String("operation_id", req.ID),
			slog.String("pipeline", req.Pipeline),
			slog.String("error", err.Error()))
	} else {
		state.Complete()
		m.logger.InfoContext(ctx, "pipeline_completed",
			slog.String("operation_id", req.ID),
			slog.String("pipeline", req.Pipeline),
			slog.Duration("duration", state.Duration()))
	}
	m.tracer.RecordOperationCompletion(span, state.Duration(), err)

	return m.createResponse(state, steps), err
}

// executeSequential runs steps in order and stops at the first failure,
// marking the steps after it as skipped.
func (m *Manager) executeSequential(ctx context.Context, state *OperationState, steps []Step) error {
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			m.logger.WarnContext(ctx, "operation_cancelled",
				slog.String("operation_id", state.ID),
				slog.String("step", step.ID()))
			m.skipRemaining(state, steps[i:], "operation cancelled")
			return NewCancellationError(step.ID(), err)
		}

		m.logger.InfoContext(ctx, "executing_step",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Int("step_number", i+1),
			slog.Int("total_steps", len(steps)))

		if err := m.executeStep(ctx, state, step); err != nil {
			m.skipRemaining(state, steps[i+1:], fmt.Sprintf("previous step %s failed", step.ID()))
			return err
		}
	}
	return nil
}

// executeStep validates and runs one step under its own span and timeout
func (m *Manager) executeStep(ctx context.Context, state *OperationState, step Step) error {
	stepState := state.GetStep(step.ID())

	if err := step.Validate(state); err != nil {
		m.logger.WarnContext(ctx, "validation_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.String("error", err.Error()))
		verr := NewValidationError(step.ID(), err)
		stepState.Fail(verr)
		return verr
	}

	timeout := m.config.GetStepTimeout(step.ID())
	stepCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stepCtx, span := m.tracer.TraceStep(stepCtx, state.ID, step.ID())
	defer span.End()

	stepState.Start()
	start := time.Now()
	err := step.Execute(stepCtx, state)
	duration := time.Since(start)

	if err != nil && errors.Is(stepCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		err = NewTimeoutError(step.ID(), timeout.String())
	}

	m.tracer.RecordStepCompletion(stepCtx, span, step.ID(), duration, err)

	if err != nil {
		stepState.Fail(err)
		m.logger.ErrorContext(ctx, "step_execution_failed",
			slog.String("operation_id", state.ID),
			slog.String("step", step.ID()),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return WrapError(err, step.ID())
	}

	stepState.Complete("step completed")
	m.logger.InfoContext(ctx, "step_completed",
		slog.String("operation_id", state.ID),
		slog.String("step", step.ID()),
		slog.Duration("duration", duration))
	return nil
}

func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil && s.GetStatus() == StepStatusPending {
			s.Skip(reason)
		}
	}
}

// createResponse creates a response listing step states in pipeline order
func (m *Manager) createResponse(state *OperationState, steps []Step) *OperationResponse {
	resp := &OperationResponse{
		ID:       state.ID,
		Pipeline: state.Pipeline,
		Status:   state.Status,
		Duration: state.Duration(),
		Steps:    make([]*StepState, 0, len(steps)),
		context:  make(map[string]any),
	}

	for _, step := range steps {
		if s := state.GetStep(step.ID()); s != nil {
			resp.Steps = append(resp.Steps, s.clone())
		}
	}

	state.mu.RLock()
	for k, v := range state.Context {
		resp.context[k] = v
	}
	if state.Error != nil {
		resp.Error = state.Error.Error()
	}
	state.mu.RUnlock()

	return resp
}

// ActiveOperations returns the number of running operations
func (m *Manager) ActiveOperations() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.operations)
}

func (m *Manager) storeOperation(state *OperationState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.operations[state.ID] = state
}

func (m *Manager) removeOperation(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.operations, id)
}
