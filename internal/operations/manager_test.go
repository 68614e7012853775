package operations

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"brickstats/internal/infrastructure"
	"brickstats/internal/shared/testutil"
)

type fakeStep struct {
	BaseStep
	validateErr error
	execErr     error
	block       bool
	run         func(state *OperationState)

	mu    sync.Mutex
	calls int
}

func newFakeStep(id string) *fakeStep {
	return &fakeStep{BaseStep: NewBaseStep(id, "Fake "+id)}
}

func (s *fakeStep) Validate(state *OperationState) error {
	return s.validateErr
}

func (s *fakeStep) Execute(ctx context.Context, state *OperationState) error {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if s.run != nil {
		s.run(state)
	}
	return s.execErr
}

func (s *fakeStep) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func newTestManager(t *testing.T, steps ...Step) *Manager {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	m := NewManager(nil, nil, logger)
	m.RegisterPipeline("test", NewRegistry().MustRegister(steps...))
	return m
}

func statuses(resp *OperationResponse) []StepStatus {
	out := make([]StepStatus, len(resp.Steps))
	for i, s := range resp.Steps {
		out[i] = s.Status
	}
	return out
}

func TestManager_ExecuteRunsStepsInOrder(t *testing.T) {
	var order []string
	a, b, c := newFakeStep("a"), newFakeStep("b"), newFakeStep("c")
	for _, s := range []*fakeStep{a, b, c} {
		id := s.ID()
		s.run = func(*OperationState) { order = append(order, id) }
	}

	m := newTestManager(t, a, b, c)
	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: "test"})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Equal(t, OperationStatusCompleted, resp.Status)
	assert.Equal(t, []StepStatus{StepStatusCompleted, StepStatusCompleted, StepStatusCompleted}, statuses(resp))
	assert.Equal(t, "test", resp.Pipeline)
	assert.NotEmpty(t, resp.ID)
	assert.Zero(t, m.ActiveOperations())
}

func TestManager_StopsAtFirstFailure(t *testing.T) {
	cause := errors.New("disk full")
	a, b, c := newFakeStep("a"), newFakeStep("b"), newFakeStep("c")
	b.execErr = cause

	m := newTestManager(t, a, b, c)
	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: "test"})
	require.Error(t, err)

	assert.ErrorIs(t, err, cause)
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, "b", opErr.Step)
	assert.Equal(t, ErrorTypeExecution, opErr.Type)

	assert.Equal(t, 0, c.Calls())
	assert.Equal(t, OperationStatusFailed, resp.Status)
	assert.Equal(t, []StepStatus{StepStatusCompleted, StepStatusFailed, StepStatusSkipped}, statuses(resp))
	assert.Equal(t, "disk full", resp.Steps[1].Error)
	assert.Contains(t, resp.Steps[2].Message, "previous step b failed")
	assert.NotEmpty(t, resp.Error)
}

func TestManager_ValidationFailure(t *testing.T) {
	a := newFakeStep("a")
	a.validateErr = errors.New("nothing loaded")

	m := newTestManager(t, a)
	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: "test"})
	require.Error(t, err)

	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
	assert.Equal(t, 0, a.Calls())
	assert.Equal(t, StepStatusFailed, resp.Steps[0].Status)
}

func TestManager_UnknownPipeline(t *testing.T) {
	m := newTestManager(t, newFakeStep("a"))
	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: "missing"})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, ErrorTypeNotFound, GetErrorType(err))
}

func TestManager_CancelledContext(t *testing.T) {
	a, b := newFakeStep("a"), newFakeStep("b")
	m := newTestManager(t, a, b)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := m.Execute(ctx, OperationRequest{Pipeline: "test"})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeCancellation, GetErrorType(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []StepStatus{StepStatusSkipped, StepStatusSkipped}, statuses(resp))
}

func TestManager_StepTimeout(t *testing.T) {
	a := newFakeStep("a")
	a.block = true

	logger, _ := testutil.NewTestLogger(t)
	cfg := NewConfig()
	cfg.SetStepTimeout("a", 20*time.Millisecond)
	m := NewManager(cfg, nil, logger)
	m.RegisterPipeline("test", NewRegistry().MustRegister(a))

	_, err := m.Execute(context.Background(), OperationRequest{Pipeline: "test"})
	require.Error(t, err)
	assert.Equal(t, ErrorTypeTimeout, GetErrorType(err))
}

func TestManager_ParametersSeedContext(t *testing.T) {
	var seen any
	a := newFakeStep("a")
	a.run = func(state *OperationState) {
		seen, _ = state.GetContext("source")
		state.SetContext(ContextKeyMergedFiles, []string{"x.csv"})
	}

	m := newTestManager(t, a)
	resp, err := m.Execute(context.Background(), OperationRequest{
		Pipeline:   "test",
		Parameters: map[string]any{"source": "api"},
	})
	require.NoError(t, err)
	assert.Equal(t, "api", seen)
	assert.Equal(t, []string{"x.csv"}, resp.Files(ContextKeyMergedFiles))
	assert.Nil(t, resp.Files(ContextKeyCharts))
}

func TestManager_UsesRunID(t *testing.T) {
	m := newTestManager(t, newFakeStep("a"))

	ctx, runID := infrastructure.NewRunContext(context.Background())
	resp, err := m.Execute(ctx, OperationRequest{Pipeline: "test"})
	require.NoError(t, err)
	assert.Equal(t, runID, resp.ID)
}

func TestManager_TracesSteps(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	logger, _ := testutil.NewTestLogger(t)
	m := NewManager(nil, NewOperationTracer(tp.Tracer(TracerName), nil), logger)
	failing := newFakeStep("b")
	failing.execErr = errors.New("boom")
	m.RegisterPipeline("test", NewRegistry().MustRegister(newFakeStep("a"), failing))

	_, err := m.Execute(context.Background(), OperationRequest{Pipeline: "test"})
	require.Error(t, err)

	names := make(map[string]bool)
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	assert.True(t, names["operation.execute.test"])
	assert.True(t, names["operation.step.a"])
	assert.True(t, names["operation.step.b"])
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(newFakeStep("a")))
	require.NoError(t, r.Register(newFakeStep("b")))

	assert.Error(t, r.Register(newFakeStep("a")))
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(newFakeStep("")))

	assert.Equal(t, []string{"a", "b"}, r.ListIDs())
	assert.Equal(t, 2, r.Count())
	assert.True(t, r.Has("b"))

	_, err := r.Get("c")
	assert.Error(t, err)

	assert.Panics(t, func() { r.MustRegister(newFakeStep("b")) })
}

func TestWrapError(t *testing.T) {
	assert.Nil(t, WrapError(nil, "a"))

	timeout := NewTimeoutError("", "1s")
	wrapped := WrapError(timeout, "load")
	assert.Same(t, timeout, wrapped)
	assert.Equal(t, "load", wrapped.Step)

	plain := WrapError(errors.New("x"), "load")
	assert.Equal(t, ErrorTypeExecution, plain.Type)
	assert.Equal(t, "[execution] load: step execution failed: x", plain.Error())
}
