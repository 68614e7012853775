package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "brickstats/internal/errors"
	"brickstats/internal/operations"
	api "brickstats/pkg/contracts/api/v1"
)

// OperationsHandler triggers pipeline runs
type OperationsHandler struct {
	service      StatsService
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(service StatsService, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *OperationsHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service:      service,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "operations")),
	}
}

// Routes returns the /api/operations routes
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/merge", h.Merge)
	return r
}

// Merge handles POST /api/operations/merge. It blocks until the merge and
// the following refresh finish.
func (h *OperationsHandler) Merge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	h.logger.InfoContext(ctx, "merge requested")

	resp, err := h.service.RunMerge(ctx)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toOperationResponse(resp))
}

func toOperationResponse(resp *operations.OperationResponse) api.OperationResponse {
	out := api.OperationResponse{
		ID:         resp.ID,
		Pipeline:   resp.Pipeline,
		Status:     string(resp.Status),
		DurationMS: resp.Duration.Milliseconds(),
		Steps:      make([]api.StepSummary, 0, len(resp.Steps)),
	}
	for _, s := range resp.Steps {
		out.Steps = append(out.Steps, api.StepSummary{
			ID:       s.ID,
			Name:     s.Name,
			Status:   string(s.Status),
			Message:  s.Message,
			Error:    s.Error,
			Metadata: s.Metadata,
		})
	}
	return out
}
