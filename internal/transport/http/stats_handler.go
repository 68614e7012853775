package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apperrors "brickstats/internal/errors"
	"brickstats/internal/middleware"
	api "brickstats/pkg/contracts/api/v1"
)

// StatsHandler serves the cached catalog statistics
type StatsHandler struct {
	service      StatsService
	validator    *middleware.QueryValidator
	errorHandler *apperrors.ErrorHandler
	logger       *slog.Logger
}

// NewStatsHandler creates a stats handler
func NewStatsHandler(service StatsService, validator *middleware.QueryValidator, errorHandler *apperrors.ErrorHandler, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{
		service:      service,
		validator:    validator,
		errorHandler: errorHandler,
		logger:       logger.With(slog.String("handler", "stats")),
	}
}

// Routes returns the /api/stats routes
func (h *StatsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/sets-per-year", h.SetsPerYear)
	r.Get("/top-themes", h.TopThemes)
	r.Get("/yoy-growth", h.YoYGrowth)
	r.Get("/forecast", h.Forecast)
	r.Post("/refresh", h.Refresh)
	return r
}

// SetsPerYear handles GET /api/stats/sets-per-year
func (h *StatsHandler) SetsPerYear(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.SetsPerYear()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	renderData(w, r, report, len(report.Points), h.service.LoadedAt())
}

// TopThemes handles GET /api/stats/top-themes?limit=N
func (h *StatsHandler) TopThemes(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	themes, err := h.service.TopThemes(limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	renderData(w, r, themes, len(themes), h.service.LoadedAt())
}

// YoYGrowth handles GET /api/stats/yoy-growth?limit=N
func (h *StatsHandler) YoYGrowth(w http.ResponseWriter, r *http.Request) {
	limit, ok := h.limit(w, r)
	if !ok {
		return
	}

	growth, err := h.service.YoYGrowth(limit)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	renderData(w, r, growth, len(growth), h.service.LoadedAt())
}

// Forecast handles GET /api/stats/forecast
func (h *StatsHandler) Forecast(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Forecast()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	renderData(w, r, report, len(report.Points), h.service.LoadedAt())
}

// Refresh handles POST /api/stats/refresh
func (h *StatsHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	h.logger.InfoContext(r.Context(), "statistics reloaded on request")
	render.JSON(w, r, api.RefreshResponse{
		Status:   "refreshed",
		LoadedAt: h.service.LoadedAt(),
	})
}

// Tables handles GET /api/tables
func (h *StatsHandler) Tables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.service.Tables()
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}
	render.JSON(w, r, api.TablesResponse{Tables: tables, Count: len(tables)})
}

// limit parses and validates ?limit, rendering the error itself when the
// value is bad
func (h *StatsHandler) limit(w http.ResponseWriter, r *http.Request) (int, bool) {
	n, err := h.validator.Int(r, "limit", api.DefaultLimit)
	if err == nil {
		err = h.validator.ValidateStruct(api.LimitQuery{Limit: n})
	}
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return 0, false
	}
	return n, true
}

func renderData[T any](w http.ResponseWriter, r *http.Request, data T, count int, generatedAt time.Time) {
	render.JSON(w, r, api.DataResponse[T]{
		Data:        data,
		Count:       count,
		GeneratedAt: generatedAt,
	})
}
