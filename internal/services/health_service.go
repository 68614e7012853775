package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"
)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	reports   *ReportService
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewHealthService creates a health service
func NewHealthService(version string, reports *ReportService, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		reports:   reports,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns "ok" when statistics are loaded and "degraded"
// otherwise. The server is still usable for triggering a merge when degraded.
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"uptime_seconds": time.Since(hs.startTime).Seconds(),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
		},
		Services: make(map[string]any),
	}

	stats := ServiceHealth{Status: "ready"}
	if hs.reports == nil {
		stats = ServiceHealth{Status: "unavailable", Message: "report service not configured"}
	} else if _, err := hs.reports.Statistics(); err != nil {
		stats = ServiceHealth{Status: "not_ready", Message: err.Error()}
	} else {
		stats.Message = "loaded " + hs.reports.LoadedAt().UTC().Format(time.RFC3339)
	}
	status.Services["statistics"] = stats

	merge := ServiceHealth{Status: "idle"}
	if hs.reports != nil && hs.reports.Merging() {
		merge.Status = "running"
	}
	status.Services["merge"] = merge

	if stats.Status != "ready" {
		status.Status = "degraded"
	}

	hs.logger.DebugContext(ctx, "health check completed", slog.String("status", status.Status))
	return status
}
