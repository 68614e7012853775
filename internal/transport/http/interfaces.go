package http

import (
	"context"
	"time"

	"brickstats/internal/operations"
	"brickstats/internal/services"
	"brickstats/pkg/contracts/domain"
)

// StatsService is the part of services.ReportService the handlers use
type StatsService interface {
	SetsPerYear() (domain.SetsPerYearReport, error)
	TopThemes(limit int) ([]domain.ThemeParts, error)
	YoYGrowth(limit int) ([]domain.ThemeGrowth, error)
	Forecast() (domain.ForecastReport, error)
	Tables() ([]domain.TableSummary, error)
	LoadedAt() time.Time
	Refresh(ctx context.Context) error
	RunMerge(ctx context.Context) (*operations.OperationResponse, error)
}

// HealthChecker reports service health
type HealthChecker interface {
	HealthCheck(ctx context.Context) services.HealthStatus
}

var (
	_ StatsService  = (*services.ReportService)(nil)
	_ HealthChecker = (*services.HealthService)(nil)
)
