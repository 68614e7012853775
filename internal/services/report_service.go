package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"brickstats/internal/dataset"
	"brickstats/internal/operations"
	"brickstats/pkg/contracts/domain"
)

// PipelineRunner runs a named pipeline. *operations.Manager implements it.
type PipelineRunner interface {
	Execute(ctx context.Context, req operations.OperationRequest) (*operations.OperationResponse, error)
}

// ReportService serves cached statistics and triggers pipeline runs
type ReportService struct {
	runner PipelineRunner
	logger *slog.Logger

	mu       sync.RWMutex
	stats    *domain.Statistics
	tables   []domain.TableSummary
	loadedAt time.Time

	merging atomic.Bool
}

// NewReportService creates a report service with an empty cache
func NewReportService(runner PipelineRunner, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		runner: runner,
		logger: logger.With(slog.String("service", "report")),
	}
}

// Refresh recomputes the statistics from the merged tables on disk
func (s *ReportService) Refresh(ctx context.Context) error {
	resp, err := s.runner.Execute(ctx, operations.OperationRequest{Pipeline: operations.PipelineRefresh})
	if err != nil {
		s.logger.ErrorContext(ctx, "statistics refresh failed", slog.String("error", err.Error()))
		return err
	}

	stats, ok := resp.Statistics()
	if !ok {
		return fmt.Errorf("refresh pipeline produced no statistics")
	}
	var tables []domain.TableSummary
	if reg, ok := resp.Registry(); ok {
		tables = summarize(reg)
	}

	s.mu.Lock()
	s.stats = stats
	s.tables = tables
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "statistics refreshed",
		slog.Int("years", len(stats.SetsPerYear.Points)),
		slog.Int("tables", len(tables)))
	return nil
}

// RunMerge runs the merge pipeline and then refreshes the statistics. A
// second call while a merge is in progress returns ErrOperationRunning.
func (s *ReportService) RunMerge(ctx context.Context) (*operations.OperationResponse, error) {
	if !s.merging.CompareAndSwap(false, true) {
		return nil, ErrOperationRunning
	}
	defer s.merging.Store(false)

	resp, err := s.runner.Execute(ctx, operations.OperationRequest{Pipeline: operations.PipelineMerge})
	if err != nil {
		return resp, err
	}

	if err := s.Refresh(ctx); err != nil {
		return resp, fmt.Errorf("merge completed but refresh failed: %w", err)
	}
	return resp, nil
}

// Merging reports whether a merge is in progress
func (s *ReportService) Merging() bool {
	return s.merging.Load()
}

// Statistics returns the cached statistics
func (s *ReportService) Statistics() (*domain.Statistics, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil, ErrNoStatistics
	}
	return s.stats, nil
}

// SetsPerYear returns the sets-per-year trend
func (s *ReportService) SetsPerYear() (domain.SetsPerYearReport, error) {
	stats, err := s.Statistics()
	if err != nil {
		return domain.SetsPerYearReport{}, err
	}
	return stats.SetsPerYear, nil
}

// TopThemes returns at most limit themes by unique parts
func (s *ReportService) TopThemes(limit int) ([]domain.ThemeParts, error) {
	stats, err := s.Statistics()
	if err != nil {
		return nil, err
	}
	return limitItems(stats.TopThemes, limit), nil
}

// YoYGrowth returns at most limit growth entries
func (s *ReportService) YoYGrowth(limit int) ([]domain.ThemeGrowth, error) {
	stats, err := s.Statistics()
	if err != nil {
		return nil, err
	}
	return limitItems(stats.YoYGrowth, limit), nil
}

// Forecast returns the EWMA forecast report
func (s *ReportService) Forecast() (domain.ForecastReport, error) {
	stats, err := s.Statistics()
	if err != nil {
		return domain.ForecastReport{}, err
	}
	return stats.Forecast, nil
}

// Tables returns the merged table summaries from the last refresh
func (s *ReportService) Tables() ([]domain.TableSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil, ErrNoStatistics
	}
	out := make([]domain.TableSummary, len(s.tables))
	copy(out, s.tables)
	return out, nil
}

// LoadedAt returns when the cache was last refreshed; zero if never
func (s *ReportService) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

func summarize(reg *dataset.Registry) []domain.TableSummary {
	out := make([]domain.TableSummary, 0, reg.Len())
	for _, t := range reg.Tables() {
		out = append(out, domain.TableSummary{
			Name:    t.Name(),
			Rows:    t.Len(),
			Columns: t.Columns(),
		})
	}
	return out
}

func limitItems[T any](items []T, limit int) []T {
	if limit <= 0 || limit >= len(items) {
		return items
	}
	return items[:limit]
}
