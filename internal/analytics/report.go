package analytics

import (
	"fmt"
	"time"

	"brickstats/internal/dataset"
	apperrors "brickstats/internal/errors"
	"brickstats/pkg/contracts/domain"
)

// Summarize runs the four reports over a registry of merged tables. The two
// theme rankings keep up to config.MaxTopN entries so callers can page past
// TopN; use Truncate to cut them for charts and exports.
func Summarize(reg *dataset.Registry, opts Options) (*domain.Statistics, error) {
	tables := make(map[string]*dataset.Table, len(RequiredTables))
	for _, name := range RequiredTables {
		t, ok := reg.Get(name)
		if !ok {
			return nil, apperrors.NewNotFoundError(fmt.Sprintf("merged table %s", name))
		}
		tables[name] = t
	}

	stats := &domain.Statistics{GeneratedAt: time.Now().UTC()}
	var err error

	if stats.SetsPerYear, err = SetsPerYear(tables[TableSets], opts); err != nil {
		return nil, fmt.Errorf("sets per year: %w", err)
	}
	if stats.TopThemes, err = TopThemesByUniqueParts(
		tables[TableInventoryParts], tables[TableInventories], tables[TableSets], tables[TableThemes], opts.rankDepth()); err != nil {
		return nil, fmt.Errorf("top themes: %w", err)
	}
	if stats.YoYGrowth, err = TopYoYGrowth(tables[TableSets], tables[TableThemes], opts.rankDepth()); err != nil {
		return nil, fmt.Errorf("yoy growth: %w", err)
	}
	if stats.Forecast, err = Forecast(tables[TableSets], opts); err != nil {
		return nil, fmt.Errorf("forecast: %w", err)
	}

	return stats, nil
}

// Truncate returns a copy of stats with both theme rankings cut to n entries
func Truncate(stats *domain.Statistics, n int) *domain.Statistics {
	out := *stats
	out.TopThemes = head(stats.TopThemes, n)
	out.YoYGrowth = head(stats.YoYGrowth, n)
	return &out
}
