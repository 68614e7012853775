package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"brickstats/internal/config"
	"brickstats/pkg/contracts/domain"
)

// Report is one statistics table ready for export. Cells hold string, int,
// float64 or *float64 values; nil pointers are missing values.
type Report struct {
	Sheet   string
	File    string
	Headers []string
	Rows    [][]any
}

// Records renders the rows as CSV records
func (r Report) Records() [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = formatCell(v)
		}
		out[i] = rec
	}
	return out
}

// BuildReports lays the four reports out as tables
func BuildReports(stats *domain.Statistics) []Report {
	trend := Report{
		Sheet: "Sets per Year",
		File:  config.ResultSetsPerYear,
		Headers: []string{
			"year", "total_sets",
			fmt.Sprintf("%dyr_avg", stats.SetsPerYear.ShortWindow),
			fmt.Sprintf("%dyr_avg", stats.SetsPerYear.LongWindow),
		},
	}
	for _, p := range stats.SetsPerYear.Points {
		trend.Rows = append(trend.Rows, []any{p.Year, p.TotalSets, p.ShortAvg, p.LongAvg})
	}

	themes := Report{
		Sheet:   "Top Themes",
		File:    config.ResultTopThemes,
		Headers: []string{"rank", "theme", "unique_parts"},
	}
	for _, t := range stats.TopThemes {
		themes.Rows = append(themes.Rows, []any{t.Rank, t.Theme, t.UniqueParts})
	}

	growth := Report{
		Sheet:   "YoY Growth",
		File:    config.ResultThemeYoYGrowth,
		Headers: []string{"rank", "theme", "year", "total_sets", "prev_year", "growth", "label"},
	}
	for _, g := range stats.YoYGrowth {
		growth.Rows = append(growth.Rows, []any{g.Rank, g.Theme, g.Year, g.TotalSets, g.PreviousSets, g.Growth, g.Label})
	}

	forecast := Report{
		Sheet: "Forecast",
		File:  config.ResultForecast,
		Headers: []string{
			"year", "total_sets",
			fmt.Sprintf("%dyr_avg", stats.Forecast.Window),
			"ewma",
		},
	}
	for _, p := range stats.Forecast.Points {
		forecast.Rows = append(forecast.Rows, []any{p.Year, p.TotalSets, p.LongAvg, p.EWMA})
	}

	return []Report{trend, themes, growth, forecast}
}

// StatsExporter writes each report to its own CSV file
type StatsExporter struct {
	writer *CSVWriter
	logger *slog.Logger
}

// NewStatsExporter creates a stats exporter on top of writer
func NewStatsExporter(writer *CSVWriter, logger *slog.Logger) *StatsExporter {
	return &StatsExporter{
		writer: writer,
		logger: logger.With(slog.String("component", "stats_exporter")),
	}
}

// Export writes the reports and returns the written paths
func (e *StatsExporter) Export(ctx context.Context, reports []Report) ([]string, error) {
	written := make([]string, 0, len(reports))
	for _, r := range reports {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path, err := e.writer.WriteSimpleCSV(r.File, r.Headers, r.Records())
		if err != nil {
			return written, fmt.Errorf("export %s: %w", r.File, err)
		}
		e.logger.InfoContext(ctx, "report exported",
			slog.String("path", path),
			slog.Int("rows", len(r.Rows)))
		written = append(written, path)
	}
	return written, nil
}
