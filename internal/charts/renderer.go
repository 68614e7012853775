package charts

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"brickstats/internal/config"
	apperrors "brickstats/internal/errors"
	"brickstats/internal/infrastructure"
	"brickstats/pkg/contracts/domain"
)

// Default image size
const (
	DefaultWidth  = 12 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// Series is one named line. NaN points are left out.
type Series struct {
	Name   string
	Points plotter.XYs
}

// Renderer writes chart images
type Renderer struct {
	width   vg.Length
	height  vg.Length
	logger  *slog.Logger
	metrics *infrastructure.CatalogMetrics
}

// NewRenderer creates a renderer producing DefaultWidth x DefaultHeight images
func NewRenderer(logger *slog.Logger, metrics *infrastructure.CatalogMetrics) *Renderer {
	if metrics == nil {
		metrics = infrastructure.NoopCatalogMetrics()
	}
	return &Renderer{
		width:   DefaultWidth,
		height:  DefaultHeight,
		logger:  logger.With(slog.String("component", "charts")),
		metrics: metrics,
	}
}

// SetsPerYear plots yearly totals with the short and long moving averages
func (r *Renderer) SetsPerYear(ctx context.Context, report domain.SetsPerYearReport, path string) error {
	total, short, long := make(plotter.XYs, 0), make(plotter.XYs, 0), make(plotter.XYs, 0)
	for _, p := range report.Points {
		x := float64(p.Year)
		total = append(total, plotter.XY{X: x, Y: float64(p.TotalSets)})
		short = appendOptional(short, x, p.ShortAvg)
		long = appendOptional(long, x, p.LongAvg)
	}

	return r.LineChart(ctx, path,
		"LEGO Sets Released per Year (with Moving Averages)", "Year", "Number of Sets",
		Series{Name: "Total Sets", Points: total},
		Series{Name: fmt.Sprintf("%d-Year Moving Avg", report.ShortWindow), Points: short},
		Series{Name: fmt.Sprintf("%d-Year Moving Avg", report.LongWindow), Points: long},
	)
}

// Forecast plots actual releases against the moving average and the EWMA
func (r *Renderer) Forecast(ctx context.Context, report domain.ForecastReport, path string) error {
	actual, long, ewma := make(plotter.XYs, 0), make(plotter.XYs, 0), make(plotter.XYs, 0)
	for _, p := range report.Points {
		x := float64(p.Year)
		actual = append(actual, plotter.XY{X: x, Y: float64(p.TotalSets)})
		long = appendOptional(long, x, p.LongAvg)
		ewma = append(ewma, plotter.XY{X: x, Y: p.EWMA})
	}

	ewmaName := fmt.Sprintf("EWMA (%.0f/%.0f)", report.CurrentWeight*100, report.PreviousWeight*100)
	return r.LineChart(ctx, path,
		"LEGO Set Release Forecast: EWMA vs. Moving Average", "Year", "Number of Sets",
		Series{Name: "Actual Sets", Points: actual},
		Series{Name: fmt.Sprintf("%d-Year Moving Avg", report.Window), Points: long},
		Series{Name: ewmaName, Points: ewma},
	)
}

// TopThemes draws the unique-parts ranking as horizontal bars
func (r *Renderer) TopThemes(ctx context.Context, items []domain.ThemeParts, path string) error {
	labels := make([]string, len(items))
	values := make([]float64, len(items))
	for i, item := range items {
		labels[i] = item.Theme
		values[i] = float64(item.UniqueParts)
	}
	return r.BarChart(ctx, path,
		fmt.Sprintf("Top %d LEGO Themes by Number of Unique Parts", len(items)),
		"Number of Unique Parts", "Theme", labels, values)
}

// YoYGrowth draws the theme-year growth ranking as horizontal bars
func (r *Renderer) YoYGrowth(ctx context.Context, items []domain.ThemeGrowth, path string) error {
	labels := make([]string, len(items))
	values := make([]float64, len(items))
	for i, item := range items {
		labels[i] = item.Label
		values[i] = float64(item.Growth)
	}
	return r.BarChart(ctx, path,
		fmt.Sprintf("Top %d Theme-Year Combinations with Highest YoY Set Growth", len(items)),
		"Year-over-Year Growth in Number of Sets", "Theme (Year)", labels, values)
}

// LineChart renders one line per series with a legend
func (r *Renderer) LineChart(ctx context.Context, path, title, xLabel, yLabel string, series ...Series) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	for i, s := range series {
		if len(s.Points) == 0 {
			continue
		}
		line, err := plotter.NewLine(s.Points)
		if err != nil {
			return apperrors.NewAppValidationError(fmt.Sprintf("series %q: %v", s.Name, err))
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(s.Name, line)
	}

	return r.save(ctx, p, path)
}

// BarChart renders horizontal bars with the first label on top
func (r *Renderer) BarChart(ctx context.Context, path, title, xLabel, yLabel string, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return apperrors.NewAppValidationError(
			fmt.Sprintf("bar chart has %d labels and %d values", len(labels), len(values)))
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel

	if len(values) > 0 {
		// plotted bottom-up, so reverse to keep rank 1 at the top
		n := len(values)
		vals := make(plotter.Values, n)
		names := make([]string, n)
		for i := range values {
			vals[n-1-i] = values[i]
			names[n-1-i] = labels[i]
		}

		bars, err := plotter.NewBarChart(vals, vg.Points(18))
		if err != nil {
			return apperrors.NewAppValidationError(fmt.Sprintf("bar chart: %v", err))
		}
		bars.Horizontal = true
		bars.Color = plotutil.Color(0)
		bars.LineStyle.Width = 0
		p.Add(plotter.NewGrid(), bars)
		p.NominalY(names...)
	}

	return r.save(ctx, p, path)
}

func (r *Renderer) save(ctx context.Context, p *plot.Plot, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create chart directory", err)
	}
	if err := p.Save(r.width, r.height, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to save chart %s", path), err)
	}

	r.metrics.ChartsRendered.Add(ctx, 1,
		metric.WithAttributes(attribute.String("chart", filepath.Base(path))))
	r.logger.InfoContext(ctx, "chart rendered", slog.String("path", path))
	return nil
}

// RenderAll writes the four report charts into the visuals directory and
// returns their paths
func (r *Renderer) RenderAll(ctx context.Context, stats *domain.Statistics, paths *config.Paths) ([]string, error) {
	jobs := []struct {
		file   string
		render func(string) error
	}{
		{config.ChartSetsPerYear, func(p string) error { return r.SetsPerYear(ctx, stats.SetsPerYear, p) }},
		{config.ChartTopThemes, func(p string) error { return r.TopThemes(ctx, stats.TopThemes, p) }},
		{config.ChartThemeYoYGrowth, func(p string) error { return r.YoYGrowth(ctx, stats.YoYGrowth, p) }},
		{config.ChartForecastEWMA, func(p string) error { return r.Forecast(ctx, stats.Forecast, p) }},
	}

	written := make([]string, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		path := paths.ChartPath(job.file)
		if err := job.render(path); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func appendOptional(pts plotter.XYs, x float64, y *float64) plotter.XYs {
	if y == nil || math.IsNaN(*y) {
		return pts
	}
	return append(pts, plotter.XY{X: x, Y: *y})
}
