package analytics

import (
	"sort"

	"brickstats/internal/dataset"
	"brickstats/pkg/contracts/domain"
)

// CountByYear counts sets per release year for years >= minYear, ascending.
// Rows whose year does not parse as an integer are dropped.
func CountByYear(sets *dataset.Table, minYear int) ([]domain.YearCount, error) {
	if _, err := sets.ColumnIndex(ColYear); err != nil {
		return nil, err
	}

	counts := make(map[int]int)
	sets.Each(func(r dataset.Row) {
		year, ok := r.Int(ColYear)
		if !ok || year < minYear {
			return
		}
		counts[year]++
	})

	out := make([]domain.YearCount, 0, len(counts))
	for year, n := range counts {
		out = append(out, domain.YearCount{Year: year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

// SetsPerYear counts sets per year and adds the short and long trailing
// moving averages. Windows run over consecutive observed years.
func SetsPerYear(sets *dataset.Table, opts Options) (domain.SetsPerYearReport, error) {
	report := domain.SetsPerYearReport{
		MinYear:     opts.MinYear,
		ShortWindow: opts.ShortWindow,
		LongWindow:  opts.LongWindow,
	}

	counts, err := CountByYear(sets, opts.MinYear)
	if err != nil {
		return report, err
	}

	totals := countValues(counts)
	short := RollingMean(totals, opts.ShortWindow)
	long := RollingMean(totals, opts.LongWindow)

	report.Points = make([]domain.TrendPoint, len(counts))
	for i, c := range counts {
		report.Points[i] = domain.TrendPoint{
			Year:      c.Year,
			TotalSets: c.Count,
			ShortAvg:  optional(short[i]),
			LongAvg:   optional(long[i]),
		}
	}
	return report, nil
}

// Forecast compares yearly counts with the long moving average and the
// single-lag EWMA.
func Forecast(sets *dataset.Table, opts Options) (domain.ForecastReport, error) {
	report := domain.ForecastReport{
		MinYear:        opts.MinYear,
		Window:         opts.LongWindow,
		CurrentWeight:  opts.CurrentWeight,
		PreviousWeight: opts.PreviousWeight,
	}

	counts, err := CountByYear(sets, opts.MinYear)
	if err != nil {
		return report, err
	}

	totals := countValues(counts)
	long := RollingMean(totals, opts.LongWindow)
	ewma := EWMA(totals, opts.CurrentWeight, opts.PreviousWeight)

	report.Points = make([]domain.ForecastPoint, len(counts))
	for i, c := range counts {
		report.Points[i] = domain.ForecastPoint{
			Year:      c.Year,
			TotalSets: c.Count,
			LongAvg:   optional(long[i]),
			EWMA:      ewma[i],
		}
	}
	return report, nil
}

func countValues(counts []domain.YearCount) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c.Count)
	}
	return out
}
