package domain

import "time"

// YearCount is the number of sets released in one year
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"total_sets"`
}

// TrendPoint is one year of the sets-per-year trend. Moving averages are nil
// until the window has enough history.
type TrendPoint struct {
	Year      int      `json:"year"`
	TotalSets int      `json:"total_sets"`
	ShortAvg  *float64 `json:"short_avg"`
	LongAvg   *float64 `json:"long_avg"`
}

// SetsPerYearReport is the sets-per-year trend with its window sizes
type SetsPerYearReport struct {
	MinYear     int          `json:"min_year"`
	ShortWindow int          `json:"short_window"`
	LongWindow  int          `json:"long_window"`
	Points      []TrendPoint `json:"points"`
}

// ThemeParts ranks a theme by the number of distinct parts in its sets
type ThemeParts struct {
	Rank        int    `json:"rank"`
	Theme       string `json:"theme"`
	UniqueParts int    `json:"unique_parts"`
}

// ThemeGrowth is the change in released sets for a theme against its
// previous observed year
type ThemeGrowth struct {
	Rank         int    `json:"rank"`
	Theme        string `json:"theme"`
	Year         int    `json:"year"`
	TotalSets    int    `json:"total_sets"`
	PreviousSets int    `json:"previous_sets"`
	Growth       int    `json:"growth"`
	Label        string `json:"label"`
}

// ForecastPoint compares actual releases against the smoothed series
type ForecastPoint struct {
	Year      int      `json:"year"`
	TotalSets int      `json:"total_sets"`
	LongAvg   *float64 `json:"long_avg"`
	EWMA      float64  `json:"ewma"`
}

// ForecastReport holds the forecast comparison and its parameters
type ForecastReport struct {
	MinYear        int             `json:"min_year"`
	Window         int             `json:"window"`
	CurrentWeight  float64         `json:"current_weight"`
	PreviousWeight float64         `json:"previous_weight"`
	Points         []ForecastPoint `json:"points"`
}

// Statistics bundles the four catalog reports
type Statistics struct {
	SetsPerYear SetsPerYearReport `json:"sets_per_year"`
	TopThemes   []ThemeParts      `json:"top_themes"`
	YoYGrowth   []ThemeGrowth     `json:"yoy_growth"`
	Forecast    ForecastReport    `json:"forecast"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// TableSummary describes one merged table
type TableSummary struct {
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}
