package config

import "time"

// Application constants
const (
	AppName    = "brickstats"
	AppVersion = "1.0.0"

	// Environment variable prefix, e.g. BRICK_PATHS_DATA_DIR
	EnvPrefix = "BRICK"

	// File naming
	MergedTablePrefix = "merged_"
	CSVExtension      = ".csv"
	ManifestFileName  = "relationships.csv"
	WorkbookFileName  = "statistics.xlsx"

	// Default directories (relative to the base directory)
	DefaultDataDir    = "data"
	DefaultResultsDir = "results"
	DefaultVisualsDir = "visuals"
	DefaultLogsDir    = "logs"

	// Report defaults
	DefaultMinYear            = 1950
	DefaultShortWindow        = 5
	DefaultLongWindow         = 10
	DefaultTopN               = 10
	DefaultEWMACurrentWeight  = 0.7
	DefaultEWMAPreviousWeight = 0.3
	MaxTopN                   = 100

	// Server defaults
	DefaultPort            = 8080
	DefaultRateLimitRPS    = 20
	DefaultRateLimitBurst  = 40
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 60 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Database
	DefaultQueryTimeout = 30 * time.Second

	// Log settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Chart file names written under the visuals directory
const (
	ChartSetsPerYear    = "sets_per_year.png"
	ChartTopThemes      = "top_themes_unique_parts.png"
	ChartThemeYoYGrowth = "top_theme_yoy_growth.png"
	ChartForecastEWMA   = "set_forecast_ewma.png"
)

// Statistics exports written under the results directory
const (
	ResultSetsPerYear    = "sets_per_year.csv"
	ResultTopThemes      = "top_themes_unique_parts.csv"
	ResultThemeYoYGrowth = "top_theme_yoy_growth.csv"
	ResultForecast       = "set_forecast_ewma.csv"
)

// BaseTables lists the catalog tables in load order. The order is also the
// registry order and therefore the order merged files are written in.
var BaseTables = []string{
	"sets",
	"themes",
	"inventories",
	"inventory_sets",
	"inventory_parts",
	"parts",
	"part_categories",
	"colors",
}
