package analytics

import (
	"brickstats/internal/config"
)

// Column names read by the reports
const (
	ColYear        = "year"
	ColSetNum      = "set_num"
	ColThemeID     = "theme_id"
	ColID          = "id"
	ColName        = "name"
	ColInventoryID = "inventory_id"
	ColPartNum     = "part_num"

	colThemeName = "theme_name"
)

// Table names the reports need from the merged registry
const (
	TableSets           = "sets"
	TableThemes         = "themes"
	TableInventories    = "inventories"
	TableInventoryParts = "inventory_parts"
)

// RequiredTables lists the merged tables read by Summarize
var RequiredTables = []string{TableSets, TableThemes, TableInventories, TableInventoryParts}

// Options parameterizes the reports
type Options struct {
	MinYear        int
	ShortWindow    int
	LongWindow     int
	TopN           int
	CurrentWeight  float64
	PreviousWeight float64
}

// DefaultOptions returns the standard report parameters
func DefaultOptions() Options {
	return Options{
		MinYear:        config.DefaultMinYear,
		ShortWindow:    config.DefaultShortWindow,
		LongWindow:     config.DefaultLongWindow,
		TopN:           config.DefaultTopN,
		CurrentWeight:  config.DefaultEWMACurrentWeight,
		PreviousWeight: config.DefaultEWMAPreviousWeight,
	}
}

// OptionsFromConfig maps the report configuration section onto Options
func OptionsFromConfig(cfg config.ReportConfig) Options {
	return Options{
		MinYear:        cfg.MinYear,
		ShortWindow:    cfg.ShortWindow,
		LongWindow:     cfg.LongWindow,
		TopN:           cfg.TopN,
		CurrentWeight:  cfg.EWMACurrentWeight,
		PreviousWeight: cfg.EWMAPreviousWeight,
	}
}

func (o Options) rankDepth() int {
	return max(o.TopN, config.MaxTopN)
}
