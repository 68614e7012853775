// Package config provides centralized configuration management for brickstats.
// It handles loading configuration from multiple sources, validation, and
// resolution of every file path the batch tools and the stats server use.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), optionally seeded from .env
//	2. YAML configuration file (config.yaml, configs/config.yaml or BRICK_CONFIG_FILE)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern BRICK_<SECTION>_<FIELD>:
//
//	BRICK_PATHS_DATA_DIR=data
//	BRICK_PATHS_MANIFEST_FILE=results/relationships.csv
//	BRICK_REPORT_MIN_YEAR=1950
//	BRICK_LOGGING_LEVEL=debug
//	BRICK_DATABASE_URL=postgres://...
//
// # Path Management
//
// Paths resolves directories against the base directory and derives the
// conventional file names:
//
//	paths, _ := cfg.ResolvePaths()
//	paths.BaseTablePath("sets")    // data/sets.csv
//	paths.MergedTablePath("sets")  // data/merged_sets.csv
//	paths.ChartPath(config.ChartSetsPerYear)
package config
