package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains all the resolved application paths.
// This is the single source of truth for file locations.
type Paths struct {
	BaseDir      string
	DataDir      string
	ResultsDir   string
	VisualsDir   string
	LogsDir      string
	ManifestFile string
	WorkbookFile string
}

// ResolvePaths resolves the configured directories against the base
// directory. An empty base directory means the working directory.
func (c *Config) ResolvePaths() (*Paths, error) {
	base := c.Paths.BaseDir
	if base == "" {
		base = "."
	}
	base, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory: %w", err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	resultsDir := resolve(c.Paths.ResultsDir)

	return &Paths{
		BaseDir:      base,
		DataDir:      resolve(c.Paths.DataDir),
		ResultsDir:   resultsDir,
		VisualsDir:   resolve(c.Paths.VisualsDir),
		LogsDir:      resolve(c.Paths.LogsDir),
		ManifestFile: resolve(c.Paths.ManifestFile),
		WorkbookFile: filepath.Join(resultsDir, WorkbookFileName),
	}, nil
}

// BaseTablePath returns the raw CSV path for a catalog table
func (p *Paths) BaseTablePath(table string) string {
	return filepath.Join(p.DataDir, table+CSVExtension)
}

// MergedTablePath returns the path of merged_<table>.csv
func (p *Paths) MergedTablePath(table string) string {
	return filepath.Join(p.DataDir, MergedTablePrefix+table+CSVExtension)
}

// ChartPath returns the full path for a chart image
func (p *Paths) ChartPath(filename string) string {
	return filepath.Join(p.VisualsDir, filename)
}

// ResultPath returns the full path for a statistics export
func (p *Paths) ResultPath(filename string) string {
	return filepath.Join(p.ResultsDir, filename)
}

// EnsureDirectories creates the output directories if they don't exist.
// The data directory is an input and is not created.
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.ResultsDir,
		p.VisualsDir,
		p.LogsDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// LogPathResolution logs all resolved paths for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	logger.Info("Resolved application paths",
		slog.String("base_dir", p.BaseDir),
		slog.String("data_dir", p.DataDir),
		slog.String("results_dir", p.ResultsDir),
		slog.String("visuals_dir", p.VisualsDir),
		slog.String("logs_dir", p.LogsDir),
		slog.String("manifest_file", p.ManifestFile))
}

// FileExists reports whether path can be stat'ed
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
