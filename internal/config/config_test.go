package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadFrom tests configuration loading with various scenarios
func TestLoadFrom(t *testing.T) {
	envVars := []string{
		"BRICK_PATHS_DATA_DIR", "BRICK_REPORT_MIN_YEAR", "BRICK_REPORT_TOP_N",
		"BRICK_SERVER_PORT", "BRICK_LOGGING_LEVEL", "BRICK_DATABASE_URL",
		"BRICK_TELEMETRY_TRACE_EXPORTER",
	}

	originalEnv := make(map[string]string)
	for _, envVar := range envVars {
		originalEnv[envVar] = os.Getenv(envVar)
	}
	defer func() {
		for _, envVar := range envVars {
			if val := originalEnv[envVar]; val != "" {
				os.Setenv(envVar, val)
			} else {
				os.Unsetenv(envVar)
			}
		}
	}()

	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "defaults with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "data", cfg.Paths.DataDir)
				assert.Equal(t, 1950, cfg.Report.MinYear)
				assert.Equal(t, 5, cfg.Report.ShortWindow)
				assert.Equal(t, 10, cfg.Report.LongWindow)
				assert.Equal(t, 10, cfg.Report.TopN)
				assert.InDelta(t, 0.7, cfg.Report.EWMACurrentWeight, 1e-9)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"BRICK_PATHS_DATA_DIR":  "/srv/lego",
				"BRICK_REPORT_MIN_YEAR": "1980",
				"BRICK_SERVER_PORT":     "9000",
				"BRICK_DATABASE_URL":    "postgres://localhost/lego",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "/srv/lego", cfg.Paths.DataDir)
				assert.Equal(t, 1980, cfg.Report.MinYear)
				assert.Equal(t, 9000, cfg.Server.Port)
				assert.Equal(t, "postgres://localhost/lego", cfg.Database.URL)
			},
		},
		{
			name: "file overrides defaults and env overrides file",
			env: map[string]string{
				"BRICK_REPORT_TOP_N": "5",
			},
			fileContent: "report:\n  top_n: 20\n  min_year: 1960\nserver:\n  read_timeout: 30s\n",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 5, cfg.Report.TopN)
				assert.Equal(t, 1960, cfg.Report.MinYear)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, 10, cfg.Report.LongWindow)
			},
		},
		{
			name:    "top n out of range",
			env:     map[string]string{"BRICK_REPORT_TOP_N": "1000"},
			wantErr: true,
		},
		{
			name:    "unsupported trace exporter",
			env:     map[string]string{"BRICK_TELEMETRY_TRACE_EXPORTER": "zipkin"},
			wantErr: true,
		},
		{
			name:    "malformed integer",
			env:     map[string]string{"BRICK_SERVER_PORT": "eighty"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, envVar := range envVars {
				os.Unsetenv(envVar)
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.fileContent != "" {
				configFile = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			}

			cfg, err := LoadFrom(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validateCfg(t, cfg)
		})
	}
}

func TestLoadFrom_MissingFile(t *testing.T) {
	_, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefault_Validates(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero short window", mutate: func(c *Config) { c.Report.ShortWindow = 0 }, wantErr: true},
		{name: "weights do not sum to one", mutate: func(c *Config) { c.Report.EWMAPreviousWeight = 0.5 }, wantErr: true},
		{name: "invalid port", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "invalid log output", mutate: func(c *Config) { c.Logging.Output = "syslog" }, wantErr: true},
		{
			name: "non json format is coerced",
			mutate: func(c *Config) {
				c.Logging.Format = "text"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "json", cfg.Logging.Format)
		})
	}
}

func TestResolvePaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "data"), paths.DataDir)
	assert.Equal(t, filepath.Join(base, "results", "relationships.csv"), paths.ManifestFile)
	assert.Equal(t, filepath.Join(base, "results", "statistics.xlsx"), paths.WorkbookFile)
	assert.Equal(t, filepath.Join(base, "data", "sets.csv"), paths.BaseTablePath("sets"))
	assert.Equal(t, filepath.Join(base, "data", "merged_sets.csv"), paths.MergedTablePath("sets"))
	assert.Equal(t, filepath.Join(base, "visuals", ChartSetsPerYear), paths.ChartPath(ChartSetsPerYear))
	assert.Equal(t, filepath.Join(base, "results", ResultForecast), paths.ResultPath(ResultForecast))
}

func TestResolvePaths_AbsoluteOverrides(t *testing.T) {
	abs := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = t.TempDir()
	cfg.Paths.VisualsDir = abs

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	assert.Equal(t, abs, paths.VisualsDir)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.BaseDir = base

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.ResultsDir, paths.VisualsDir, paths.LogsDir} {
		assert.DirExists(t, dir)
	}
	assert.NoDirExists(t, paths.DataDir)
	assert.False(t, FileExists(paths.ManifestFile))
}
