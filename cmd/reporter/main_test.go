package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickstats/internal/analytics"
	"brickstats/internal/config"
	"brickstats/internal/operations"
	"brickstats/internal/shared/testutil"
)

// mergeWorkspace writes the catalog and runs the merge pipeline so the
// merged tables exist under base/data.
func mergeWorkspace(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("BRICK_PATHS_BASE_DIR", base)
	t.Setenv("BRICK_TELEMETRY_METRIC_EXPORTER", "none")
	t.Setenv("BRICK_TELEMETRY_TRACE_EXPORTER", "none")
	t.Setenv("BRICK_CONFIG_FILE", "")

	cfg := config.Default()
	cfg.Paths.BaseDir = base
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	testutil.WriteCatalog(t, paths.DataDir)
	testutil.WriteFile(t, paths.ManifestFile, testutil.CatalogManifest)

	logger, _ := testutil.NewTestLogger(t)
	m := operations.NewCatalogManager(paths, analytics.DefaultOptions(), nil, logger)
	_, err = m.Execute(context.Background(), operations.OperationRequest{Pipeline: operations.PipelineMerge})
	require.NoError(t, err)
	return base
}

func TestRun_WritesChartsAndExports(t *testing.T) {
	base := mergeWorkspace(t)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-visuals", "charts", "-results", "stats"}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "years: 4, themes: 3, growth entries: 6")
	assert.Equal(t, 4+5, strings.Count(text, "wrote "))
	assert.FileExists(t, filepath.Join(base, "charts", config.ChartSetsPerYear))
	assert.FileExists(t, filepath.Join(base, "stats", config.WorkbookFileName))
}

func TestRun_WithoutMergedTables(t *testing.T) {
	base := t.TempDir()
	t.Setenv("BRICK_PATHS_BASE_DIR", base)
	t.Setenv("BRICK_TELEMETRY_METRIC_EXPORTER", "none")
	t.Setenv("BRICK_CONFIG_FILE", "")

	err := run(context.Background(), nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), operations.StepIDLoadMergedTables)
}
