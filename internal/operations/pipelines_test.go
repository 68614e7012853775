package operations

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickstats/internal/analytics"
	"brickstats/internal/config"
	apperrors "brickstats/internal/errors"
	"brickstats/internal/relations"
	"brickstats/internal/shared/testutil"
)

func catalogWorkspace(t *testing.T) *config.Paths {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()

	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)

	testutil.WriteCatalog(t, paths.DataDir)
	testutil.WriteFile(t, paths.ManifestFile, testutil.CatalogManifest)
	return paths
}

func TestCatalogManager_MergeThenReport(t *testing.T) {
	paths := catalogWorkspace(t)
	logger, _ := testutil.NewTestLogger(t)
	m := NewCatalogManager(paths, analytics.DefaultOptions(), nil, logger)
	ctx := context.Background()

	merge, err := m.Execute(ctx, OperationRequest{Pipeline: PipelineMerge})
	require.NoError(t, err)
	assert.Equal(t, OperationStatusCompleted, merge.Status)

	var applied, skipped int
	for _, res := range merge.StepResults() {
		switch res.Status {
		case relations.StepApplied:
			applied++
		case relations.StepSkipped:
			skipped++
			assert.Equal(t, "inventory_minifigs", res.Relationship.SourceTable)
		}
	}
	assert.Equal(t, 7, applied)
	assert.Equal(t, 1, skipped)

	merged := merge.Files(ContextKeyMergedFiles)
	require.Len(t, merged, len(config.BaseTables))
	assert.Equal(t, paths.MergedTablePath("sets"), merged[0])
	for _, f := range merged {
		assert.FileExists(t, f)
	}

	reg, ok := merge.Registry()
	require.True(t, ok)
	sets, ok := reg.Get("sets")
	require.True(t, ok)
	assert.True(t, sets.HasColumn("name_themes"))
	assert.Equal(t, 9, sets.Len())

	report, err := m.Execute(ctx, OperationRequest{Pipeline: PipelineReport})
	require.NoError(t, err)

	stats, ok := report.Statistics()
	require.True(t, ok)
	require.Len(t, stats.SetsPerYear.Points, 4)
	assert.Equal(t, 1978, stats.SetsPerYear.Points[0].Year)
	assert.Equal(t, 2, stats.SetsPerYear.Points[0].TotalSets)
	require.NotEmpty(t, stats.TopThemes)
	assert.Equal(t, "Space", stats.TopThemes[0].Theme)
	assert.Equal(t, 4, stats.TopThemes[0].UniqueParts)

	charts := report.Files(ContextKeyCharts)
	assert.Equal(t, []string{
		paths.ChartPath(config.ChartSetsPerYear),
		paths.ChartPath(config.ChartTopThemes),
		paths.ChartPath(config.ChartThemeYoYGrowth),
		paths.ChartPath(config.ChartForecastEWMA),
	}, charts)

	exports := report.Files(ContextKeyExports)
	require.Len(t, exports, 5)
	assert.Equal(t, paths.WorkbookFile, exports[4])
	assert.Equal(t, filepath.Join(paths.ResultsDir, config.ResultSetsPerYear), exports[0])
	for _, f := range append(charts, exports...) {
		assert.FileExists(t, f)
	}
}

func TestCatalogManager_RefreshReadsMergedTables(t *testing.T) {
	paths := catalogWorkspace(t)
	logger, _ := testutil.NewTestLogger(t)
	m := NewCatalogManager(paths, analytics.DefaultOptions(), nil, logger)

	_, err := m.Execute(context.Background(), OperationRequest{Pipeline: PipelineMerge})
	require.NoError(t, err)

	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: PipelineRefresh})
	require.NoError(t, err)
	stats, ok := resp.Statistics()
	require.True(t, ok)
	assert.Len(t, stats.YoYGrowth, 6)
	assert.NoFileExists(t, paths.WorkbookFile)
}

func TestCatalogManager_ReportCutsRankingsToTopN(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	testutil.WriteTables(t, paths.DataDir, testutil.WideCatalog(15))
	testutil.WriteFile(t, paths.ManifestFile, testutil.CatalogManifest)

	logger, _ := testutil.NewTestLogger(t)
	opts := analytics.DefaultOptions()
	opts.TopN = 4
	m := NewCatalogManager(paths, opts, nil, logger)
	ctx := context.Background()

	_, err = m.Execute(ctx, OperationRequest{Pipeline: PipelineMerge})
	require.NoError(t, err)
	report, err := m.Execute(ctx, OperationRequest{Pipeline: PipelineReport})
	require.NoError(t, err)

	stats, ok := report.Statistics()
	require.True(t, ok)
	assert.Len(t, stats.TopThemes, 15)
	assert.Len(t, stats.YoYGrowth, 15)

	for _, name := range []string{config.ResultTopThemes, config.ResultThemeYoYGrowth} {
		data, err := os.ReadFile(filepath.Join(paths.ResultsDir, name))
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Len(t, lines, opts.TopN+1, name)
	}

	refresh, err := m.Execute(ctx, OperationRequest{Pipeline: PipelineRefresh})
	require.NoError(t, err)
	reg, ok := refresh.Registry()
	require.True(t, ok)
	assert.Equal(t, len(config.BaseTables), reg.Len())
}

func TestCatalogManager_ReportWithoutMerge(t *testing.T) {
	paths := catalogWorkspace(t)
	logger, _ := testutil.NewTestLogger(t)
	m := NewCatalogManager(paths, analytics.DefaultOptions(), nil, logger)

	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: PipelineReport})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Equal(t, []StepStatus{
		StepStatusFailed, StepStatusSkipped, StepStatusSkipped, StepStatusSkipped,
	}, statuses(resp))
}

func TestCatalogManager_MissingManifest(t *testing.T) {
	paths := catalogWorkspace(t)
	paths.ManifestFile = filepath.Join(paths.BaseDir, "absent.csv")
	logger, _ := testutil.NewTestLogger(t)
	m := NewCatalogManager(paths, analytics.DefaultOptions(), nil, logger)

	resp, err := m.Execute(context.Background(), OperationRequest{Pipeline: PipelineMerge})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
	assert.Equal(t, StepStatusCompleted, resp.Steps[0].Status)
	assert.Equal(t, StepStatusFailed, resp.Steps[1].Status)
	assert.NoFileExists(t, paths.MergedTablePath("sets"))
}
