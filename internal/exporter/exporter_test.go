package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"brickstats/internal/config"
	"brickstats/internal/shared/testutil"
	"brickstats/pkg/contracts/domain"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.BaseDir = t.TempDir()
	paths, err := cfg.ResolvePaths()
	require.NoError(t, err)
	return paths
}

func ptr(v float64) *float64 { return &v }

func sampleStats() *domain.Statistics {
	return &domain.Statistics{
		SetsPerYear: domain.SetsPerYearReport{
			MinYear: 1950, ShortWindow: 5, LongWindow: 10,
			Points: []domain.TrendPoint{
				{Year: 1978, TotalSets: 2},
				{Year: 1979, TotalSets: 4, ShortAvg: ptr(3), LongAvg: ptr(13.4)},
			},
		},
		TopThemes: []domain.ThemeParts{{Rank: 1, Theme: "Space", UniqueParts: 4}},
		YoYGrowth: []domain.ThemeGrowth{
			{Rank: 1, Theme: "Town", Year: 1978, TotalSets: 2, PreviousSets: 0, Growth: 2, Label: "Town (1978)"},
		},
		Forecast: domain.ForecastReport{
			Window: 10,
			Points: []domain.ForecastPoint{{Year: 1978, TotalSets: 2, EWMA: 2}},
		},
	}
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	paths := testPaths(t)
	logger, _ := testutil.NewTestLogger(t)
	w := NewCSVWriter(paths, logger)

	path, err := w.WriteCSV("out.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "x,y"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(paths.ResultsDir, "out.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa,b\n1,\"x,y\"\n", string(data))

	_, err = w.WriteCSV("out.csv", WriteOptions{Records: [][]string{{"2", "z"}}, Append: true})
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFa,b\n1,\"x,y\"\n2,z\n", string(data))

	abs := filepath.Join(t.TempDir(), "elsewhere", "abs.csv")
	got, err := w.WriteSimpleCSV(abs, []string{"h"}, nil)
	require.NoError(t, err)
	assert.Equal(t, abs, got)
}

func TestStreamWriter(t *testing.T) {
	paths := testPaths(t)
	logger, _ := testutil.NewTestLogger(t)
	w := NewCSVWriter(paths, logger)

	sw, err := w.CreateStreamWriter("stream.csv", []string{"id", "name"}, false)
	require.NoError(t, err)
	for _, rec := range [][]string{{"1", "Town"}, {"2", "Space"}} {
		require.NoError(t, sw.WriteRecord(rec))
	}
	assert.Equal(t, 2, sw.Rows())
	require.NoError(t, sw.Close())

	data, err := os.ReadFile(sw.Path())
	require.NoError(t, err)
	assert.Equal(t, "id,name\n1,Town\n2,Space\n", string(data))
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", "Town", "Town"},
		{"int", 1978, "1978"},
		{"float two decimals", 13.4, "13.40"},
		{"nil pointer", (*float64)(nil), ""},
		{"pointer", ptr(2.5), "2.50"},
		{"other", int64(5), "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatCell(tt.in))
		})
	}
}

func TestBuildReports(t *testing.T) {
	reports := BuildReports(sampleStats())
	require.Len(t, reports, 4)

	trend := reports[0]
	assert.Equal(t, config.ResultSetsPerYear, trend.File)
	assert.Equal(t, []string{"year", "total_sets", "5yr_avg", "10yr_avg"}, trend.Headers)
	assert.Equal(t, [][]string{
		{"1978", "2", "", ""},
		{"1979", "4", "3.00", "13.40"},
	}, trend.Records())

	assert.Equal(t, [][]string{{"1", "Town", "1978", "2", "0", "2", "Town (1978)"}}, reports[2].Records())
	assert.Equal(t, []string{"year", "total_sets", "10yr_avg", "ewma"}, reports[3].Headers)
}

func TestStatsExporter_Export(t *testing.T) {
	paths := testPaths(t)
	logger, logs := testutil.NewTestLogger(t)
	e := NewStatsExporter(NewCSVWriter(paths, logger), logger)

	written, err := e.Export(context.Background(), BuildReports(sampleStats()))
	require.NoError(t, err)
	require.Len(t, written, 4)

	data, err := os.ReadFile(filepath.Join(paths.ResultsDir, config.ResultTopThemes))
	require.NoError(t, err)
	assert.Equal(t, "rank,theme,unique_parts\n1,Space,4\n", string(data))
	assert.True(t, logs.ContainsMessage("report exported"))
}

func TestWorkbookWriter_Write(t *testing.T) {
	paths := testPaths(t)
	logger, _ := testutil.NewTestLogger(t)

	err := NewWorkbookWriter(logger).Write(context.Background(), BuildReports(sampleStats()), paths.WorkbookFile)
	require.NoError(t, err)

	f, err := excelize.OpenFile(paths.WorkbookFile)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sets per Year", "Top Themes", "YoY Growth", "Forecast"}, f.GetSheetList())

	header, err := f.GetCellValue("Sets per Year", "C1")
	require.NoError(t, err)
	assert.Equal(t, "5yr_avg", header)

	missing, err := f.GetCellValue("Sets per Year", "C2")
	require.NoError(t, err)
	assert.Empty(t, missing)

	avg, err := f.GetCellValue("Sets per Year", "D3")
	require.NoError(t, err)
	assert.Equal(t, "13.4", avg)

	theme, err := f.GetCellValue("Top Themes", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Space", theme)
}

func TestWorkbookWriter_NoReports(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	err := NewWorkbookWriter(logger).Write(context.Background(), nil, filepath.Join(t.TempDir(), "x.xlsx"))
	assert.Error(t, err)
}
