package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickstats/internal/config"
	"brickstats/internal/shared/testutil"
)

func setupWorkspace(t *testing.T) string {
	t.Helper()
	base := t.TempDir()
	t.Setenv("BRICK_PATHS_BASE_DIR", base)
	t.Setenv("BRICK_TELEMETRY_METRIC_EXPORTER", "none")
	t.Setenv("BRICK_TELEMETRY_TRACE_EXPORTER", "none")
	t.Setenv("BRICK_CONFIG_FILE", "")
	return base
}

func TestRun_MergesCatalog(t *testing.T) {
	base := setupWorkspace(t)
	testutil.WriteCatalog(t, filepath.Join(base, "catalog"))
	testutil.WriteFile(t, filepath.Join(base, "fk.csv"), testutil.CatalogManifest)

	var out bytes.Buffer
	err := run(context.Background(), []string{"-data", "catalog", "-manifest", "fk.csv"}, &out)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "merged sets.theme_id -> themes.id")
	assert.Contains(t, text, "skipped inventory_minifigs.fig_num -> minifigs.fig_num")
	assert.Equal(t, 8, strings.Count(text, "wrote "))
	assert.FileExists(t, filepath.Join(base, "catalog", config.MergedTablePrefix+"sets.csv"))
}

func TestRun_MissingManifest(t *testing.T) {
	base := setupWorkspace(t)
	testutil.WriteCatalog(t, filepath.Join(base, config.DefaultDataDir))

	err := run(context.Background(), nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load_manifest")
}

func TestRun_BadFlag(t *testing.T) {
	setupWorkspace(t)
	err := run(context.Background(), []string{"-nope"}, &bytes.Buffer{})
	assert.Error(t, err)
}
