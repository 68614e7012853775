package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brickstats/internal/errors"
)

func TestRun_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("BRICK_PATHS_BASE_DIR", t.TempDir())
	t.Setenv("BRICK_DATABASE_URL", "")
	t.Setenv("BRICK_CONFIG_FILE", "")

	err := run(context.Background(), []string{"-out", "fk.csv"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeConfig))
}

func TestRun_BadFlag(t *testing.T) {
	err := run(context.Background(), []string{"-schema", "x"}, &bytes.Buffer{})
	assert.Error(t, err)
}
