package relations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"brickstats/internal/config"
	"brickstats/internal/dataset"
	apperrors "brickstats/internal/errors"
)

// MergedFileName returns merged_<table>.csv
func MergedFileName(table string) string {
	return config.MergedTablePrefix + table + config.CSVExtension
}

// WriteMerged writes every registry entry to dir/merged_<name>.csv in
// registry order and returns the written paths.
func WriteMerged(ctx context.Context, reg *dataset.Registry, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to create %s", dir), err)
	}

	paths := make([]string, 0, reg.Len())
	for _, t := range reg.Tables() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path := filepath.Join(dir, MergedFileName(t.Name()))
		if err := writeTable(path, t); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeTable(path string, t *dataset.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}

	if err := dataset.WriteCSV(f, t); err != nil {
		f.Close()
		return apperrors.NewStorageError(fmt.Sprintf("failed to write %s", path), err)
	}
	if err := f.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to close %s", path), err)
	}
	return nil
}
