package schema

import (
	"os"
	"path/filepath"

	apperrors "brickstats/internal/errors"
	"brickstats/internal/relations"
)

func writeManifestFile(path string, rels []relations.Relationship) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("failed to create manifest directory", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("failed to create manifest", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = apperrors.NewStorageError("failed to close manifest", cerr)
		}
	}()

	return relations.WriteManifest(f, rels)
}
