package relations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"brickstats/internal/dataset"
	apperrors "brickstats/internal/errors"
)

// Manifest column names
const (
	ColTableName        = "table_name"
	ColColumnName       = "column_name"
	ColReferencedTable  = "referenced_table"
	ColReferencedColumn = "referenced_column"
)

// ManifestHeader is the column layout of a relationship manifest
var ManifestHeader = []string{ColTableName, ColColumnName, ColReferencedTable, ColReferencedColumn}

// Relationship is one foreign-key join instruction: rows of SourceTable are
// matched to TargetTable on SourceColumn = TargetColumn.
type Relationship struct {
	SourceTable  string `json:"table_name"`
	SourceColumn string `json:"column_name"`
	TargetTable  string `json:"referenced_table"`
	TargetColumn string `json:"referenced_column"`
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s", r.SourceTable, r.SourceColumn, r.TargetTable, r.TargetColumn)
}

// Suffix is appended to target columns that collide with source columns
func (r Relationship) Suffix() string {
	return "_" + r.TargetTable
}

// Record returns the manifest row for r
func (r Relationship) Record() []string {
	return []string{r.SourceTable, r.SourceColumn, r.TargetTable, r.TargetColumn}
}

// ParseManifest reads relationships in file order. Header columns are found
// by name; rows with every field blank are ignored.
func ParseManifest(r io.Reader) ([]Relationship, error) {
	tbl, err := dataset.ReadCSV(r, "manifest")
	if err != nil {
		return nil, err
	}

	for _, col := range ManifestHeader {
		if !tbl.HasColumn(col) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("manifest is missing column %q", col), dataset.ErrColumnNotFound)
		}
	}

	var (
		rels   []Relationship
		badRow = -1
		n      int
	)
	tbl.Each(func(row dataset.Row) {
		n++
		if badRow >= 0 {
			return
		}
		rel := Relationship{
			SourceTable:  strings.TrimSpace(row.Get(ColTableName)),
			SourceColumn: strings.TrimSpace(row.Get(ColColumnName)),
			TargetTable:  strings.TrimSpace(row.Get(ColReferencedTable)),
			TargetColumn: strings.TrimSpace(row.Get(ColReferencedColumn)),
		}
		if rel == (Relationship{}) {
			return
		}
		if rel.SourceTable == "" || rel.SourceColumn == "" || rel.TargetTable == "" || rel.TargetColumn == "" {
			badRow = n
			return
		}
		rels = append(rels, rel)
	})

	if badRow >= 0 {
		return nil, apperrors.NewParsingError(
			fmt.Sprintf("manifest row %d has an empty field", badRow), nil)
	}

	return rels, nil
}

// LoadManifest parses the manifest file at path
func LoadManifest(path string) ([]Relationship, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.NewAppError(apperrors.ErrTypeNotFound,
				fmt.Sprintf("relationship manifest %s not found", path), err)
		}
		return nil, apperrors.NewStorageError("failed to open relationship manifest", err)
	}
	defer f.Close()

	return ParseManifest(f)
}

// WriteManifest writes rels with the manifest header, in order
func WriteManifest(w io.Writer, rels []Relationship) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ManifestHeader); err != nil {
		return apperrors.NewStorageError("failed to write manifest header", err)
	}
	for _, rel := range rels {
		if err := cw.Write(rel.Record()); err != nil {
			return apperrors.NewStorageError("failed to write manifest row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.NewStorageError("failed to flush manifest", err)
	}
	return nil
}
