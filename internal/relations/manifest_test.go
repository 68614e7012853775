package relations

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "brickstats/internal/errors"
)

func TestParseManifest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Relationship
		wantErr bool
	}{
		{
			name: "standard layout",
			input: "table_name,column_name,referenced_table,referenced_column\n" +
				"sets,theme_id,themes,id\n" +
				"inventories,set_num,sets,set_num\n",
			want: []Relationship{
				{"sets", "theme_id", "themes", "id"},
				{"inventories", "set_num", "sets", "set_num"},
			},
		},
		{
			name: "reordered header with bom and spaces",
			input: "\xEF\xBB\xBFreferenced_table, referenced_column ,table_name,column_name\n" +
				" themes , id , sets , theme_id \n",
			want: []Relationship{{"sets", "theme_id", "themes", "id"}},
		},
		{
			name: "blank rows ignored",
			input: "table_name,column_name,referenced_table,referenced_column\n" +
				",,,\n" +
				"parts,part_cat_id,part_categories,id\n",
			want: []Relationship{{"parts", "part_cat_id", "part_categories", "id"}},
		},
		{
			name:  "header only",
			input: "table_name,column_name,referenced_table,referenced_column\n",
			want:  nil,
		},
		{
			name:    "missing column",
			input:   "table_name,column_name,referenced_table\nsets,theme_id,themes\n",
			wantErr: true,
		},
		{
			name: "partially empty row",
			input: "table_name,column_name,referenced_table,referenced_column\n" +
				"sets,,themes,id\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseManifest(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadManifest(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relationships.csv")
	require.NoError(t, os.WriteFile(path,
		[]byte("table_name,column_name,referenced_table,referenced_column\nsets,theme_id,themes,id\n"), 0644))

	rels, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "sets.theme_id -> themes.id", rels[0].String())
	assert.Equal(t, "_themes", rels[0].Suffix())
	assert.Equal(t, []string{"sets", "theme_id", "themes", "id"}, rels[0].Record())

	_, err = LoadManifest(filepath.Join(dir, "absent.csv"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestWriteManifest_RoundTrip(t *testing.T) {
	rels := []Relationship{
		{SourceTable: "sets", SourceColumn: "theme_id", TargetTable: "themes", TargetColumn: "id"},
		{SourceTable: "inventories", SourceColumn: "set_num", TargetTable: "sets", TargetColumn: "set_num"},
	}

	var buf strings.Builder
	require.NoError(t, WriteManifest(&buf, rels))

	assert.True(t, strings.HasPrefix(buf.String(), "table_name,column_name,referenced_table,referenced_column\n"))

	got, err := ParseManifest(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, rels, got)
}
