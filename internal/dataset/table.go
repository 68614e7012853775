package dataset

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "brickstats/internal/errors"
)

// Missing is the cell value used for absent data
const Missing = ""

// Table is a named, ordered collection of rows sharing one column list
type Table struct {
	name    string
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable validates the column list and row widths and builds a table.
// The rows slice is owned by the table afterwards.
func NewTable(name string, columns []string, rows [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, apperrors.NewSchemaError(fmt.Sprintf("duplicate column %q in table %s", col, name))
		}
		index[col] = i
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, apperrors.NewSchemaError(fmt.Sprintf(
				"row %d of table %s has %d fields, expected %d", i, name, len(row), len(columns)))
		}
	}

	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		index:   index,
		rows:    rows,
	}, nil
}

// Name returns the registry name of the table
func (t *Table) Name() string { return t.name }

// Len returns the number of rows
func (t *Table) Len() int { return len(t.rows) }

// Width returns the number of columns
func (t *Table) Width() int { return len(t.columns) }

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(col string) bool {
	_, ok := t.index[col]
	return ok
}

// ColumnIndex returns the position of col or a schema error naming the table
func (t *Table) ColumnIndex(col string) (int, error) {
	i, ok := t.index[col]
	if !ok {
		return -1, columnNotFound(t.name, col)
	}
	return i, nil
}

// Row returns a copy of row i
func (t *Table) Row(i int) []string {
	return append([]string(nil), t.rows[i]...)
}

// Records returns a copy of all rows, suitable for CSV export
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Column returns the values of one column
func (t *Table) Column(col string) ([]string, error) {
	ci, err := t.ColumnIndex(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[ci]
	}
	return out, nil
}

// WithName returns the same data registered under another name
func (t *Table) WithName(name string) *Table {
	return &Table{name: name, columns: t.columns, index: t.index, rows: t.rows}
}

// Select returns a table holding only cols, in the given order
func (t *Table) Select(cols ...string) (*Table, error) {
	positions := make([]int, len(cols))
	for i, col := range cols {
		ci, err := t.ColumnIndex(col)
		if err != nil {
			return nil, err
		}
		positions[i] = ci
	}

	rows := make([][]string, len(t.rows))
	for r, row := range t.rows {
		out := make([]string, len(positions))
		for i, ci := range positions {
			out[i] = row[ci]
		}
		rows[r] = out
	}
	return NewTable(t.name, cols, rows)
}

// Rename returns a table whose columns are renamed per mapping (old -> new)
func (t *Table) Rename(mapping map[string]string) (*Table, error) {
	cols := t.Columns()
	for old, renamed := range mapping {
		ci, err := t.ColumnIndex(old)
		if err != nil {
			return nil, err
		}
		cols[ci] = renamed
	}
	return NewTable(t.name, cols, t.rows)
}

// Filter returns the rows for which keep returns true
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows [][]string
	for _, values := range t.rows {
		if keep(Row{table: t, values: values}) {
			rows = append(rows, values)
		}
	}
	return &Table{name: t.name, columns: t.columns, index: t.index, rows: rows}
}

// Each calls fn for every row in order
func (t *Table) Each(fn func(Row)) {
	for _, values := range t.rows {
		fn(Row{table: t, values: values})
	}
}

// Row is a read-only view of one table row
type Row struct {
	table  *Table
	values []string
}

// Get returns the cell for col, or Missing when the column does not exist
func (r Row) Get(col string) string {
	if ci, ok := r.table.index[col]; ok {
		return r.values[ci]
	}
	return Missing
}

// Int parses the cell for col as an integer. Float spellings of whole
// numbers ("1978.0") are accepted.
func (r Row) Int(col string) (int, bool) {
	return ParseInt(r.Get(col))
}

// ParseInt parses an integer cell, accepting whole-number float spellings
func ParseInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == Missing {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

func columnNotFound(table, col string) error {
	return apperrors.NewAppError(apperrors.ErrTypeSchema,
		fmt.Sprintf("column %q not found in table %s", col, table), ErrColumnNotFound).
		WithContext("table", table).
		WithContext("column", col)
}
