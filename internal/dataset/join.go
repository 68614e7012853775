package dataset

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	apperrors "brickstats/internal/errors"
)

var (
	// ErrColumnNotFound is wrapped by every missing-column failure
	ErrColumnNotFound = errors.New("column not found")
	// ErrColumnCollision is returned when a suffixed column still clashes
	ErrColumnCollision = errors.New("column name collision")
)

// JoinKind selects which unmatched rows survive a join
type JoinKind int

const (
	JoinLeft JoinKind = iota
	JoinInner
)

func (k JoinKind) String() string {
	switch k {
	case JoinLeft:
		return "left"
	case JoinInner:
		return "inner"
	default:
		return fmt.Sprintf("JoinKind(%d)", int(k))
	}
}

// LeftJoin keeps every left row in order. Each left row is repeated once per
// matching right row; rows without a match get Missing in the right columns.
// Right columns whose names collide with left columns get suffix appended.
// When leftOn and rightOn share a name the right key column is dropped, since
// it would only duplicate the left key.
func LeftJoin(left, right *Table, leftOn, rightOn, suffix string) (*Table, error) {
	return Join(JoinLeft, left, right, leftOn, rightOn, suffix)
}

// InnerJoin is LeftJoin without the unmatched left rows
func InnerJoin(left, right *Table, leftOn, rightOn, suffix string) (*Table, error) {
	return Join(JoinInner, left, right, leftOn, rightOn, suffix)
}

// Join merges right into left on leftOn = rightOn. Missing keys never match.
// The result keeps the left table's name.
func Join(kind JoinKind, left, right *Table, leftOn, rightOn, suffix string) (*Table, error) {
	li, err := left.ColumnIndex(leftOn)
	if err != nil {
		return nil, err
	}
	ri, err := right.ColumnIndex(rightOn)
	if err != nil {
		return nil, err
	}

	// Right columns carried into the result, with their output names
	var (
		rightCols []int
		columns   = left.Columns()
		taken     = make(map[string]bool, left.Width()+right.Width())
	)
	for _, col := range left.columns {
		taken[col] = true
	}
	for i, col := range right.columns {
		if i == ri && leftOn == rightOn {
			continue
		}
		name := col
		if left.HasColumn(col) {
			name = col + suffix
		}
		if taken[name] {
			return nil, apperrors.NewAppError(apperrors.ErrTypeSchema,
				fmt.Sprintf("joining %s into %s: column %q already exists", right.name, left.name, name),
				ErrColumnCollision)
		}
		taken[name] = true
		rightCols = append(rightCols, i)
		columns = append(columns, name)
	}

	lookup := make(map[string][]int, right.Len())
	for r, row := range right.rows {
		if key, ok := joinKey(row[ri]); ok {
			lookup[key] = append(lookup[key], r)
		}
	}

	rows := make([][]string, 0, left.Len())
	for _, lrow := range left.rows {
		var matches []int
		if key, ok := joinKey(lrow[li]); ok {
			matches = lookup[key]
		}

		if len(matches) == 0 {
			if kind == JoinInner {
				continue
			}
			out := make([]string, len(columns))
			copy(out, lrow)
			rows = append(rows, out)
			continue
		}

		for _, m := range matches {
			out := make([]string, 0, len(columns))
			out = append(out, lrow...)
			for _, ci := range rightCols {
				out = append(out, right.rows[m][ci])
			}
			rows = append(rows, out)
		}
	}

	return NewTable(left.name, columns, rows)
}

// joinKey normalizes a key cell. An integer written with a zero fraction
// collapses to the integer so "7.0" matches "7"; every other value, including
// exponent spellings, compares verbatim after trimming.
func joinKey(cell string) (string, bool) {
	s := strings.TrimSpace(cell)
	if s == Missing {
		return "", false
	}
	whole, frac, ok := strings.Cut(s, ".")
	if !ok || strings.Trim(frac, "0") != "" {
		return s, true
	}
	if _, err := strconv.ParseInt(whole, 10, 64); err != nil {
		return s, true
	}
	return whole, true
}
