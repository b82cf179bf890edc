package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrInvalidTable is returned when a table would break the row width or
// numeric column invariants.
var ErrInvalidTable = errors.New("invalid table")

// Table is the materialized result of evaluating an operator.
//
// Every row has exactly one cell per header column and every numeric column
// name appears in the header. Header names may repeat; lookups resolve to the
// first match.
type Table struct {
	header  []string
	numeric []string
	rows    []Row
}

// New validates the invariants and builds a table. The header and numeric
// slices are copied; rows are shared since Row values are immutable.
func New(header, numeric []string, rows []Row) (*Table, error) {
	for _, name := range numeric {
		if !slices.Contains(header, name) {
			return nil, fmt.Errorf("%w: numeric column %q is not in header %v", ErrInvalidTable, name, header)
		}
	}
	for i, row := range rows {
		if row.Len() != len(header) {
			return nil, fmt.Errorf("%w: row %d has %d cells, header has %d columns", ErrInvalidTable, i, row.Len(), len(header))
		}
	}
	return &Table{
		header:  slices.Clone(header),
		numeric: slices.Clone(numeric),
		rows:    slices.Clone(rows),
	}, nil
}

// Header returns a copy of the column names
func (t *Table) Header() []string {
	return slices.Clone(t.header)
}

// NumericColumns returns a copy of the numeric column names
func (t *Table) NumericColumns() []string {
	return slices.Clone(t.numeric)
}

// Rows returns the rows in order. The returned slice must not be modified.
func (t *Table) Rows() []Row {
	return t.rows
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// ColumnIndex returns the index of the first header column named name
func (t *Table) ColumnIndex(name string) (int, bool) {
	i := slices.Index(t.header, name)
	return i, i >= 0
}

// IsNumeric reports whether name is one of the numeric columns
func (t *Table) IsNumeric(name string) bool {
	return slices.Contains(t.numeric, name)
}

// Head returns a table with at most the first n rows
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return &Table{header: t.header, numeric: t.numeric, rows: t.rows[:n:n]}
}

// SortDescending returns a table whose rows are stably sorted by the integer
// value in column col, largest first. Rows that compare equal keep their
// relative order. Every cell in the column must hold an integer.
func (t *Table) SortDescending(col int) (*Table, error) {
	if col < 0 || col >= len(t.header) {
		return nil, fmt.Errorf("%w: sort column %d out of range for %d columns", ErrInvalidTable, col, len(t.header))
	}

	type keyed struct {
		key int64
		row Row
	}
	items := make([]keyed, len(t.rows))
	for i, row := range t.rows {
		c, _ := row.Cell(col)
		v, ok := c.Int()
		if !ok {
			return nil, fmt.Errorf("row %d: %w", i, &NotIntegerError{Column: t.header[col], Cell: c})
		}
		items[i] = keyed{key: v, row: row}
	}

	slices.SortStableFunc(items, func(a, b keyed) int {
		// descending
		switch {
		case a.key > b.key:
			return -1
		case a.key < b.key:
			return 1
		}
		return 0
	})

	rows := make([]Row, len(items))
	for i, it := range items {
		rows[i] = it.row
	}
	return &Table{header: t.header, numeric: t.numeric, rows: rows}, nil
}

// NotIntegerError reports a cell that cannot be used as a sort key
type NotIntegerError struct {
	Column string
	Cell   Cell
}

func (e *NotIntegerError) Error() string {
	if e.Cell.IsAbsent() {
		return fmt.Sprintf("column %s has an absent value and cannot be sorted", e.Column)
	}
	return fmt.Sprintf("column %s holds %s value %q, not an integer", e.Column, e.Cell.Kind(), e.Cell.String())
}
