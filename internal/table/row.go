package table

import "fmt"

// Row is an immutable, ordered sequence of cells
type Row struct {
	cells []Cell
}

// NewRow creates a row holding a copy of cells
func NewRow(cells ...Cell) Row {
	return Row{cells: append([]Cell(nil), cells...)}
}

// Len returns the number of cells in the row
func (r Row) Len() int {
	return len(r.cells)
}

// Cell returns the cell at index i. ok is false when i is out of range.
func (r Row) Cell(i int) (Cell, bool) {
	if i < 0 || i >= len(r.cells) {
		return Cell{}, false
	}
	return r.cells[i], true
}

// Cells returns a copy of the row's cells
func (r Row) Cells() []Cell {
	return append([]Cell(nil), r.cells...)
}

// Strings renders every cell with Cell.String
func (r Row) Strings() []string {
	out := make([]string, len(r.cells))
	for i, c := range r.cells {
		out[i] = c.String()
	}
	return out
}

// Project builds a new row from the cells at the given indices, in order.
func (r Row) Project(indices []int) (Row, error) {
	cells := make([]Cell, len(indices))
	for i, idx := range indices {
		c, ok := r.Cell(idx)
		if !ok {
			return Row{}, fmt.Errorf("%w: cell index %d out of range for row of %d cells", ErrInvalidTable, idx, len(r.cells))
		}
		cells[i] = c
	}
	return Row{cells: cells}, nil
}

// Concat returns a new row with r's cells followed by other's cells,
// leaving out other's cell at index skip. A negative skip keeps every cell.
func (r Row) Concat(other Row, skip int) Row {
	cells := make([]Cell, 0, len(r.cells)+len(other.cells))
	cells = append(cells, r.cells...)
	for i, c := range other.cells {
		if i == skip {
			continue
		}
		cells = append(cells, c)
	}
	return Row{cells: cells}
}
