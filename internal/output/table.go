package output

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/vegasq/toyquery/internal/table"
)

// TableFormatter outputs a bordered, aligned text grid followed by a row
// count.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new grid formatter
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer
func (f *TableFormatter) SetOutput(w io.Writer) {
	f.writer = w
}

// Format renders the table as a grid
func (f *TableFormatter) Format(t *table.Table) error {
	grid := tablewriter.NewWriter(f.writer)
	grid.SetHeader(t.Header())
	grid.SetAutoFormatHeaders(false)
	grid.SetAutoWrapText(false)
	grid.SetAlignment(tablewriter.ALIGN_LEFT)

	for _, row := range t.Rows() {
		grid.Append(row.Strings())
	}
	grid.Render()

	_, err := fmt.Fprintf(f.writer, "(%d rows)\n", t.Len())
	return err
}
