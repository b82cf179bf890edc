package output

import (
	"fmt"
	"io"

	prettytable "github.com/jedib0t/go-pretty/v6/table"

	"github.com/vegasq/toyquery/internal/table"
)

// MarkdownFormatter outputs a markdown table
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// SetOutput sets the output writer
func (m *MarkdownFormatter) SetOutput(w io.Writer) {
	m.writer = w
}

// Format renders the table with markdown pipes
func (m *MarkdownFormatter) Format(t *table.Table) error {
	tw := prettytable.NewWriter()

	header := t.Header()
	headerRow := make(prettytable.Row, len(header))
	for i, name := range header {
		headerRow[i] = name
	}
	tw.AppendHeader(headerRow)

	for _, row := range t.Rows() {
		cells := row.Cells()
		r := make(prettytable.Row, len(cells))
		for i, c := range cells {
			if v, ok := c.Int(); ok {
				r[i] = v
			} else {
				r[i] = c.String()
			}
		}
		tw.AppendRow(r)
	}

	_, err := fmt.Fprintln(m.writer, tw.RenderMarkdown())
	return err
}
