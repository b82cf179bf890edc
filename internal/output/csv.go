package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/toyquery/internal/table"
)

// CSVFormatter outputs a table as comma-joined lines: the header line first,
// then one line per row. Cell text is written as is, without quoting, and
// absent values are written as empty fields.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes the table as CSV. The header is written even when the table
// has no rows.
func (c *CSVFormatter) Format(t *table.Table) error {
	w := bufio.NewWriter(c.writer)

	writeLine(w, t.Header())
	for _, row := range t.Rows() {
		writeLine(w, row.Strings())
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write CSV output: %w", err)
	}
	return nil
}

// writeLine writes fields joined by commas. Errors are sticky in
// bufio.Writer and surface on Flush.
func writeLine(w *bufio.Writer, fields []string) {
	w.WriteString(strings.Join(fields, ","))
	w.WriteByte('\n')
}
