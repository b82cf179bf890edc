// Package output renders result tables.
//
// Supported formats:
//   - csv: header line, then one comma separated line per row
//   - json: JSON Lines, one object per row with keys in column order
//   - table: aligned text grid
//   - markdown: GitHub flavoured markdown table
//
// Example usage:
//
//	formatter, err := output.NewFormatter("csv", os.Stdout)
//	if err != nil {
//	    return err
//	}
//	if err := formatter.Format(result); err != nil {
//	    return err
//	}
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/vegasq/toyquery/internal/table"
)

// Format names accepted by NewFormatter
const (
	FormatCSV      = "csv"
	FormatJSON     = "json"
	FormatTable    = "table"
	FormatMarkdown = "markdown"
)

// Formats lists the supported format names
var Formats = []string{FormatCSV, FormatJSON, FormatTable, FormatMarkdown}

// Formatter defines the interface for output formatters.
//
// Implementers must provide Format to render a table in the target format
// and SetOutput to change the output destination.
type Formatter interface {
	// Format writes the table in the formatter's specific format
	Format(t *table.Table) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// NewFormatter returns the formatter registered under name
func NewFormatter(name string, w io.Writer) (Formatter, error) {
	switch strings.ToLower(name) {
	case FormatCSV, "":
		return NewCSVFormatter(w), nil
	case FormatJSON:
		return NewJSONFormatter(w), nil
	case FormatTable:
		return NewTableFormatter(w), nil
	case FormatMarkdown, "md":
		return NewMarkdownFormatter(w), nil
	}
	return nil, fmt.Errorf("unsupported output format %q (want one of %s)", name, strings.Join(Formats, ", "))
}
