package repl

import (
	"fmt"
	"strings"

	"github.com/vegasq/toyquery/internal/dataset"
)

// HelpText describes the verbs and the dataset catalogue. The catalogue is
// built from the dataset schemas.
func HelpText() string {
	var b strings.Builder
	b.WriteString("Available Commands:\n")
	b.WriteString("  FROM <dataset> - Loads the dataset. Must be the first command of a chain;\n")
	b.WriteString("      on its own it prints the whole dataset.\n")
	b.WriteString("  SELECT <column-name>[,<column-name>...] - Keeps only the listed columns, in order.\n")
	b.WriteString("  TAKE <number> - Keeps the first <number> rows. <number> must be 0 or more.\n")
	b.WriteString("  ORDERBY <numeric-column-name> - Sorts rows by the column, largest first.\n")
	b.WriteString("  COUNTBY <column-name> - Counts the rows for each distinct value of the column,\n")
	b.WriteString("      in a new 'count' column, largest count first.\n")
	b.WriteString("  JOIN <dataset> <column-name> - Pairs rows with rows of <dataset> holding an equal\n")
	b.WriteString("      value in <column-name>, which must exist on both sides.\n")
	b.WriteString("  help - Prints this message.\n")
	b.WriteString("  exit - Ends the session.\n")
	b.WriteString("\n")
	b.WriteString("Available Datasets:\n")
	for _, d := range dataset.All {
		schema := d.Schema()
		fmt.Fprintf(&b, "  <dataset> : %s\n", d.FileName())
		fmt.Fprintf(&b, "      <column-name> : [%s]\n", strings.Join(schema.ColumnNames(), ", "))
		fmt.Fprintf(&b, "      <numeric-column-name> : [%s]\n", strings.Join(schema.NumericColumns(), ", "))
	}
	return b.String()
}
