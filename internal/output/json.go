package output

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/vegasq/toyquery/internal/table"
)

// JSONFormatter outputs rows as JSON Lines format
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Keys follow the header order;
// integers are numbers, text is a string and absent values are null.
func (j *JSONFormatter) Format(t *table.Table) error {
	header := t.Header()
	keys := make([][]byte, len(header))
	for i, name := range header {
		k, err := json.Marshal(name)
		if err != nil {
			return err
		}
		keys[i] = k
	}

	bw := bufio.NewWriter(j.writer)
	for _, row := range t.Rows() {
		bw.WriteByte('{')
		for i, c := range row.Cells() {
			if i > 0 {
				bw.WriteByte(',')
			}
			v, err := json.Marshal(c.Value())
			if err != nil {
				return err
			}
			bw.Write(keys[i])
			bw.WriteByte(':')
			bw.Write(v)
		}
		bw.WriteString("}\n")
	}
	return bw.Flush()
}
