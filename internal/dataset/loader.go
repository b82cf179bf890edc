package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/vegasq/toyquery/internal/table"
)

// Loader materializes a dataset as a table
type Loader interface {
	Load(d Dataset) (*table.Table, error)
}

// LoadError reports a dataset that could not be materialized
type LoadError struct {
	Dataset Dataset
	Path    string
	Err     error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Source selects the file format a FileLoader reads
type Source string

const (
	SourceAuto    Source = "auto"    // parquet when present, CSV otherwise
	SourceCSV     Source = "csv"     // <name>.csv only
	SourceParquet Source = "parquet" // <name>.parquet only
)

// ParseSource validates a source name
func ParseSource(s string) (Source, error) {
	switch src := Source(strings.ToLower(s)); src {
	case SourceAuto, SourceCSV, SourceParquet:
		return src, nil
	}
	return "", fmt.Errorf("unsupported dataset source %q (want auto, csv or parquet)", s)
}

// FileLoader loads datasets from files in a directory.
//
// Nothing is cached: every call to Load reads the file again.
type FileLoader struct {
	dir    string
	source Source
	logger log.Logger
}

// NewFileLoader creates a loader reading from dir. A nil logger discards logs.
func NewFileLoader(dir string, source Source, logger log.Logger) *FileLoader {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	if source == "" {
		source = SourceAuto
	}
	return &FileLoader{dir: dir, source: source, logger: logger}
}

// Dir returns the data directory
func (l *FileLoader) Dir() string {
	return l.dir
}

// Resolve returns the file Load would read for d and its format
func (l *FileLoader) Resolve(d Dataset) (string, Source) {
	csvPath := filepath.Join(l.dir, d.Name()+".csv")
	pqPath := filepath.Join(l.dir, d.Name()+".parquet")

	switch l.source {
	case SourceCSV:
		return csvPath, SourceCSV
	case SourceParquet:
		return pqPath, SourceParquet
	default:
		if _, err := os.Stat(pqPath); err == nil {
			return pqPath, SourceParquet
		}
		return csvPath, SourceCSV
	}
}

// Load reads the dataset from disk
func (l *FileLoader) Load(d Dataset) (*table.Table, error) {
	if _, ok := schemas[d]; !ok {
		return nil, &LoadError{Dataset: d, Err: fmt.Errorf("%w: %s", ErrUnknownDataset, d.Name())}
	}

	path, format := l.Resolve(d)

	var (
		rows []table.Row
		err  error
	)
	switch format {
	case SourceParquet:
		rows, err = readParquetRows(d, path)
	default:
		rows, err = readCSVRows(d.Schema(), path)
	}
	if err != nil {
		return nil, &LoadError{Dataset: d, Path: path, Err: err}
	}

	t, err := d.Schema().NewTable(rows)
	if err != nil {
		return nil, &LoadError{Dataset: d, Path: path, Err: err}
	}

	level.Debug(l.logger).Log("msg", "loaded dataset", "dataset", d, "path", path, "format", format, "rows", t.Len())
	return t, nil
}

// readCSVRows reads a dataset CSV file whose header must match the schema
func readCSVRows(schema Schema, path string) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return decodeCSV(schema, f)
}

func decodeCSV(schema Schema, in io.Reader) ([]table.Row, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = len(schema.Columns)
	r.ReuseRecord = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")
	if want := schema.ColumnNames(); !slices.Equal(header, want) {
		return nil, fmt.Errorf("unexpected header %v, want %v", header, want)
	}

	var rows []table.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		cells := make([]table.Cell, len(record))
		for i, raw := range record {
			c, err := parseCell(schema.Columns[i].Kind, raw)
			if err != nil {
				line, _ := r.FieldPos(i)
				return nil, fmt.Errorf("line %d: column %s: %w", line, schema.Columns[i].Name, err)
			}
			cells[i] = c
		}
		rows = append(rows, table.NewRow(cells...))
	}
	return rows, nil
}

// parseCell converts a raw field into a cell of the given kind
func parseCell(kind table.Kind, raw string) (table.Cell, error) {
	switch kind {
	case table.KindText:
		return table.Text(raw), nil
	case table.KindInteger:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return table.Cell{}, fmt.Errorf("invalid integer %q", raw)
		}
		return table.Integer(v), nil
	case table.KindOptionalInteger:
		s := strings.TrimSpace(raw)
		if s == "" {
			return table.Absent(), nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return table.Cell{}, fmt.Errorf("invalid integer %q", raw)
		}
		return table.OptionalInteger(v), nil
	default:
		return table.Cell{}, fmt.Errorf("unsupported column kind %s", kind)
	}
}
