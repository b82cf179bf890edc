// Package dataset describes the three fixed datasets the query engine knows
// about and loads them from flat files into tables.
//
// Each dataset has a fixed column schema and a fixed list of numeric columns.
// Datasets are stored under a data directory either as CSV (city.csv) or as
// Parquet (city.parquet); the Loader returned by NewFileLoader picks the
// backend according to its Source setting.
package dataset

import (
	"errors"
	"fmt"

	"github.com/vegasq/toyquery/internal/table"
)

// ErrUnknownDataset is returned when a token does not name a known dataset
var ErrUnknownDataset = errors.New("unknown dataset")

// Dataset identifies one of the fixed datasets
type Dataset int

const (
	City Dataset = iota
	Country
	Language
)

// All lists the datasets in catalogue order
var All = []Dataset{City, Country, Language}

// Column describes one column of a dataset schema
type Column struct {
	Name    string
	Kind    table.Kind
	Numeric bool // usable by ORDERBY
}

// Schema is the fixed layout of a dataset
type Schema struct {
	Columns []Column
}

var schemas = map[Dataset]Schema{
	City: {Columns: []Column{
		{Name: "CityID", Kind: table.KindInteger, Numeric: true},
		{Name: "CityName", Kind: table.KindText},
		{Name: "CountryCode", Kind: table.KindText},
		{Name: "CityPop", Kind: table.KindInteger, Numeric: true},
	}},
	Country: {Columns: []Column{
		{Name: "CountryCode", Kind: table.KindText},
		{Name: "CountryName", Kind: table.KindText},
		{Name: "Continent", Kind: table.KindText},
		{Name: "CountryPop", Kind: table.KindInteger, Numeric: true},
		// optional, so not a valid ORDERBY target
		{Name: "Capital", Kind: table.KindOptionalInteger},
	}},
	Language: {Columns: []Column{
		{Name: "CountryCode", Kind: table.KindText},
		{Name: "Language", Kind: table.KindText},
	}},
}

// Parse maps a FROM/JOIN token to its dataset
func Parse(token string) (Dataset, error) {
	for _, d := range All {
		if d.FileName() == token {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDataset, token)
}

// Name returns the base name of the dataset's files
func (d Dataset) Name() string {
	switch d {
	case City:
		return "city"
	case Country:
		return "country"
	case Language:
		return "language"
	default:
		return fmt.Sprintf("dataset(%d)", int(d))
	}
}

// FileName returns the token users type to refer to the dataset
func (d Dataset) FileName() string {
	return d.Name() + ".csv"
}

// String implements fmt.Stringer
func (d Dataset) String() string {
	return d.FileName()
}

// Schema returns the fixed schema of the dataset
func (d Dataset) Schema() Schema {
	return schemas[d]
}

// ColumnNames returns the header of the dataset in order
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// NumericColumns returns the names of the columns ORDERBY accepts
func (s Schema) NumericColumns() []string {
	var names []string
	for _, c := range s.Columns {
		if c.Numeric {
			names = append(names, c.Name)
		}
	}
	return names
}

// NewTable builds a table for the schema, checking each row's width and
// cell kinds.
func (s Schema) NewTable(rows []table.Row) (*table.Table, error) {
	for i, row := range rows {
		for j, col := range s.Columns {
			c, ok := row.Cell(j)
			if !ok {
				return nil, fmt.Errorf("row %d: missing %s", i+1, col.Name)
			}
			if c.Kind() != col.Kind {
				return nil, fmt.Errorf("row %d: %s holds %s, want %s", i+1, col.Name, c.Kind(), col.Kind)
			}
		}
	}
	return table.New(s.ColumnNames(), s.NumericColumns(), rows)
}
