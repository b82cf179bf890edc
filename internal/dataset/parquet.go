package dataset

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/vegasq/toyquery/internal/table"
)

// cityRecord is the Parquet layout of city.parquet
type cityRecord struct {
	CityID      int64  `parquet:"CityID"`
	CityName    string `parquet:"CityName"`
	CountryCode string `parquet:"CountryCode"`
	CityPop     int64  `parquet:"CityPop"`
}

// countryRecord is the Parquet layout of country.parquet
type countryRecord struct {
	CountryCode string `parquet:"CountryCode"`
	CountryName string `parquet:"CountryName"`
	Continent   string `parquet:"Continent"`
	CountryPop  int64  `parquet:"CountryPop"`
	Capital     *int64 `parquet:"Capital,optional"`
}

// languageRecord is the Parquet layout of language.parquet
type languageRecord struct {
	CountryCode string `parquet:"CountryCode"`
	Language    string `parquet:"Language"`
}

func (r cityRecord) row() table.Row {
	return table.NewRow(table.Integer(r.CityID), table.Text(r.CityName), table.Text(r.CountryCode), table.Integer(r.CityPop))
}

func (r countryRecord) row() table.Row {
	capital := table.Absent()
	if r.Capital != nil {
		capital = table.OptionalInteger(*r.Capital)
	}
	return table.NewRow(table.Text(r.CountryCode), table.Text(r.CountryName), table.Text(r.Continent), table.Integer(r.CountryPop), capital)
}

func (r languageRecord) row() table.Row {
	return table.NewRow(table.Text(r.CountryCode), table.Text(r.Language))
}

type record interface {
	cityRecord | countryRecord | languageRecord
	row() table.Row
}

// readParquetRows reads the Parquet file for d
func readParquetRows(d Dataset, path string) ([]table.Row, error) {
	switch d {
	case City:
		return readParquet[cityRecord](path)
	case Country:
		return readParquet[countryRecord](path)
	case Language:
		return readParquet[languageRecord](path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDataset, d.Name())
	}
}

func readParquet[T record](path string) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := parquet.NewGenericReader[T](f)
	defer func() { _ = reader.Close() }()

	rows := make([]table.Row, 0, reader.NumRows())
	buf := make([]T, 256)
	for {
		n, err := reader.Read(buf)
		for _, rec := range buf[:n] {
			rows = append(rows, rec.row())
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if n == 0 {
			break
		}
	}
	return rows, nil
}

// writeDataset writes a table holding d's rows to a Parquet file
func writeDataset(d Dataset, t *table.Table, path string) error {
	width := len(d.Schema().Columns)
	switch d {
	case City:
		recs, err := convertRows(t, width, cityFromCells)
		if err != nil {
			return err
		}
		return writeParquet(path, recs)
	case Country:
		recs, err := convertRows(t, width, countryFromCells)
		if err != nil {
			return err
		}
		return writeParquet(path, recs)
	case Language:
		recs, err := convertRows(t, width, languageFromCells)
		if err != nil {
			return err
		}
		return writeParquet(path, recs)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownDataset, d.Name())
	}
}

func cityFromCells(cells []table.Cell) cityRecord {
	id, _ := cells[0].Int()
	pop, _ := cells[3].Int()
	return cityRecord{CityID: id, CityName: cells[1].String(), CountryCode: cells[2].String(), CityPop: pop}
}

func countryFromCells(cells []table.Cell) countryRecord {
	pop, _ := cells[3].Int()
	rec := countryRecord{CountryCode: cells[0].String(), CountryName: cells[1].String(), Continent: cells[2].String(), CountryPop: pop}
	if v, ok := cells[4].Int(); ok {
		rec.Capital = &v
	}
	return rec
}

func languageFromCells(cells []table.Cell) languageRecord {
	return languageRecord{CountryCode: cells[0].String(), Language: cells[1].String()}
}

// convertRows maps every row to a record; rows must be exactly width cells wide
func convertRows[T record](t *table.Table, width int, conv func([]table.Cell) T) ([]T, error) {
	out := make([]T, 0, t.Len())
	for i, row := range t.Rows() {
		cells := row.Cells()
		if len(cells) != width {
			return nil, fmt.Errorf("row %d has %d cells, want %d: %w", i, len(cells), width, table.ErrInvalidTable)
		}
		out = append(out, conv(cells))
	}
	return out, nil
}

// writeParquet writes records to path with zstd compression
func writeParquet[T record](path string, recs []T) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	writer := parquet.NewGenericWriter[T](f, parquet.Compression(&parquet.Zstd))
	if _, err := writer.Write(recs); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close writer: %w", err)
	}
	return nil
}
