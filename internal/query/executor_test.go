package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegasq/toyquery/internal/dataset"
	"github.com/vegasq/toyquery/internal/table"
)

const testDataDir = "../../testdata/data"

// memLoader serves fixed tables and counts loads
type memLoader struct {
	tables map[dataset.Dataset]*table.Table
	errs   map[dataset.Dataset]error
	loads  int
}

func (m *memLoader) Load(d dataset.Dataset) (*table.Table, error) {
	m.loads++
	if err, ok := m.errs[d]; ok {
		return nil, err
	}
	t, ok := m.tables[d]
	if !ok {
		return nil, fmt.Errorf("no table for %s", d)
	}
	return t, nil
}

func mustTable(t *testing.T, header, numeric []string, rows ...[]table.Cell) *table.Table {
	t.Helper()
	built := make([]table.Row, len(rows))
	for i, cells := range rows {
		built[i] = table.NewRow(cells...)
	}
	tbl, err := table.New(header, numeric, built)
	require.NoError(t, err)
	return tbl
}

func run(t *testing.T, ev *Evaluator, line string) (*table.Table, error) {
	t.Helper()
	cmd, err := ParseLine(line)
	require.NoError(t, err)
	require.Equal(t, CommandQuery, cmd.Kind)
	return ev.Evaluate(cmd.Operator)
}

func fileEvaluator() *Evaluator {
	return NewEvaluator(dataset.NewFileLoader(testDataDir, dataset.SourceCSV, nil), nil)
}

func column(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	idx, ok := tbl.ColumnIndex(name)
	require.True(t, ok, "column %s", name)
	var out []string
	for _, row := range tbl.Rows() {
		c, _ := row.Cell(idx)
		out = append(out, c.String())
	}
	return out
}

func allStrings(tbl *table.Table) [][]string {
	out := make([][]string, 0, tbl.Len())
	for _, row := range tbl.Rows() {
		out = append(out, row.Strings())
	}
	return out
}

func TestEvaluate_From(t *testing.T) {
	ev := fileEvaluator()

	got, err := run(t, ev, "FROM city.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"CityID", "CityName", "CountryCode", "CityPop"}, got.Header())
	assert.Equal(t, []string{"CityID", "CityPop"}, got.NumericColumns())
	assert.Equal(t, 36, got.Len())
}

func TestEvaluate_TakeLanguages(t *testing.T) {
	ev := fileEvaluator()

	got, err := run(t, ev, "FROM language.csv TAKE 10")
	require.NoError(t, err)

	want := [][]string{
		{"ABW", "Dutch"},
		{"ABW", "English"},
		{"ABW", "Papiamento"},
		{"ABW", "Spanish"},
		{"AFG", "Balochi"},
		{"AFG", "Dari"},
		{"AFG", "Pashto"},
		{"AFG", "Turkmenian"},
		{"AFG", "Uzbek"},
		{"AGO", "Ambo"},
	}
	if diff := cmp.Diff(want, allStrings(got)); diff != "" {
		t.Errorf("TAKE 10 mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluate_Take(t *testing.T) {
	ev := fileEvaluator()

	tests := []struct {
		query string
		want  int
	}{
		{"FROM city.csv TAKE 0", 0},
		{"FROM city.csv TAKE 3", 3},
		{"FROM city.csv TAKE 36", 36},
		{"FROM city.csv TAKE 1000", 36},
		{"FROM city.csv TAKE 5 TAKE 2", 2},
		{"FROM city.csv TAKE 2 TAKE 5", 2},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, err := run(t, ev, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Len())
			assert.Equal(t, dataset.City.Schema().ColumnNames(), got.Header())
		})
	}
}

func TestEvaluate_OrderByTakeCities(t *testing.T) {
	ev := fileEvaluator()

	got, err := run(t, ev, "FROM city.csv ORDERBY CityPop TAKE 10")
	require.NoError(t, err)

	want := []string{
		"Mumbai_(Bombay)",
		"Seoul",
		"Sao_Paulo",
		"Shanghai",
		"Jakarta",
		"Karachi",
		"Istanbul",
		"Ciudad_de_Mexico",
		"Moscow",
		"New_York",
	}
	assert.Equal(t, want, column(t, got, "CityName"))
	assert.Equal(t, "10500000", column(t, got, "CityPop")[0])
}

func TestEvaluate_OrderByIsStableAndIdempotent(t *testing.T) {
	loader := &memLoader{tables: map[dataset.Dataset]*table.Table{
		dataset.City: mustTable(t,
			[]string{"CityID", "CityName", "CountryCode", "CityPop"},
			[]string{"CityID", "CityPop"},
			[]table.Cell{table.Integer(1), table.Text("a"), table.Text("X"), table.Integer(10)},
			[]table.Cell{table.Integer(2), table.Text("b"), table.Text("X"), table.Integer(30)},
			[]table.Cell{table.Integer(3), table.Text("c"), table.Text("Y"), table.Integer(10)},
			[]table.Cell{table.Integer(4), table.Text("d"), table.Text("Y"), table.Integer(30)},
		),
	}}
	ev := NewEvaluator(loader, nil)

	once, err := run(t, ev, "FROM city.csv ORDERBY CityPop")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "a", "c"}, column(t, once, "CityName"))

	twice, err := run(t, ev, "FROM city.csv ORDERBY CityPop ORDERBY CityPop")
	require.NoError(t, err)
	assert.Equal(t, allStrings(once), allStrings(twice))

	// the loaded table is left untouched
	assert.Equal(t, []string{"a", "b", "c", "d"}, column(t, loader.tables[dataset.City], "CityName"))
}

func TestEvaluate_OrderByErrors(t *testing.T) {
	ev := fileEvaluator()

	tests := []struct {
		name   string
		query  string
		column string
	}{
		{"text column", "FROM city.csv ORDERBY CityName", "CityName"},
		{"optional integer column", "FROM country.csv ORDERBY Capital", "Capital"},
		{"missing column", "FROM city.csv ORDERBY Nope", "Nope"},
		{"projected away", "FROM city.csv SELECT CityName ORDERBY CityPop", "CityPop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, ev, tt.query)
			assert.Nil(t, got)

			var nonNumeric *NonNumericColumnError
			require.True(t, errors.As(err, &nonNumeric), "expected *NonNumericColumnError, got %T: %v", err, err)
			assert.Equal(t, tt.column, nonNumeric.Column)
			assert.Equal(t, fmt.Sprintf("You attempted to ORDERBY the %s column whose type is not numeric.", tt.column), err.Error())
		})
	}
}

func TestEvaluate_Select(t *testing.T) {
	ev := fileEvaluator()

	t.Run("projects and reorders", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv SELECT CityPop,CityName TAKE 2")
		require.NoError(t, err)
		assert.Equal(t, []string{"CityPop", "CityName"}, got.Header())
		assert.Equal(t, []string{"CityPop"}, got.NumericColumns())
		assert.Equal(t, [][]string{{"1780000", "Kabul"}, {"237500", "Qandahar"}}, allStrings(got))
	})

	t.Run("numeric follows requested order", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv SELECT CityPop,CityID")
		require.NoError(t, err)
		assert.Equal(t, []string{"CityPop", "CityID"}, got.NumericColumns())
	})

	t.Run("duplicate columns", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv SELECT CityName,CityName TAKE 1")
		require.NoError(t, err)
		assert.Equal(t, []string{"CityName", "CityName"}, got.Header())
		assert.Equal(t, [][]string{{"Kabul", "Kabul"}}, allStrings(got))
	})

	t.Run("empty list", func(t *testing.T) {
		op, err := ParseTokens([]string{"FROM", "city.csv", "SELECT", ","})
		require.NoError(t, err)
		got, err := ev.Evaluate(op)
		require.NoError(t, err)
		assert.Empty(t, got.Header())
		assert.Equal(t, 36, got.Len())
		assert.Equal(t, 0, got.Rows()[0].Len())
	})

	t.Run("missing column", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv TAKE 3 SELECT CityName,Nope")
		assert.Nil(t, got)

		var noColumn *NoSuchColumnError
		require.True(t, errors.As(err, &noColumn), "expected *NoSuchColumnError, got %T", err)
		assert.Equal(t, VerbSelect, noColumn.Verb)
		assert.Equal(t, "Nope", noColumn.Column)
		assert.Equal(t, "FROM city.csv TAKE 3", noColumn.Chain.String())
		assert.Equal(t,
			"Could not SELECT the Nope column in the input table for this operator chain: FROM city.csv TAKE 3",
			err.Error())
	})
}

func TestEvaluate_CountBy(t *testing.T) {
	ev := fileEvaluator()

	t.Run("languages per country", func(t *testing.T) {
		got, err := run(t, ev, "FROM language.csv COUNTBY CountryCode")
		require.NoError(t, err)
		assert.Equal(t, []string{"CountryCode", CountColumn}, got.Header())
		assert.Equal(t, []string{CountColumn}, got.NumericColumns())

		want := [][]string{
			{"CHN", "12"}, {"IND", "12"}, {"RUS", "12"}, {"USA", "12"},
			{"AGO", "9"}, {"IDN", "9"},
			{"PAK", "8"},
			{"MEX", "6"},
			{"AFG", "5"}, {"BRA", "5"},
			{"ABW", "4"}, {"NLD", "4"},
			{"TUR", "3"},
			{"KOR", "2"},
		}
		if diff := cmp.Diff(want, allStrings(got)); diff != "" {
			t.Errorf("COUNTBY mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("counts sum to input rows", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv COUNTBY CountryCode")
		require.NoError(t, err)

		var total int64
		for _, row := range got.Rows() {
			c, _ := row.Cell(1)
			n, ok := c.Int()
			require.True(t, ok)
			total += n
		}
		assert.Equal(t, int64(36), total)
		assert.Equal(t, "NLD", column(t, got, "CountryCode")[0])
	})

	t.Run("numeric grouping column stays numeric", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv COUNTBY CityPop")
		require.NoError(t, err)
		assert.Equal(t, []string{"CityPop", CountColumn}, got.NumericColumns())
	})

	t.Run("count can be ordered", func(t *testing.T) {
		got, err := run(t, ev, "FROM language.csv COUNTBY Language ORDERBY count TAKE 1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.Len())
	})

	t.Run("absent values form a group", func(t *testing.T) {
		got, err := run(t, ev, "FROM country.csv COUNTBY Capital")
		require.NoError(t, err)
		assert.Equal(t, 15, got.Len())
		assert.Contains(t, column(t, got, "Capital"), "")
	})

	t.Run("missing column", func(t *testing.T) {
		_, err := run(t, ev, "FROM language.csv COUNTBY Nope")
		var noColumn *NoSuchColumnError
		require.True(t, errors.As(err, &noColumn))
		assert.Equal(t, VerbCountBy, noColumn.Verb)
		assert.Equal(t, "FROM language.csv", noColumn.Chain.String())
	})
}

func TestEvaluate_CountByEmptyInput(t *testing.T) {
	ev := fileEvaluator()

	got, err := run(t, ev, "FROM language.csv TAKE 0 COUNTBY Language")
	require.NoError(t, err)
	assert.Equal(t, []string{"Language", CountColumn}, got.Header())
	assert.Equal(t, 0, got.Len())
}

func TestEvaluate_Join(t *testing.T) {
	ev := fileEvaluator()

	t.Run("cities with countries", func(t *testing.T) {
		got, err := run(t, ev, "FROM city.csv JOIN country.csv CountryCode")
		require.NoError(t, err)

		assert.Equal(t, []string{
			"CityID", "CityName", "CountryCode", "CityPop",
			"CountryName", "Continent", "CountryPop", "Capital",
		}, got.Header())
		assert.Equal(t, []string{"CityID", "CityPop", "CountryPop"}, got.NumericColumns())
		assert.Equal(t, 36, got.Len())
		for _, row := range got.Rows() {
			assert.Equal(t, 4+5-1, row.Len())
		}
		assert.Equal(t,
			[]string{"1", "Kabul", "AFG", "1780000", "Afghanistan", "Asia", "22720000", "1"},
			got.Rows()[0].Strings())
	})

	t.Run("fan out is left major", func(t *testing.T) {
		got, err := run(t, ev, "FROM country.csv TAKE 2 JOIN language.csv CountryCode SELECT CountryCode,Language")
		require.NoError(t, err)
		want := [][]string{
			{"ABW", "Dutch"}, {"ABW", "English"}, {"ABW", "Papiamento"}, {"ABW", "Spanish"},
			{"AFG", "Balochi"}, {"AFG", "Dari"}, {"AFG", "Pashto"}, {"AFG", "Turkmenian"}, {"AFG", "Uzbek"},
		}
		if diff := cmp.Diff(want, allStrings(got)); diff != "" {
			t.Errorf("JOIN mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no matches", func(t *testing.T) {
		got, err := run(t, ev, "FROM country.csv TAKE 0 JOIN city.csv CountryCode")
		require.NoError(t, err)
		assert.Equal(t, 0, got.Len())
		assert.Len(t, got.Header(), 8)
	})

	t.Run("column missing on the right", func(t *testing.T) {
		_, err := run(t, ev, "FROM city.csv JOIN language.csv CityName")
		var noColumn *NoSuchColumnError
		require.True(t, errors.As(err, &noColumn))
		assert.Equal(t, VerbJoin, noColumn.Verb)
		assert.Equal(t, "CityName", noColumn.Column)
		assert.Equal(t, "FROM city.csv", noColumn.Chain.String())
	})

	t.Run("column missing on the left", func(t *testing.T) {
		_, err := run(t, ev, "FROM city.csv SELECT CityName JOIN country.csv CountryCode")
		var noColumn *NoSuchColumnError
		require.True(t, errors.As(err, &noColumn))
		assert.Equal(t, "FROM city.csv SELECT CityName", noColumn.Chain.String())
	})
}

func TestEvaluate_JoinMatchesOnKindAndValue(t *testing.T) {
	loader := &memLoader{tables: map[dataset.Dataset]*table.Table{
		dataset.City: mustTable(t,
			[]string{"K", "L"}, []string{"K"},
			[]table.Cell{table.Integer(1), table.Text("l1")},
			[]table.Cell{table.Integer(2), table.Text("l2")},
			[]table.Cell{table.Integer(1), table.Text("l3")},
		),
		dataset.Country: mustTable(t,
			[]string{"R", "K"}, []string{"K"},
			[]table.Cell{table.Text("r1"), table.Integer(1)},
			[]table.Cell{table.Text("r2"), table.Text("1")},
			[]table.Cell{table.Text("r3"), table.Integer(1)},
		),
	}}
	ev := NewEvaluator(loader, nil)

	got, err := run(t, ev, "FROM city.csv JOIN country.csv K")
	require.NoError(t, err)
	assert.Equal(t, []string{"K", "L", "R"}, got.Header())
	assert.Equal(t, []string{"K"}, got.NumericColumns())
	assert.Equal(t, [][]string{
		{"1", "l1", "r1"},
		{"1", "l1", "r3"},
		{"1", "l3", "r1"},
		{"1", "l3", "r3"},
	}, allStrings(got))
	assert.Equal(t, 2, loader.loads)
}

func TestEvaluate_LoadErrors(t *testing.T) {
	boom := errors.New("disk on fire")

	t.Run("FROM", func(t *testing.T) {
		ev := NewEvaluator(&memLoader{errs: map[dataset.Dataset]error{dataset.City: boom}}, nil)
		got, err := run(t, ev, "FROM city.csv TAKE 1")
		assert.Nil(t, got)

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, VerbFrom, loadErr.Verb)
		assert.Equal(t, dataset.City, loadErr.Dataset)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t,
			"Failed to load the city.csv dataset while processing the FROM command. Error encountered: disk on fire",
			err.Error())
	})

	t.Run("JOIN", func(t *testing.T) {
		loader := &memLoader{
			tables: map[dataset.Dataset]*table.Table{
				dataset.City: mustTable(t, []string{"CountryCode"}, nil, []table.Cell{table.Text("AFG")}),
			},
			errs: map[dataset.Dataset]error{dataset.Country: boom},
		}
		_, err := run(t, NewEvaluator(loader, nil), "FROM city.csv JOIN country.csv CountryCode")

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		assert.Equal(t, VerbJoin, loadErr.Verb)
		assert.Equal(t, dataset.Country, loadErr.Dataset)
	})

	t.Run("missing data directory", func(t *testing.T) {
		ev := NewEvaluator(dataset.NewFileLoader(t.TempDir(), dataset.SourceCSV, nil), nil)
		_, err := run(t, ev, "FROM country.csv")

		var loadErr *LoadError
		require.True(t, errors.As(err, &loadErr))
		var datasetErr *dataset.LoadError
		assert.True(t, errors.As(err, &datasetErr))
	})
}

func TestEvaluate_FirstErrorWins(t *testing.T) {
	loader := &memLoader{errs: map[dataset.Dataset]error{dataset.City: errors.New("unreadable")}}
	ev := NewEvaluator(loader, nil)

	_, err := run(t, ev, "FROM city.csv SELECT Nope ORDERBY Nope")
	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr), "got %T", err)
	assert.Equal(t, 1, loader.loads)
}

func TestEvaluate_NilOperator(t *testing.T) {
	_, err := fileEvaluator().Evaluate(nil)
	assert.Error(t, err)
}

func TestEvaluate_TakeThenOrderBy(t *testing.T) {
	ev := fileEvaluator()

	got, err := run(t, ev, "FROM city.csv TAKE 10 ORDERBY CityPop")
	require.NoError(t, err)
	require.Equal(t, 10, got.Len())

	idx, _ := got.ColumnIndex("CityPop")
	for i := 1; i < got.Len(); i++ {
		prev, _ := got.Rows()[i-1].Cell(idx)
		cur, _ := got.Rows()[i].Cell(idx)
		a, _ := prev.Int()
		b, _ := cur.Int()
		assert.GreaterOrEqual(t, a, b, "row %d", i)
	}
	// TAKE ran first, so only the first ten cities are ranked
	assert.Equal(t, "Kabul", column(t, got, "CityName")[0])
}

func TestEvaluate_FromMatchesSchema(t *testing.T) {
	ev := fileEvaluator()

	for _, d := range dataset.All {
		t.Run(d.FileName(), func(t *testing.T) {
			got, err := ev.Evaluate(&From{Dataset: d})
			require.NoError(t, err)
			assert.Equal(t, d.Schema().ColumnNames(), got.Header())
			assert.ElementsMatch(t, d.Schema().NumericColumns(), got.NumericColumns())
		})
	}
}
