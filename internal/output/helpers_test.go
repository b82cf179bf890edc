package output

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vegasq/toyquery/internal/table"
)

// countries builds a small country table with one absent capital
func countries(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New(
		[]string{"CountryCode", "CountryName", "CountryPop", "Capital"},
		[]string{"CountryPop"},
		[]table.Row{
			table.NewRow(table.Text("ABW"), table.Text("Aruba"), table.Integer(103000), table.OptionalInteger(129)),
			table.NewRow(table.Text("ATA"), table.Text("Antarctica"), table.Integer(0), table.Absent()),
		},
	)
	require.NoError(t, err)
	return tbl
}

func emptyTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New([]string{"CityName", "CityPop"}, []string{"CityPop"}, nil)
	require.NoError(t, err)
	return tbl
}
