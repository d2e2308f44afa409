package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vehiclesdash/schema"
)

func TestExecuteDefaults(t *testing.T) {
	table := listingTable(t)

	tests := []struct {
		name  string
		req   Request
		typ   string
		title string
	}{
		{"histogram", Request{Kind: KindHistogram}, "chart", "Distribución de Price"},
		{"scatter", Request{Kind: KindScatter, Color: "None"}, "chart", "Price vs Odometer"},
		{"bar", Request{Kind: KindBar}, "chart", "Distribución por Condition"},
		{"stats", Request{Kind: KindStats}, "table", "Estadísticas Descriptivas"},
		{"data", Request{Kind: KindData}, "table", "Datos Filtrados"},
		{"overview", Request{Kind: KindOverview}, "overview", "Dashboard de Análisis de Vehículos"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Execute(tt.req, table)
			require.NoError(t, err)
			assert.True(t, res.Success)
			assert.Equal(t, tt.typ, res.Type)
			assert.Equal(t, tt.title, res.Title)
			assert.Equal(t, table.Len(), res.Matched)
			assert.Equal(t, table.Len(), res.Total)
		})
	}
}

func TestExecuteHistogramBins(t *testing.T) {
	table := listingTable(t)

	res, err := Execute(Request{Kind: KindHistogram, Column: "odometer"}, table, WithDefaultBins(12))
	require.NoError(t, err)
	assert.Len(t, res.ChartConfig.Series[0].Data, 12)

	res, err = Execute(Request{Kind: KindHistogram, Column: "odometer", Bins: 10}, table, WithDefaultBins(12))
	require.NoError(t, err)
	assert.Len(t, res.ChartConfig.Series[0].Data, 10)
}

func TestExecuteFiltersBeforeAggregating(t *testing.T) {
	table := listingTable(t)

	res, err := Execute(Request{
		Kind:     KindBar,
		Column:   "type",
		Criteria: Criteria{Condition: "excellent"},
	}, table)
	require.NoError(t, err)

	assert.Equal(t, 5, res.Matched)
	assert.Equal(t, "Mostrando 5 vehículos después de aplicar filtros", res.Reply)
	points := res.ChartConfig.Series[0].Data
	assert.Equal(t, ChartPoint{Label: "sedan", Value: 3}, points[0])
	assert.Equal(t, ChartPoint{Label: "SUV", Value: 1}, points[1])
}

func TestExecuteEmptyResultIsNotAnError(t *testing.T) {
	table := listingTable(t)
	none := Criteria{Type: "truck"}

	for _, kind := range []Kind{KindHistogram, KindScatter, KindBar, KindStats, KindData, KindOverview} {
		res, err := Execute(Request{Kind: kind, Criteria: none}, table)
		require.NoError(t, err, kind)
		assert.Equal(t, 0, res.Matched)
	}
}

func TestExecuteRowLimit(t *testing.T) {
	table := listingTable(t)

	res, err := Execute(Request{Kind: KindData}, table, WithRowLimit(4))
	require.NoError(t, err)
	assert.Len(t, res.TableData.Rows, 4)

	res, err = Execute(Request{Kind: KindData, Limit: 2}, table, WithRowLimit(4))
	require.NoError(t, err)
	assert.Len(t, res.TableData.Rows, 2)
}

func TestExecuteErrors(t *testing.T) {
	table := listingTable(t)

	_, err := Execute(Request{Kind: KindBar, Column: "vin"}, table)
	assert.ErrorIs(t, err, schema.ErrUnknownColumn)

	_, err = Execute(Request{Kind: KindHistogram, Bins: -1}, table)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = Execute(Request{Kind: KindHistogram, Column: "price", Bins: 1 << 40}, table)
	assert.ErrorIs(t, err, ErrInvalidBins)

	_, err = Execute(Request{Kind: "pie"}, table)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Scatter ")
	require.NoError(t, err)
	assert.Equal(t, KindScatter, k)

	_, err = ParseKind("pie")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
