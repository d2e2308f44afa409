package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// CHART BUILDER
// ============================================================================

func TestBuildHistogramChart(t *testing.T) {
	chart := BuildHistogramChart("model_year", []Bin{
		{Lower: 2000, Upper: 2005.5, Count: 3},
		{Lower: 2005.5, Upper: 2011, Count: 1},
	})

	assert.Equal(t, "histogram", chart.ChartType)
	assert.Equal(t, "Distribución de Model_Year", chart.Title)
	assert.Equal(t, "Model Year", chart.XAxis)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, ChartPoint{Label: "2000–2005.50", Value: 3, X: 2002.75}, chart.Series[0].Data[0])
	assert.False(t, chart.IsEmpty())
}

func TestBuildScatterChartGrouped(t *testing.T) {
	chart := BuildScatterChart("price", "odometer", "condition", []ScatterPoint{
		{X: 1, Y: 10, Group: "good"},
		{X: 2, Y: 20, Group: "fair"},
		{X: 3, Y: 30, Group: "good"},
		{X: 4, Y: 40},
	})

	assert.Equal(t, "Price vs Odometer (por Condition)", chart.Title)
	assert.True(t, chart.ShowLegend)
	require.Len(t, chart.Series, 3)
	assert.Equal(t, "good", chart.Series[0].Name)
	assert.Len(t, chart.Series[0].Data, 2)
	assert.Equal(t, "fair", chart.Series[1].Name)
	assert.Equal(t, missingGroupName, chart.Series[2].Name)
	assert.Equal(t, defaultColors[1], chart.Series[1].Color)
}

func TestBuildScatterChartUngrouped(t *testing.T) {
	chart := BuildScatterChart("price", "odometer", "", []ScatterPoint{{X: 1, Y: 2}})

	assert.Equal(t, "Price vs Odometer", chart.Title)
	assert.False(t, chart.ShowLegend)
	require.Len(t, chart.Series, 1)
	assert.Equal(t, ChartPoint{X: 1, Value: 2}, chart.Series[0].Data[0])
}

func TestBuildBarChartEmpty(t *testing.T) {
	chart := BuildBarChart("paint_color", nil)

	assert.Equal(t, "Distribución por Paint_Color", chart.Title)
	assert.Equal(t, "Cantidad", chart.YAxis)
	assert.True(t, chart.IsEmpty())
}

// ============================================================================
// TABLE BUILDER
// ============================================================================

func TestBuildDataTable(t *testing.T) {
	table := listingTable(t)

	data := BuildDataTable(table, 0)
	assert.Len(t, data.Rows, table.Len())
	assert.Equal(t, len(listingHeaders), len(data.Columns))
	assert.Equal(t, "Model Year", data.Columns[1].Label)
	assert.Equal(t, "number", data.Columns[0].Type)
	assert.Equal(t, []string{"25500", "", "ford f-150", "good", "88705", "gas", "automatic", "pickup", "white", "50"}, data.Rows[1])
	assert.False(t, data.Truncated)

	capped := BuildDataTable(table, 3)
	assert.Len(t, capped.Rows, 3)
	assert.True(t, capped.Truncated)
	assert.Equal(t, "3", capped.Summary.Values["shown"])
}

func TestBuildStatsTable(t *testing.T) {
	stats := Describe(priceTable(t, "1", "2", "3", "4"))

	data := BuildStatsTable(stats)
	require.Len(t, data.Rows, 8)
	assert.Equal(t, "price", data.Columns[1].Key)
	assert.Equal(t, []string{"count", "4"}, data.Rows[0][:2])
	assert.Equal(t, []string{"std", "1.29"}, data.Rows[2][:2])
	assert.Equal(t, []string{"25%", "1.75"}, data.Rows[4][:2])
}

// ============================================================================
// OVERVIEW
// ============================================================================

func TestBuildOverview(t *testing.T) {
	table := priceTable(t, "1000", "3000")
	filtered := Apply(table, Criteria{Price: Between(0, 2000)})

	ov := BuildOverview(table, filtered)
	assert.Equal(t, 2, ov.TotalListings)
	assert.Equal(t, 1, ov.Matched)
	assert.Equal(t, 2000.0, ov.AveragePrice)
	assert.Equal(t, Metric{Label: "Precio Promedio", Value: "$2,000"}, ov.Metrics[1])
	assert.Equal(t, "2015", ov.Metrics[2].Value)
}
