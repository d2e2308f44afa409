package engine

import (
	"fmt"
	"math"
	"strconv"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// CHART BUILDER — Produces ChartConfig from adapter output
// ============================================================================
// Titles follow the dashboard's wording ("Distribución de Price");
// axis labels use display names ("Model Year").
// ============================================================================

// Default color palette for chart series.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// missingGroupName labels scatter points whose group value is missing.
const missingGroupName = "(missing)"

// BuildHistogramChart produces a ChartConfig with one bar per bin.
func BuildHistogramChart(key string, bins []Bin) *ChartConfig {
	points := make([]ChartPoint, 0, len(bins))
	for _, b := range bins {
		points = append(points, ChartPoint{
			Label: fmt.Sprintf("%s–%s", fmtNum(b.Lower), fmtNum(b.Upper)),
			Value: float64(b.Count),
			X:     RoundTo2((b.Lower + b.Upper) / 2),
		})
	}

	config := &ChartConfig{
		ChartType: "histogram",
		Title:     "Distribución de " + titleCase(key),
		XAxis:     schema.Label(key),
		YAxis:     "Count",
		Series:    []ChartSeries{{Name: schema.Label(key), Data: points}},
		ShowGrid:  true,
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

// BuildScatterChart produces one series per group, in first-seen order.
func BuildScatterChart(x, y, group string, points []ScatterPoint) *ChartConfig {
	title := fmt.Sprintf("%s vs %s", titleCase(x), titleCase(y))
	if group != "" {
		title += fmt.Sprintf(" (por %s)", titleCase(group))
	}

	config := &ChartConfig{
		ChartType:  "scatter",
		Title:      title,
		XAxis:      schema.Label(x),
		YAxis:      schema.Label(y),
		ShowLegend: group != "",
		ShowGrid:   true,
	}

	if group == "" {
		data := make([]ChartPoint, 0, len(points))
		for _, p := range points {
			data = append(data, ChartPoint{X: p.X, Value: p.Y})
		}
		config.Series = []ChartSeries{{Name: "Listings", Data: data}}
	} else {
		config.Series = buildGroupedSeries(points)
	}

	config.Colors = assignColors(len(config.Series))
	for i := range config.Series {
		config.Series[i].Color = config.Colors[i]
	}
	return config
}

// BuildBarChart produces one bar per category with its count.
func BuildBarChart(key string, groups []Group) *ChartConfig {
	points := make([]ChartPoint, 0, len(groups))
	for _, g := range groups {
		points = append(points, ChartPoint{
			Label: g.Label,
			Value: float64(g.Count),
		})
	}

	config := &ChartConfig{
		ChartType: "bar",
		Title:     "Distribución por " + titleCase(key),
		XAxis:     schema.Label(key),
		YAxis:     "Cantidad",
		Series:    []ChartSeries{{Name: "count", Data: points}},
		ShowGrid:  true,
	}
	config.Colors = assignColors(len(config.Series))
	return config
}

// ============================================================================
// SERIES BUILDERS
// ============================================================================

func buildGroupedSeries(points []ScatterPoint) []ChartSeries {
	index := make(map[string]int)
	var series []ChartSeries

	for _, p := range points {
		name := p.Group
		if name == "" {
			name = missingGroupName
		}
		i, ok := index[name]
		if !ok {
			i = len(series)
			index[name] = i
			series = append(series, ChartSeries{Name: name})
		}
		series[i].Data = append(series[i].Data, ChartPoint{X: p.X, Value: p.Y})
	}
	return series
}

func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}

// fmtNum renders whole numbers without decimals, fractional ones with two.
func fmtNum(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
