package engine

import (
	"fmt"
	"strconv"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// TABLE BUILDER — Raw data table and descriptive statistics table
// ============================================================================
// Column discovery uses view.Fields() so pass-through columns show up too.
// ============================================================================

// FormatMeasure renders a number in its shortest round-trippable form,
// without grouping separators ("145000", "2011", "4.5").
func FormatMeasure(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Cell renders column key of row i as text; missing values render as "".
func Cell(view RecordView, i int, f schema.Field) string {
	if f.Kind == schema.Numeric {
		if v, ok := view.Measure(i, f.Key); ok {
			return FormatMeasure(v)
		}
		return ""
	}
	return view.Dimension(i, f.Key)
}

// ============================================================================
// DATA TABLE — Row per listing
// ============================================================================

// BuildDataTable renders up to limit rows of the view (0 = all).
func BuildDataTable(view RecordView, limit int) *TableData {
	fields := view.Fields()
	columns := make([]Column, 0, len(fields))
	for _, f := range fields {
		col := Column{Key: f.Key, Label: schema.Label(f.Key), Type: "text", Align: "left"}
		if f.Kind == schema.Numeric {
			col.Type, col.Align = "number", "right"
		}
		columns = append(columns, col)
	}

	n := view.Len()
	truncated := false
	if limit > 0 && n > limit {
		n = limit
		truncated = true
	}

	rows := make([][]string, 0, n)
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			row = append(row, Cell(view, i, f))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:     "Datos Filtrados",
		Columns:   columns,
		Rows:      rows,
		Truncated: truncated,
		Summary: &Summary{
			Label: fmt.Sprintf("Total (%s records)", FormatInt(view.Len())),
			Values: map[string]string{
				"shown": FormatInt(n),
			},
		},
	}
}

// ============================================================================
// STATISTICS TABLE — describe()-style layout
// ============================================================================

var statRows = []struct {
	label string
	get   func(ColumnStats) float64
}{
	{"count", func(s ColumnStats) float64 { return float64(s.Count) }},
	{"mean", func(s ColumnStats) float64 { return s.Mean }},
	{"std", func(s ColumnStats) float64 { return s.Std }},
	{"min", func(s ColumnStats) float64 { return s.Min }},
	{"25%", func(s ColumnStats) float64 { return s.P25 }},
	{"50%", func(s ColumnStats) float64 { return s.P50 }},
	{"75%", func(s ColumnStats) float64 { return s.P75 }},
	{"max", func(s ColumnStats) float64 { return s.Max }},
}

// BuildStatsTable lays out statistics with one row per statistic and one
// column per numeric field.
func BuildStatsTable(stats []ColumnStats) *TableData {
	columns := []Column{{Key: "stat", Label: "", Type: "text", Align: "left"}}
	for _, s := range stats {
		columns = append(columns, Column{
			Key:   s.Key,
			Label: schema.Label(s.Key),
			Type:  "number",
			Align: "right",
		})
	}

	rows := make([][]string, 0, len(statRows))
	for _, sr := range statRows {
		row := []string{sr.label}
		for _, s := range stats {
			row = append(row, strconv.FormatFloat(RoundTo2(sr.get(s)), 'f', -1, 64))
		}
		rows = append(rows, row)
	}

	return &TableData{
		Title:   "Estadísticas Descriptivas",
		Columns: columns,
		Rows:    rows,
	}
}
