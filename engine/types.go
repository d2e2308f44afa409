package engine

// ============================================================================
// ENGINE TYPES — Listing rows and render-ready output
// ============================================================================
// Record holds one listing as categorical dimensions and numeric measures.
// A key absent from its map is a missing value: no zero-filling, so counts,
// means and filters can tell "0 km" from "odometer not reported".
//
// Dependency: engine imports only the schema package.
// ============================================================================

// ============================================================================
// RECORD — One vehicle listing
// ============================================================================

// Record is a single listing row.
//
// Record{Dimensions["type"]="sedan", Measures["price"]=9400}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// NewRecord returns a Record with both maps allocated.
func NewRecord() Record {
	return Record{
		Dimensions: make(map[string]string),
		Measures:   make(map[string]float64),
	}
}

// ============================================================================
// RESULT — Render-ready output
// ============================================================================

// Result is the engine's render-ready output for one Request.
type Result struct {
	Success bool   `json:"success"`
	Type    string `json:"type"` // "chart", "table", "overview"
	Reply   string `json:"reply"`
	Title   string `json:"title"`

	// Exactly one of these is populated based on Type:
	ChartConfig *ChartConfig `json:"chartConfig,omitempty"`
	TableData   *TableData   `json:"tableData,omitempty"`
	Overview    *Overview    `json:"overview,omitempty"`

	// Metadata
	Matched int `json:"matched"` // rows in the filtered view
	Total   int `json:"total"`   // rows in the loaded table
}

// ============================================================================
// CHART TYPES
// ============================================================================

// ChartConfig defines how to render a chart.
type ChartConfig struct {
	ChartType  string        `json:"chartType"` // "histogram", "scatter", "bar"
	Title      string        `json:"title"`
	XAxis      string        `json:"xAxis,omitempty"`
	YAxis      string        `json:"yAxis,omitempty"`
	Series     []ChartSeries `json:"series"`
	Colors     []string      `json:"colors,omitempty"`
	ShowLegend bool          `json:"showLegend"`
	ShowGrid   bool          `json:"showGrid"`
}

// ChartSeries represents a data series in a chart.
type ChartSeries struct {
	Name  string       `json:"name"`
	Data  []ChartPoint `json:"data"`
	Color string       `json:"color,omitempty"`
}

// ChartPoint is a labelled value (bars, bins) or an x/y pair (scatter).
type ChartPoint struct {
	Label string  `json:"label,omitempty"`
	Value float64 `json:"value"`
	X     float64 `json:"x"`
}

// IsEmpty reports whether the chart has no points to draw.
func (c *ChartConfig) IsEmpty() bool {
	if c == nil {
		return true
	}
	for _, s := range c.Series {
		if len(s.Data) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData defines how to render a table.
type TableData struct {
	Title     string     `json:"title"`
	Columns   []Column   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Summary   *Summary   `json:"summary,omitempty"`
	Truncated bool       `json:"truncated,omitempty"`
}

// Column defines a table column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Type  string `json:"type"`  // "text", "number"
	Align string `json:"align"` // "left", "center", "right"
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// OVERVIEW — Header metrics over the loaded dataset
// ============================================================================

// Overview is the dashboard header: dataset-wide metrics plus the filter count.
type Overview struct {
	TotalListings   int     `json:"totalListings"`
	AveragePrice    float64 `json:"averagePrice"`
	AverageYear     float64 `json:"averageYear"`
	AverageOdometer float64 `json:"averageOdometer"`
	Matched         int     `json:"matched"`

	Metrics []Metric `json:"metrics"`
}

// Metric is a label/formatted value pair for display.
type Metric struct {
	Label string `json:"label"`
	Value string `json:"value"`
}
