package schema

// ============================================================================
// SCHEMA — Describes the shape of a loaded listings table
// ============================================================================
// Inferred from the CSV header and values at load time (see infer.go).
// The engine uses it to validate column requests and to tell numeric
// columns (measures) from categorical ones (dimensions).
// ============================================================================

// Kind is the semantic type of a column.
type Kind int

const (
	Categorical Kind = iota
	Numeric
)

func (k Kind) String() string {
	if k == Numeric {
		return "numeric"
	}
	return "categorical"
}

// Field is one column of a table, in header order.
type Field struct {
	Key  string `json:"key"`
	Kind Kind   `json:"kind"`
}

// Config describes the complete shape of a loaded dataset.
type Config struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`

	Dimensions []DimensionMeta `json:"dimensions"`
	Measures   []MeasureMeta   `json:"measures"`

	RowCount int `json:"rowCount"`
}

// DimensionMeta describes a categorical column used for filtering/grouping.
type DimensionMeta struct {
	Key             string   `json:"key"`
	DisplayName     string   `json:"displayName"`
	SampleValues    []string `json:"sampleValues"`
	MissingCount    int      `json:"missingCount"`
	CardinalityHint string   `json:"cardinalityHint,omitempty"` // "low", "medium", "high"
}

// MeasureMeta describes a numeric column.
type MeasureMeta struct {
	Key          string `json:"key"`
	DisplayName  string `json:"displayName"`
	Unit         string `json:"unit,omitempty"` // "currency", "year", "distance", "days"
	MissingCount int    `json:"missingCount"`
}

// DimensionKeys returns all categorical column keys.
func (c Config) DimensionKeys() []string {
	keys := make([]string, len(c.Dimensions))
	for i, d := range c.Dimensions {
		keys[i] = d.Key
	}
	return keys
}

// MeasureKeys returns all numeric column keys.
func (c Config) MeasureKeys() []string {
	keys := make([]string, len(c.Measures))
	for i, m := range c.Measures {
		keys[i] = m.Key
	}
	return keys
}
