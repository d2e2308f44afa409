package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// COLUMN CATALOG — Closed set of listing columns the dashboard knows about
// ============================================================================
// Surfaces pass column names as plain strings; ParseColumn turns them into a
// Column or ErrUnknownColumn. Extra CSV columns still load and export, they
// just can't be requested by name through the catalog.
// ============================================================================

var (
	// ErrUnknownColumn is returned when a caller names a column that is not
	// in the catalog or not in the table's schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrMissingColumn is returned when a loaded header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// Column identifies a known listing column.
type Column string

const (
	Price        Column = "price"
	ModelYear    Column = "model_year"
	Odometer     Column = "odometer"
	Condition    Column = "condition"
	Type         Column = "type"
	Fuel         Column = "fuel"
	Transmission Column = "transmission"
	PaintColor   Column = "paint_color"
	DaysListed   Column = "days_listed"
)

// None is the "no grouping" choice for the scatter color selector.
const None = "none"

type columnInfo struct {
	kind Kind
	unit string
}

var catalog = map[Column]columnInfo{
	Price:        {Numeric, "currency"},
	ModelYear:    {Numeric, "year"},
	Odometer:     {Numeric, "distance"},
	DaysListed:   {Numeric, "days"},
	Condition:    {Categorical, ""},
	Type:         {Categorical, ""},
	Fuel:         {Categorical, ""},
	Transmission: {Categorical, ""},
	PaintColor:   {Categorical, ""},
}

// Required lists the columns every input header must carry, in source order.
var Required = []Column{
	Price, ModelYear, Condition, Odometer, Fuel, Transmission, Type, PaintColor, DaysListed,
}

// Selector choices offered by the dashboard tabs.
var (
	HistogramColumns = []Column{Price, Odometer, ModelYear, DaysListed}
	ScatterXColumns  = []Column{Price, Odometer, ModelYear, DaysListed}
	ScatterYColumns  = []Column{Odometer, Price, ModelYear, DaysListed}
	ColorColumns     = []Column{Condition, Type, Fuel, Transmission}
	BarColumns       = []Column{Condition, Type, Fuel, Transmission, PaintColor}
)

// ParseColumn validates a column name against the catalog.
func ParseColumn(name string) (Column, error) {
	c := Column(strings.TrimSpace(name))
	if _, ok := catalog[c]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return c, nil
}

// ParseGroupColumn is ParseColumn for optional grouping: "" and "none" mean
// no grouping and return an empty Column.
func ParseGroupColumn(name string) (Column, error) {
	n := strings.TrimSpace(name)
	if n == "" || strings.EqualFold(n, None) {
		return "", nil
	}
	c, err := ParseColumn(n)
	if err != nil {
		return "", err
	}
	if c.Kind() != Categorical {
		return "", fmt.Errorf("%w: %q is not categorical", ErrUnknownColumn, name)
	}
	return c, nil
}

// Kind returns the catalog kind of the column.
func (c Column) Kind() Kind { return catalog[c].kind }

// Unit returns the measurement unit of a numeric column.
func (c Column) Unit() string { return catalog[c].unit }

func (c Column) String() string { return string(c) }

// CheckRequired reports the first required column absent from keys.
func CheckRequired(keys []string) error {
	have := make(map[string]bool, len(keys))
	for _, k := range keys {
		have[k] = true
	}
	var missing []string
	for _, c := range Required {
		if !have[string(c)] {
			missing = append(missing, string(c))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Label returns the display label for any column key, known or not.
func Label(key string) string { return toDisplayName(key) }
