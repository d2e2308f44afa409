package engine

import (
	"math"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// FILTERS — Price range + categorical equality via RecordView
// ============================================================================
// Single-pass filter: checks ALL active predicates per record in one loop.
// Categorical equality runs before the numeric range (cheaper, usually more
// selective). Returns a SubView (index list into parent), zero data copy.
// ============================================================================

// All is the picker value meaning "no constraint" on a categorical filter.
const All = "all"

// Range is an inclusive numeric interval. The zero Range is unbounded.
type Range struct {
	Min, Max float64
	bounded  bool
}

// Between returns the inclusive range [min, max]. Inverted bounds are swapped.
func Between(min, max float64) Range {
	if min > max {
		min, max = max, min
	}
	return Range{Min: min, Max: max, bounded: true}
}

// Bounded reports whether the range constrains anything.
func (r Range) Bounded() bool { return r.bounded }

// Contains reports whether v lies within the range (inclusive both ends).
func (r Range) Contains(v float64) bool {
	if !r.bounded {
		return true
	}
	return v >= r.Min && v <= r.Max
}

// Criteria is the immutable set of dashboard filters.
// Zero value: no constraint at all.
type Criteria struct {
	Price     Range
	Type      string // "" or All → every type
	Condition string // "" or All → every condition
}

// IsEmpty returns true if no filter is active.
func (c Criteria) IsEmpty() bool {
	return !c.Price.Bounded() && !constrains(c.Type) && !constrains(c.Condition)
}

func constrains(value string) bool {
	return value != "" && value != All
}

// Apply returns a view of records matching all active criteria.
// Output preserves parent order; the parent is never modified.
func Apply(view RecordView, criteria Criteria) RecordView {
	if criteria.IsEmpty() {
		return view
	}

	type equality struct {
		key   string
		value string
	}
	var eqs []equality
	if constrains(criteria.Type) {
		eqs = append(eqs, equality{string(schema.Type), criteria.Type})
	}
	if constrains(criteria.Condition) {
		eqs = append(eqs, equality{string(schema.Condition), criteria.Condition})
	}
	price := string(schema.Price)

	// Single pass: a record passes if it matches ALL predicates
	n := view.Len()
	indices := make([]int, 0, n)
	for i := 0; i < n; i++ {
		pass := true
		for _, eq := range eqs {
			if view.Dimension(i, eq.key) != eq.value {
				pass = false
				break
			}
		}
		if pass && criteria.Price.Bounded() {
			v, ok := view.Measure(i, price)
			pass = ok && criteria.Price.Contains(v)
		}
		if pass {
			indices = append(indices, i)
		}
	}

	return newSubView(view, indices)
}

// FilterOptions returns the distinct non-missing values of a categorical
// column in first-seen order. Pickers prepend All themselves.
func FilterOptions(view RecordView, key string) ([]string, error) {
	if err := requireKind(view, key, schema.Categorical); err != nil {
		return nil, err
	}
	return UniqueValues(view, key), nil
}

// PriceBounds returns the min and max price over non-missing values.
// ok is false when the view has no priced rows (empty slider).
func PriceBounds(view RecordView) (min, max float64, ok bool) {
	return MeasureBounds(view, string(schema.Price))
}

// MeasureBounds returns the min and max of a numeric column.
func MeasureBounds(view RecordView, key string) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for i := 0; i < view.Len(); i++ {
		v, present := view.Measure(i, key)
		if !present {
			continue
		}
		ok = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !ok {
		return 0, 0, false
	}
	return min, max, true
}
