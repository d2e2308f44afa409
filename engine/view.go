package engine

import (
	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// RECORD VIEW — Zero-Copy Data Access Interface
// ============================================================================
// The engine never copies listing data. It reads through this interface.
//
// Implementations:
//   Table          the loaded dataset ([]Record + inferred schema)
//   SubView        filtered subset (indices into parent, zero-copy)
//   DomainView[T]  reads typed structs via accessor functions (zero-copy)
//
// Every implementation is read-only; filtering always builds a new SubView.
// ============================================================================

// RecordView provides indexed access to a dataset.
// The engine calls Dimension/Measure in tight loops; keep implementations fast.
type RecordView interface {
	Len() int
	Dimension(index int, key string) string        // "" when missing
	Measure(index int, key string) (float64, bool) // false when missing
	Fields() []schema.Field                        // schema in column order
}

// fieldOf looks up a column in a view's schema.
func fieldOf(view RecordView, key string) (schema.Field, bool) {
	for _, f := range view.Fields() {
		if f.Key == key {
			return f, true
		}
	}
	return schema.Field{}, false
}

// ============================================================================
// TABLE — the loaded dataset
// ============================================================================

// Table is the loaded, read-only listing dataset.
type Table struct {
	config  *schema.Config
	records []Record
}

// NewTable wraps records with their inferred schema.
func NewTable(config *schema.Config, records []Record) *Table {
	return &Table{config: config, records: records}
}

// Schema returns the inferred dataset schema.
func (t *Table) Schema() *schema.Config { return t.config }

func (t *Table) Len() int { return len(t.records) }

func (t *Table) Dimension(i int, key string) string {
	if i < 0 || i >= len(t.records) {
		return ""
	}
	return t.records[i].Dimensions[key]
}

func (t *Table) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(t.records) {
		return 0, false
	}
	v, ok := t.records[i].Measures[key]
	return v, ok
}

func (t *Table) Fields() []schema.Field { return t.config.Fields }

// ============================================================================
// SUB VIEW — filtered subset (zero-copy)
// ============================================================================

// SubView is a filtered subset of a parent RecordView.
// Holds indices into the parent, no data copy.
type SubView struct {
	parent  RecordView
	indices []int
}

// newSubView collapses nested SubViews so lookups stay one hop deep.
func newSubView(parent RecordView, indices []int) RecordView {
	if sv, ok := parent.(*SubView); ok {
		mapped := make([]int, len(indices))
		for i, idx := range indices {
			mapped[i] = sv.indices[idx]
		}
		return &SubView{parent: sv.parent, indices: mapped}
	}
	return &SubView{parent: parent, indices: indices}
}

func (v *SubView) Len() int { return len(v.indices) }

func (v *SubView) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.indices) {
		return ""
	}
	return v.parent.Dimension(v.indices[i], key)
}

func (v *SubView) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.indices) {
		return 0, false
	}
	return v.parent.Measure(v.indices[i], key)
}

func (v *SubView) Fields() []schema.Field { return v.parent.Fields() }

// ============================================================================
// DOMAIN ADAPTER — Zero-copy typed struct access
// ============================================================================
//
// Usage:
//
//	adapter := engine.NewDomainAdapter[Vehicle]().
//	    Dimension("type", func(v Vehicle) string { return v.Type }).
//	    Measure("price", func(v Vehicle) (float64, bool) { return v.Price, true })
//
//	view := adapter.Bind(vehicles)
//	filtered := engine.Apply(view, criteria)
//
// ============================================================================

// DomainAdapter builds a RecordView from typed structs.
// Declare once, bind many times.
type DomainAdapter[T any] struct {
	fields []schema.Field
	dims   map[string]func(T) string
	meas   map[string]func(T) (float64, bool)
}

// NewDomainAdapter creates a new adapter for type T.
func NewDomainAdapter[T any]() *DomainAdapter[T] {
	return &DomainAdapter[T]{
		dims: make(map[string]func(T) string),
		meas: make(map[string]func(T) (float64, bool)),
	}
}

// Dimension registers a categorical accessor.
func (a *DomainAdapter[T]) Dimension(key string, fn func(T) string) *DomainAdapter[T] {
	if _, exists := a.dims[key]; !exists {
		a.fields = append(a.fields, schema.Field{Key: key, Kind: schema.Categorical})
	}
	a.dims[key] = fn
	return a
}

// Measure registers a numeric accessor.
func (a *DomainAdapter[T]) Measure(key string, fn func(T) (float64, bool)) *DomainAdapter[T] {
	if _, exists := a.meas[key]; !exists {
		a.fields = append(a.fields, schema.Field{Key: key, Kind: schema.Numeric})
	}
	a.meas[key] = fn
	return a
}

// Bind creates a RecordView from a data slice. Zero-copy, holds a reference.
func (a *DomainAdapter[T]) Bind(data []T) RecordView {
	return &DomainView[T]{
		data:   data,
		dims:   a.dims,
		meas:   a.meas,
		fields: a.fields,
	}
}

// DomainView reads typed struct fields via registered accessor functions.
type DomainView[T any] struct {
	data   []T
	dims   map[string]func(T) string
	meas   map[string]func(T) (float64, bool)
	fields []schema.Field
}

func (v *DomainView[T]) Len() int { return len(v.data) }

func (v *DomainView[T]) Dimension(i int, key string) string {
	if i < 0 || i >= len(v.data) {
		return ""
	}
	if fn, ok := v.dims[key]; ok {
		return fn(v.data[i])
	}
	return ""
}

func (v *DomainView[T]) Measure(i int, key string) (float64, bool) {
	if i < 0 || i >= len(v.data) {
		return 0, false
	}
	if fn, ok := v.meas[key]; ok {
		return fn(v.data[i])
	}
	return 0, false
}

func (v *DomainView[T]) Fields() []schema.Field { return v.fields }
