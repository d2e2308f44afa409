package engine

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// AGGREGATORS — Histogram, Scatter, Frequency, Describe via RecordView
// ============================================================================
// All functions operate on RecordView for zero-copy access to any data source.
// Every adapter validates its column against the view's schema first and
// treats zero rows as a normal, empty result.
// ============================================================================

var (
	// ErrNotNumeric is returned when a numeric adapter gets a categorical column.
	ErrNotNumeric = errors.New("column is not numeric")

	// ErrNotCategorical is returned when Frequency gets a numeric column.
	ErrNotCategorical = errors.New("column is not categorical")

	// ErrInvalidBins is returned for a bin count outside 1..MaxBins.
	ErrInvalidBins = errors.New("invalid bin count")
)

// MaxBins is the largest bin count Histogram accepts.
const MaxBins = 1000

// requireKind checks that key exists in the view's schema with the given kind.
func requireKind(view RecordView, key string, kind schema.Kind) error {
	f, ok := fieldOf(view, key)
	if !ok {
		return fmt.Errorf("%w: %q", schema.ErrUnknownColumn, key)
	}
	if f.Kind != kind {
		if kind == schema.Numeric {
			return fmt.Errorf("%w: %q", ErrNotNumeric, key)
		}
		return fmt.Errorf("%w: %q", ErrNotCategorical, key)
	}
	return nil
}

// measureValues collects the non-missing values of a numeric column.
func measureValues(view RecordView, key string) []float64 {
	values := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, key); ok {
			values = append(values, v)
		}
	}
	return values
}

// ============================================================================
// HISTOGRAM
// ============================================================================

// Bin is one equal-width histogram bucket. Lower is inclusive; Upper is
// exclusive except for the last bin.
type Bin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count int     `json:"count"`
}

// Histogram partitions a numeric column's range into bins equal-width buckets.
// Bin counts sum to the number of non-missing values. A constant column is
// centred in a unit-wide range; a column with no values yields no bins.
func Histogram(view RecordView, key string, bins int) ([]Bin, error) {
	if err := requireKind(view, key, schema.Numeric); err != nil {
		return nil, err
	}
	if bins <= 0 || bins > MaxBins {
		return nil, fmt.Errorf("%w: %d (want 1..%d)", ErrInvalidBins, bins, MaxBins)
	}

	values := measureValues(view, key)
	if len(values) == 0 {
		return []Bin{}, nil
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Lower = lo + float64(i)*width
		out[i].Upper = lo + float64(i+1)*width
	}
	out[bins-1].Upper = hi

	for _, v := range values {
		idx := int((v - lo) / width)
		if idx >= bins {
			idx = bins - 1
		}
		if idx < 0 {
			idx = 0
		}
		out[idx].Count++
	}
	return out, nil
}

// ============================================================================
// SCATTER
// ============================================================================

// ScatterPoint is one (x, y, group) triple.
type ScatterPoint struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Group string  `json:"group,omitempty"`
}

// Scatter pairs two numeric columns row by row. group is optional ("" for
// none); rows missing x or y are skipped, a missing group label stays "".
func Scatter(view RecordView, x, y, group string) ([]ScatterPoint, error) {
	if err := requireKind(view, x, schema.Numeric); err != nil {
		return nil, err
	}
	if err := requireKind(view, y, schema.Numeric); err != nil {
		return nil, err
	}
	if group != "" {
		if err := requireKind(view, group, schema.Categorical); err != nil {
			return nil, err
		}
	}

	points := make([]ScatterPoint, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		xv, okX := view.Measure(i, x)
		yv, okY := view.Measure(i, y)
		if !okX || !okY {
			continue
		}
		p := ScatterPoint{X: xv, Y: yv}
		if group != "" {
			p.Group = view.Dimension(i, group)
		}
		points = append(points, p)
	}
	return points, nil
}

// ============================================================================
// FREQUENCY
// ============================================================================

// Group is a categorical value with its occurrence count.
type Group struct {
	Key   string     `json:"key"`
	Label string     `json:"label"`
	Count int        `json:"count"`
	View  RecordView `json:"-"` // Sub-view for records in this group (zero-copy)
}

// Frequency counts each distinct non-missing value of a categorical column.
// Groups are ordered by descending count; ties keep first-seen order.
func Frequency(view RecordView, key string) ([]Group, error) {
	if err := requireKind(view, key, schema.Categorical); err != nil {
		return nil, err
	}
	groups := groupBySingle(view, key)
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Count > groups[j].Count })
	return groups, nil
}

func groupBySingle(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := view.Dimension(i, dimension)
		if key == "" {
			continue
		}
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			Count: len(grouped[key]),
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// ============================================================================
// DESCRIBE
// ============================================================================

// ColumnStats are the summary statistics of one numeric column.
type ColumnStats struct {
	Key   string  `json:"key"`
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Std   float64 `json:"std"`
	Min   float64 `json:"min"`
	P25   float64 `json:"p25"`
	P50   float64 `json:"p50"`
	P75   float64 `json:"p75"`
	Max   float64 `json:"max"`
}

// Describe computes count, mean, sample standard deviation, min, quartiles
// and max for every numeric column of the view's schema. Categorical columns
// are omitted. Columns without values report zeros; one value has std 0.
func Describe(view RecordView) []ColumnStats {
	var out []ColumnStats
	for _, f := range view.Fields() {
		if f.Kind != schema.Numeric {
			continue
		}
		out = append(out, describeValues(f.Key, measureValues(view, f.Key)))
	}
	return out
}

func describeValues(key string, values []float64) ColumnStats {
	st := ColumnStats{Key: key, Count: len(values)}
	if len(values) == 0 {
		return st
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	st.Mean = sum / float64(len(sorted))

	if len(sorted) > 1 {
		var sq float64
		for _, v := range sorted {
			d := v - st.Mean
			sq += d * d
		}
		st.Std = math.Sqrt(sq / float64(len(sorted)-1))
	}

	st.Min = sorted[0]
	st.Max = sorted[len(sorted)-1]
	st.P25 = quantile(sorted, 0.25)
	st.P50 = quantile(sorted, 0.50)
	st.P75 = quantile(sorted, 0.75)
	return st
}

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// ============================================================================
// MEASURE HELPERS — all skip missing values
// ============================================================================

// AvgMeasure computes the average of a named measure over non-missing values.
func AvgMeasure(view RecordView, measure string) float64 {
	var total float64
	n := 0
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			total += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// UniqueValues returns distinct non-missing values for a dimension, first-seen order.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	result := []string{}
	for i := 0; i < view.Len(); i++ {
		val := view.Dimension(i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// ============================================================================
// FORMATTING UTILITIES
// ============================================================================

// FormatCurrency formats an amount with a "$" prefix and comma separators,
// rounded to whole units.
func FormatCurrency(amount float64) string {
	return "$" + FormatInt(int(math.Round(amount)))
}

// FormatInt formats an integer with comma separators.
func FormatInt(n int) string {
	if n < 0 {
		return "-" + FormatInt(-n)
	}
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%s,%03d", FormatInt(n/1000), n%1000)
}

// RoundTo2 rounds to 2 decimal places.
func RoundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// titleCase mirrors Python's str.title on column keys: "model_year" → "Model_Year".
func titleCase(s string) string {
	parts := strings.Split(s, "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + strings.ToLower(p[1:])
		}
	}
	return strings.Join(parts, "_")
}
