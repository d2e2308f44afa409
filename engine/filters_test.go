package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// FILTER TESTS
// ============================================================================

func TestApplyPriceRangeScenario(t *testing.T) {
	table := priceTable(t, "5000", "15000", "25000")

	filtered := Apply(table, Criteria{Price: Between(10000, 20000)})
	assert.Equal(t, []float64{15000}, prices(filtered))
}

func TestApplyPriceBoundsInclusive(t *testing.T) {
	table := priceTable(t, "5000", "15000", "25000")

	filtered := Apply(table, Criteria{Price: Between(5000, 25000)})
	assert.Equal(t, 3, filtered.Len())
}

func TestApplyInvertedBoundsAreSwapped(t *testing.T) {
	table := priceTable(t, "5000", "15000", "25000")

	inverted := Apply(table, Criteria{Price: Between(20000, 10000)})
	normal := Apply(table, Criteria{Price: Between(10000, 20000)})
	assert.Equal(t, prices(normal), prices(inverted))
}

func TestApplyAbsentTypeYieldsEmptyView(t *testing.T) {
	table := listingTable(t)

	filtered := Apply(table, Criteria{Type: "truck"})
	assert.Equal(t, 0, filtered.Len())

	stats := Describe(filtered)
	require.NotEmpty(t, stats)
	for _, s := range stats {
		assert.Equal(t, 0, s.Count, s.Key)
	}
}

func TestApplyCategoricalEquality(t *testing.T) {
	table := listingTable(t)

	filtered := Apply(table, Criteria{Type: "sedan", Condition: "excellent"})
	assert.Equal(t, []float64{14900, 14990, 12990}, prices(filtered), "order preserved")
	for i := 0; i < filtered.Len(); i++ {
		assert.Equal(t, "sedan", filtered.Dimension(i, "type"))
		assert.Equal(t, "excellent", filtered.Dimension(i, "condition"))
	}
}

func TestApplyAllSentinel(t *testing.T) {
	table := listingTable(t)

	assert.Same(t, table, Apply(table, Criteria{}).(*Table))
	assert.Same(t, table, Apply(table, Criteria{Type: All, Condition: All}).(*Table))
}

func TestApplyMissingValues(t *testing.T) {
	table := listingTable(t)

	// Row 8 has no condition, row 10 has no type: kept when unconstrained...
	all := Apply(table, Criteria{Price: Between(0, 100000)})
	assert.Equal(t, table.Len(), all.Len())

	// ...and dropped as soon as a filter on that column is active.
	byCondition := Apply(table, Criteria{Condition: "excellent"})
	for i := 0; i < byCondition.Len(); i++ {
		assert.NotEmpty(t, byCondition.Dimension(i, "condition"))
	}
	assert.Equal(t, 5, byCondition.Len())
}

func TestApplyMissingPriceFailsBoundedRange(t *testing.T) {
	table := priceTable(t, "5000", "", "7000")

	assert.Equal(t, 3, Apply(table, Criteria{Type: "sedan"}).Len())
	assert.Equal(t, 2, Apply(table, Criteria{Price: Between(0, 1e9)}).Len())
}

func TestApplySubsetIdempotentMonotonic(t *testing.T) {
	table := listingTable(t)

	cases := []Criteria{
		{},
		{Price: Between(9000, 16000)},
		{Type: "SUV"},
		{Condition: "excellent", Price: Between(0, 13000)},
		{Type: "pickup", Condition: "good"},
	}

	for _, c := range cases {
		once := Apply(table, c)
		twice := Apply(once, c)

		// subset: every surviving row satisfies every predicate
		assert.LessOrEqual(t, once.Len(), table.Len())
		for i := 0; i < once.Len(); i++ {
			if c.Price.Bounded() {
				v, ok := once.Measure(i, "price")
				assert.True(t, ok && c.Price.Contains(v))
			}
			if constrains(c.Type) {
				assert.Equal(t, c.Type, once.Dimension(i, "type"))
			}
		}

		// idempotent
		assert.Equal(t, records(once), records(twice))

		// monotonic: narrowing never grows the result
		narrowed := c
		narrowed.Price = Between(10000, 12000)
		assert.LessOrEqual(t, Apply(table, narrowed).Len(), Apply(table, Criteria{Type: c.Type, Condition: c.Condition}).Len())
		narrowed = c
		narrowed.Condition = "excellent"
		if !constrains(c.Condition) {
			assert.LessOrEqual(t, Apply(table, narrowed).Len(), once.Len())
		}
	}
}

func TestApplyOnSubViewCollapses(t *testing.T) {
	table := listingTable(t)

	sedans := Apply(table, Criteria{Type: "sedan"})
	cheap := Apply(sedans, Criteria{Price: Between(0, 13000)})

	sv, ok := cheap.(*SubView)
	require.True(t, ok)
	assert.Same(t, table, sv.parent.(*Table))
	assert.Equal(t, []float64{5500, 12990}, prices(cheap))
}

func TestFilterOptions(t *testing.T) {
	table := listingTable(t)

	types, err := FilterOptions(table, "type")
	require.NoError(t, err)
	assert.Equal(t, []string{"SUV", "pickup", "sedan"}, types, "missing excluded, first-seen order")

	conditions, err := FilterOptions(table, "condition")
	require.NoError(t, err)
	assert.Equal(t, []string{"good", "like new", "fair", "excellent"}, conditions)

	_, err = FilterOptions(table, "price")
	assert.ErrorIs(t, err, ErrNotCategorical)
}

func TestPriceBounds(t *testing.T) {
	min, max, ok := PriceBounds(listingTable(t))
	require.True(t, ok)
	assert.Equal(t, 1500.0, min)
	assert.Equal(t, 25500.0, max)

	_, _, ok = PriceBounds(Apply(listingTable(t), Criteria{Type: "truck"}))
	assert.False(t, ok)
}

func TestRange(t *testing.T) {
	var r Range
	assert.False(t, r.Bounded())
	assert.True(t, r.Contains(-1e12))

	r = Between(3, 1)
	assert.Equal(t, 1.0, r.Min)
	assert.Equal(t, 3.0, r.Max)
	assert.True(t, r.Contains(1))
	assert.True(t, r.Contains(3))
	assert.False(t, r.Contains(3.01))
}
