package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// TEST FIXTURES
// ============================================================================

var listingHeaders = []string{
	"price", "model_year", "model", "condition", "odometer", "fuel",
	"transmission", "type", "paint_color", "days_listed",
}

var listingRows = [][]string{
	{"9400", "2011", "bmw x5", "good", "145000", "gas", "automatic", "SUV", "", "19"},
	{"25500", "", "ford f-150", "good", "88705", "gas", "automatic", "pickup", "white", "50"},
	{"5500", "2013", "hyundai sonata", "like new", "110000", "gas", "automatic", "sedan", "red", "79"},
	{"1500", "2003", "ford f-150", "fair", "", "gas", "automatic", "pickup", "", "9"},
	{"14900", "2017", "chrysler 200", "excellent", "80903", "gas", "automatic", "sedan", "black", "28"},
	{"14990", "2014", "chrysler 300", "excellent", "57954", "gas", "automatic", "sedan", "black", "15"},
	{"12990", "2015", "toyota camry", "excellent", "79212", "gas", "automatic", "sedan", "white", "73"},
	{"15990", "2013", "honda pilot", "", "109473", "gas", "automatic", "SUV", "black", "68"},
	{"11500", "2012", "kia sorento", "excellent", "104174", "gas", "automatic", "SUV", "", "19"},
	{"9200", "2008", "honda pilot", "excellent", "147191", "gas", "automatic", "", "blue", "17"},
}

// buildTable turns string rows into a Table the same way the CSV loader does.
func buildTable(t *testing.T, headers []string, rows [][]string) *Table {
	t.Helper()

	cfg, err := schema.Infer("fixture", headers, rows)
	require.NoError(t, err)

	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec := NewRecord()
		for i, f := range cfg.Fields {
			val := strings.TrimSpace(row[i])
			if schema.IsMissing(val) {
				continue
			}
			if f.Kind == schema.Numeric {
				v, ok := schema.ParseNumber(val)
				require.True(t, ok, val)
				rec.Measures[f.Key] = v
			} else {
				rec.Dimensions[f.Key] = val
			}
		}
		records = append(records, rec)
	}
	return NewTable(cfg, records)
}

func listingTable(t *testing.T) *Table {
	return buildTable(t, listingHeaders, listingRows)
}

func priceTable(t *testing.T, prices ...string) *Table {
	rows := make([][]string, len(prices))
	for i, p := range prices {
		rows[i] = []string{p, "2015", "m", "good", "1000", "gas", "manual", "sedan", "red", "10"}
	}
	return buildTable(t, listingHeaders, rows)
}

func prices(view RecordView) []float64 {
	out := make([]float64, 0, view.Len())
	for i := 0; i < view.Len(); i++ {
		v, _ := view.Measure(i, "price")
		out = append(out, v)
	}
	return out
}

// records copies the rows of a view into a slice.
func records(view RecordView) []Record {
	fields := view.Fields()
	out := make([]Record, view.Len())
	for i := range out {
		rec := NewRecord()
		for _, f := range fields {
			if f.Kind == schema.Numeric {
				if v, ok := view.Measure(i, f.Key); ok {
					rec.Measures[f.Key] = v
				}
				continue
			}
			if v := view.Dimension(i, f.Key); v != "" {
				rec.Dimensions[f.Key] = v
			}
		}
		out[i] = rec
	}
	return out
}
