package engine

import (
	"fmt"

	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// OVERVIEW BUILDER — Dashboard header metrics
// ============================================================================
// Header metrics describe the whole loaded dataset; only Matched follows the
// active filters.
// ============================================================================

// BuildOverview computes the header metrics over table and the filtered count.
func BuildOverview(table, filtered RecordView) *Overview {
	ov := &Overview{
		TotalListings:   table.Len(),
		AveragePrice:    AvgMeasure(table, string(schema.Price)),
		AverageYear:     AvgMeasure(table, string(schema.ModelYear)),
		AverageOdometer: AvgMeasure(table, string(schema.Odometer)),
		Matched:         filtered.Len(),
	}

	ov.Metrics = []Metric{
		{Label: "Total de Vehículos", Value: FormatInt(ov.TotalListings)},
		{Label: "Precio Promedio", Value: FormatCurrency(ov.AveragePrice)},
		{Label: "Año Promedio", Value: fmt.Sprintf("%.0f", ov.AverageYear)},
		{Label: "Kilometraje Promedio", Value: fmt.Sprintf("%.0f", ov.AverageOdometer)},
	}
	return ov
}

// MatchedReply is the one-line filter status shown under the filters.
func MatchedReply(matched int) string {
	return fmt.Sprintf("Mostrando %d vehículos después de aplicar filtros", matched)
}
