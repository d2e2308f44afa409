package storage

import (
	"database/sql"
	"time"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/schema"
)

// Vehicle is one stored listing. Null columns are missing values.
type Vehicle struct {
	ID           int64
	Price        sql.NullFloat64
	ModelYear    sql.NullFloat64
	Model        sql.NullString
	Condition    sql.NullString
	Odometer     sql.NullFloat64
	Fuel         sql.NullString
	Transmission sql.NullString
	Type         sql.NullString
	PaintColor   sql.NullString
	DaysListed   sql.NullFloat64
	CreatedAt    time.Time
}

// modelColumn is stored when present but is not a required column.
const modelColumn = "model"

// vehicleFromView reads row i of view into a Vehicle.
func vehicleFromView(view engine.RecordView, i int) Vehicle {
	num := func(c schema.Column) sql.NullFloat64 {
		v, ok := view.Measure(i, string(c))
		return sql.NullFloat64{Float64: v, Valid: ok}
	}
	str := func(key string) sql.NullString {
		v := view.Dimension(i, key)
		return sql.NullString{String: v, Valid: v != ""}
	}

	return Vehicle{
		Price:        num(schema.Price),
		ModelYear:    num(schema.ModelYear),
		Model:        str(modelColumn),
		Condition:    str(string(schema.Condition)),
		Odometer:     num(schema.Odometer),
		Fuel:         str(string(schema.Fuel)),
		Transmission: str(string(schema.Transmission)),
		Type:         str(string(schema.Type)),
		PaintColor:   str(string(schema.PaintColor)),
		DaysListed:   num(schema.DaysListed),
	}
}

// ============================================================================
// VEHICLE VIEW — stored listings back into the engine
// ============================================================================

func nullNum(get func(*Vehicle) sql.NullFloat64) func(*Vehicle) (float64, bool) {
	return func(v *Vehicle) (float64, bool) {
		n := get(v)
		return n.Float64, n.Valid
	}
}

func nullStr(get func(*Vehicle) sql.NullString) func(*Vehicle) string {
	return func(v *Vehicle) string {
		s := get(v)
		if !s.Valid {
			return ""
		}
		return s.String
	}
}

var vehicleAdapter = engine.NewDomainAdapter[*Vehicle]().
	Measure(string(schema.Price), nullNum(func(v *Vehicle) sql.NullFloat64 { return v.Price })).
	Measure(string(schema.ModelYear), nullNum(func(v *Vehicle) sql.NullFloat64 { return v.ModelYear })).
	Dimension(modelColumn, nullStr(func(v *Vehicle) sql.NullString { return v.Model })).
	Dimension(string(schema.Condition), nullStr(func(v *Vehicle) sql.NullString { return v.Condition })).
	Measure(string(schema.Odometer), nullNum(func(v *Vehicle) sql.NullFloat64 { return v.Odometer })).
	Dimension(string(schema.Fuel), nullStr(func(v *Vehicle) sql.NullString { return v.Fuel })).
	Dimension(string(schema.Transmission), nullStr(func(v *Vehicle) sql.NullString { return v.Transmission })).
	Dimension(string(schema.Type), nullStr(func(v *Vehicle) sql.NullString { return v.Type })).
	Dimension(string(schema.PaintColor), nullStr(func(v *Vehicle) sql.NullString { return v.PaintColor })).
	Measure(string(schema.DaysListed), nullNum(func(v *Vehicle) sql.NullFloat64 { return v.DaysListed }))

// VehicleView exposes stored vehicles as a RecordView so they can be filtered
// and aggregated like a loaded table.
func VehicleView(vehicles []*Vehicle) engine.RecordView {
	return vehicleAdapter.Bind(vehicles)
}
