package storage

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/helpers"
)

var (
	_ ListingWriter = (*PostgresWriter)(nil)
	_ ListingWriter = (*CSVWriter)(nil)
	_ ListingStore  = (*PostgresWriter)(nil)
)

const sample = `price,model_year,model,condition,odometer,fuel,transmission,type,paint_color,days_listed
9400,2011,bmw x5,good,145000,gas,automatic,SUV,,19
25500,,ford f-150,good,88705,gas,automatic,pickup,white,50
5500,2013,hyundai sonata,like new,110000,gas,automatic,sedan,red,79
`

func sampleTable(t *testing.T) *engine.Table {
	t.Helper()
	table, err := helpers.ParseCSV(strings.NewReader(sample))
	require.NoError(t, err)
	return table
}

func TestVehicleFromView(t *testing.T) {
	table := sampleTable(t)

	v := vehicleFromView(table, 1)
	assert.Equal(t, sql.NullFloat64{Float64: 25500, Valid: true}, v.Price)
	assert.False(t, v.ModelYear.Valid)
	assert.Equal(t, sql.NullString{String: "ford f-150", Valid: true}, v.Model)
	assert.Equal(t, "pickup", v.Type.String)

	v = vehicleFromView(table, 0)
	assert.False(t, v.PaintColor.Valid)
}

func TestBuildInsert(t *testing.T) {
	table := sampleTable(t)
	batch := []Vehicle{vehicleFromView(table, 0), vehicleFromView(table, 1)}

	query, args := buildInsert(batch)
	assert.True(t, strings.HasPrefix(query,
		"INSERT INTO vehicles (price, model_year, model, condition, odometer, fuel, transmission, type, paint_color, days_listed) VALUES "))
	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7,$8,$9,$10),($11,$12,")
	assert.True(t, strings.HasSuffix(query, "$20)"))
	require.Len(t, args, 20)
	assert.Equal(t, sql.NullFloat64{Float64: 9400, Valid: true}, args[0])
	assert.Equal(t, sql.NullFloat64{}, args[11], "missing model_year stored as NULL")
}

func TestVehicleViewRoundTrip(t *testing.T) {
	table := sampleTable(t)

	vehicles := make([]*Vehicle, table.Len())
	for i := range vehicles {
		v := vehicleFromView(table, i)
		vehicles[i] = &v
	}
	view := VehicleView(vehicles)

	assert.Equal(t, table.Fields(), view.Fields())
	want, err := helpers.SerializeCSV(table)
	require.NoError(t, err)
	got, err := helpers.SerializeCSV(view)
	require.NoError(t, err)
	assert.Equal(t, string(want), string(got))

	sedans := engine.Apply(view, engine.Criteria{Type: "sedan"})
	require.Equal(t, 1, sedans.Len())
	price, ok := sedans.Measure(0, "price")
	require.True(t, ok)
	assert.Equal(t, 5500.0, price)
}

func TestCSVWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", helpers.ExportFileName)
	w, err := NewCSVWriter(path)
	require.NoError(t, err)
	defer w.Close()

	filtered := engine.Apply(sampleTable(t), engine.Criteria{Condition: "good"})
	require.NoError(t, w.Write(filtered))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "9400,2011,bmw x5,good,145000,gas,automatic,SUV,,19", lines[1])
}

// ============================================================================
// REPLACE / PERSIST
// ============================================================================

type recordingExec struct {
	queries []string
	failAt  int // 1-based; 0 never fails
}

func (r *recordingExec) Exec(query string, args ...interface{}) (sql.Result, error) {
	r.queries = append(r.queries, query)
	if len(r.queries) == r.failAt {
		return nil, errors.New("connection reset")
	}
	return nil, nil
}

func TestReplaceRowsClearsThenInsertsInBatches(t *testing.T) {
	rows := "price,model_year,model,condition,odometer,fuel,transmission,type,paint_color,days_listed\n" +
		strings.Repeat("100,2011,bmw x5,good,1000,gas,automatic,SUV,,5\n", batchSize+1)
	table, err := helpers.ParseCSV(strings.NewReader(rows))
	require.NoError(t, err)

	ex := &recordingExec{}
	require.NoError(t, replaceRows(ex, table))
	require.Len(t, ex.queries, 3)
	assert.Equal(t, "DELETE FROM vehicles", ex.queries[0])
	assert.True(t, strings.HasPrefix(ex.queries[1], "INSERT INTO vehicles"))
	assert.True(t, strings.HasPrefix(ex.queries[2], "INSERT INTO vehicles"))
}

func TestReplaceRowsStopsOnInsertFailure(t *testing.T) {
	ex := &recordingExec{failAt: 2}
	err := replaceRows(ex, sampleTable(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert batch")
	assert.Len(t, ex.queries, 2)
}

type memoryStore struct {
	stored  []*Vehicle
	written bool
	drop    int
}

func (m *memoryStore) Write(view engine.RecordView) error {
	m.written = true
	m.stored = nil
	for i := 0; i < view.Len(); i++ {
		v := vehicleFromView(view, i)
		v.ID = int64(i + 1)
		m.stored = append(m.stored, &v)
	}
	return nil
}

func (m *memoryStore) FetchAll() ([]*Vehicle, error) {
	return m.stored[:len(m.stored)-m.drop], nil
}

func (m *memoryStore) Close() error { return nil }

func TestPersistReturnsStoredRows(t *testing.T) {
	filtered := engine.Apply(sampleTable(t), engine.Criteria{Condition: "good"})
	store := &memoryStore{}

	view, err := Persist(store, filtered)
	require.NoError(t, err)
	assert.True(t, store.written)
	require.Equal(t, 2, view.Len())
	assert.Equal(t, "pickup", view.Dimension(1, "type"))

	res, err := engine.Execute(engine.Request{Kind: engine.KindBar, Column: "type"}, view)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Matched)
}

func TestPersistDetectsShortReadBack(t *testing.T) {
	store := &memoryStore{drop: 1}
	_, err := Persist(store, sampleTable(t))
	assert.Error(t, err)
}
