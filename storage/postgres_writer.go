package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/spektr-org/vehiclesdash/engine"
)

// vehicleColumns is the insert column order; buildInsert args follow it.
var vehicleColumns = []string{
	"price", "model_year", "model", "condition", "odometer",
	"fuel", "transmission", "type", "paint_color", "days_listed",
}

const batchSize = 50

// PostgresWriter persists filtered listings to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 5; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS vehicles (
			id           SERIAL PRIMARY KEY,
			price        DOUBLE PRECISION,
			model_year   DOUBLE PRECISION,
			model        TEXT,
			condition    TEXT,
			odometer     DOUBLE PRECISION,
			fuel         TEXT,
			transmission TEXT,
			type         TEXT,
			paint_color  TEXT,
			days_listed  DOUBLE PRECISION,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_vehicles_price     ON vehicles(price);
		CREATE INDEX IF NOT EXISTS idx_vehicles_type      ON vehicles(type);
		CREATE INDEX IF NOT EXISTS idx_vehicles_condition ON vehicles(condition);
	`)
	return err
}

// execer is satisfied by *sql.Tx.
type execer interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// Write replaces the stored vehicles with the rows of view in one
// transaction; on any failure the previous contents are kept.
// An empty view just clears the table.
func (pw *PostgresWriter) Write(view engine.RecordView) error {
	tx, err := pw.db.Begin()
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if err := replaceRows(tx, view); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// replaceRows clears the table and inserts view in batches of batchSize.
func replaceRows(ex execer, view engine.RecordView) error {
	if _, err := ex.Exec("DELETE FROM vehicles"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	batch := make([]Vehicle, 0, batchSize)
	for i := 0; i < view.Len(); i++ {
		batch = append(batch, vehicleFromView(view, i))
		if len(batch) == batchSize {
			if err := insertBatch(ex, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return insertBatch(ex, batch)
	}
	return nil
}

func insertBatch(ex execer, batch []Vehicle) error {
	query, args := buildInsert(batch)
	if _, err := ex.Exec(query, args...); err != nil {
		return fmt.Errorf("postgres: insert batch: %w", err)
	}
	return nil
}

// buildInsert renders one multi-row INSERT with $n placeholders.
func buildInsert(batch []Vehicle) (string, []interface{}) {
	n := len(vehicleColumns)
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*n)

	for idx, v := range batch {
		placeholders := make([]string, n)
		for j := range placeholders {
			placeholders[j] = fmt.Sprintf("$%d", idx*n+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			v.Price, v.ModelYear, v.Model, v.Condition, v.Odometer,
			v.Fuel, v.Transmission, v.Type, v.PaintColor, v.DaysListed)
	}

	query := fmt.Sprintf("INSERT INTO vehicles (%s) VALUES %s",
		strings.Join(vehicleColumns, ", "), strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored vehicles in insert order.
func (pw *PostgresWriter) FetchAll() ([]*Vehicle, error) {
	rows, err := pw.db.Query(`
		SELECT id, price, model_year, model, condition, odometer,
		       fuel, transmission, type, paint_color, days_listed, created_at
		FROM vehicles
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var vehicles []*Vehicle
	for rows.Next() {
		v := &Vehicle{}
		if err := rows.Scan(
			&v.ID, &v.Price, &v.ModelYear, &v.Model, &v.Condition, &v.Odometer,
			&v.Fuel, &v.Transmission, &v.Type, &v.PaintColor, &v.DaysListed, &v.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
