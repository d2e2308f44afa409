package helpers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/schema"
)

// ============================================================================
// CSV HELPER — Parses listing CSV into an engine.Table
// ============================================================================
// The caller opens the file (or any other reader). This helper reads the
// header, infers a Kind per column over every row, then builds Records.
// ============================================================================

// ErrEmptyInput is returned when the reader holds no header row.
var ErrEmptyInput = errors.New("empty CSV input")

// ParseCSV reads listing rows into a Table. The header must carry every
// schema.Required column; extra columns are kept as-is.
func ParseCSV(r io.Reader) (*engine.Table, error) {
	return parse(r, "vehicles")
}

// ParseCSVNamed is ParseCSV with an explicit dataset name for the schema.
func ParseCSVNamed(r io.Reader, name string) (*engine.Table, error) {
	return parse(r, name)
}

func parse(r io.Reader, name string) (*engine.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are padded below

	// Read header
	headers, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	for i, h := range headers {
		headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	if err := schema.CheckRequired(headers); err != nil {
		return nil, err
	}

	// Read rows
	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", len(rows)+2, err)
		}
		rows = append(rows, normalizeRow(row, len(headers)))
	}

	cfg, err := schema.Infer(name, headers, rows)
	if err != nil {
		return nil, err
	}

	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, toRecord(cfg.Fields, row))
	}

	return engine.NewTable(cfg, records), nil
}

// normalizeRow trims every value and pads or cuts the row to width.
func normalizeRow(row []string, width int) []string {
	out := make([]string, width)
	for i := 0; i < width && i < len(row); i++ {
		out[i] = strings.TrimSpace(row[i])
	}
	return out
}

func toRecord(fields []schema.Field, row []string) engine.Record {
	rec := engine.NewRecord()
	for i, f := range fields {
		val := row[i]
		if schema.IsMissing(val) {
			continue
		}
		if f.Kind == schema.Numeric {
			// Infer only marks a column numeric when every present value parses.
			if v, ok := schema.ParseNumber(val); ok {
				rec.Measures[f.Key] = v
			}
			continue
		}
		rec.Dimensions[f.Key] = val
	}
	return rec
}
