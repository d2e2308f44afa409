package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/spektr-org/vehiclesdash/engine"
)

// ============================================================================
// CSV EXPORT — Filtered view → downloadable CSV
// ============================================================================
// Header follows the view's schema order. Numbers use their shortest
// round-trippable form, missing values become empty fields, and an empty
// view still yields the header row. Output parses back with ParseCSV.
// ============================================================================

const (
	// ExportFileName is the suggested download name for an export.
	ExportFileName = "vehiculos_filtrados.csv"

	// ExportMIMEType is the content type of an export.
	ExportMIMEType = "text/csv"
)

// WriteCSV streams the view as CSV to w.
func WriteCSV(w io.Writer, view engine.RecordView) error {
	cw := csv.NewWriter(w)
	fields := view.Fields()

	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	row := make([]string, len(fields))
	for i := 0; i < view.Len(); i++ {
		for j, f := range fields {
			row[j] = engine.Cell(view, i, f)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SerializeCSV renders the view as CSV bytes.
func SerializeCSV(view engine.RecordView) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, view); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteRows writes already-rendered rows (header first) as CSV.
func WriteRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV rows: %w", err)
	}
	return nil
}
