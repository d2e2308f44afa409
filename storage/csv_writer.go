package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/helpers"
)

// CSVWriter writes filtered views to a CSV file in the export format.
// It is safe for concurrent use; each Write replaces the file contents.
type CSVWriter struct {
	mu   sync.Mutex
	path string
}

// NewCSVWriter prepares a writer for path. Intermediate directories are
// created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}
	return &CSVWriter{path: path}, nil
}

func (c *CSVWriter) Write(view engine.RecordView) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	if err := helpers.WriteCSV(f, view); err != nil {
		f.Close()
		return fmt.Errorf("csv: write: %w", err)
	}
	return f.Close()
}

func (c *CSVWriter) Close() error { return nil }
