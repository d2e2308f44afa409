package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spektr-org/vehiclesdash/engine"
	"github.com/spektr-org/vehiclesdash/helpers"
)

// ErrNotFound is returned when the dataset file does not exist. Surfaces
// report it to the user and stop instead of crashing.
var ErrNotFound = errors.New("dataset not found")

// Load reads and parses the listing CSV at path.
func Load(path string) (*engine.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	table, err := helpers.ParseCSVNamed(f, datasetName(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return table, nil
}

// datasetName turns "datasets/vehicles_us.csv" into "vehicles_us".
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
