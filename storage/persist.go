package storage

import (
	"fmt"

	"github.com/spektr-org/vehiclesdash/engine"
)

// Persist writes view to store and returns the stored rows as a view, so
// queries that follow run against what the store actually holds.
func Persist(store ListingStore, view engine.RecordView) (engine.RecordView, error) {
	if err := store.Write(view); err != nil {
		return nil, err
	}
	vehicles, err := store.FetchAll()
	if err != nil {
		return nil, err
	}
	if len(vehicles) != view.Len() {
		return nil, fmt.Errorf("storage: wrote %d rows, read back %d", view.Len(), len(vehicles))
	}
	return VehicleView(vehicles), nil
}
