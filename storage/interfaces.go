package storage

import "github.com/spektr-org/vehiclesdash/engine"

// ListingWriter is the interface any sink for a filtered view must satisfy.
type ListingWriter interface {
	Write(view engine.RecordView) error
	Close() error
}

// ListingStore is a ListingWriter that can read back what it stored.
type ListingStore interface {
	ListingWriter
	FetchAll() ([]*Vehicle, error)
}
