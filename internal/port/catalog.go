package port

import (
	"time"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
)

// CatalogEntry is one persisted dataset record.
type CatalogEntry struct {
	Name      string
	Year      int
	Month     int
	SizeBytes int64
	Status    domain.Outcome
	Error     string
	FetchedAt time.Time
}

// Catalog persists fetch and decompression outcomes. It is advisory: the
// data directory stays the source of truth and callers treat catalog errors
// as non-fatal.
type Catalog interface {
	// Record upserts the entry for a dataset name.
	Record(entry CatalogEntry) error

	// MarkDecompressed flips the status of a fetched dataset.
	MarkDecompressed(name string) error

	// List returns all entries ordered by year then month.
	List() ([]CatalogEntry, error)

	// Close closes the underlying store.
	Close() error
}
