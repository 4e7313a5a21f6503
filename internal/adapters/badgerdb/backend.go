// Package badgerdb implements the persistence backend on an embedded Badger
// key-value store: the local store used on a single device.
package badgerdb

import (
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"

	"github.com/example/packtrack/internal/ports/secondary"
)

// Options configures Open.
type Options struct {
	// Dir is the data directory. Ignored when InMemory is set.
	Dir      string
	InMemory bool
	Logger   *zap.Logger
	// Now stamps updated_at on patches; nil means time.Now.
	Now func() time.Time
}

// Backend implements secondary.Backend over a *badger.DB.
type Backend struct {
	db          *badger.DB
	departments *DepartmentStore
	boxes       *BoxStore
	lines       *BoxLineStore
	pallets     *PalletStore
	shipments   *ShipmentStore
}

// Open opens (creating if needed) the Badger database described by opts.
func Open(opts Options) (*Backend, error) {
	bopts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bopts = bopts.WithLogger(newLogger(logger))

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger at %q: %w", opts.Dir, err)
	}
	return NewBackend(db, opts.Now), nil
}

// NewBackend wraps an open database. now stamps updated_at on patches; nil means time.Now.
func NewBackend(db *badger.DB, now func() time.Time) *Backend {
	if now == nil {
		now = time.Now
	}
	return &Backend{
		db:          db,
		departments: newDepartmentStore(db, now),
		boxes:       newBoxStore(db, now),
		lines:       newBoxLineStore(db),
		pallets:     newPalletStore(db, now),
		shipments:   newShipmentStore(db, now),
	}
}

func (b *Backend) Departments() secondary.DepartmentStore { return b.departments }
func (b *Backend) Boxes() secondary.BoxStore             { return b.boxes }
func (b *Backend) BoxLines() secondary.BoxLineStore      { return b.lines }
func (b *Backend) Pallets() secondary.PalletStore        { return b.pallets }
func (b *Backend) Shipments() secondary.ShipmentStore    { return b.shipments }

// Name identifies the backend.
func (b *Backend) Name() string { return "local" }

// Close flushes and closes the database.
func (b *Backend) Close() error { return b.db.Close() }

var _ secondary.Backend = (*Backend)(nil)
