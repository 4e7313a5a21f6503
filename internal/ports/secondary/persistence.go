// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"
)

// Backend is the persistence backend: one store per collection. Exactly one
// Backend is constructed per process and injected into every service.
//
// Every implementation must behave identically:
//   - lookups of a missing key fail with an error wrapping errs.ErrNotFound,
//     and so do Update and Delete of a missing key;
//   - List results are ordered created_at DESC, id ASC (box lines: created_at ASC, id ASC);
//   - Update applies only the non-nil patch fields and stamps updated_at;
//   - nullable text fields use the empty string for null.
type Backend interface {
	Departments() DepartmentStore
	Boxes() BoxStore
	BoxLines() BoxLineStore
	Pallets() PalletStore
	Shipments() ShipmentStore

	// Name identifies the backend in logs ("remote" or "local").
	Name() string

	// Close releases the underlying storage.
	Close() error
}

// DepartmentStore defines the secondary port for department persistence.
type DepartmentStore interface {
	// Create persists a new department.
	Create(ctx context.Context, department *DepartmentRecord) error

	// GetByID retrieves a department by its ID.
	GetByID(ctx context.Context, id string) (*DepartmentRecord, error)

	// List retrieves all departments.
	List(ctx context.Context) ([]*DepartmentRecord, error)

	// Update applies a patch and returns the updated department.
	Update(ctx context.Context, id string, patch DepartmentPatch) (*DepartmentRecord, error)

	// Delete removes a department. Boxes referencing it are left untouched.
	Delete(ctx context.Context, id string) error
}

// DepartmentRecord represents a department as stored in persistence.
type DepartmentRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DepartmentPatch lists the department fields an update may change.
type DepartmentPatch struct {
	Name *string
}

// BoxStore defines the secondary port for box persistence.
type BoxStore interface {
	// Create persists a new box.
	Create(ctx context.Context, box *BoxRecord) error

	// GetByID retrieves a box by its ID.
	GetByID(ctx context.Context, id string) (*BoxRecord, error)

	// GetByCode retrieves a box by its short code.
	GetByCode(ctx context.Context, code string) (*BoxRecord, error)

	// CodeExists reports whether a box already uses code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// List retrieves boxes matching the given filters.
	List(ctx context.Context, filters BoxFilters) ([]*BoxRecord, error)

	// Count returns the number of boxes matching the given filters.
	Count(ctx context.Context, filters BoxFilters) (int, error)

	// Update applies a patch and returns the updated box.
	Update(ctx context.Context, id string, patch BoxPatch) (*BoxRecord, error)

	// Delete removes a box. Its lines are removed separately through BoxLineStore.
	Delete(ctx context.Context, id string) error
}

// BoxRecord represents a box as stored in persistence.
type BoxRecord struct {
	ID               string
	Code             string
	Name             string
	DepartmentID     string // soft reference, may dangle
	CreatedBy        string
	Status           string // draft, sealed
	Revision         int    // informational only, never bumped
	PalletCode       string // Empty string means null
	ShipmentCode     string // Empty string means null - direct-shipment boxes only
	IsDirectShipment bool
	IsFragile        bool
	PhotoURL         string // Empty string means null
	PhotoURL2        string // Empty string means null
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BoxFilters contains filter options for querying boxes. Zero values do not filter.
type BoxFilters struct {
	CreatedBy    string
	Status       string
	DepartmentID string
	PalletCode   string
	ShipmentCode string
	Unpalletized bool  // only boxes with no pallet_code
	Unshipped    bool  // only boxes with no shipment_code
	Direct       *bool // match is_direct_shipment when set
}

// BoxPatch lists the box fields an update may change. A pointer to "" clears a nullable field.
type BoxPatch struct {
	Name             *string
	DepartmentID     *string
	Status           *string
	PhotoURL         *string
	PhotoURL2        *string
	PalletCode       *string
	ShipmentCode     *string
	IsDirectShipment *bool
	IsFragile        *bool
}

// BoxLineStore defines the secondary port for box line persistence.
type BoxLineStore interface {
	// Create persists a new line.
	Create(ctx context.Context, line *BoxLineRecord) error

	// GetByID retrieves a line by its ID.
	GetByID(ctx context.Context, id string) (*BoxLineRecord, error)

	// ListByBox retrieves a box's lines in insertion order.
	ListByBox(ctx context.Context, boxID string) ([]*BoxLineRecord, error)

	// Delete removes a single line.
	Delete(ctx context.Context, id string) error

	// DeleteByBox removes every line of a box. Missing lines are not an error.
	DeleteByBox(ctx context.Context, boxID string) error
}

// BoxLineRecord represents a box line as stored in persistence.
type BoxLineRecord struct {
	ID          string
	BoxID       string
	ProductName string
	Qty         int
	Kind        string
	CreatedAt   time.Time
}

// PalletStore defines the secondary port for pallet persistence.
type PalletStore interface {
	// Create persists a new pallet.
	Create(ctx context.Context, pallet *PalletRecord) error

	// GetByID retrieves a pallet by its ID.
	GetByID(ctx context.Context, id string) (*PalletRecord, error)

	// GetByCode retrieves a pallet by its short code.
	GetByCode(ctx context.Context, code string) (*PalletRecord, error)

	// CodeExists reports whether a pallet already uses code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// List retrieves pallets matching the given filters.
	List(ctx context.Context, filters PalletFilters) ([]*PalletRecord, error)

	// Update applies a patch and returns the updated pallet.
	Update(ctx context.Context, id string, patch PalletPatch) (*PalletRecord, error)

	// Delete removes a pallet. Member boxes are left untouched.
	Delete(ctx context.Context, id string) error
}

// PalletRecord represents a pallet as stored in persistence.
type PalletRecord struct {
	ID           string
	Code         string
	Name         string
	CreatedBy    string
	ShipmentCode string // Empty string means null
	PhotoURL     string // Empty string means null
	PhotoURL2    string // Empty string means null
	IsFragile    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PalletFilters contains filter options for querying pallets. Zero values do not filter.
type PalletFilters struct {
	CreatedBy    string
	ShipmentCode string
	Unshipped    bool // only pallets with no shipment_code
}

// PalletPatch lists the pallet fields an update may change. A pointer to "" clears a nullable field.
type PalletPatch struct {
	Name         *string
	ShipmentCode *string
	PhotoURL     *string
	PhotoURL2    *string
	IsFragile    *bool
}

// ShipmentStore defines the secondary port for shipment persistence.
type ShipmentStore interface {
	// Create persists a new shipment.
	Create(ctx context.Context, shipment *ShipmentRecord) error

	// GetByID retrieves a shipment by its ID.
	GetByID(ctx context.Context, id string) (*ShipmentRecord, error)

	// GetByCode retrieves a shipment by its short code.
	GetByCode(ctx context.Context, code string) (*ShipmentRecord, error)

	// CodeExists reports whether a shipment already uses code.
	CodeExists(ctx context.Context, code string) (bool, error)

	// List retrieves shipments matching the given filters.
	List(ctx context.Context, filters ShipmentFilters) ([]*ShipmentRecord, error)

	// Update applies a patch and returns the updated shipment.
	Update(ctx context.Context, id string, patch ShipmentPatch) (*ShipmentRecord, error)

	// Delete removes a shipment. Member pallets and boxes are left untouched.
	Delete(ctx context.Context, id string) error
}

// ShipmentRecord represents a shipment as stored in persistence.
type ShipmentRecord struct {
	ID          string
	Code        string
	NameOrPlate string
	CreatedBy   string
	PhotoURL    string // Empty string means null
	PhotoURL2   string // Empty string means null
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShipmentFilters contains filter options for querying shipments.
type ShipmentFilters struct {
	CreatedBy string
}

// ShipmentPatch lists the shipment fields an update may change. A pointer to "" clears a nullable field.
type ShipmentPatch struct {
	NameOrPlate *string
	PhotoURL    *string
	PhotoURL2   *string
}
