package primary

import (
	"context"
	"time"
)

// PalletService defines the primary port for pallet operations.
type PalletService interface {
	// Create creates an empty pallet.
	Create(ctx context.Context, req CreatePalletRequest) (*Pallet, error)

	// Update applies a partial update.
	Update(ctx context.Context, code string, patch PalletPatch) (*Pallet, error)

	// Delete removes a pallet. Member boxes keep their pallet_code; call
	// UnlinkAllBoxes first to detach them.
	Delete(ctx context.Context, code string) error

	// SetShipment loads a pallet into a shipment.
	SetShipment(ctx context.Context, palletCode, shipmentCode string) (*Pallet, error)

	// ClearShipment takes a pallet out of its shipment.
	ClearShipment(ctx context.Context, palletCode string) (*Pallet, error)

	// GetAll lists pallets with their live box counts, newest first.
	GetAll(ctx context.Context, filters PalletFilters) ([]*PalletSummary, error)

	// GetByCodeWithBoxes retrieves a pallet and its member boxes.
	GetByCodeWithBoxes(ctx context.Context, code string) (*PalletWithBoxes, error)

	// GetAvailableForShipment lists pallets not yet in a shipment.
	GetAvailableForShipment(ctx context.Context, createdBy string) ([]*PalletSummary, error)

	// UnlinkAllBoxes clears pallet_code on every member box and returns how many changed.
	UnlinkAllBoxes(ctx context.Context, code string) (int, error)
}

// CreatePalletRequest contains parameters for creating a pallet.
type CreatePalletRequest struct {
	Name      string
	IsFragile bool
}

// PalletPatch lists the fields Update may change. Use SetShipment and
// ClearShipment for the shipment link.
type PalletPatch struct {
	Name      *string
	PhotoURL  *string
	PhotoURL2 *string
	IsFragile *bool
}

// PalletFilters contains filter options for listing pallets.
type PalletFilters struct {
	CreatedBy string
}

// Pallet represents a pallet at the port boundary.
type Pallet struct {
	ID           string
	Code         string
	Name         string
	CreatedBy    string
	ShipmentCode string
	PhotoURL     string
	PhotoURL2    string
	IsFragile    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PalletSummary is a pallet with its live box count.
type PalletSummary struct {
	Pallet
	BoxCount int
}

// PalletWithBoxes is a pallet with its member boxes, newest first.
type PalletWithBoxes struct {
	Pallet
	Boxes    []*Box
	BoxCount int
}
