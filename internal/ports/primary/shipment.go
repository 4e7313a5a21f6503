package primary

import (
	"context"
	"time"
)

// ShipmentService defines the primary port for shipment operations.
type ShipmentService interface {
	// Create creates an empty shipment.
	Create(ctx context.Context, nameOrPlate string) (*Shipment, error)

	// Update applies a partial update.
	Update(ctx context.Context, code string, patch ShipmentPatch) (*Shipment, error)

	// Delete removes a shipment. Members keep their shipment_code; call
	// UnlinkAllMembers first to detach them.
	Delete(ctx context.Context, code string) error

	// GetAll lists shipments with pallet and box totals, newest first.
	GetAll(ctx context.Context) ([]*ShipmentSummary, error)

	// GetWithPallets retrieves a shipment, its pallets with their boxes, and its direct boxes.
	GetWithPallets(ctx context.Context, code string) (*ShipmentDetail, error)

	// UnlinkAllMembers clears shipment_code on member pallets and direct boxes.
	UnlinkAllMembers(ctx context.Context, code string) (*UnlinkResult, error)
}

// ShipmentPatch lists the fields Update may change.
type ShipmentPatch struct {
	NameOrPlate *string
	PhotoURL    *string
	PhotoURL2   *string
}

// Shipment represents a shipment at the port boundary.
type Shipment struct {
	ID          string
	Code        string
	NameOrPlate string
	CreatedBy   string
	PhotoURL    string
	PhotoURL2   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ShipmentSummary is a shipment with live totals. BoxCount sums the member
// pallets' box counts; direct boxes are counted separately.
type ShipmentSummary struct {
	Shipment
	PalletCount    int
	BoxCount       int
	DirectBoxCount int
}

// ShipmentDetail is a shipment with its full two-level membership.
type ShipmentDetail struct {
	ShipmentSummary
	Pallets     []*PalletWithBoxes
	DirectBoxes []*Box
}

// UnlinkResult reports how many members were detached.
type UnlinkResult struct {
	Pallets     int
	DirectBoxes int
}
