package primary

import (
	"context"
	"time"
)

// BoxService defines the primary port for box operations.
type BoxService interface {
	// Create creates a draft box in a department.
	Create(ctx context.Context, req CreateBoxRequest) (*Box, error)

	// AddLine appends a line to a draft box.
	AddLine(ctx context.Context, req AddLineRequest) (*BoxLine, error)

	// DeleteLine removes a line from a draft box.
	DeleteLine(ctx context.Context, lineID string) error

	// ListLines returns a box's lines in insertion order.
	ListLines(ctx context.Context, boxCode string) ([]*BoxLine, error)

	// Update applies a partial update. Sealing is one-way.
	Update(ctx context.Context, code string, patch BoxPatch) (*Box, error)

	// SetPallet places a sealed, non-direct box on a pallet.
	SetPallet(ctx context.Context, boxCode, palletCode string) (*Box, error)

	// ClearPallet takes a box off its pallet.
	ClearPallet(ctx context.Context, boxCode string) (*Box, error)

	// SetShipment links a sealed direct-shipment box straight to a shipment.
	SetShipment(ctx context.Context, boxCode, shipmentCode string) (*Box, error)

	// ClearShipment unlinks a direct-shipment box from its shipment.
	ClearShipment(ctx context.Context, boxCode string) (*Box, error)

	// Delete removes an unlinked box and its lines. key is the box code or its id.
	Delete(ctx context.Context, key string) error

	// GetAll lists boxes, newest first.
	GetAll(ctx context.Context, filters BoxFilters) ([]*Box, error)

	// GetByCode retrieves a box with its department and lines.
	GetByCode(ctx context.Context, code string) (*BoxDetail, error)

	// GetAvailableForPallet lists sealed, unlinked, non-direct boxes.
	GetAvailableForPallet(ctx context.Context, filters AvailableBoxFilters) ([]*Box, error)
}

// CreateBoxRequest contains parameters for creating a box.
type CreateBoxRequest struct {
	Name             string
	DepartmentID     string
	IsDirectShipment bool
	IsFragile        bool
}

// AddLineRequest contains parameters for adding a line to a box.
type AddLineRequest struct {
	BoxCode     string
	ProductName string
	Qty         int
	Kind        string // Optional
}

// BoxPatch lists the fields Update may change. Nil fields are left alone;
// a pointer to "" clears a photo or the shipment link.
type BoxPatch struct {
	Name             *string
	DepartmentID     *string
	Status           *string
	PhotoURL         *string
	PhotoURL2        *string
	ShipmentCode     *string // direct-shipment boxes only
	IsDirectShipment *bool
	IsFragile        *bool
}

// BoxFilters contains filter options for listing boxes.
type BoxFilters struct {
	CreatedBy    string
	Status       string
	DepartmentID string
}

// AvailableBoxFilters narrows GetAvailableForPallet.
type AvailableBoxFilters struct {
	DepartmentID string
	CreatedBy    string
}

// Box represents a box at the port boundary.
// Status lifecycle: draft → sealed
type Box struct {
	ID               string
	Code             string
	Name             string
	DepartmentID     string
	CreatedBy        string
	Status           string
	Revision         int
	PalletCode       string
	ShipmentCode     string
	IsDirectShipment bool
	IsFragile        bool
	PhotoURL         string
	PhotoURL2        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BoxLine represents one product line inside a box.
type BoxLine struct {
	ID          string
	BoxID       string
	ProductName string
	Qty         int
	Kind        string
	CreatedAt   time.Time
}

// BoxDetail is a box joined with its department and lines.
// Department is nil when the box references a department that no longer exists.
type BoxDetail struct {
	Box
	Department *Department
	Lines      []*BoxLine
}
