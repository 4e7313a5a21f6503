// Package box contains the pure business rules for boxes.
// Guards are pure functions that evaluate preconditions without side effects.
package box

import (
	"fmt"
	"strings"

	"github.com/example/packtrack/internal/core/errs"
)

// Box statuses. The only transition is draft → sealed.
const (
	StatusDraft  = "draft"
	StatusSealed = "sealed"
)

// InitialRevision is stamped on every new box. Updates never bump it.
const InitialRevision = 1

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error
	Reason  string
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return errs.New(r.Kind, r.Reason)
}

func allow() GuardResult {
	return GuardResult{Allowed: true}
}

func deny(kind error, format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// CreateBoxContext provides context for box creation guards.
type CreateBoxContext struct {
	Name             string
	DepartmentID     string
	DepartmentExists bool
}

// AddLineContext provides context for line creation guards.
type AddLineContext struct {
	BoxCode     string
	Status      string
	ProductName string
	Qty         int
}

// LineEditContext provides context for line removal guards.
type LineEditContext struct {
	BoxCode string
	Status  string
}

// StatusChangeContext provides context for status transition guards.
type StatusChangeContext struct {
	BoxCode   string
	Current   string
	Target    string
	LineCount int
	PhotoURL  string
}

// SetPalletContext provides context for pallet linkage guards.
type SetPalletContext struct {
	BoxCode          string
	Status           string
	IsDirectShipment bool
	CurrentPallet    string // empty if unlinked
	TargetPallet     string
	PalletExists     bool
}

// SetShipmentContext provides context for direct-shipment linkage guards.
type SetShipmentContext struct {
	BoxCode          string
	Status           string
	IsDirectShipment bool
	PalletCode       string // empty if unlinked
	CurrentShipment  string // empty if unlinked
	TargetShipment   string
	ShipmentExists   bool
}

// DirectShipmentChangeContext provides context for toggling is_direct_shipment.
type DirectShipmentChangeContext struct {
	BoxCode      string
	PalletCode   string
	ShipmentCode string
}

// DeleteBoxContext provides context for box deletion guards.
type DeleteBoxContext struct {
	BoxCode      string
	PalletCode   string
	ShipmentCode string
}

// CanCreateBox evaluates whether a box can be created.
// Rules:
// - Name must not be blank
// - Department must exist
func CanCreateBox(ctx CreateBoxContext) GuardResult {
	if strings.TrimSpace(ctx.Name) == "" {
		return deny(errs.ErrValidation, "box name must not be empty")
	}
	if !ctx.DepartmentExists {
		return deny(errs.ErrNotFound, "department %s not found", ctx.DepartmentID)
	}
	return allow()
}

// CanRename evaluates a name patch.
func CanRename(boxCode, name string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return deny(errs.ErrValidation, "box %s: name must not be empty", boxCode)
	}
	return allow()
}

// CanAddLine evaluates whether a line can be added.
// Rules:
// - Box must still be a draft (lines freeze on seal)
// - Product name must not be blank
// - Quantity must be at least 1
func CanAddLine(ctx AddLineContext) GuardResult {
	if ctx.Status == StatusSealed {
		return deny(errs.ErrConflict, "box %s is sealed; lines can no longer change", ctx.BoxCode)
	}
	if strings.TrimSpace(ctx.ProductName) == "" {
		return deny(errs.ErrValidation, "product name must not be empty")
	}
	if ctx.Qty < 1 {
		return deny(errs.ErrValidation, "quantity must be at least 1 (got %d)", ctx.Qty)
	}
	return allow()
}

// CanDeleteLine evaluates whether a line can be removed.
func CanDeleteLine(ctx LineEditContext) GuardResult {
	if ctx.Status == StatusSealed {
		return deny(errs.ErrConflict, "box %s is sealed; lines can no longer change", ctx.BoxCode)
	}
	return allow()
}

// CanChangeStatus evaluates a status transition.
// Rules:
// - Target must be a known status
// - sealed → draft is never allowed
// - draft → sealed needs at least one line and a primary photo
// - Setting the current status again is a no-op
func CanChangeStatus(ctx StatusChangeContext) GuardResult {
	switch ctx.Target {
	case StatusDraft, StatusSealed:
	default:
		return deny(errs.ErrValidation, "unknown box status %q", ctx.Target)
	}

	if ctx.Current == ctx.Target {
		return allow()
	}

	if ctx.Current == StatusSealed && ctx.Target == StatusDraft {
		return deny(errs.ErrInvalidTransition, "box %s is sealed and cannot return to draft", ctx.BoxCode)
	}

	if ctx.Target == StatusSealed {
		if ctx.LineCount == 0 {
			return deny(errs.ErrValidation, "box %s cannot be sealed without lines", ctx.BoxCode)
		}
		if strings.TrimSpace(ctx.PhotoURL) == "" {
			return deny(errs.ErrValidation, "box %s cannot be sealed without a photo", ctx.BoxCode)
		}
	}

	return allow()
}

// CanSetPallet evaluates whether a box can be placed on a pallet.
// Rules:
// - Direct-shipment boxes never ride on pallets
// - Box must be sealed
// - Box must not already sit on a different pallet (same pallet is idempotent)
// - Pallet must exist
func CanSetPallet(ctx SetPalletContext) GuardResult {
	if ctx.IsDirectShipment {
		return deny(errs.ErrConflict, "box %s is a direct-shipment box and cannot be palletized", ctx.BoxCode)
	}
	if ctx.Status != StatusSealed {
		return deny(errs.ErrConflict, "box %s must be sealed before it is palletized (current status: %s)", ctx.BoxCode, ctx.Status)
	}
	if ctx.CurrentPallet != "" && ctx.CurrentPallet != ctx.TargetPallet {
		return deny(errs.ErrConflict, "box %s is already on pallet %s", ctx.BoxCode, ctx.CurrentPallet)
	}
	if !ctx.PalletExists {
		return deny(errs.ErrNotFound, "pallet %s not found", ctx.TargetPallet)
	}
	return allow()
}

// CanSetShipment evaluates whether a box can be linked straight to a shipment.
// Rules:
// - Only direct-shipment boxes take the direct path
// - A direct box never carries a pallet code
// - Box must be sealed
// - Box must not already belong to a different shipment (same shipment is idempotent)
// - Shipment must exist
func CanSetShipment(ctx SetShipmentContext) GuardResult {
	if !ctx.IsDirectShipment {
		return deny(errs.ErrConflict, "box %s is not a direct-shipment box; ship it through a pallet", ctx.BoxCode)
	}
	if ctx.PalletCode != "" {
		return deny(errs.ErrConflict, "box %s is on pallet %s", ctx.BoxCode, ctx.PalletCode)
	}
	if ctx.Status != StatusSealed {
		return deny(errs.ErrConflict, "box %s must be sealed before it is shipped (current status: %s)", ctx.BoxCode, ctx.Status)
	}
	if ctx.CurrentShipment != "" && ctx.CurrentShipment != ctx.TargetShipment {
		return deny(errs.ErrConflict, "box %s is already in shipment %s", ctx.BoxCode, ctx.CurrentShipment)
	}
	if !ctx.ShipmentExists {
		return deny(errs.ErrNotFound, "shipment %s not found", ctx.TargetShipment)
	}
	return allow()
}

// CanChangeDirectShipment evaluates flipping is_direct_shipment.
// The flag may only change while the box is linked to nothing.
func CanChangeDirectShipment(ctx DirectShipmentChangeContext) GuardResult {
	if ctx.PalletCode != "" {
		return deny(errs.ErrConflict, "box %s is on pallet %s", ctx.BoxCode, ctx.PalletCode)
	}
	if ctx.ShipmentCode != "" {
		return deny(errs.ErrConflict, "box %s is in shipment %s", ctx.BoxCode, ctx.ShipmentCode)
	}
	return allow()
}

// CanDeleteBox evaluates whether a box can be deleted.
// Rules:
// - Box must not be on a pallet
// - Box must not be linked to a shipment
func CanDeleteBox(ctx DeleteBoxContext) GuardResult {
	if ctx.PalletCode != "" {
		return deny(errs.ErrConflict, "box %s is on pallet %s; remove it from the pallet first", ctx.BoxCode, ctx.PalletCode)
	}
	if ctx.ShipmentCode != "" {
		return deny(errs.ErrConflict, "box %s is in shipment %s; remove it from the shipment first", ctx.BoxCode, ctx.ShipmentCode)
	}
	return allow()
}
