// Package pallet contains the pure business rules for pallets.
package pallet

import (
	"fmt"
	"strings"

	"github.com/example/packtrack/internal/core/errs"
)

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

// SetShipmentContext provides context for shipment linkage guards.
type SetShipmentContext struct {
	PalletCode      string
	CurrentShipment string // empty if unlinked
	TargetShipment  string
	ShipmentExists  bool
}

// CanNamePallet evaluates a pallet name on create or rename.
func CanNamePallet(name string) GuardResult {
	if strings.TrimSpace(name) == "" {
		return GuardResult{Kind: errs.ErrValidation, Reason: "pallet name must not be empty"}
	}
	return GuardResult{Allowed: true}
}

// CanSetShipment evaluates whether a pallet can be loaded into a shipment.
// Rules:
// - A pallet belongs to at most one shipment; relinking to the same one is idempotent
// - Shipment must exist
func CanSetShipment(ctx SetShipmentContext) GuardResult {
	if ctx.CurrentShipment != "" && ctx.CurrentShipment != ctx.TargetShipment {
		return GuardResult{
			Kind:   errs.ErrConflict,
			Reason: fmt.Sprintf("pallet %s is already in shipment %s", ctx.PalletCode, ctx.CurrentShipment),
		}
	}
	if !ctx.ShipmentExists {
		return GuardResult{Kind: errs.ErrNotFound, Reason: fmt.Sprintf("shipment %s not found", ctx.TargetShipment)}
	}
	return GuardResult{Allowed: true}
}
