package box

import (
	"errors"
	"testing"

	"github.com/example/packtrack/internal/core/errs"
)

func checkGuard(t *testing.T, result GuardResult, wantAllowed bool, wantKind error, wantReason string) {
	t.Helper()
	if result.Allowed != wantAllowed {
		t.Fatalf("Allowed = %v, want %v (reason %q)", result.Allowed, wantAllowed, result.Reason)
	}
	if wantAllowed {
		if result.Error() != nil {
			t.Errorf("Error() = %v, want nil", result.Error())
		}
		return
	}
	if result.Kind != wantKind {
		t.Errorf("Kind = %v, want %v", result.Kind, wantKind)
	}
	if wantReason != "" && result.Reason != wantReason {
		t.Errorf("Reason = %q, want %q", result.Reason, wantReason)
	}
	if !errors.Is(result.Error(), wantKind) {
		t.Errorf("Error() does not wrap %v", wantKind)
	}
}

func TestCanCreateBox(t *testing.T) {
	tests := []struct {
		name        string
		ctx         CreateBoxContext
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{
			name:        "can create named box in existing department",
			ctx:         CreateBoxContext{Name: "Koli-1", DepartmentID: "dep-1", DepartmentExists: true},
			wantAllowed: true,
		},
		{
			name:        "blank name rejected",
			ctx:         CreateBoxContext{Name: "   ", DepartmentID: "dep-1", DepartmentExists: true},
			wantKind:    errs.ErrValidation,
			wantReason:  "box name must not be empty",
		},
		{
			name:       "unknown department rejected",
			ctx:        CreateBoxContext{Name: "Koli-1", DepartmentID: "dep-9"},
			wantKind:   errs.ErrNotFound,
			wantReason: "department dep-9 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanCreateBox(tt.ctx), tt.wantAllowed, tt.wantKind, tt.wantReason)
		})
	}
}

func TestCanAddLine(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AddLineContext
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{
			name:        "draft box accepts a line",
			ctx:         AddLineContext{BoxCode: "B-AAAA", Status: StatusDraft, ProductName: "Tabak", Qty: 4},
			wantAllowed: true,
		},
		{
			name:       "zero quantity rejected",
			ctx:        AddLineContext{BoxCode: "B-AAAA", Status: StatusDraft, ProductName: "Tabak", Qty: 0},
			wantKind:   errs.ErrValidation,
			wantReason: "quantity must be at least 1 (got 0)",
		},
		{
			name:       "empty product rejected",
			ctx:        AddLineContext{BoxCode: "B-AAAA", Status: StatusDraft, ProductName: "", Qty: 2},
			wantKind:   errs.ErrValidation,
			wantReason: "product name must not be empty",
		},
		{
			name:       "sealed box is frozen",
			ctx:        AddLineContext{BoxCode: "B-AAAA", Status: StatusSealed, ProductName: "Tabak", Qty: 1},
			wantKind:   errs.ErrConflict,
			wantReason: "box B-AAAA is sealed; lines can no longer change",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanAddLine(tt.ctx), tt.wantAllowed, tt.wantKind, tt.wantReason)
		})
	}
}

func TestCanDeleteLine(t *testing.T) {
	checkGuard(t, CanDeleteLine(LineEditContext{BoxCode: "B-AAAA", Status: StatusDraft}), true, nil, "")
	checkGuard(t, CanDeleteLine(LineEditContext{BoxCode: "B-AAAA", Status: StatusSealed}), false, errs.ErrConflict, "")
}

func TestCanChangeStatus(t *testing.T) {
	tests := []struct {
		name        string
		ctx         StatusChangeContext
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{
			name:        "seal with lines and photo",
			ctx:         StatusChangeContext{BoxCode: "B-AAAA", Current: StatusDraft, Target: StatusSealed, LineCount: 1, PhotoURL: "p.jpg"},
			wantAllowed: true,
		},
		{
			name:       "seal without photo",
			ctx:        StatusChangeContext{BoxCode: "B-AAAA", Current: StatusDraft, Target: StatusSealed, LineCount: 1},
			wantKind:   errs.ErrValidation,
			wantReason: "box B-AAAA cannot be sealed without a photo",
		},
		{
			name:       "seal without lines",
			ctx:        StatusChangeContext{BoxCode: "B-AAAA", Current: StatusDraft, Target: StatusSealed, PhotoURL: "p.jpg"},
			wantKind:   errs.ErrValidation,
			wantReason: "box B-AAAA cannot be sealed without lines",
		},
		{
			name:       "unseal is invalid",
			ctx:        StatusChangeContext{BoxCode: "B-AAAA", Current: StatusSealed, Target: StatusDraft, LineCount: 1, PhotoURL: "p.jpg"},
			wantKind:   errs.ErrInvalidTransition,
			wantReason: "box B-AAAA is sealed and cannot return to draft",
		},
		{
			name:        "resealing is a no-op",
			ctx:         StatusChangeContext{BoxCode: "B-AAAA", Current: StatusSealed, Target: StatusSealed},
			wantAllowed: true,
		},
		{
			name:        "draft to draft is a no-op",
			ctx:         StatusChangeContext{BoxCode: "B-AAAA", Current: StatusDraft, Target: StatusDraft},
			wantAllowed: true,
		},
		{
			name:       "unknown status",
			ctx:        StatusChangeContext{BoxCode: "B-AAAA", Current: StatusDraft, Target: "shipped"},
			wantKind:   errs.ErrValidation,
			wantReason: `unknown box status "shipped"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkGuard(t, CanChangeStatus(tt.ctx), tt.wantAllowed, tt.wantKind, tt.wantReason)
		})
	}
}

func TestCanSetPallet(t *testing.T) {
	base := SetPalletContext{BoxCode: "B-AAAA", Status: StatusSealed, TargetPallet: "P-AAAA", PalletExists: true}

	tests := []struct {
		name        string
		mutate      func(*SetPalletContext)
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{name: "sealed unlinked box", mutate: func(*SetPalletContext) {}, wantAllowed: true},
		{name: "same pallet again is idempotent", mutate: func(c *SetPalletContext) { c.CurrentPallet = "P-AAAA" }, wantAllowed: true},
		{
			name:       "direct-shipment box",
			mutate:     func(c *SetPalletContext) { c.IsDirectShipment = true },
			wantKind:   errs.ErrConflict,
			wantReason: "box B-AAAA is a direct-shipment box and cannot be palletized",
		},
		{
			name:       "draft box",
			mutate:     func(c *SetPalletContext) { c.Status = StatusDraft },
			wantKind:   errs.ErrConflict,
			wantReason: "box B-AAAA must be sealed before it is palletized (current status: draft)",
		},
		{
			name:       "already on another pallet",
			mutate:     func(c *SetPalletContext) { c.CurrentPallet = "P-BBBB" },
			wantKind:   errs.ErrConflict,
			wantReason: "box B-AAAA is already on pallet P-BBBB",
		},
		{
			name:       "missing pallet",
			mutate:     func(c *SetPalletContext) { c.PalletExists = false },
			wantKind:   errs.ErrNotFound,
			wantReason: "pallet P-AAAA not found",
		},
		{
			name:       "direct-shipment box and missing pallet",
			mutate:     func(c *SetPalletContext) { c.IsDirectShipment = true; c.PalletExists = false },
			wantKind:   errs.ErrConflict,
			wantReason: "box B-AAAA is a direct-shipment box and cannot be palletized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := base
			tt.mutate(&ctx)
			checkGuard(t, CanSetPallet(ctx), tt.wantAllowed, tt.wantKind, tt.wantReason)
		})
	}
}

func TestCanSetShipment(t *testing.T) {
	base := SetShipmentContext{BoxCode: "B-AAAA", Status: StatusSealed, IsDirectShipment: true, TargetShipment: "S-AAAA", ShipmentExists: true}

	tests := []struct {
		name        string
		mutate      func(*SetShipmentContext)
		wantAllowed bool
		wantKind    error
	}{
		{name: "sealed direct box", mutate: func(*SetShipmentContext) {}, wantAllowed: true},
		{name: "same shipment again", mutate: func(c *SetShipmentContext) { c.CurrentShipment = "S-AAAA" }, wantAllowed: true},
		{name: "not a direct box", mutate: func(c *SetShipmentContext) { c.IsDirectShipment = false }, wantKind: errs.ErrConflict},
		{name: "carries a pallet", mutate: func(c *SetShipmentContext) { c.PalletCode = "P-AAAA" }, wantKind: errs.ErrConflict},
		{name: "draft", mutate: func(c *SetShipmentContext) { c.Status = StatusDraft }, wantKind: errs.ErrConflict},
		{name: "other shipment", mutate: func(c *SetShipmentContext) { c.CurrentShipment = "S-BBBB" }, wantKind: errs.ErrConflict},
		{name: "missing shipment", mutate: func(c *SetShipmentContext) { c.ShipmentExists = false }, wantKind: errs.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := base
			tt.mutate(&ctx)
			checkGuard(t, CanSetShipment(ctx), tt.wantAllowed, tt.wantKind, "")
		})
	}
}

func TestCanChangeDirectShipment(t *testing.T) {
	checkGuard(t, CanChangeDirectShipment(DirectShipmentChangeContext{BoxCode: "B-AAAA"}), true, nil, "")
	checkGuard(t, CanChangeDirectShipment(DirectShipmentChangeContext{BoxCode: "B-AAAA", PalletCode: "P-AAAA"}), false, errs.ErrConflict, "box B-AAAA is on pallet P-AAAA")
	checkGuard(t, CanChangeDirectShipment(DirectShipmentChangeContext{BoxCode: "B-AAAA", ShipmentCode: "S-AAAA"}), false, errs.ErrConflict, "box B-AAAA is in shipment S-AAAA")
}

func TestCanDeleteBox(t *testing.T) {
	checkGuard(t, CanDeleteBox(DeleteBoxContext{BoxCode: "B-AAAA"}), true, nil, "")
	checkGuard(t, CanDeleteBox(DeleteBoxContext{BoxCode: "B-AAAA", PalletCode: "P-AAAA"}), false, errs.ErrConflict,
		"box B-AAAA is on pallet P-AAAA; remove it from the pallet first")
	checkGuard(t, CanDeleteBox(DeleteBoxContext{BoxCode: "B-AAAA", ShipmentCode: "S-AAAA"}), false, errs.ErrConflict,
		"box B-AAAA is in shipment S-AAAA; remove it from the shipment first")
}

func TestCanRename(t *testing.T) {
	checkGuard(t, CanRename("B-AAAA", "Koli-2"), true, nil, "")
	checkGuard(t, CanRename("B-AAAA", " "), false, errs.ErrValidation, "box B-AAAA: name must not be empty")
}
