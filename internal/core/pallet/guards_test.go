package pallet

import (
	"errors"
	"testing"

	"github.com/example/packtrack/internal/core/errs"
)

func TestCanNamePallet(t *testing.T) {
	if r := CanNamePallet("P-1"); !r.Allowed {
		t.Errorf("expected named pallet to be allowed, got %q", r.Reason)
	}
	r := CanNamePallet("\t")
	if r.Allowed || !errors.Is(r.Error(), errs.ErrValidation) {
		t.Errorf("blank name: Allowed=%v err=%v", r.Allowed, r.Error())
	}
}

func TestCanSetShipment(t *testing.T) {
	tests := []struct {
		name        string
		ctx         SetShipmentContext
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{
			name:        "unlinked pallet",
			ctx:         SetShipmentContext{PalletCode: "P-AAAA", TargetShipment: "S-AAAA", ShipmentExists: true},
			wantAllowed: true,
		},
		{
			name:        "relink to same shipment",
			ctx:         SetShipmentContext{PalletCode: "P-AAAA", CurrentShipment: "S-AAAA", TargetShipment: "S-AAAA", ShipmentExists: true},
			wantAllowed: true,
		},
		{
			name:       "already in a different shipment",
			ctx:        SetShipmentContext{PalletCode: "P-AAAA", CurrentShipment: "S-AAAA", TargetShipment: "S-9999", ShipmentExists: true},
			wantKind:   errs.ErrConflict,
			wantReason: "pallet P-AAAA is already in shipment S-AAAA",
		},
		{
			name:       "already linked and target missing",
			ctx:        SetShipmentContext{PalletCode: "P-AAAA", CurrentShipment: "S-AAAA", TargetShipment: "S-9"},
			wantKind:   errs.ErrConflict,
			wantReason: "pallet P-AAAA is already in shipment S-AAAA",
		},
		{
			name:       "missing shipment",
			ctx:        SetShipmentContext{PalletCode: "P-AAAA", TargetShipment: "S-9999"},
			wantKind:   errs.ErrNotFound,
			wantReason: "shipment S-9999 not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanSetShipment(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if tt.wantAllowed {
				return
			}
			if result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if !errors.Is(result.Error(), tt.wantKind) {
				t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
			}
		})
	}
}
