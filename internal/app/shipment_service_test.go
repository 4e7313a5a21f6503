package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/primary"
)

func TestShipmentService_CreateAndUpdate(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		s, err := h.shipments.Create(h.ctx, "34 ABC 123")
		require.NoError(t, err)
		assert.True(t, codegen.IsValidCode(codegen.KindShipment, s.Code), "code %q", s.Code)
		assert.Equal(t, "34 ABC 123", s.NameOrPlate)
		assert.Equal(t, "ayse", s.CreatedBy)

		_, err = h.shipments.Create(h.ctx, "  ")
		assert.ErrorIs(t, err, errs.ErrValidation)

		updated, err := h.shipments.Update(h.ctx, s.Code, primary.ShipmentPatch{
			NameOrPlate: ptr("06 XYZ 42"),
			PhotoURL2:   ptr("https://img/truck.jpg"),
		})
		require.NoError(t, err)
		assert.Equal(t, "06 XYZ 42", updated.NameOrPlate)
		assert.Equal(t, "https://img/truck.jpg", updated.PhotoURL2)

		_, err = h.shipments.Update(h.ctx, s.Code, primary.ShipmentPatch{NameOrPlate: ptr("")})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = h.shipments.Update(h.ctx, "S-ZZZZ", primary.ShipmentPatch{PhotoURL: ptr("x")})
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

// S-1 holds pallet P-2; P-2 cannot be moved to another shipment, even a missing one.
func TestShipmentService_PalletBelongsToOneShipment(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		s1 := h.shipment(t, "S-1")
		s2 := h.shipment(t, "S-2")
		p2 := h.pallet(t, "P-2")

		_, err := h.pallets.SetShipment(h.ctx, p2.Code, s1.Code)
		require.NoError(t, err)

		all, err := h.shipments.GetAll(h.ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		byCode := map[string]*primary.ShipmentSummary{}
		for _, s := range all {
			byCode[s.Code] = s
		}
		assert.Equal(t, 1, byCode[s1.Code].PalletCount)
		assert.Equal(t, 0, byCode[s2.Code].PalletCount)

		_, err = h.pallets.SetShipment(h.ctx, p2.Code, s2.Code)
		assert.ErrorIs(t, err, errs.ErrConflict)

		_, err = h.pallets.SetShipment(h.ctx, p2.Code, "S-9")
		assert.ErrorIs(t, err, errs.ErrConflict)

		withBoxes, err := h.pallets.GetByCodeWithBoxes(h.ctx, p2.Code)
		require.NoError(t, err)
		assert.Equal(t, s1.Code, withBoxes.ShipmentCode)
	})
}

func TestShipmentService_Totals(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		depo := h.department(t, "Depo")
		s := h.shipment(t, "34 ABC 123")
		p1 := h.pallet(t, "P-1")
		p2 := h.pallet(t, "P-2")
		for _, p := range []*primary.Pallet{p1, p2} {
			_, err := h.pallets.SetShipment(h.ctx, p.Code, s.Code)
			require.NoError(t, err)
		}
		for i, p := range []string{p1.Code, p1.Code, p2.Code} {
			b := h.sealedBox(t, "Koli-"+string(rune('1'+i)), depo.ID, false)
			_, err := h.boxes.SetPallet(h.ctx, b.Code, p)
			require.NoError(t, err)
		}
		direct := h.sealedBox(t, "Dolap", depo.ID, true)
		_, err := h.boxes.SetShipment(h.ctx, direct.Code, s.Code)
		require.NoError(t, err)

		all, err := h.shipments.GetAll(h.ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 2, all[0].PalletCount)
		assert.Equal(t, 3, all[0].BoxCount)
		assert.Equal(t, 1, all[0].DirectBoxCount)

		detail, err := h.shipments.GetWithPallets(h.ctx, s.Code)
		require.NoError(t, err)
		assert.Equal(t, s.Code, detail.Code)
		assert.Equal(t, 3, detail.BoxCount)
		require.Len(t, detail.Pallets, 2)
		counts := map[string]int{}
		for _, p := range detail.Pallets {
			counts[p.Code] = p.BoxCount
			assert.Len(t, p.Boxes, p.BoxCount)
		}
		assert.Equal(t, map[string]int{p1.Code: 2, p2.Code: 1}, counts)
		require.Len(t, detail.DirectBoxes, 1)
		assert.Equal(t, direct.Code, detail.DirectBoxes[0].Code)

		_, err = h.shipments.GetWithPallets(h.ctx, "S-ZZZZ")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestShipmentService_DeleteDoesNotCascade(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		s := h.shipment(t, "34 ABC 123")
		p := h.pallet(t, "P-1")
		_, err := h.pallets.SetShipment(h.ctx, p.Code, s.Code)
		require.NoError(t, err)

		require.NoError(t, h.shipments.Delete(h.ctx, s.Code))
		assert.ErrorIs(t, h.shipments.Delete(h.ctx, s.Code), errs.ErrNotFound)

		withBoxes, err := h.pallets.GetByCodeWithBoxes(h.ctx, p.Code)
		require.NoError(t, err)
		assert.Equal(t, s.Code, withBoxes.ShipmentCode, "pallet keeps the dangling code")

		h.activity.mu.Lock()
		last := h.activity.entries[len(h.activity.entries)-1]
		h.activity.mu.Unlock()
		assert.Equal(t, "delete", last.Event)
		assert.Contains(t, last.Detail, "1 pallet")
	})
}

func TestShipmentService_UnlinkAllMembers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		depo := h.department(t, "Depo")
		s := h.shipment(t, "34 ABC 123")
		p1 := h.pallet(t, "P-1")
		p2 := h.pallet(t, "P-2")
		for _, p := range []*primary.Pallet{p1, p2} {
			_, err := h.pallets.SetShipment(h.ctx, p.Code, s.Code)
			require.NoError(t, err)
		}
		direct := h.sealedBox(t, "Dolap", depo.ID, true)
		_, err := h.boxes.SetShipment(h.ctx, direct.Code, s.Code)
		require.NoError(t, err)

		result, err := h.shipments.UnlinkAllMembers(h.ctx, s.Code)
		require.NoError(t, err)
		assert.Equal(t, &primary.UnlinkResult{Pallets: 2, DirectBoxes: 1}, result)

		detail, err := h.shipments.GetWithPallets(h.ctx, s.Code)
		require.NoError(t, err)
		assert.Empty(t, detail.Pallets)
		assert.Empty(t, detail.DirectBoxes)
		assert.Zero(t, detail.PalletCount)

		boxDetail, err := h.boxes.GetByCode(h.ctx, direct.Code)
		require.NoError(t, err)
		assert.Empty(t, boxDetail.ShipmentCode)
	})
}
