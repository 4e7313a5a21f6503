package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/primary"
)

func TestPalletService_Create(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		p, err := h.pallets.Create(h.ctx, primary.CreatePalletRequest{Name: " P-1 ", IsFragile: true})
		require.NoError(t, err)
		assert.True(t, codegen.IsValidCode(codegen.KindPallet, p.Code), "code %q", p.Code)
		assert.Equal(t, "P-1", p.Name)
		assert.Equal(t, "ayse", p.CreatedBy)
		assert.True(t, p.IsFragile)
		assert.Empty(t, p.ShipmentCode)

		_, err = h.pallets.Create(h.ctx, primary.CreatePalletRequest{Name: ""})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = h.pallets.Create(context.Background(), primary.CreatePalletRequest{Name: "P-2"})
		assert.ErrorIs(t, err, errs.ErrValidation, "actor required")
	})
}

func TestPalletService_Update(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		p := h.pallet(t, "P-1")

		updated, err := h.pallets.Update(h.ctx, p.Code, primary.PalletPatch{
			Name:      ptr("P-1A"),
			PhotoURL:  ptr("https://img/p1.jpg"),
			IsFragile: ptr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "P-1A", updated.Name)
		assert.Equal(t, "https://img/p1.jpg", updated.PhotoURL)
		assert.True(t, updated.IsFragile)

		cleared, err := h.pallets.Update(h.ctx, p.Code, primary.PalletPatch{PhotoURL: ptr("")})
		require.NoError(t, err)
		assert.Empty(t, cleared.PhotoURL)

		_, err = h.pallets.Update(h.ctx, p.Code, primary.PalletPatch{Name: ptr(" ")})
		assert.ErrorIs(t, err, errs.ErrValidation)

		_, err = h.pallets.Update(h.ctx, "P-ZZZZ", primary.PalletPatch{Name: ptr("x")})
		assert.ErrorIs(t, err, errs.ErrNotFound)

		assert.Equal(t, []string{"create", "update", "update"}, h.activity.events(p.Code))
	})
}

// Two sealed boxes on P-1; removing one drops the live count to 1.
func TestPalletService_BoxCountIsLive(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		depo := h.department(t, "Depo")
		p1 := h.pallet(t, "P-1")
		a := h.sealedBox(t, "Koli-1", depo.ID, false)
		b := h.sealedBox(t, "Koli-2", depo.ID, false)
		for _, code := range []string{a.Code, b.Code} {
			_, err := h.boxes.SetPallet(h.ctx, code, p1.Code)
			require.NoError(t, err)
		}

		withBoxes, err := h.pallets.GetByCodeWithBoxes(h.ctx, p1.Code)
		require.NoError(t, err)
		assert.Equal(t, 2, withBoxes.BoxCount)
		assert.Len(t, withBoxes.Boxes, 2)

		_, err = h.boxes.ClearPallet(h.ctx, a.Code)
		require.NoError(t, err)

		all, err := h.pallets.GetAll(h.ctx, primary.PalletFilters{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, 1, all[0].BoxCount)

		withBoxes, err = h.pallets.GetByCodeWithBoxes(h.ctx, p1.Code)
		require.NoError(t, err)
		assert.Equal(t, 1, withBoxes.BoxCount)
		require.Len(t, withBoxes.Boxes, 1)
		assert.Equal(t, b.Code, withBoxes.Boxes[0].Code)
	})
}

func TestPalletService_DeleteDoesNotCascade(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		depo := h.department(t, "Depo")
		p := h.pallet(t, "P-1")
		b := h.sealedBox(t, "Koli-1", depo.ID, false)
		_, err := h.boxes.SetPallet(h.ctx, b.Code, p.Code)
		require.NoError(t, err)

		require.NoError(t, h.pallets.Delete(h.ctx, p.Code))

		_, err = h.pallets.GetByCodeWithBoxes(h.ctx, p.Code)
		assert.ErrorIs(t, err, errs.ErrNotFound)

		detail, err := h.boxes.GetByCode(h.ctx, b.Code)
		require.NoError(t, err)
		assert.Equal(t, p.Code, detail.PalletCode, "box keeps the dangling code")

		assert.ErrorIs(t, h.pallets.Delete(h.ctx, p.Code), errs.ErrNotFound)
	})
}

func TestPalletService_UnlinkAllBoxes(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		depo := h.department(t, "Depo")
		p := h.pallet(t, "P-1")
		var codes []string
		for _, name := range []string{"Koli-1", "Koli-2", "Koli-3"} {
			b := h.sealedBox(t, name, depo.ID, false)
			_, err := h.boxes.SetPallet(h.ctx, b.Code, p.Code)
			require.NoError(t, err)
			codes = append(codes, b.Code)
		}

		n, err := h.pallets.UnlinkAllBoxes(h.ctx, p.Code)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		for _, code := range codes {
			detail, err := h.boxes.GetByCode(h.ctx, code)
			require.NoError(t, err)
			assert.Empty(t, detail.PalletCode)
		}

		n, err = h.pallets.UnlinkAllBoxes(h.ctx, p.Code)
		require.NoError(t, err)
		assert.Zero(t, n)

		_, err = h.pallets.UnlinkAllBoxes(h.ctx, "P-ZZZZ")
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})
}

func TestPalletService_ShipmentLinks(t *testing.T) {
	forEachBackend(t, func(t *testing.T, h *harness) {
		p1 := h.pallet(t, "P-1")
		p2 := h.pallet(t, "P-2")
		s := h.shipment(t, "34 ABC 123")

		linked, err := h.pallets.SetShipment(h.ctx, p1.Code, s.Code)
		require.NoError(t, err)
		assert.Equal(t, s.Code, linked.ShipmentCode)

		_, err = h.pallets.SetShipment(h.ctx, p1.Code, s.Code)
		require.NoError(t, err, "same shipment is idempotent")

		_, err = h.pallets.SetShipment(h.ctx, p2.Code, "S-ZZZZ")
		assert.ErrorIs(t, err, errs.ErrNotFound)

		available, err := h.pallets.GetAvailableForShipment(h.ctx, "")
		require.NoError(t, err)
		require.Len(t, available, 1)
		assert.Equal(t, p2.Code, available[0].Code)

		mine, err := h.pallets.GetAvailableForShipment(h.ctx, "mehmet")
		require.NoError(t, err)
		assert.Empty(t, mine)

		cleared, err := h.pallets.ClearShipment(h.ctx, p1.Code)
		require.NoError(t, err)
		assert.Empty(t, cleared.ShipmentCode)

		available, err = h.pallets.GetAvailableForShipment(h.ctx, "ayse")
		require.NoError(t, err)
		assert.Len(t, available, 2)

		assert.Equal(t, []string{"create", "link", "unlink"}, h.activity.events(p1.Code))
	})
}
