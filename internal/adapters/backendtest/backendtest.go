// Package backendtest holds the behavioural suite every secondary.Backend
// implementation must pass. Adapter packages call Run from their own tests.
package backendtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/secondary"
)

// Factory builds an empty backend whose patches are stamped with now.
type Factory func(t *testing.T, now func() time.Time) secondary.Backend

// Epoch is the base timestamp for records created by the suite.
var Epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// Run executes the suite against backends built by newBackend.
func Run(t *testing.T, newBackend Factory) {
	t.Helper()

	tests := []struct {
		name string
		fn   func(t *testing.T, b secondary.Backend, clock *Clock)
	}{
		{"Departments", testDepartments},
		{"MissingKeys", testMissingKeys},
		{"BoxCodes", testBoxCodes},
		{"BoxOrdering", testBoxOrdering},
		{"BoxFilters", testBoxFilters},
		{"BoxPatch", testBoxPatch},
		{"BoxLines", testBoxLines},
		{"Pallets", testPallets},
		{"Shipments", testShipments},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := &Clock{T: Epoch.Add(24 * time.Hour)}
			b := newBackend(t, clock.Now)
			t.Cleanup(func() { _ = b.Close() })
			tt.fn(t, b, clock)
		})
	}
}

// Clock is a settable time source.
type Clock struct {
	T time.Time
}

// Now returns the current setting.
func (c *Clock) Now() time.Time { return c.T }

func at(minutes int) time.Time {
	return Epoch.Add(time.Duration(minutes) * time.Minute)
}

func ptr[T any](v T) *T { return &v }

func box(id, code string, minute int) *secondary.BoxRecord {
	return &secondary.BoxRecord{
		ID:           id,
		Code:         code,
		Name:         "box " + code,
		DepartmentID: "dep-1",
		CreatedBy:    "ayse",
		Status:       "draft",
		Revision:     1,
		CreatedAt:    at(minute),
		UpdatedAt:    at(minute),
	}
}

func boxCodes(boxes []*secondary.BoxRecord) []string {
	codes := make([]string, len(boxes))
	for i, b := range boxes {
		codes[i] = b.Code
	}
	return codes
}

func testDepartments(t *testing.T, b secondary.Backend, clock *Clock) {
	ctx := context.Background()
	store := b.Departments()

	require.NoError(t, store.Create(ctx, &secondary.DepartmentRecord{ID: "dep-1", Name: "Depo", CreatedAt: at(0), UpdatedAt: at(0)}))
	require.NoError(t, store.Create(ctx, &secondary.DepartmentRecord{ID: "dep-2", Name: "Mutfak", CreatedAt: at(1), UpdatedAt: at(1)}))

	got, err := store.GetByID(ctx, "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "Depo", got.Name)
	assert.True(t, got.CreatedAt.Equal(at(0)))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dep-2", all[0].ID, "newest first")

	updated, err := store.Update(ctx, "dep-1", secondary.DepartmentPatch{Name: ptr("Ana Depo")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Depo", updated.Name)
	assert.True(t, updated.UpdatedAt.Equal(clock.T))
	assert.True(t, updated.CreatedAt.Equal(at(0)))

	require.NoError(t, store.Delete(ctx, "dep-1"))
	_, err = store.GetByID(ctx, "dep-1")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	err = store.Create(ctx, &secondary.DepartmentRecord{ID: "dep-2", Name: "again", CreatedAt: at(2), UpdatedAt: at(2)})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func testMissingKeys(t *testing.T, b secondary.Backend, _ *Clock) {
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["department get"] = b.Departments().GetByID(ctx, "nope")
	_, checks["department update"] = b.Departments().Update(ctx, "nope", secondary.DepartmentPatch{Name: ptr("x")})
	checks["department delete"] = b.Departments().Delete(ctx, "nope")
	_, checks["box get"] = b.Boxes().GetByID(ctx, "nope")
	_, checks["box by code"] = b.Boxes().GetByCode(ctx, "B-ZZZZ")
	_, checks["box update"] = b.Boxes().Update(ctx, "nope", secondary.BoxPatch{Name: ptr("x")})
	checks["box delete"] = b.Boxes().Delete(ctx, "nope")
	_, checks["line get"] = b.BoxLines().GetByID(ctx, "nope")
	checks["line delete"] = b.BoxLines().Delete(ctx, "nope")
	_, checks["pallet get"] = b.Pallets().GetByID(ctx, "nope")
	_, checks["pallet by code"] = b.Pallets().GetByCode(ctx, "P-ZZZZ")
	_, checks["pallet update"] = b.Pallets().Update(ctx, "nope", secondary.PalletPatch{Name: ptr("x")})
	checks["pallet delete"] = b.Pallets().Delete(ctx, "nope")
	_, checks["shipment get"] = b.Shipments().GetByID(ctx, "nope")
	_, checks["shipment by code"] = b.Shipments().GetByCode(ctx, "S-ZZZZ")
	_, checks["shipment update"] = b.Shipments().Update(ctx, "nope", secondary.ShipmentPatch{NameOrPlate: ptr("x")})
	checks["shipment delete"] = b.Shipments().Delete(ctx, "nope")

	for name, err := range checks {
		assert.ErrorIs(t, err, errs.ErrNotFound, name)
	}

	assert.NoError(t, b.BoxLines().DeleteByBox(ctx, "nope"))
	lines, err := b.BoxLines().ListByBox(ctx, "nope")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func testBoxCodes(t *testing.T, b secondary.Backend, _ *Clock) {
	ctx := context.Background()
	store := b.Boxes()

	require.NoError(t, store.Create(ctx, box("box-1", "B-AAAA", 0)))

	exists, err := store.CodeExists(ctx, "B-AAAA")
	require.NoError(t, err)
	assert.True(t, exists)

	byCode, err := store.GetByCode(ctx, "B-AAAA")
	require.NoError(t, err)
	assert.Equal(t, "box-1", byCode.ID)

	err = store.Create(ctx, box("box-2", "B-AAAA", 1))
	assert.ErrorIs(t, err, errs.ErrConflict, "duplicate code")

	require.NoError(t, store.Delete(ctx, "box-1"))
	exists, err = store.CodeExists(ctx, "B-AAAA")
	require.NoError(t, err)
	assert.False(t, exists, "code is released on delete")

	require.NoError(t, store.Create(ctx, box("box-2", "B-AAAA", 1)))
}

func testBoxOrdering(t *testing.T, b secondary.Backend, _ *Clock) {
	ctx := context.Background()
	store := b.Boxes()

	require.NoError(t, store.Create(ctx, box("c", "B-CCCC", 5)))
	require.NoError(t, store.Create(ctx, box("a", "B-AAAA", 5)))
	require.NoError(t, store.Create(ctx, box("z", "B-ZZZZ", 9)))
	require.NoError(t, store.Create(ctx, box("m", "B-MMMM", 1)))

	all, err := store.List(ctx, secondary.BoxFilters{})
	require.NoError(t, err)
	assert.Equal(t, []string{"B-ZZZZ", "B-AAAA", "B-CCCC", "B-MMMM"}, boxCodes(all))
}

func testBoxFilters(t *testing.T, b secondary.Backend, _ *Clock) {
	ctx := context.Background()
	store := b.Boxes()

	onPallet := box("b1", "B-PAL1", 1)
	onPallet.Status = "sealed"
	onPallet.PalletCode = "P-AAAA"

	loose := box("b2", "B-LOOS", 2)
	loose.CreatedBy = "mehmet"
	loose.DepartmentID = "dep-2"

	direct := box("b3", "B-DIRC", 3)
	direct.Status = "sealed"
	direct.IsDirectShipment = true
	direct.ShipmentCode = "S-AAAA"

	for _, rec := range []*secondary.BoxRecord{onPallet, loose, direct} {
		require.NoError(t, store.Create(ctx, rec))
	}

	tests := []struct {
		name    string
		filters secondary.BoxFilters
		want    []string
	}{
		{"all", secondary.BoxFilters{}, []string{"B-DIRC", "B-LOOS", "B-PAL1"}},
		{"created by", secondary.BoxFilters{CreatedBy: "mehmet"}, []string{"B-LOOS"}},
		{"status", secondary.BoxFilters{Status: "sealed"}, []string{"B-DIRC", "B-PAL1"}},
		{"department", secondary.BoxFilters{DepartmentID: "dep-2"}, []string{"B-LOOS"}},
		{"pallet", secondary.BoxFilters{PalletCode: "P-AAAA"}, []string{"B-PAL1"}},
		{"shipment", secondary.BoxFilters{ShipmentCode: "S-AAAA"}, []string{"B-DIRC"}},
		{"unpalletized", secondary.BoxFilters{Unpalletized: true}, []string{"B-DIRC", "B-LOOS"}},
		{"unshipped", secondary.BoxFilters{Unshipped: true}, []string{"B-LOOS", "B-PAL1"}},
		{"direct", secondary.BoxFilters{Direct: ptr(true)}, []string{"B-DIRC"}},
		{"not direct", secondary.BoxFilters{Direct: ptr(false), Unpalletized: true}, []string{"B-LOOS"}},
		{"no match", secondary.BoxFilters{PalletCode: "P-ZZZZ"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, boxCodes(got))

			n, err := store.Count(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
		})
	}
}

func testBoxPatch(t *testing.T, b secondary.Backend, clock *Clock) {
	ctx := context.Background()
	store := b.Boxes()

	rec := box("b1", "B-AAAA", 0)
	rec.PhotoURL = "https://img/1.jpg"
	require.NoError(t, store.Create(ctx, rec))

	got, err := store.Update(ctx, "b1", secondary.BoxPatch{
		Status:     ptr("sealed"),
		PalletCode: ptr("P-AAAA"),
		IsFragile:  ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "sealed", got.Status)
	assert.Equal(t, "P-AAAA", got.PalletCode)
	assert.True(t, got.IsFragile)
	assert.Equal(t, "box B-AAAA", got.Name, "untouched fields survive")
	assert.Equal(t, "https://img/1.jpg", got.PhotoURL)
	assert.Equal(t, 1, got.Revision)
	assert.True(t, got.UpdatedAt.Equal(clock.T))

	clock.T = clock.T.Add(time.Minute)
	got, err = store.Update(ctx, "b1", secondary.BoxPatch{PalletCode: ptr(""), PhotoURL: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, got.PalletCode, "empty string clears")
	assert.Empty(t, got.PhotoURL)
	assert.True(t, got.UpdatedAt.Equal(clock.T))

	reread, err := store.GetByID(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, got.Status, reread.Status)
	assert.Empty(t, reread.PalletCode)

	unpalletized, err := store.Count(ctx, secondary.BoxFilters{Unpalletized: true})
	require.NoError(t, err)
	assert.Equal(t, 1, unpalletized, "cleared pallet reads as null")
}

func testBoxLines(t *testing.T, b secondary.Backend, _ *Clock) {
	ctx := context.Background()
	store := b.BoxLines()

	for i, name := range []string{"Tabak", "Porselen", "Bardak"} {
		require.NoError(t, store.Create(ctx, &secondary.BoxLineRecord{
			ID:          fmt.Sprintf("line-%d", 3-i),
			BoxID:       "b1",
			ProductName: name,
			Qty:         i + 1,
			CreatedAt:   at(i),
		}))
	}
	require.NoError(t, store.Create(ctx, &secondary.BoxLineRecord{ID: "other", BoxID: "b2", ProductName: "Kase", Qty: 1, CreatedAt: at(0)}))

	lines, err := store.ListByBox(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, lines, 3)
	assert.Equal(t, "Tabak", lines[0].ProductName, "oldest first")
	assert.Equal(t, "Bardak", lines[2].ProductName)
	assert.Equal(t, 3, lines[2].Qty)

	require.NoError(t, store.Delete(ctx, lines[1].ID))
	lines, err = store.ListByBox(ctx, "b1")
	require.NoError(t, err)
	assert.Len(t, lines, 2)

	require.NoError(t, store.DeleteByBox(ctx, "b1"))
	lines, err = store.ListByBox(ctx, "b1")
	require.NoError(t, err)
	assert.Empty(t, lines)

	other, err := store.ListByBox(ctx, "b2")
	require.NoError(t, err)
	assert.Len(t, other, 1, "other boxes untouched")
}

func testPallets(t *testing.T, b secondary.Backend, clock *Clock) {
	ctx := context.Background()
	store := b.Pallets()

	require.NoError(t, store.Create(ctx, &secondary.PalletRecord{ID: "p1", Code: "P-AAAA", Name: "P-1", CreatedBy: "ayse", CreatedAt: at(0), UpdatedAt: at(0)}))
	require.NoError(t, store.Create(ctx, &secondary.PalletRecord{ID: "p2", Code: "P-BBBB", Name: "P-2", CreatedBy: "ayse", ShipmentCode: "S-AAAA", CreatedAt: at(1), UpdatedAt: at(1)}))

	err := store.Create(ctx, &secondary.PalletRecord{ID: "p3", Code: "P-AAAA", Name: "dup", CreatedAt: at(2), UpdatedAt: at(2)})
	assert.ErrorIs(t, err, errs.ErrConflict)

	all, err := store.List(ctx, secondary.PalletFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "P-BBBB", all[0].Code)

	inShipment, err := store.List(ctx, secondary.PalletFilters{ShipmentCode: "S-AAAA"})
	require.NoError(t, err)
	require.Len(t, inShipment, 1)
	assert.Equal(t, "p2", inShipment[0].ID)

	unshipped, err := store.List(ctx, secondary.PalletFilters{Unshipped: true})
	require.NoError(t, err)
	require.Len(t, unshipped, 1)
	assert.Equal(t, "p1", unshipped[0].ID)

	got, err := store.Update(ctx, "p2", secondary.PalletPatch{ShipmentCode: ptr(""), IsFragile: ptr(true)})
	require.NoError(t, err)
	assert.Empty(t, got.ShipmentCode)
	assert.True(t, got.IsFragile)
	assert.True(t, got.UpdatedAt.Equal(clock.T))

	byCode, err := store.GetByCode(ctx, "P-BBBB")
	require.NoError(t, err)
	assert.Empty(t, byCode.ShipmentCode)

	require.NoError(t, store.Delete(ctx, "p1"))
	exists, err := store.CodeExists(ctx, "P-AAAA")
	require.NoError(t, err)
	assert.False(t, exists)
}

func testShipments(t *testing.T, b secondary.Backend, clock *Clock) {
	ctx := context.Background()
	store := b.Shipments()

	require.NoError(t, store.Create(ctx, &secondary.ShipmentRecord{ID: "s1", Code: "S-AAAA", NameOrPlate: "34 ABC 123", CreatedBy: "ayse", CreatedAt: at(0), UpdatedAt: at(0)}))
	require.NoError(t, store.Create(ctx, &secondary.ShipmentRecord{ID: "s2", Code: "S-BBBB", NameOrPlate: "Ankara", CreatedBy: "mehmet", CreatedAt: at(1), UpdatedAt: at(1)}))

	all, err := store.List(ctx, secondary.ShipmentFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "S-BBBB", all[0].Code)

	mine, err := store.List(ctx, secondary.ShipmentFilters{CreatedBy: "ayse"})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "s1", mine[0].ID)

	got, err := store.Update(ctx, "s1", secondary.ShipmentPatch{PhotoURL: ptr("https://img/truck.jpg")})
	require.NoError(t, err)
	assert.Equal(t, "https://img/truck.jpg", got.PhotoURL)
	assert.Equal(t, "34 ABC 123", got.NameOrPlate)
	assert.True(t, got.UpdatedAt.Equal(clock.T))

	exists, err := store.CodeExists(ctx, "S-BBBB")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "s2"))
	_, err = store.GetByCode(ctx, "S-BBBB")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
