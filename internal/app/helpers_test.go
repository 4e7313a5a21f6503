package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/adapters/badgerdb"
	"github.com/example/packtrack/internal/adapters/sqlite"
	corebox "github.com/example/packtrack/internal/core/box"
	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/db"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// tickClock advances by step on every reading; a zero step freezes it.
type tickClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func newTickClock() *tickClock {
	return &tickClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), step: time.Second}
}

func (c *tickClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(c.step)
	return c.t
}

func (c *tickClock) freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = 0
}

// activityCapture records every entry it is given.
type activityCapture struct {
	mu      sync.Mutex
	entries []secondary.ActivityEntry
}

func (a *activityCapture) Log(_ context.Context, e secondary.ActivityEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *activityCapture) events(entityCode string) []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	var out []string
	for _, e := range a.entries {
		if e.EntityCode == entityCode {
			out = append(out, e.Event)
		}
	}
	return out
}

type harness struct {
	ctx         context.Context
	clock       *tickClock
	backend     secondary.Backend
	activity    *activityCapture
	departments *DepartmentServiceImpl
	boxes       *BoxServiceImpl
	pallets     *PalletServiceImpl
	shipments   *ShipmentServiceImpl
	packing     *PackingServiceImpl
}

type backendFactory func(t *testing.T, now func() time.Time) secondary.Backend

var backends = map[string]backendFactory{
	"remote": func(t *testing.T, now func() time.Time) secondary.Backend {
		conn, err := db.OpenForTesting()
		require.NoError(t, err)
		return sqlite.NewBackend(conn, now)
	},
	"local": func(t *testing.T, now func() time.Time) secondary.Backend {
		b, err := badgerdb.Open(badgerdb.Options{InMemory: true, Now: now})
		require.NoError(t, err)
		return b
	},
}

// forEachBackend runs fn once per backend with a fresh harness acting as "ayse".
func forEachBackend(t *testing.T, fn func(t *testing.T, h *harness)) {
	t.Helper()
	for name, factory := range backends {
		t.Run(name, func(t *testing.T) {
			clock := newTickClock()
			b := factory(t, clock.Now)
			t.Cleanup(func() { _ = b.Close() })
			fn(t, newHarness(b, clock, codegen.New(codegen.DefaultMaxAttempts)))
		})
	}
}

func newHarness(b secondary.Backend, clock *tickClock, codes *codegen.Generator) *harness {
	activity := &activityCapture{}
	boxes := NewBoxService(b, codes, activity, clock.Now)
	return &harness{
		ctx:         ctxutil.WithActor(context.Background(), "ayse"),
		clock:       clock,
		backend:     b,
		activity:    activity,
		departments: NewDepartmentService(b, activity, clock.Now),
		boxes:       boxes,
		pallets:     NewPalletService(b, codes, activity, clock.Now),
		shipments:   NewShipmentService(b, codes, activity, clock.Now),
		packing:     NewPackingService(boxes),
	}
}

func (h *harness) department(t *testing.T, name string) *primary.Department {
	t.Helper()
	d, err := h.departments.Create(h.ctx, name)
	require.NoError(t, err)
	return d
}

func (h *harness) draftBox(t *testing.T, name, departmentID string) *primary.Box {
	t.Helper()
	b, err := h.boxes.Create(h.ctx, primary.CreateBoxRequest{Name: name, DepartmentID: departmentID})
	require.NoError(t, err)
	return b
}

// sealedBox creates a box with one line and a photo, then seals it.
func (h *harness) sealedBox(t *testing.T, name, departmentID string, direct bool) *primary.Box {
	t.Helper()
	b, err := h.boxes.Create(h.ctx, primary.CreateBoxRequest{Name: name, DepartmentID: departmentID, IsDirectShipment: direct})
	require.NoError(t, err)
	_, err = h.boxes.AddLine(h.ctx, primary.AddLineRequest{BoxCode: b.Code, ProductName: "Tabak", Qty: 4, Kind: "Porselen"})
	require.NoError(t, err)
	photo, status := "https://img/"+b.Code+".jpg", corebox.StatusSealed
	sealed, err := h.boxes.Update(h.ctx, b.Code, primary.BoxPatch{PhotoURL: &photo, Status: &status})
	require.NoError(t, err)
	return sealed
}

func (h *harness) pallet(t *testing.T, name string) *primary.Pallet {
	t.Helper()
	p, err := h.pallets.Create(h.ctx, primary.CreatePalletRequest{Name: name})
	require.NoError(t, err)
	return p
}

func (h *harness) shipment(t *testing.T, label string) *primary.Shipment {
	t.Helper()
	s, err := h.shipments.Create(h.ctx, label)
	require.NoError(t, err)
	return s
}

func ptr[T any](v T) *T { return &v }
