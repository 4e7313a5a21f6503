package badgerdb

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/example/packtrack/internal/ports/secondary"
)

// DepartmentStore implements secondary.DepartmentStore.
type DepartmentStore struct {
	c   collection[secondary.DepartmentRecord]
	now func() time.Time
}

func newDepartmentStore(db *badger.DB, now func() time.Time) *DepartmentStore {
	return &DepartmentStore{
		c: collection[secondary.DepartmentRecord]{
			db:      db,
			prefix:  "departments",
			entity:  "department",
			id:      func(r *secondary.DepartmentRecord) string { return r.ID },
			created: func(r *secondary.DepartmentRecord) time.Time { return r.CreatedAt },
		},
		now: now,
	}
}

func (s *DepartmentStore) Create(ctx context.Context, d *secondary.DepartmentRecord) error {
	return s.c.create(ctx, d)
}

func (s *DepartmentStore) GetByID(ctx context.Context, id string) (*secondary.DepartmentRecord, error) {
	return s.c.getByID(ctx, id)
}

func (s *DepartmentStore) List(ctx context.Context) ([]*secondary.DepartmentRecord, error) {
	return s.c.list(ctx, nil)
}

func (s *DepartmentStore) Update(ctx context.Context, id string, patch secondary.DepartmentPatch) (*secondary.DepartmentRecord, error) {
	return s.c.modify(ctx, id, func(d *secondary.DepartmentRecord) {
		setText(&d.Name, patch.Name)
		d.UpdatedAt = s.now().UTC()
	})
}

func (s *DepartmentStore) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// BoxStore implements secondary.BoxStore.
type BoxStore struct {
	c   collection[secondary.BoxRecord]
	now func() time.Time
}

func newBoxStore(db *badger.DB, now func() time.Time) *BoxStore {
	return &BoxStore{
		c: collection[secondary.BoxRecord]{
			db:      db,
			prefix:  "boxes",
			entity:  "box",
			id:      func(r *secondary.BoxRecord) string { return r.ID },
			code:    func(r *secondary.BoxRecord) string { return r.Code },
			created: func(r *secondary.BoxRecord) time.Time { return r.CreatedAt },
		},
		now: now,
	}
}

func (s *BoxStore) Create(ctx context.Context, b *secondary.BoxRecord) error {
	return s.c.create(ctx, b)
}

func (s *BoxStore) GetByID(ctx context.Context, id string) (*secondary.BoxRecord, error) {
	return s.c.getByID(ctx, id)
}

func (s *BoxStore) GetByCode(ctx context.Context, code string) (*secondary.BoxRecord, error) {
	return s.c.getByCode(ctx, code)
}

func (s *BoxStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.c.codeExists(ctx, code)
}

func (s *BoxStore) List(ctx context.Context, filters secondary.BoxFilters) ([]*secondary.BoxRecord, error) {
	return s.c.list(ctx, boxMatcher(filters))
}

func (s *BoxStore) Count(ctx context.Context, filters secondary.BoxFilters) (int, error) {
	boxes, err := s.c.scan(ctx, boxMatcher(filters))
	if err != nil {
		return 0, err
	}
	return len(boxes), nil
}

func (s *BoxStore) Update(ctx context.Context, id string, patch secondary.BoxPatch) (*secondary.BoxRecord, error) {
	return s.c.modify(ctx, id, func(b *secondary.BoxRecord) {
		setText(&b.Name, patch.Name)
		setText(&b.DepartmentID, patch.DepartmentID)
		setText(&b.Status, patch.Status)
		setText(&b.PhotoURL, patch.PhotoURL)
		setText(&b.PhotoURL2, patch.PhotoURL2)
		setText(&b.PalletCode, patch.PalletCode)
		setText(&b.ShipmentCode, patch.ShipmentCode)
		setBool(&b.IsDirectShipment, patch.IsDirectShipment)
		setBool(&b.IsFragile, patch.IsFragile)
		b.UpdatedAt = s.now().UTC()
	})
}

func (s *BoxStore) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func boxMatcher(f secondary.BoxFilters) func(*secondary.BoxRecord) bool {
	return func(b *secondary.BoxRecord) bool {
		switch {
		case f.CreatedBy != "" && b.CreatedBy != f.CreatedBy,
			f.Status != "" && b.Status != f.Status,
			f.DepartmentID != "" && b.DepartmentID != f.DepartmentID,
			f.PalletCode != "" && b.PalletCode != f.PalletCode,
			f.ShipmentCode != "" && b.ShipmentCode != f.ShipmentCode,
			f.Unpalletized && b.PalletCode != "",
			f.Unshipped && b.ShipmentCode != "",
			f.Direct != nil && b.IsDirectShipment != *f.Direct:
			return false
		}
		return true
	}
}

// BoxLineStore implements secondary.BoxLineStore.
type BoxLineStore struct {
	c collection[secondary.BoxLineRecord]
}

func newBoxLineStore(db *badger.DB) *BoxLineStore {
	return &BoxLineStore{
		c: collection[secondary.BoxLineRecord]{
			db:      db,
			prefix:  "box_lines",
			entity:  "box line",
			id:      func(r *secondary.BoxLineRecord) string { return r.ID },
			created: func(r *secondary.BoxLineRecord) time.Time { return r.CreatedAt },
		},
	}
}

func (s *BoxLineStore) Create(ctx context.Context, l *secondary.BoxLineRecord) error {
	return s.c.create(ctx, l)
}

func (s *BoxLineStore) GetByID(ctx context.Context, id string) (*secondary.BoxLineRecord, error) {
	return s.c.getByID(ctx, id)
}

// ListByBox returns a box's lines oldest first.
func (s *BoxLineStore) ListByBox(ctx context.Context, boxID string) ([]*secondary.BoxLineRecord, error) {
	lines, err := s.c.scan(ctx, func(l *secondary.BoxLineRecord) bool { return l.BoxID == boxID })
	if err != nil {
		return nil, err
	}
	slices.SortFunc(lines, func(a, b *secondary.BoxLineRecord) int {
		if n := a.CreatedAt.Compare(b.CreatedAt); n != 0 {
			return n
		}
		return strings.Compare(a.ID, b.ID)
	})
	return lines, nil
}

func (s *BoxLineStore) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

func (s *BoxLineStore) DeleteByBox(ctx context.Context, boxID string) error {
	lines, err := s.c.scan(ctx, func(l *secondary.BoxLineRecord) bool { return l.BoxID == boxID })
	if err != nil {
		return err
	}
	return s.c.update(ctx, func(txn *badger.Txn) error {
		for _, l := range lines {
			if err := txn.Delete(s.c.recordKey(l.ID)); err != nil {
				return err
			}
		}
		return nil
	})
}

// PalletStore implements secondary.PalletStore.
type PalletStore struct {
	c   collection[secondary.PalletRecord]
	now func() time.Time
}

func newPalletStore(db *badger.DB, now func() time.Time) *PalletStore {
	return &PalletStore{
		c: collection[secondary.PalletRecord]{
			db:      db,
			prefix:  "pallets",
			entity:  "pallet",
			id:      func(r *secondary.PalletRecord) string { return r.ID },
			code:    func(r *secondary.PalletRecord) string { return r.Code },
			created: func(r *secondary.PalletRecord) time.Time { return r.CreatedAt },
		},
		now: now,
	}
}

func (s *PalletStore) Create(ctx context.Context, p *secondary.PalletRecord) error {
	return s.c.create(ctx, p)
}

func (s *PalletStore) GetByID(ctx context.Context, id string) (*secondary.PalletRecord, error) {
	return s.c.getByID(ctx, id)
}

func (s *PalletStore) GetByCode(ctx context.Context, code string) (*secondary.PalletRecord, error) {
	return s.c.getByCode(ctx, code)
}

func (s *PalletStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.c.codeExists(ctx, code)
}

func (s *PalletStore) List(ctx context.Context, f secondary.PalletFilters) ([]*secondary.PalletRecord, error) {
	return s.c.list(ctx, func(p *secondary.PalletRecord) bool {
		switch {
		case f.CreatedBy != "" && p.CreatedBy != f.CreatedBy,
			f.ShipmentCode != "" && p.ShipmentCode != f.ShipmentCode,
			f.Unshipped && p.ShipmentCode != "":
			return false
		}
		return true
	})
}

func (s *PalletStore) Update(ctx context.Context, id string, patch secondary.PalletPatch) (*secondary.PalletRecord, error) {
	return s.c.modify(ctx, id, func(p *secondary.PalletRecord) {
		setText(&p.Name, patch.Name)
		setText(&p.ShipmentCode, patch.ShipmentCode)
		setText(&p.PhotoURL, patch.PhotoURL)
		setText(&p.PhotoURL2, patch.PhotoURL2)
		setBool(&p.IsFragile, patch.IsFragile)
		p.UpdatedAt = s.now().UTC()
	})
}

func (s *PalletStore) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

// ShipmentStore implements secondary.ShipmentStore.
type ShipmentStore struct {
	c   collection[secondary.ShipmentRecord]
	now func() time.Time
}

func newShipmentStore(db *badger.DB, now func() time.Time) *ShipmentStore {
	return &ShipmentStore{
		c: collection[secondary.ShipmentRecord]{
			db:      db,
			prefix:  "shipments",
			entity:  "shipment",
			id:      func(r *secondary.ShipmentRecord) string { return r.ID },
			code:    func(r *secondary.ShipmentRecord) string { return r.Code },
			created: func(r *secondary.ShipmentRecord) time.Time { return r.CreatedAt },
		},
		now: now,
	}
}

func (s *ShipmentStore) Create(ctx context.Context, sh *secondary.ShipmentRecord) error {
	return s.c.create(ctx, sh)
}

func (s *ShipmentStore) GetByID(ctx context.Context, id string) (*secondary.ShipmentRecord, error) {
	return s.c.getByID(ctx, id)
}

func (s *ShipmentStore) GetByCode(ctx context.Context, code string) (*secondary.ShipmentRecord, error) {
	return s.c.getByCode(ctx, code)
}

func (s *ShipmentStore) CodeExists(ctx context.Context, code string) (bool, error) {
	return s.c.codeExists(ctx, code)
}

func (s *ShipmentStore) List(ctx context.Context, f secondary.ShipmentFilters) ([]*secondary.ShipmentRecord, error) {
	return s.c.list(ctx, func(sh *secondary.ShipmentRecord) bool {
		return f.CreatedBy == "" || sh.CreatedBy == f.CreatedBy
	})
}

func (s *ShipmentStore) Update(ctx context.Context, id string, patch secondary.ShipmentPatch) (*secondary.ShipmentRecord, error) {
	return s.c.modify(ctx, id, func(sh *secondary.ShipmentRecord) {
		setText(&sh.NameOrPlate, patch.NameOrPlate)
		setText(&sh.PhotoURL, patch.PhotoURL)
		setText(&sh.PhotoURL2, patch.PhotoURL2)
		sh.UpdatedAt = s.now().UTC()
	})
}

func (s *ShipmentStore) Delete(ctx context.Context, id string) error {
	return s.c.delete(ctx, id)
}

var (
	_ secondary.DepartmentStore = (*DepartmentStore)(nil)
	_ secondary.BoxStore        = (*BoxStore)(nil)
	_ secondary.BoxLineStore    = (*BoxLineStore)(nil)
	_ secondary.PalletStore     = (*PalletStore)(nil)
	_ secondary.ShipmentStore   = (*ShipmentStore)(nil)
)
