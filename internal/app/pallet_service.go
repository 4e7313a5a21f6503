package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/packtrack/internal/core/codegen"
	corepallet "github.com/example/packtrack/internal/core/pallet"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// PalletServiceImpl implements the PalletService interface.
type PalletServiceImpl struct {
	pallets   secondary.PalletStore
	boxes     secondary.BoxStore
	shipments secondary.ShipmentStore
	codes     *codegen.Generator
	clock     Clock
	activity  activityRecorder
}

// NewPalletService creates a new PalletService with injected dependencies.
func NewPalletService(backend secondary.Backend, codes *codegen.Generator, activity secondary.ActivityLog, clock Clock) *PalletServiceImpl {
	return &PalletServiceImpl{
		pallets:   backend.Pallets(),
		boxes:     backend.Boxes(),
		shipments: backend.Shipments(),
		codes:     codes,
		clock:     clock,
		activity:  activityRecorder{log: activity, clock: clock},
	}
}

// Create creates an empty pallet.
func (s *PalletServiceImpl) Create(ctx context.Context, req primary.CreatePalletRequest) (*primary.Pallet, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := corepallet.CanNamePallet(req.Name).Error(); err != nil {
		return nil, err
	}

	code, err := s.codes.Allocate(ctx, codegen.KindPallet, s.pallets.CodeExists)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	record := &secondary.PalletRecord{
		ID:        newID(),
		Code:      code,
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: actor,
		IsFragile: req.IsFragile,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.pallets.Create(ctx, record); err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventCreate, "pallet", record.Code, record.Name, "")
	return toPallet(record), nil
}

// Update applies a partial update.
func (s *PalletServiceImpl) Update(ctx context.Context, code string, patch primary.PalletPatch) (*primary.Pallet, error) {
	pallet, err := s.pallets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var (
		p       secondary.PalletPatch
		changed changes
	)
	if patch.Name != nil {
		if err := corepallet.CanNamePallet(*patch.Name).Error(); err != nil {
			return nil, err
		}
		if name := strings.TrimSpace(*patch.Name); name != pallet.Name {
			p.Name = &name
			changed.add("name")
		}
	}
	if patch.PhotoURL != nil && strings.TrimSpace(*patch.PhotoURL) != pallet.PhotoURL {
		photo := strings.TrimSpace(*patch.PhotoURL)
		p.PhotoURL = &photo
		changed.add("photo")
	}
	if patch.PhotoURL2 != nil && strings.TrimSpace(*patch.PhotoURL2) != pallet.PhotoURL2 {
		photo2 := strings.TrimSpace(*patch.PhotoURL2)
		p.PhotoURL2 = &photo2
		changed.add("photo 2")
	}
	if patch.IsFragile != nil && *patch.IsFragile != pallet.IsFragile {
		p.IsFragile = patch.IsFragile
		changed.add("fragile")
	}

	if len(changed) == 0 {
		return toPallet(pallet), nil
	}
	updated, err := s.pallets.Update(ctx, pallet.ID, p)
	if err != nil {
		return nil, err
	}
	s.activity.record(ctx, secondary.EventUpdate, "pallet", updated.Code, updated.Name, changed.String())
	return toPallet(updated), nil
}

// Delete removes a pallet. Boxes still carrying its code are left as they are.
func (s *PalletServiceImpl) Delete(ctx context.Context, code string) error {
	pallet, err := s.pallets.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	remaining, err := s.boxes.Count(ctx, secondary.BoxFilters{PalletCode: pallet.Code})
	if err != nil {
		return err
	}
	if err := s.pallets.Delete(ctx, pallet.ID); err != nil {
		return err
	}

	detail := ""
	if remaining > 0 {
		detail = fmt.Sprintf("%d boxes still reference it", remaining)
	}
	s.activity.record(ctx, secondary.EventDelete, "pallet", pallet.Code, pallet.Name, detail)
	return nil
}

// SetShipment loads a pallet into a shipment. Repeating the same link is a no-op.
func (s *PalletServiceImpl) SetShipment(ctx context.Context, palletCode, shipmentCode string) (*primary.Pallet, error) {
	pallet, err := s.pallets.GetByCode(ctx, palletCode)
	if err != nil {
		return nil, err
	}
	shipmentExists, err := s.shipments.CodeExists(ctx, shipmentCode)
	if err != nil {
		return nil, err
	}

	guard := corepallet.CanSetShipment(corepallet.SetShipmentContext{
		PalletCode:      pallet.Code,
		CurrentShipment: pallet.ShipmentCode,
		TargetShipment:  shipmentCode,
		ShipmentExists:  shipmentExists,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	if pallet.ShipmentCode == shipmentCode {
		return toPallet(pallet), nil
	}

	updated, err := s.pallets.Update(ctx, pallet.ID, secondary.PalletPatch{ShipmentCode: &shipmentCode})
	if err != nil {
		return nil, err
	}
	s.activity.record(ctx, secondary.EventLink, "pallet", updated.Code, updated.Name, "shipment "+shipmentCode)
	return toPallet(updated), nil
}

// ClearShipment takes a pallet out of its shipment.
func (s *PalletServiceImpl) ClearShipment(ctx context.Context, palletCode string) (*primary.Pallet, error) {
	pallet, err := s.pallets.GetByCode(ctx, palletCode)
	if err != nil {
		return nil, err
	}
	if pallet.ShipmentCode == "" {
		return toPallet(pallet), nil
	}

	updated, err := unlinkPallet(ctx, s.pallets, s.activity, pallet)
	if err != nil {
		return nil, err
	}
	return toPallet(updated), nil
}

func unlinkPallet(ctx context.Context, pallets secondary.PalletStore, activity activityRecorder, pallet *secondary.PalletRecord) (*secondary.PalletRecord, error) {
	empty := ""
	updated, err := pallets.Update(ctx, pallet.ID, secondary.PalletPatch{ShipmentCode: &empty})
	if err != nil {
		return nil, err
	}
	activity.record(ctx, secondary.EventUnlink, "pallet", pallet.Code, pallet.Name, "shipment "+pallet.ShipmentCode)
	return updated, nil
}

// GetAll lists pallets with their live box counts.
func (s *PalletServiceImpl) GetAll(ctx context.Context, filters primary.PalletFilters) ([]*primary.PalletSummary, error) {
	records, err := s.pallets.List(ctx, secondary.PalletFilters{CreatedBy: filters.CreatedBy})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, records)
}

// GetAvailableForShipment lists pallets not yet in a shipment.
func (s *PalletServiceImpl) GetAvailableForShipment(ctx context.Context, createdBy string) ([]*primary.PalletSummary, error) {
	records, err := s.pallets.List(ctx, secondary.PalletFilters{CreatedBy: createdBy, Unshipped: true})
	if err != nil {
		return nil, err
	}
	return s.summarize(ctx, records)
}

// summarize counts boxes per pallet at read time; there is no stored counter to go stale.
func (s *PalletServiceImpl) summarize(ctx context.Context, records []*secondary.PalletRecord) ([]*primary.PalletSummary, error) {
	summaries := make([]*primary.PalletSummary, len(records))
	for i, r := range records {
		count, err := s.boxes.Count(ctx, secondary.BoxFilters{PalletCode: r.Code})
		if err != nil {
			return nil, err
		}
		summaries[i] = &primary.PalletSummary{Pallet: *toPallet(r), BoxCount: count}
	}
	return summaries, nil
}

// GetByCodeWithBoxes retrieves a pallet and its member boxes.
func (s *PalletServiceImpl) GetByCodeWithBoxes(ctx context.Context, code string) (*primary.PalletWithBoxes, error) {
	pallet, err := s.pallets.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	return palletWithBoxes(ctx, s.boxes, pallet)
}

func palletWithBoxes(ctx context.Context, boxes secondary.BoxStore, pallet *secondary.PalletRecord) (*primary.PalletWithBoxes, error) {
	members, err := boxes.List(ctx, secondary.BoxFilters{PalletCode: pallet.Code})
	if err != nil {
		return nil, err
	}
	return &primary.PalletWithBoxes{
		Pallet:   *toPallet(pallet),
		Boxes:    toBoxes(members),
		BoxCount: len(members),
	}, nil
}

// UnlinkAllBoxes clears pallet_code on every member box. On failure the
// count of boxes already unlinked is returned with the error.
func (s *PalletServiceImpl) UnlinkAllBoxes(ctx context.Context, code string) (int, error) {
	pallet, err := s.pallets.GetByCode(ctx, code)
	if err != nil {
		return 0, err
	}
	members, err := s.boxes.List(ctx, secondary.BoxFilters{PalletCode: pallet.Code})
	if err != nil {
		return 0, err
	}

	empty := ""
	for i, box := range members {
		if _, err := s.boxes.Update(ctx, box.ID, secondary.BoxPatch{PalletCode: &empty}); err != nil {
			return i, fmt.Errorf("failed to unlink box %s from pallet %s: %w", box.Code, pallet.Code, err)
		}
		s.activity.record(ctx, secondary.EventUnlink, "box", box.Code, box.Name, "pallet "+pallet.Code)
	}
	return len(members), nil
}

var _ primary.PalletService = (*PalletServiceImpl)(nil)
