package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/packtrack/internal/core/codegen"
	coreshipment "github.com/example/packtrack/internal/core/shipment"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// ShipmentServiceImpl implements the ShipmentService interface.
type ShipmentServiceImpl struct {
	shipments secondary.ShipmentStore
	pallets   secondary.PalletStore
	boxes     secondary.BoxStore
	codes     *codegen.Generator
	clock     Clock
	activity  activityRecorder
}

// NewShipmentService creates a new ShipmentService with injected dependencies.
func NewShipmentService(backend secondary.Backend, codes *codegen.Generator, activity secondary.ActivityLog, clock Clock) *ShipmentServiceImpl {
	return &ShipmentServiceImpl{
		shipments: backend.Shipments(),
		pallets:   backend.Pallets(),
		boxes:     backend.Boxes(),
		codes:     codes,
		clock:     clock,
		activity:  activityRecorder{log: activity, clock: clock},
	}
}

// Create creates an empty shipment.
func (s *ShipmentServiceImpl) Create(ctx context.Context, nameOrPlate string) (*primary.Shipment, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}
	if err := coreshipment.CanLabelShipment(nameOrPlate).Error(); err != nil {
		return nil, err
	}

	code, err := s.codes.Allocate(ctx, codegen.KindShipment, s.shipments.CodeExists)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	record := &secondary.ShipmentRecord{
		ID:          newID(),
		Code:        code,
		NameOrPlate: strings.TrimSpace(nameOrPlate),
		CreatedBy:   actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.shipments.Create(ctx, record); err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventCreate, "shipment", record.Code, record.NameOrPlate, "")
	return toShipment(record), nil
}

// Update applies a partial update.
func (s *ShipmentServiceImpl) Update(ctx context.Context, code string, patch primary.ShipmentPatch) (*primary.Shipment, error) {
	shipment, err := s.shipments.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var (
		p       secondary.ShipmentPatch
		changed changes
	)
	if patch.NameOrPlate != nil {
		if err := coreshipment.CanLabelShipment(*patch.NameOrPlate).Error(); err != nil {
			return nil, err
		}
		if label := strings.TrimSpace(*patch.NameOrPlate); label != shipment.NameOrPlate {
			p.NameOrPlate = &label
			changed.add("name")
		}
	}
	if patch.PhotoURL != nil && strings.TrimSpace(*patch.PhotoURL) != shipment.PhotoURL {
		photo := strings.TrimSpace(*patch.PhotoURL)
		p.PhotoURL = &photo
		changed.add("photo")
	}
	if patch.PhotoURL2 != nil && strings.TrimSpace(*patch.PhotoURL2) != shipment.PhotoURL2 {
		photo2 := strings.TrimSpace(*patch.PhotoURL2)
		p.PhotoURL2 = &photo2
		changed.add("photo 2")
	}

	if len(changed) == 0 {
		return toShipment(shipment), nil
	}
	updated, err := s.shipments.Update(ctx, shipment.ID, p)
	if err != nil {
		return nil, err
	}
	s.activity.record(ctx, secondary.EventUpdate, "shipment", updated.Code, updated.NameOrPlate, changed.String())
	return toShipment(updated), nil
}

// Delete removes a shipment. Pallets and direct boxes still carrying its code are left as they are.
func (s *ShipmentServiceImpl) Delete(ctx context.Context, code string) error {
	shipment, err := s.shipments.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	totals, err := s.totals(ctx, shipment.Code)
	if err != nil {
		return err
	}
	if err := s.shipments.Delete(ctx, shipment.ID); err != nil {
		return err
	}

	detail := ""
	if totals.PalletCount > 0 || totals.DirectBoxCount > 0 {
		detail = "members still reference it: " + coreshipment.DescribeTotals(totals)
	}
	s.activity.record(ctx, secondary.EventDelete, "shipment", shipment.Code, shipment.NameOrPlate, detail)
	return nil
}

// GetAll lists shipments with live totals.
func (s *ShipmentServiceImpl) GetAll(ctx context.Context) ([]*primary.ShipmentSummary, error) {
	records, err := s.shipments.List(ctx, secondary.ShipmentFilters{})
	if err != nil {
		return nil, err
	}

	summaries := make([]*primary.ShipmentSummary, len(records))
	for i, r := range records {
		totals, err := s.totals(ctx, r.Code)
		if err != nil {
			return nil, err
		}
		summaries[i] = summary(r, totals)
	}
	return summaries, nil
}

func (s *ShipmentServiceImpl) totals(ctx context.Context, code string) (coreshipment.Totals, error) {
	pallets, err := s.pallets.List(ctx, secondary.PalletFilters{ShipmentCode: code})
	if err != nil {
		return coreshipment.Totals{}, err
	}
	members := make([]coreshipment.MemberSummary, len(pallets))
	for i, p := range pallets {
		count, err := s.boxes.Count(ctx, secondary.BoxFilters{PalletCode: p.Code})
		if err != nil {
			return coreshipment.Totals{}, err
		}
		members[i] = coreshipment.MemberSummary{Code: p.Code, BoxCount: count}
	}
	direct, err := s.boxes.Count(ctx, secondary.BoxFilters{ShipmentCode: code})
	if err != nil {
		return coreshipment.Totals{}, err
	}
	return coreshipment.SummarizeMembers(members, direct), nil
}

func summary(r *secondary.ShipmentRecord, t coreshipment.Totals) *primary.ShipmentSummary {
	return &primary.ShipmentSummary{
		Shipment:       *toShipment(r),
		PalletCount:    t.PalletCount,
		BoxCount:       t.BoxCount,
		DirectBoxCount: t.DirectBoxCount,
	}
}

// GetWithPallets retrieves a shipment, its pallets with their boxes, and its direct boxes.
func (s *ShipmentServiceImpl) GetWithPallets(ctx context.Context, code string) (*primary.ShipmentDetail, error) {
	shipment, err := s.shipments.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	pallets, err := s.pallets.List(ctx, secondary.PalletFilters{ShipmentCode: shipment.Code})
	if err != nil {
		return nil, err
	}
	detail := &primary.ShipmentDetail{Pallets: make([]*primary.PalletWithBoxes, len(pallets))}
	members := make([]coreshipment.MemberSummary, len(pallets))
	for i, p := range pallets {
		withBoxes, err := palletWithBoxes(ctx, s.boxes, p)
		if err != nil {
			return nil, err
		}
		detail.Pallets[i] = withBoxes
		members[i] = coreshipment.MemberSummary{Code: p.Code, BoxCount: withBoxes.BoxCount}
	}

	direct, err := s.boxes.List(ctx, secondary.BoxFilters{ShipmentCode: shipment.Code})
	if err != nil {
		return nil, err
	}
	detail.DirectBoxes = toBoxes(direct)
	detail.ShipmentSummary = *summary(shipment, coreshipment.SummarizeMembers(members, len(direct)))
	return detail, nil
}

// UnlinkAllMembers clears shipment_code on member pallets and direct boxes.
// On failure the counts reached so far are returned with the error.
func (s *ShipmentServiceImpl) UnlinkAllMembers(ctx context.Context, code string) (*primary.UnlinkResult, error) {
	shipment, err := s.shipments.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	result := &primary.UnlinkResult{}

	pallets, err := s.pallets.List(ctx, secondary.PalletFilters{ShipmentCode: shipment.Code})
	if err != nil {
		return result, err
	}
	for _, p := range pallets {
		if _, err := unlinkPallet(ctx, s.pallets, s.activity, p); err != nil {
			return result, fmt.Errorf("failed to unlink pallet %s from shipment %s: %w", p.Code, shipment.Code, err)
		}
		result.Pallets++
	}

	boxes, err := s.boxes.List(ctx, secondary.BoxFilters{ShipmentCode: shipment.Code})
	if err != nil {
		return result, err
	}
	empty := ""
	for _, b := range boxes {
		if _, err := s.boxes.Update(ctx, b.ID, secondary.BoxPatch{ShipmentCode: &empty}); err != nil {
			return result, fmt.Errorf("failed to unlink box %s from shipment %s: %w", b.Code, shipment.Code, err)
		}
		s.activity.record(ctx, secondary.EventUnlink, "box", b.Code, b.Name, "shipment "+shipment.Code)
		result.DirectBoxes++
	}
	return result, nil
}

var _ primary.ShipmentService = (*ShipmentServiceImpl)(nil)
