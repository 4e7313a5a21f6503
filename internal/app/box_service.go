package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	corebox "github.com/example/packtrack/internal/core/box"
	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// BoxServiceImpl implements the BoxService interface.
type BoxServiceImpl struct {
	boxes       secondary.BoxStore
	lines       secondary.BoxLineStore
	departments secondary.DepartmentStore
	pallets     secondary.PalletStore
	shipments   secondary.ShipmentStore
	codes       *codegen.Generator
	clock       Clock
	activity    activityRecorder
}

// NewBoxService creates a new BoxService with injected dependencies.
func NewBoxService(backend secondary.Backend, codes *codegen.Generator, activity secondary.ActivityLog, clock Clock) *BoxServiceImpl {
	return &BoxServiceImpl{
		boxes:       backend.Boxes(),
		lines:       backend.BoxLines(),
		departments: backend.Departments(),
		pallets:     backend.Pallets(),
		shipments:   backend.Shipments(),
		codes:       codes,
		clock:       clock,
		activity:    activityRecorder{log: activity, clock: clock},
	}
}

// Create creates a draft box in a department.
func (s *BoxServiceImpl) Create(ctx context.Context, req primary.CreateBoxRequest) (*primary.Box, error) {
	actor, err := requireActor(ctx)
	if err != nil {
		return nil, err
	}

	departmentExists, err := s.departmentExists(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}
	guard := corebox.CanCreateBox(corebox.CreateBoxContext{
		Name:             req.Name,
		DepartmentID:     req.DepartmentID,
		DepartmentExists: departmentExists,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	code, err := s.codes.Allocate(ctx, codegen.KindBox, s.boxes.CodeExists)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	record := &secondary.BoxRecord{
		ID:               newID(),
		Code:             code,
		Name:             strings.TrimSpace(req.Name),
		DepartmentID:     req.DepartmentID,
		CreatedBy:        actor,
		Status:           corebox.StatusDraft,
		Revision:         corebox.InitialRevision,
		IsDirectShipment: req.IsDirectShipment,
		IsFragile:        req.IsFragile,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.boxes.Create(ctx, record); err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventCreate, "box", record.Code, record.Name, "")
	return toBox(record), nil
}

// AddLine appends a line to a draft box.
func (s *BoxServiceImpl) AddLine(ctx context.Context, req primary.AddLineRequest) (*primary.BoxLine, error) {
	box, err := s.boxes.GetByCode(ctx, req.BoxCode)
	if err != nil {
		return nil, err
	}

	guard := corebox.CanAddLine(corebox.AddLineContext{
		BoxCode:     box.Code,
		Status:      box.Status,
		ProductName: req.ProductName,
		Qty:         req.Qty,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	existing, err := s.lines.ListByBox(ctx, box.ID)
	if err != nil {
		return nil, err
	}

	record := &secondary.BoxLineRecord{
		ID:          newID(),
		BoxID:       box.ID,
		ProductName: strings.TrimSpace(req.ProductName),
		Qty:         req.Qty,
		Kind:        strings.TrimSpace(req.Kind),
		CreatedAt:   s.nextLineTime(existing),
	}
	if err := s.lines.Create(ctx, record); err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventLineAdd, "box", box.Code, box.Name, lineDetail(record.ProductName, record.Qty, record.Kind))
	return toBoxLine(record), nil
}

// nextLineTime keeps insertion order strict even when the clock does not advance.
func (s *BoxServiceImpl) nextLineTime(existing []*secondary.BoxLineRecord) time.Time {
	now := s.clock.now()
	if n := len(existing); n > 0 {
		if last := existing[n-1].CreatedAt; !now.After(last) {
			return last.Add(time.Nanosecond)
		}
	}
	return now
}

// DeleteLine removes a line from a draft box.
func (s *BoxServiceImpl) DeleteLine(ctx context.Context, lineID string) error {
	line, err := s.lines.GetByID(ctx, lineID)
	if err != nil {
		return err
	}

	box, err := s.boxes.GetByID(ctx, line.BoxID)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		// Orphaned line: nothing to guard.
		return s.lines.Delete(ctx, lineID)
	case err != nil:
		return err
	}

	guard := corebox.CanDeleteLine(corebox.LineEditContext{BoxCode: box.Code, Status: box.Status})
	if err := guard.Error(); err != nil {
		return err
	}
	if err := s.lines.Delete(ctx, lineID); err != nil {
		return err
	}

	s.activity.record(ctx, secondary.EventLineDelete, "box", box.Code, box.Name, lineDetail(line.ProductName, line.Qty, line.Kind))
	return nil
}

// ListLines returns a box's lines in insertion order.
func (s *BoxServiceImpl) ListLines(ctx context.Context, boxCode string) ([]*primary.BoxLine, error) {
	box, err := s.boxes.GetByCode(ctx, boxCode)
	if err != nil {
		return nil, err
	}
	return s.listLines(ctx, box.ID)
}

func (s *BoxServiceImpl) listLines(ctx context.Context, boxID string) ([]*primary.BoxLine, error) {
	records, err := s.lines.ListByBox(ctx, boxID)
	if err != nil {
		return nil, err
	}
	lines := make([]*primary.BoxLine, len(records))
	for i, r := range records {
		lines[i] = toBoxLine(r)
	}
	return lines, nil
}

// Update applies a partial update. Fields are checked against the box as it
// will be after the patch, so a single call may attach a photo and seal.
func (s *BoxServiceImpl) Update(ctx context.Context, code string, patch primary.BoxPatch) (*primary.Box, error) {
	box, err := s.boxes.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	var (
		p       secondary.BoxPatch
		changed changes
		sealed  bool
	)

	if patch.Name != nil {
		if err := corebox.CanRename(box.Code, *patch.Name).Error(); err != nil {
			return nil, err
		}
		name := strings.TrimSpace(*patch.Name)
		if name != box.Name {
			p.Name = &name
			changed.add("name")
		}
	}

	if patch.DepartmentID != nil && *patch.DepartmentID != box.DepartmentID {
		exists, err := s.departmentExists(ctx, *patch.DepartmentID)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, errs.NotFound("department", *patch.DepartmentID)
		}
		p.DepartmentID = patch.DepartmentID
		changed.add("department")
	}

	photo := box.PhotoURL
	if patch.PhotoURL != nil && strings.TrimSpace(*patch.PhotoURL) != box.PhotoURL {
		photo = strings.TrimSpace(*patch.PhotoURL)
		p.PhotoURL = &photo
		changed.add("photo")
	}
	if patch.PhotoURL2 != nil && strings.TrimSpace(*patch.PhotoURL2) != box.PhotoURL2 {
		photo2 := strings.TrimSpace(*patch.PhotoURL2)
		p.PhotoURL2 = &photo2
		changed.add("photo 2")
	}

	status := box.Status
	if patch.Status != nil {
		lineCount := 0
		if *patch.Status == corebox.StatusSealed && box.Status != corebox.StatusSealed {
			lines, err := s.lines.ListByBox(ctx, box.ID)
			if err != nil {
				return nil, err
			}
			lineCount = len(lines)
		}
		guard := corebox.CanChangeStatus(corebox.StatusChangeContext{
			BoxCode:   box.Code,
			Current:   box.Status,
			Target:    *patch.Status,
			LineCount: lineCount,
			PhotoURL:  photo,
		})
		if err := guard.Error(); err != nil {
			return nil, err
		}
		if *patch.Status != box.Status {
			status = *patch.Status
			p.Status = &status
			sealed = status == corebox.StatusSealed
		}
	}
	if p.PhotoURL != nil && photo == "" && status == corebox.StatusSealed {
		return nil, errs.Newf(errs.ErrValidation, "box %s is sealed and must keep its photo", box.Code)
	}

	direct := box.IsDirectShipment
	if patch.IsDirectShipment != nil && *patch.IsDirectShipment != box.IsDirectShipment {
		guard := corebox.CanChangeDirectShipment(corebox.DirectShipmentChangeContext{
			BoxCode:      box.Code,
			PalletCode:   box.PalletCode,
			ShipmentCode: box.ShipmentCode,
		})
		if err := guard.Error(); err != nil {
			return nil, err
		}
		direct = *patch.IsDirectShipment
		p.IsDirectShipment = &direct
		changed.add("direct shipment")
	}

	var linkEvent, linkDetail string
	if patch.ShipmentCode != nil && *patch.ShipmentCode != box.ShipmentCode {
		target := *patch.ShipmentCode
		if target != "" {
			exists, err := s.shipmentExists(ctx, target)
			if err != nil {
				return nil, err
			}
			guard := corebox.CanSetShipment(corebox.SetShipmentContext{
				BoxCode:          box.Code,
				Status:           status,
				IsDirectShipment: direct,
				PalletCode:       box.PalletCode,
				CurrentShipment:  box.ShipmentCode,
				TargetShipment:   target,
				ShipmentExists:   exists,
			})
			if err := guard.Error(); err != nil {
				return nil, err
			}
			linkEvent, linkDetail = secondary.EventLink, "shipment "+target
		} else {
			linkEvent, linkDetail = secondary.EventUnlink, "shipment "+box.ShipmentCode
		}
		p.ShipmentCode = &target
	}

	if patch.IsFragile != nil && *patch.IsFragile != box.IsFragile {
		p.IsFragile = patch.IsFragile
		changed.add("fragile")
	}

	if len(changed) == 0 && p.Status == nil && p.ShipmentCode == nil {
		return toBox(box), nil
	}

	updated, err := s.boxes.Update(ctx, box.ID, p)
	if err != nil {
		return nil, err
	}

	if len(changed) > 0 {
		s.activity.record(ctx, secondary.EventUpdate, "box", updated.Code, updated.Name, changed.String())
	}
	if sealed {
		s.activity.record(ctx, secondary.EventSeal, "box", updated.Code, updated.Name, "")
	}
	if linkEvent != "" {
		s.activity.record(ctx, linkEvent, "box", updated.Code, updated.Name, linkDetail)
	}
	return toBox(updated), nil
}

// SetPallet places a sealed, non-direct box on a pallet.
func (s *BoxServiceImpl) SetPallet(ctx context.Context, boxCode, palletCode string) (*primary.Box, error) {
	box, err := s.boxes.GetByCode(ctx, boxCode)
	if err != nil {
		return nil, err
	}
	palletExists, err := s.pallets.CodeExists(ctx, palletCode)
	if err != nil {
		return nil, err
	}

	guard := corebox.CanSetPallet(corebox.SetPalletContext{
		BoxCode:          box.Code,
		Status:           box.Status,
		IsDirectShipment: box.IsDirectShipment,
		CurrentPallet:    box.PalletCode,
		TargetPallet:     palletCode,
		PalletExists:     palletExists,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}
	if box.PalletCode == palletCode {
		return toBox(box), nil
	}

	updated, err := s.boxes.Update(ctx, box.ID, secondary.BoxPatch{PalletCode: &palletCode})
	if err != nil {
		return nil, err
	}
	s.activity.record(ctx, secondary.EventLink, "box", updated.Code, updated.Name, "pallet "+palletCode)
	return toBox(updated), nil
}

// ClearPallet takes a box off its pallet. Clearing an unlinked box is a no-op.
func (s *BoxServiceImpl) ClearPallet(ctx context.Context, boxCode string) (*primary.Box, error) {
	box, err := s.boxes.GetByCode(ctx, boxCode)
	if err != nil {
		return nil, err
	}
	if box.PalletCode == "" {
		return toBox(box), nil
	}

	updated, err := s.clearPallet(ctx, box)
	if err != nil {
		return nil, err
	}
	return toBox(updated), nil
}

func (s *BoxServiceImpl) clearPallet(ctx context.Context, box *secondary.BoxRecord) (*secondary.BoxRecord, error) {
	empty := ""
	updated, err := s.boxes.Update(ctx, box.ID, secondary.BoxPatch{PalletCode: &empty})
	if err != nil {
		return nil, err
	}
	s.activity.record(ctx, secondary.EventUnlink, "box", box.Code, box.Name, "pallet "+box.PalletCode)
	return updated, nil
}

// SetShipment links a sealed direct-shipment box straight to a shipment.
func (s *BoxServiceImpl) SetShipment(ctx context.Context, boxCode, shipmentCode string) (*primary.Box, error) {
	if shipmentCode == "" {
		return nil, errs.New(errs.ErrValidation, "shipment code must not be empty")
	}
	return s.Update(ctx, boxCode, primary.BoxPatch{ShipmentCode: &shipmentCode})
}

// ClearShipment unlinks a direct-shipment box from its shipment.
func (s *BoxServiceImpl) ClearShipment(ctx context.Context, boxCode string) (*primary.Box, error) {
	empty := ""
	return s.Update(ctx, boxCode, primary.BoxPatch{ShipmentCode: &empty})
}

// Delete removes an unlinked box and then its lines.
func (s *BoxServiceImpl) Delete(ctx context.Context, key string) error {
	box, err := s.resolve(ctx, key)
	if err != nil {
		return err
	}

	guard := corebox.CanDeleteBox(corebox.DeleteBoxContext{
		BoxCode:      box.Code,
		PalletCode:   box.PalletCode,
		ShipmentCode: box.ShipmentCode,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	if err := s.boxes.Delete(ctx, box.ID); err != nil {
		return err
	}
	if err := s.lines.DeleteByBox(ctx, box.ID); err != nil {
		return fmt.Errorf("box %s deleted but its lines were not: %w", box.Code, err)
	}

	s.activity.record(ctx, secondary.EventDelete, "box", box.Code, box.Name, "")
	return nil
}

// resolve accepts a box code or a box id.
func (s *BoxServiceImpl) resolve(ctx context.Context, key string) (*secondary.BoxRecord, error) {
	if codegen.IsValidCode(codegen.KindBox, key) {
		return s.boxes.GetByCode(ctx, key)
	}
	return s.boxes.GetByID(ctx, key)
}

// GetAll lists boxes, newest first.
func (s *BoxServiceImpl) GetAll(ctx context.Context, filters primary.BoxFilters) ([]*primary.Box, error) {
	records, err := s.boxes.List(ctx, secondary.BoxFilters{
		CreatedBy:    filters.CreatedBy,
		Status:       filters.Status,
		DepartmentID: filters.DepartmentID,
	})
	if err != nil {
		return nil, err
	}
	return toBoxes(records), nil
}

// GetByCode retrieves a box with its department and lines.
func (s *BoxServiceImpl) GetByCode(ctx context.Context, code string) (*primary.BoxDetail, error) {
	box, err := s.boxes.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	detail := &primary.BoxDetail{Box: *toBox(box)}

	department, err := s.departments.GetByID(ctx, box.DepartmentID)
	switch {
	case err == nil:
		detail.Department = toDepartment(department)
	case !errors.Is(err, errs.ErrNotFound):
		return nil, err
	}

	detail.Lines, err = s.listLines(ctx, box.ID)
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// GetAvailableForPallet lists sealed boxes that sit on no pallet, belong to
// no shipment and are not direct-shipment boxes.
func (s *BoxServiceImpl) GetAvailableForPallet(ctx context.Context, filters primary.AvailableBoxFilters) ([]*primary.Box, error) {
	direct := false
	records, err := s.boxes.List(ctx, secondary.BoxFilters{
		CreatedBy:    filters.CreatedBy,
		DepartmentID: filters.DepartmentID,
		Status:       corebox.StatusSealed,
		Unpalletized: true,
		Unshipped:    true,
		Direct:       &direct,
	})
	if err != nil {
		return nil, err
	}
	return toBoxes(records), nil
}

func (s *BoxServiceImpl) departmentExists(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	_, err := s.departments.GetByID(ctx, id)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errs.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *BoxServiceImpl) shipmentExists(ctx context.Context, code string) (bool, error) {
	return s.shipments.CodeExists(ctx, code)
}

var _ primary.BoxService = (*BoxServiceImpl)(nil)
