package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/example/packtrack/internal/core/codegen"
	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// Clock supplies timestamps. Records are stamped client-side so both
// backends order them identically.
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

var newID = codegen.NewID

// requireActor returns the acting user carried by ctx.
func requireActor(ctx context.Context) (string, error) {
	actor := ctxutil.Actor(ctx)
	if actor == "" {
		return "", errs.New(errs.ErrValidation, "no acting user on the request")
	}
	return actor, nil
}

// activityRecorder stamps and forwards activity entries.
type activityRecorder struct {
	log   secondary.ActivityLog
	clock Clock
}

func (r activityRecorder) record(ctx context.Context, event, entityType, code, name, detail string) {
	if r.log == nil {
		return
	}
	r.log.Log(ctx, secondary.ActivityEntry{
		Actor:      ctxutil.Actor(ctx),
		Event:      event,
		EntityType: entityType,
		EntityCode: code,
		EntityName: name,
		Detail:     detail,
		At:         r.clock.now(),
	})
}

// changes collects the field names an update touched, for activity detail.
type changes []string

func (c *changes) add(field string) { *c = append(*c, field) }

func (c changes) String() string { return strings.Join(c, ", ") }

func lineDetail(productName string, qty int, kind string) string {
	if kind == "" {
		return fmt.Sprintf("%s x%d", productName, qty)
	}
	return fmt.Sprintf("%s x%d (%s)", productName, qty, kind)
}

// Record to boundary conversions.

func toDepartment(r *secondary.DepartmentRecord) *primary.Department {
	return &primary.Department{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toBox(r *secondary.BoxRecord) *primary.Box {
	return &primary.Box{
		ID:               r.ID,
		Code:             r.Code,
		Name:             r.Name,
		DepartmentID:     r.DepartmentID,
		CreatedBy:        r.CreatedBy,
		Status:           r.Status,
		Revision:         r.Revision,
		PalletCode:       r.PalletCode,
		ShipmentCode:     r.ShipmentCode,
		IsDirectShipment: r.IsDirectShipment,
		IsFragile:        r.IsFragile,
		PhotoURL:         r.PhotoURL,
		PhotoURL2:        r.PhotoURL2,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func toBoxes(records []*secondary.BoxRecord) []*primary.Box {
	boxes := make([]*primary.Box, len(records))
	for i, r := range records {
		boxes[i] = toBox(r)
	}
	return boxes
}

func toBoxLine(r *secondary.BoxLineRecord) *primary.BoxLine {
	return &primary.BoxLine{
		ID:          r.ID,
		BoxID:       r.BoxID,
		ProductName: r.ProductName,
		Qty:         r.Qty,
		Kind:        r.Kind,
		CreatedAt:   r.CreatedAt,
	}
}

func toPallet(r *secondary.PalletRecord) *primary.Pallet {
	return &primary.Pallet{
		ID:           r.ID,
		Code:         r.Code,
		Name:         r.Name,
		CreatedBy:    r.CreatedBy,
		ShipmentCode: r.ShipmentCode,
		PhotoURL:     r.PhotoURL,
		PhotoURL2:    r.PhotoURL2,
		IsFragile:    r.IsFragile,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toShipment(r *secondary.ShipmentRecord) *primary.Shipment {
	return &primary.Shipment{
		ID:          r.ID,
		Code:        r.Code,
		NameOrPlate: r.NameOrPlate,
		CreatedBy:   r.CreatedBy,
		PhotoURL:    r.PhotoURL,
		PhotoURL2:   r.PhotoURL2,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}
