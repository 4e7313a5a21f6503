package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/secondary"
)

// ShipmentRepository implements secondary.ShipmentStore with SQLite.
type ShipmentRepository struct {
	db  *sql.DB
	now func() time.Time
}

const shipmentColumns = "id, code, name_or_plate, created_by, photo_url, photo_url_2, created_at, updated_at"

// Create persists a new shipment.
func (r *ShipmentRepository) Create(ctx context.Context, s *secondary.ShipmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO shipments ("+shipmentColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		s.ID, s.Code, s.NameOrPlate, s.CreatedBy, nullString(s.PhotoURL), nullString(s.PhotoURL2),
		toNanos(s.CreatedAt), toNanos(s.UpdatedAt),
	)
	if err != nil {
		return insertError(err, "shipment")
	}
	return nil
}

// GetByID retrieves a shipment by its ID.
func (r *ShipmentRepository) GetByID(ctx context.Context, id string) (*secondary.ShipmentRecord, error) {
	return r.getOne(ctx, "id", id)
}

// GetByCode retrieves a shipment by its short code.
func (r *ShipmentRepository) GetByCode(ctx context.Context, code string) (*secondary.ShipmentRecord, error) {
	return r.getOne(ctx, "code", code)
}

func (r *ShipmentRepository) getOne(ctx context.Context, col, key string) (*secondary.ShipmentRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+shipmentColumns+" FROM shipments WHERE "+col+" = ?", key)
	s, err := scanShipment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("shipment", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shipment: %w", err)
	}
	return s, nil
}

// CodeExists reports whether a shipment already uses code.
func (r *ShipmentRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shipments WHERE code = ?", code).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check shipment code: %w", err)
	}
	return count > 0, nil
}

// List retrieves shipments matching the given filters.
func (r *ShipmentRepository) List(ctx context.Context, filters secondary.ShipmentFilters) ([]*secondary.ShipmentRecord, error) {
	query := "SELECT " + shipmentColumns + " FROM shipments WHERE 1=1"
	args := []any{}

	if filters.CreatedBy != "" {
		query += " AND created_by = ?"
		args = append(args, filters.CreatedBy)
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer rows.Close()

	var shipments []*secondary.ShipmentRecord
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipments: %w", err)
	}
	return shipments, nil
}

// Update applies a patch and returns the updated shipment.
func (r *ShipmentRepository) Update(ctx context.Context, id string, patch secondary.ShipmentPatch) (*secondary.ShipmentRecord, error) {
	var set setClause
	set.addText("name_or_plate", patch.NameOrPlate)
	set.addNullable("photo_url", patch.PhotoURL)
	set.addNullable("photo_url_2", patch.PhotoURL2)
	set.add("updated_at", toNanos(r.now()))

	result, err := r.db.ExecContext(ctx, "UPDATE shipments SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update shipment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFound("shipment", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a shipment.
func (r *ShipmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM shipments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete shipment: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFound("shipment", id)
	}
	return nil
}

func scanShipment(s scanner) (*secondary.ShipmentRecord, error) {
	var (
		rec                  secondary.ShipmentRecord
		photo, photo2        sql.NullString
		createdAt, updatedAt int64
	)
	err := s.Scan(&rec.ID, &rec.Code, &rec.NameOrPlate, &rec.CreatedBy, &photo, &photo2, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	rec.PhotoURL = photo.String
	rec.PhotoURL2 = photo2.String
	rec.CreatedAt = fromNanos(createdAt)
	rec.UpdatedAt = fromNanos(updatedAt)
	return &rec, nil
}

var _ secondary.ShipmentStore = (*ShipmentRepository)(nil)
