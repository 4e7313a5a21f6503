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

// BoxRepository implements secondary.BoxStore with SQLite.
type BoxRepository struct {
	db  *sql.DB
	now func() time.Time
}

const boxColumns = "id, code, name, department_id, created_by, status, revision, pallet_code, shipment_code, is_direct_shipment, is_fragile, photo_url, photo_url_2, created_at, updated_at"

// Create persists a new box.
func (r *BoxRepository) Create(ctx context.Context, b *secondary.BoxRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO boxes ("+boxColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		b.ID, b.Code, b.Name, b.DepartmentID, b.CreatedBy, b.Status, b.Revision,
		nullString(b.PalletCode), nullString(b.ShipmentCode), b.IsDirectShipment, b.IsFragile,
		nullString(b.PhotoURL), nullString(b.PhotoURL2), toNanos(b.CreatedAt), toNanos(b.UpdatedAt),
	)
	if err != nil {
		return insertError(err, "box")
	}
	return nil
}

// GetByID retrieves a box by its ID.
func (r *BoxRepository) GetByID(ctx context.Context, id string) (*secondary.BoxRecord, error) {
	return r.getOne(ctx, "id", id)
}

// GetByCode retrieves a box by its short code.
func (r *BoxRepository) GetByCode(ctx context.Context, code string) (*secondary.BoxRecord, error) {
	return r.getOne(ctx, "code", code)
}

func (r *BoxRepository) getOne(ctx context.Context, col, key string) (*secondary.BoxRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+boxColumns+" FROM boxes WHERE "+col+" = ?", key)
	b, err := scanBox(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("box", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get box: %w", err)
	}
	return b, nil
}

// CodeExists reports whether a box already uses code.
func (r *BoxRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM boxes WHERE code = ?", code).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check box code: %w", err)
	}
	return count > 0, nil
}

// List retrieves boxes matching the given filters.
func (r *BoxRepository) List(ctx context.Context, filters secondary.BoxFilters) ([]*secondary.BoxRecord, error) {
	where, args := boxWhere(filters)
	rows, err := r.db.QueryContext(ctx, "SELECT "+boxColumns+" FROM boxes"+where+" ORDER BY created_at DESC, id ASC", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list boxes: %w", err)
	}
	defer rows.Close()

	var boxes []*secondary.BoxRecord
	for rows.Next() {
		b, err := scanBox(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan box: %w", err)
		}
		boxes = append(boxes, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating boxes: %w", err)
	}
	return boxes, nil
}

// Count returns the number of boxes matching the given filters.
func (r *BoxRepository) Count(ctx context.Context, filters secondary.BoxFilters) (int, error) {
	where, args := boxWhere(filters)
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM boxes"+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count boxes: %w", err)
	}
	return count, nil
}

// Update applies a patch and returns the updated box.
func (r *BoxRepository) Update(ctx context.Context, id string, patch secondary.BoxPatch) (*secondary.BoxRecord, error) {
	var set setClause
	set.addText("name", patch.Name)
	set.addText("department_id", patch.DepartmentID)
	set.addText("status", patch.Status)
	set.addNullable("photo_url", patch.PhotoURL)
	set.addNullable("photo_url_2", patch.PhotoURL2)
	set.addNullable("pallet_code", patch.PalletCode)
	set.addNullable("shipment_code", patch.ShipmentCode)
	set.addBool("is_direct_shipment", patch.IsDirectShipment)
	set.addBool("is_fragile", patch.IsFragile)
	set.add("updated_at", toNanos(r.now()))

	result, err := r.db.ExecContext(ctx, "UPDATE boxes SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update box: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFound("box", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a box.
func (r *BoxRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM boxes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete box: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFound("box", id)
	}
	return nil
}

func boxWhere(filters secondary.BoxFilters) (string, []any) {
	query := " WHERE 1=1"
	args := []any{}

	if filters.CreatedBy != "" {
		query += " AND created_by = ?"
		args = append(args, filters.CreatedBy)
	}
	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}
	if filters.DepartmentID != "" {
		query += " AND department_id = ?"
		args = append(args, filters.DepartmentID)
	}
	if filters.PalletCode != "" {
		query += " AND pallet_code = ?"
		args = append(args, filters.PalletCode)
	}
	if filters.ShipmentCode != "" {
		query += " AND shipment_code = ?"
		args = append(args, filters.ShipmentCode)
	}
	if filters.Unpalletized {
		query += " AND pallet_code IS NULL"
	}
	if filters.Unshipped {
		query += " AND shipment_code IS NULL"
	}
	if filters.Direct != nil {
		query += " AND is_direct_shipment = ?"
		args = append(args, *filters.Direct)
	}

	return query, args
}

func scanBox(s scanner) (*secondary.BoxRecord, error) {
	var (
		b                                        secondary.BoxRecord
		palletCode, shipmentCode, photo, photo2 sql.NullString
		createdAt, updatedAt                     int64
	)
	err := s.Scan(&b.ID, &b.Code, &b.Name, &b.DepartmentID, &b.CreatedBy, &b.Status, &b.Revision,
		&palletCode, &shipmentCode, &b.IsDirectShipment, &b.IsFragile, &photo, &photo2, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	b.PalletCode = palletCode.String
	b.ShipmentCode = shipmentCode.String
	b.PhotoURL = photo.String
	b.PhotoURL2 = photo2.String
	b.CreatedAt = fromNanos(createdAt)
	b.UpdatedAt = fromNanos(updatedAt)
	return &b, nil
}

var _ secondary.BoxStore = (*BoxRepository)(nil)
