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

// PalletRepository implements secondary.PalletStore with SQLite.
type PalletRepository struct {
	db  *sql.DB
	now func() time.Time
}

const palletColumns = "id, code, name, created_by, shipment_code, photo_url, photo_url_2, is_fragile, created_at, updated_at"

// Create persists a new pallet.
func (r *PalletRepository) Create(ctx context.Context, p *secondary.PalletRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pallets ("+palletColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		p.ID, p.Code, p.Name, p.CreatedBy, nullString(p.ShipmentCode),
		nullString(p.PhotoURL), nullString(p.PhotoURL2), p.IsFragile,
		toNanos(p.CreatedAt), toNanos(p.UpdatedAt),
	)
	if err != nil {
		return insertError(err, "pallet")
	}
	return nil
}

// GetByID retrieves a pallet by its ID.
func (r *PalletRepository) GetByID(ctx context.Context, id string) (*secondary.PalletRecord, error) {
	return r.getOne(ctx, "id", id)
}

// GetByCode retrieves a pallet by its short code.
func (r *PalletRepository) GetByCode(ctx context.Context, code string) (*secondary.PalletRecord, error) {
	return r.getOne(ctx, "code", code)
}

func (r *PalletRepository) getOne(ctx context.Context, col, key string) (*secondary.PalletRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+palletColumns+" FROM pallets WHERE "+col+" = ?", key)
	p, err := scanPallet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("pallet", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pallet: %w", err)
	}
	return p, nil
}

// CodeExists reports whether a pallet already uses code.
func (r *PalletRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pallets WHERE code = ?", code).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check pallet code: %w", err)
	}
	return count > 0, nil
}

// List retrieves pallets matching the given filters.
func (r *PalletRepository) List(ctx context.Context, filters secondary.PalletFilters) ([]*secondary.PalletRecord, error) {
	query := "SELECT " + palletColumns + " FROM pallets WHERE 1=1"
	args := []any{}

	if filters.CreatedBy != "" {
		query += " AND created_by = ?"
		args = append(args, filters.CreatedBy)
	}
	if filters.ShipmentCode != "" {
		query += " AND shipment_code = ?"
		args = append(args, filters.ShipmentCode)
	}
	if filters.Unshipped {
		query += " AND shipment_code IS NULL"
	}
	query += " ORDER BY created_at DESC, id ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pallets: %w", err)
	}
	defer rows.Close()

	var pallets []*secondary.PalletRecord
	for rows.Next() {
		p, err := scanPallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pallet: %w", err)
		}
		pallets = append(pallets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pallets: %w", err)
	}
	return pallets, nil
}

// Update applies a patch and returns the updated pallet.
func (r *PalletRepository) Update(ctx context.Context, id string, patch secondary.PalletPatch) (*secondary.PalletRecord, error) {
	var set setClause
	set.addText("name", patch.Name)
	set.addNullable("shipment_code", patch.ShipmentCode)
	set.addNullable("photo_url", patch.PhotoURL)
	set.addNullable("photo_url_2", patch.PhotoURL2)
	set.addBool("is_fragile", patch.IsFragile)
	set.add("updated_at", toNanos(r.now()))

	result, err := r.db.ExecContext(ctx, "UPDATE pallets SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update pallet: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFound("pallet", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a pallet.
func (r *PalletRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pallets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete pallet: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFound("pallet", id)
	}
	return nil
}

func scanPallet(s scanner) (*secondary.PalletRecord, error) {
	var (
		p                            secondary.PalletRecord
		shipmentCode, photo, photo2 sql.NullString
		createdAt, updatedAt         int64
	)
	err := s.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedBy, &shipmentCode, &photo, &photo2,
		&p.IsFragile, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.ShipmentCode = shipmentCode.String
	p.PhotoURL = photo.String
	p.PhotoURL2 = photo2.String
	p.CreatedAt = fromNanos(createdAt)
	p.UpdatedAt = fromNanos(updatedAt)
	return &p, nil
}

var _ secondary.PalletStore = (*PalletRepository)(nil)
