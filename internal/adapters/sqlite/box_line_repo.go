package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/secondary"
)

// BoxLineRepository implements secondary.BoxLineStore with SQLite.
type BoxLineRepository struct {
	db *sql.DB
}

const boxLineColumns = "id, box_id, product_name, qty, kind, created_at"

// Create persists a new line.
func (r *BoxLineRepository) Create(ctx context.Context, l *secondary.BoxLineRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO box_lines ("+boxLineColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		l.ID, l.BoxID, l.ProductName, l.Qty, l.Kind, toNanos(l.CreatedAt),
	)
	if err != nil {
		return insertError(err, "box line")
	}
	return nil
}

// GetByID retrieves a line by its ID.
func (r *BoxLineRepository) GetByID(ctx context.Context, id string) (*secondary.BoxLineRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+boxLineColumns+" FROM box_lines WHERE id = ?", id)
	l, err := scanBoxLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("box line", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get box line: %w", err)
	}
	return l, nil
}

// ListByBox retrieves a box's lines in insertion order.
func (r *BoxLineRepository) ListByBox(ctx context.Context, boxID string) ([]*secondary.BoxLineRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+boxLineColumns+" FROM box_lines WHERE box_id = ? ORDER BY created_at ASC, id ASC", boxID)
	if err != nil {
		return nil, fmt.Errorf("failed to list box lines: %w", err)
	}
	defer rows.Close()

	var lines []*secondary.BoxLineRecord
	for rows.Next() {
		l, err := scanBoxLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan box line: %w", err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating box lines: %w", err)
	}
	return lines, nil
}

// Delete removes a single line.
func (r *BoxLineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM box_lines WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete box line: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFound("box line", id)
	}
	return nil
}

// DeleteByBox removes every line of a box.
func (r *BoxLineRepository) DeleteByBox(ctx context.Context, boxID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM box_lines WHERE box_id = ?", boxID); err != nil {
		return fmt.Errorf("failed to delete box lines: %w", err)
	}
	return nil
}

func scanBoxLine(s scanner) (*secondary.BoxLineRecord, error) {
	var (
		l         secondary.BoxLineRecord
		createdAt int64
	)
	if err := s.Scan(&l.ID, &l.BoxID, &l.ProductName, &l.Qty, &l.Kind, &createdAt); err != nil {
		return nil, err
	}
	l.CreatedAt = fromNanos(createdAt)
	return &l, nil
}

var _ secondary.BoxLineStore = (*BoxLineRepository)(nil)
