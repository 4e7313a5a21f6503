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

// DepartmentRepository implements secondary.DepartmentStore with SQLite.
type DepartmentRepository struct {
	db  *sql.DB
	now func() time.Time
}

const departmentColumns = "id, name, created_at, updated_at"

// Create persists a new department.
func (r *DepartmentRepository) Create(ctx context.Context, d *secondary.DepartmentRecord) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO departments (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)",
		d.ID, d.Name, toNanos(d.CreatedAt), toNanos(d.UpdatedAt),
	)
	if err != nil {
		return insertError(err, "department")
	}
	return nil
}

// GetByID retrieves a department by its ID.
func (r *DepartmentRepository) GetByID(ctx context.Context, id string) (*secondary.DepartmentRecord, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+departmentColumns+" FROM departments WHERE id = ?", id)
	d, err := scanDepartment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NotFound("department", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return d, nil
}

// List retrieves all departments.
func (r *DepartmentRepository) List(ctx context.Context) ([]*secondary.DepartmentRecord, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+departmentColumns+" FROM departments ORDER BY created_at DESC, id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	defer rows.Close()

	var out []*secondary.DepartmentRecord
	for rows.Next() {
		d, err := scanDepartment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating departments: %w", err)
	}
	return out, nil
}

// Update applies a patch and returns the updated department.
func (r *DepartmentRepository) Update(ctx context.Context, id string, patch secondary.DepartmentPatch) (*secondary.DepartmentRecord, error) {
	var set setClause
	set.addText("name", patch.Name)
	set.add("updated_at", toNanos(r.now()))

	result, err := r.db.ExecContext(ctx, "UPDATE departments SET "+set.sql()+" WHERE id = ?", append(set.args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, errs.NotFound("department", id)
	}
	return r.GetByID(ctx, id)
}

// Delete removes a department.
func (r *DepartmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM departments WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return errs.NotFound("department", id)
	}
	return nil
}

func scanDepartment(s scanner) (*secondary.DepartmentRecord, error) {
	var (
		d                    secondary.DepartmentRecord
		createdAt, updatedAt int64
	)
	if err := s.Scan(&d.ID, &d.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	d.CreatedAt = fromNanos(createdAt)
	d.UpdatedAt = fromNanos(updatedAt)
	return &d, nil
}

var _ secondary.DepartmentStore = (*DepartmentRepository)(nil)
