package primary

import (
	"context"
	"time"
)

// DepartmentService defines the primary port for department operations.
type DepartmentService interface {
	// Create creates a department. Names are unique ignoring case.
	Create(ctx context.Context, name string) (*Department, error)

	// Update renames a department.
	Update(ctx context.Context, id, name string) (*Department, error)

	// Delete removes a department. Boxes that reference it keep the dangling id.
	Delete(ctx context.Context, id string) error

	// Get retrieves a department by ID.
	Get(ctx context.Context, id string) (*Department, error)

	// List returns every department, newest first.
	List(ctx context.Context) ([]*Department, error)
}

// Department represents a department at the port boundary.
type Department struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
