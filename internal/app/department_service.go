package app

import (
	"context"
	"fmt"

	coredepartment "github.com/example/packtrack/internal/core/department"
	"github.com/example/packtrack/internal/ports/primary"
	"github.com/example/packtrack/internal/ports/secondary"
)

// DepartmentServiceImpl implements the DepartmentService interface.
type DepartmentServiceImpl struct {
	departments secondary.DepartmentStore
	clock       Clock
	activity    activityRecorder
}

// NewDepartmentService creates a new DepartmentService with injected dependencies.
func NewDepartmentService(backend secondary.Backend, activity secondary.ActivityLog, clock Clock) *DepartmentServiceImpl {
	return &DepartmentServiceImpl{
		departments: backend.Departments(),
		clock:       clock,
		activity:    activityRecorder{log: activity, clock: clock},
	}
}

// Create creates a department.
func (s *DepartmentServiceImpl) Create(ctx context.Context, name string) (*primary.Department, error) {
	if err := s.checkName(ctx, "", name); err != nil {
		return nil, err
	}

	now := s.clock.now()
	record := &secondary.DepartmentRecord{
		ID:        newID(),
		Name:      coredepartment.NormalizeName(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.departments.Create(ctx, record); err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventCreate, "department", record.ID, record.Name, "")
	return toDepartment(record), nil
}

// Update renames a department.
func (s *DepartmentServiceImpl) Update(ctx context.Context, id, name string) (*primary.Department, error) {
	current, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, id, name); err != nil {
		return nil, err
	}

	newName := coredepartment.NormalizeName(name)
	if newName == current.Name {
		return toDepartment(current), nil
	}
	updated, err := s.departments.Update(ctx, id, secondary.DepartmentPatch{Name: &newName})
	if err != nil {
		return nil, err
	}

	s.activity.record(ctx, secondary.EventUpdate, "department", id, newName, fmt.Sprintf("renamed from %q", current.Name))
	return toDepartment(updated), nil
}

// Delete removes a department without touching boxes that reference it.
func (s *DepartmentServiceImpl) Delete(ctx context.Context, id string) error {
	current, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.record(ctx, secondary.EventDelete, "department", id, current.Name, "")
	return nil
}

// Get retrieves a department by ID.
func (s *DepartmentServiceImpl) Get(ctx context.Context, id string) (*primary.Department, error) {
	record, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDepartment(record), nil
}

// List returns every department, newest first.
func (s *DepartmentServiceImpl) List(ctx context.Context) ([]*primary.Department, error) {
	records, err := s.departments.List(ctx)
	if err != nil {
		return nil, err
	}
	departments := make([]*primary.Department, len(records))
	for i, r := range records {
		departments[i] = toDepartment(r)
	}
	return departments, nil
}

func (s *DepartmentServiceImpl) checkName(ctx context.Context, id, name string) error {
	records, err := s.departments.List(ctx)
	if err != nil {
		return err
	}
	existing := make([]coredepartment.Existing, len(records))
	for i, r := range records {
		existing[i] = coredepartment.Existing{ID: r.ID, Name: r.Name}
	}
	return coredepartment.CanUseName(coredepartment.NameContext{ID: id, Name: name, Existing: existing}).Error()
}

var _ primary.DepartmentService = (*DepartmentServiceImpl)(nil)
