// Package sqlite contains the SQL implementation of the persistence backend:
// the remote store. Tables and columns are laid out by internal/db migrations.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/secondary"
)

// Backend implements secondary.Backend over a *sql.DB.
type Backend struct {
	db          *sql.DB
	departments *DepartmentRepository
	boxes       *BoxRepository
	lines       *BoxLineRepository
	pallets     *PalletRepository
	shipments   *ShipmentRepository
}

// NewBackend creates the remote backend. now stamps updated_at on patches; nil means time.Now.
func NewBackend(db *sql.DB, now func() time.Time) *Backend {
	if now == nil {
		now = time.Now
	}
	return &Backend{
		db:          db,
		departments: &DepartmentRepository{db: db, now: now},
		boxes:       &BoxRepository{db: db, now: now},
		lines:       &BoxLineRepository{db: db},
		pallets:     &PalletRepository{db: db, now: now},
		shipments:   &ShipmentRepository{db: db, now: now},
	}
}

func (b *Backend) Departments() secondary.DepartmentStore { return b.departments }
func (b *Backend) Boxes() secondary.BoxStore             { return b.boxes }
func (b *Backend) BoxLines() secondary.BoxLineStore      { return b.lines }
func (b *Backend) Pallets() secondary.PalletStore        { return b.pallets }
func (b *Backend) Shipments() secondary.ShipmentStore    { return b.shipments }

// Name identifies the backend.
func (b *Backend) Name() string { return "remote" }

// Close closes the database.
func (b *Backend) Close() error { return b.db.Close() }

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// setClause accumulates "col = ?" assignments for a patch.
type setClause struct {
	cols []string
	args []any
}

func (s *setClause) add(col string, v any) {
	s.cols = append(s.cols, col+" = ?")
	s.args = append(s.args, v)
}

func (s *setClause) addText(col string, v *string) {
	if v != nil {
		s.add(col, *v)
	}
}

func (s *setClause) addNullable(col string, v *string) {
	if v != nil {
		s.add(col, nullString(*v))
	}
}

func (s *setClause) addBool(col string, v *bool) {
	if v != nil {
		s.add(col, *v)
	}
}

func (s *setClause) sql() string {
	return strings.Join(s.cols, ", ")
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// insertError maps a failed INSERT to the domain conflict kind when a
// primary key or unique code already exists.
func insertError(err error, entity string) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) &&
		(sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique || sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return errs.Newf(errs.ErrConflict, "%s already exists", entity)
	}
	return fmt.Errorf("failed to create %s: %w", entity, err)
}

var _ secondary.Backend = (*Backend)(nil)
