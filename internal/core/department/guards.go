// Package department contains the pure business rules for departments.
package department

import (
	"fmt"
	"strings"

	"github.com/example/packtrack/internal/core/errs"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Kind    error
	Reason  string
}

// Error converts the guard result to a typed error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return errs.New(r.Kind, r.Reason)
}

// Existing is the minimal view of a stored department the name guard needs.
type Existing struct {
	ID   string
	Name string
}

// NameContext provides context for create and rename guards.
type NameContext struct {
	ID       string // empty on create; excluded from the duplicate scan on rename
	Name     string
	Existing []Existing
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// CanUseName evaluates whether a department may carry name.
// Rules:
// - Name must not be blank
// - No other department may have the same name, ignoring case
func CanUseName(ctx NameContext) GuardResult {
	name := NormalizeName(ctx.Name)
	if name == "" {
		return GuardResult{Kind: errs.ErrValidation, Reason: "department name must not be empty"}
	}
	for _, d := range ctx.Existing {
		if d.ID == ctx.ID {
			continue
		}
		if strings.EqualFold(NormalizeName(d.Name), name) {
			return GuardResult{
				Kind:   errs.ErrDuplicateName,
				Reason: fmt.Sprintf("department %q already exists", d.Name),
			}
		}
	}
	return GuardResult{Allowed: true}
}
