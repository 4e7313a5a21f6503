// Package shipment contains the pure business logic for shipment operations.
// Guards are pure functions that evaluate preconditions without side effects.
package shipment

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

// MemberSummary is the minimal view of a pallet or direct box for aggregation.
type MemberSummary struct {
	Code     string
	BoxCount int
}

// Totals aggregates a shipment's members.
type Totals struct {
	PalletCount    int
	BoxCount       int // boxes riding on the shipment's pallets
	DirectBoxCount int
}

// CanLabelShipment evaluates a shipment's name or license plate.
// Rules:
// - Must not be blank
func CanLabelShipment(nameOrPlate string) GuardResult {
	if strings.TrimSpace(nameOrPlate) == "" {
		return GuardResult{Kind: errs.ErrValidation, Reason: "shipment name or plate must not be empty"}
	}
	return GuardResult{Allowed: true}
}

// SummarizeMembers computes the shipment totals from live pallet and direct-box data.
func SummarizeMembers(pallets []MemberSummary, directBoxes int) Totals {
	t := Totals{PalletCount: len(pallets), DirectBoxCount: directBoxes}
	for _, p := range pallets {
		t.BoxCount += p.BoxCount
	}
	return t
}

// DescribeTotals renders totals for list output, e.g. "2 pallets, 7 boxes (+1 direct)".
func DescribeTotals(t Totals) string {
	s := fmt.Sprintf("%d %s, %d %s", t.PalletCount, plural(t.PalletCount, "pallet"), t.BoxCount, plural(t.BoxCount, "box"))
	if t.DirectBoxCount > 0 {
		s += fmt.Sprintf(" (+%d direct)", t.DirectBoxCount)
	}
	return s
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	if strings.HasSuffix(word, "x") {
		return word + "es"
	}
	return word + "s"
}
