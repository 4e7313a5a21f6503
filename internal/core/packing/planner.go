// Package packing plans the multi-step box packing flow.
// This is part of the Functional Core - no I/O, only pure functions.
//
// Packing is create → add lines → attach photo → seal. None of it is
// transactional, so the plan is recomputed from the box's current state on
// every attempt and only the steps still missing are emitted. Re-running a
// partly applied flow therefore never duplicates work.
package packing

import "strings"

// StepKind names one step of the packing flow.
type StepKind string

const (
	StepCreate   StepKind = "create"
	StepAddLine  StepKind = "add_line"
	StepSetPhoto StepKind = "set_photo"
	StepSeal     StepKind = "seal"
)

// Line is a requested or persisted box line.
type Line struct {
	ProductName string
	Qty         int
	Kind        string
}

// Step is one unit of work. LineIndex points into the request's Lines for StepAddLine.
type Step struct {
	Kind      StepKind
	LineIndex int
}

// State is the pre-fetched state of the box being packed.
type State struct {
	Exists   bool
	Status   string
	Lines    []Line
	PhotoURL string
}

// Request is what the caller wants the box to end up as.
type Request struct {
	Lines    []Line
	PhotoURL string
	Seal     bool
}

// Plan is the ordered list of steps still to apply.
type Plan struct {
	Steps []Step
}

// Empty reports whether nothing is left to do.
func (p Plan) Empty() bool {
	return len(p.Steps) == 0
}

// GeneratePlan computes the remaining steps for req given the current state.
// Requested lines are matched against persisted ones as a multiset on
// (product, qty, kind); every requested line without a match gets a step.
func GeneratePlan(state State, req Request) Plan {
	var plan Plan

	if !state.Exists {
		plan.Steps = append(plan.Steps, Step{Kind: StepCreate})
	}

	remaining := make(map[Line]int, len(state.Lines))
	for _, l := range state.Lines {
		remaining[normalize(l)]++
	}
	for i, l := range req.Lines {
		key := normalize(l)
		if remaining[key] > 0 {
			remaining[key]--
			continue
		}
		plan.Steps = append(plan.Steps, Step{Kind: StepAddLine, LineIndex: i})
	}

	if req.PhotoURL != "" && req.PhotoURL != state.PhotoURL {
		plan.Steps = append(plan.Steps, Step{Kind: StepSetPhoto})
	}

	if req.Seal && state.Status != "sealed" {
		plan.Steps = append(plan.Steps, Step{Kind: StepSeal})
	}

	return plan
}

func normalize(l Line) Line {
	return Line{
		ProductName: strings.TrimSpace(l.ProductName),
		Qty:         l.Qty,
		Kind:        strings.TrimSpace(l.Kind),
	}
}
