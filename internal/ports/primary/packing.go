package primary

import (
	"context"
	"fmt"
)

// PackingService runs the multi-step packing flow as one resumable call.
type PackingService interface {
	// Pack brings a box to the requested state: created, lines added, photo
	// attached and optionally sealed. Only missing steps are applied, so a
	// failed call can be repeated with BoxCode set to finish the job.
	Pack(ctx context.Context, req PackRequest) (*PackResult, error)
}

// PackRequest describes the box a packing run should produce.
type PackRequest struct {
	// BoxCode resumes an earlier run. Empty creates a new box from the fields below.
	BoxCode          string
	Name             string
	DepartmentID     string
	IsDirectShipment bool
	IsFragile        bool

	Lines    []PackLine
	PhotoURL string
	Seal     bool
}

// PackLine is one requested line.
type PackLine struct {
	ProductName string
	Qty         int
	Kind        string
}

// PackResult reports the finished box and the steps this call applied.
type PackResult struct {
	Box     *BoxDetail
	Applied []string
}

// PackError reports the step a packing run stopped at. BoxCode is set once
// the box exists so the caller can resume.
type PackError struct {
	Step      string
	LineIndex int // index into PackRequest.Lines for add_line steps, else -1
	BoxCode   string
	Err       error
}

func (e *PackError) Error() string {
	where := e.Step
	if e.LineIndex >= 0 {
		where = fmt.Sprintf("%s #%d", e.Step, e.LineIndex)
	}
	if e.BoxCode == "" {
		return fmt.Sprintf("packing failed at %s: %v", where, e.Err)
	}
	return fmt.Sprintf("packing box %s failed at %s: %v", e.BoxCode, where, e.Err)
}

func (e *PackError) Unwrap() error {
	return e.Err
}
