package app

import (
	"context"
	"fmt"

	corebox "github.com/example/packtrack/internal/core/box"
	"github.com/example/packtrack/internal/core/packing"
	"github.com/example/packtrack/internal/ports/primary"
)

// PackingServiceImpl drives the packing flow through BoxService, one step per call.
type PackingServiceImpl struct {
	boxes primary.BoxService
}

// NewPackingService creates a new PackingService with injected dependencies.
func NewPackingService(boxes primary.BoxService) *PackingServiceImpl {
	return &PackingServiceImpl{boxes: boxes}
}

// Pack applies the steps still missing for req. Lines are validated before
// anything is written, so malformed input never leaves a half-built box.
func (s *PackingServiceImpl) Pack(ctx context.Context, req primary.PackRequest) (*primary.PackResult, error) {
	for i, l := range req.Lines {
		guard := corebox.CanAddLine(corebox.AddLineContext{
			BoxCode:     req.BoxCode,
			Status:      corebox.StatusDraft,
			ProductName: l.ProductName,
			Qty:         l.Qty,
		})
		if err := guard.Error(); err != nil {
			return nil, &primary.PackError{Step: "validate", LineIndex: i, BoxCode: req.BoxCode, Err: err}
		}
	}

	state, err := s.load(ctx, req.BoxCode)
	if err != nil {
		return nil, &primary.PackError{Step: "load", LineIndex: -1, BoxCode: req.BoxCode, Err: err}
	}

	plan := packing.GeneratePlan(state, packing.Request{
		Lines:    toPackingLines(req.Lines),
		PhotoURL: req.PhotoURL,
		Seal:     req.Seal,
	})

	code := req.BoxCode
	var applied []string
	for _, step := range plan.Steps {
		if err := s.apply(ctx, &code, step, req); err != nil {
			lineIndex := -1
			if step.Kind == packing.StepAddLine {
				lineIndex = step.LineIndex
			}
			return nil, &primary.PackError{Step: string(step.Kind), LineIndex: lineIndex, BoxCode: code, Err: err}
		}
		applied = append(applied, stepName(step))
	}

	detail, err := s.boxes.GetByCode(ctx, code)
	if err != nil {
		return nil, &primary.PackError{Step: "load", LineIndex: -1, BoxCode: code, Err: err}
	}
	return &primary.PackResult{Box: detail, Applied: applied}, nil
}

func (s *PackingServiceImpl) load(ctx context.Context, code string) (packing.State, error) {
	if code == "" {
		return packing.State{}, nil
	}
	detail, err := s.boxes.GetByCode(ctx, code)
	if err != nil {
		return packing.State{}, err
	}
	lines := make([]packing.Line, len(detail.Lines))
	for i, l := range detail.Lines {
		lines[i] = packing.Line{ProductName: l.ProductName, Qty: l.Qty, Kind: l.Kind}
	}
	return packing.State{
		Exists:   true,
		Status:   detail.Status,
		Lines:    lines,
		PhotoURL: detail.PhotoURL,
	}, nil
}

func (s *PackingServiceImpl) apply(ctx context.Context, code *string, step packing.Step, req primary.PackRequest) error {
	switch step.Kind {
	case packing.StepCreate:
		box, err := s.boxes.Create(ctx, primary.CreateBoxRequest{
			Name:             req.Name,
			DepartmentID:     req.DepartmentID,
			IsDirectShipment: req.IsDirectShipment,
			IsFragile:        req.IsFragile,
		})
		if err != nil {
			return err
		}
		*code = box.Code
		return nil

	case packing.StepAddLine:
		l := req.Lines[step.LineIndex]
		_, err := s.boxes.AddLine(ctx, primary.AddLineRequest{
			BoxCode:     *code,
			ProductName: l.ProductName,
			Qty:         l.Qty,
			Kind:        l.Kind,
		})
		return err

	case packing.StepSetPhoto:
		photo := req.PhotoURL
		_, err := s.boxes.Update(ctx, *code, primary.BoxPatch{PhotoURL: &photo})
		return err

	case packing.StepSeal:
		sealed := corebox.StatusSealed
		_, err := s.boxes.Update(ctx, *code, primary.BoxPatch{Status: &sealed})
		return err

	default:
		return fmt.Errorf("unknown packing step %q", step.Kind)
	}
}

func toPackingLines(lines []primary.PackLine) []packing.Line {
	out := make([]packing.Line, len(lines))
	for i, l := range lines {
		out[i] = packing.Line{ProductName: l.ProductName, Qty: l.Qty, Kind: l.Kind}
	}
	return out
}

func stepName(step packing.Step) string {
	if step.Kind == packing.StepAddLine {
		return fmt.Sprintf("%s#%d", step.Kind, step.LineIndex)
	}
	return string(step.Kind)
}

var _ primary.PackingService = (*PackingServiceImpl)(nil)
