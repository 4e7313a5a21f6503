package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"

	corebox "github.com/example/packtrack/internal/core/box"
	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/primary"
)

func statusMarker(status string) string {
	switch status {
	case corebox.StatusDraft:
		return color.New(color.FgYellow).Sprint("[draft]")
	case corebox.StatusSealed:
		return color.New(color.FgGreen).Sprint("[sealed]")
	default:
		return "[" + status + "]"
	}
}

func boxFlags(b *primary.Box) string {
	var out []string
	if b.IsDirectShipment {
		out = append(out, color.New(color.FgCyan).Sprint("direct"))
	}
	if b.IsFragile {
		out = append(out, color.New(color.FgRed).Sprint("fragile"))
	}
	return strings.Join(out, ",")
}

func fragileMarker(fragile bool) string {
	if !fragile {
		return ""
	}
	return color.New(color.FgRed).Sprint(" [fragile]")
}

// orDash renders an empty link as "-".
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Hint suggests a next step for a failed command, or "" when there is none.
func Hint(err error) string {
	var packErr *primary.PackError
	if errors.As(err, &packErr) && packErr.BoxCode != "" {
		return fmt.Sprintf("Hint: fix the cause and resume with: packtrack pack --box %s ...", packErr.BoxCode)
	}

	switch {
	case errors.Is(err, errs.ErrNotFound):
		return "Hint: list what exists with `packtrack <department|box|pallet|shipment> list`"
	case errors.Is(err, errs.ErrDuplicateName):
		return "Hint: department names are unique ignoring case"
	case errors.Is(err, errs.ErrInvalidTransition):
		return "Hint: sealing is one-way; create a new box instead"
	case errors.Is(err, errs.ErrConflict):
		return "Hint: unlink the existing pallet or shipment first"
	case errors.Is(err, errs.ErrValidation) && strings.Contains(err.Error(), "acting user"):
		return "Hint: pass --actor or set PACKTRACK_ACTOR"
	}
	return ""
}

// parseLine reads a line given as product:qty or product:qty:kind.
func parseLine(s string) (primary.PackLine, error) {
	parts := strings.SplitN(s, ":", 3)
	if len(parts) < 2 {
		return primary.PackLine{}, errs.Newf(errs.ErrValidation, "line %q: want product:qty[:kind]", s)
	}
	qty, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return primary.PackLine{}, errs.Newf(errs.ErrValidation, "line %q: quantity %q is not a number", s, parts[1])
	}
	line := primary.PackLine{ProductName: strings.TrimSpace(parts[0]), Qty: qty}
	if len(parts) == 3 {
		line.Kind = strings.TrimSpace(parts[2])
	}
	return line, nil
}
