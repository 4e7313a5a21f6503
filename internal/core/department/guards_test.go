package department

import (
	"errors"
	"testing"

	"github.com/example/packtrack/internal/core/errs"
)

func TestCanUseName(t *testing.T) {
	existing := []Existing{{ID: "d1", Name: "Depo"}, {ID: "d2", Name: "Mutfak"}}

	tests := []struct {
		name        string
		ctx         NameContext
		wantAllowed bool
		wantKind    error
		wantReason  string
	}{
		{
			name:        "new unique name",
			ctx:         NameContext{Name: "Salon", Existing: existing},
			wantAllowed: true,
		},
		{
			name:       "case-insensitive duplicate on create",
			ctx:        NameContext{Name: "  depo ", Existing: existing},
			wantKind:   errs.ErrDuplicateName,
			wantReason: `department "Depo" already exists`,
		},
		{
			name:        "rename to own name with different case",
			ctx:         NameContext{ID: "d1", Name: "DEPO", Existing: existing},
			wantAllowed: true,
		},
		{
			name:     "rename onto another department",
			ctx:      NameContext{ID: "d1", Name: "mutfak", Existing: existing},
			wantKind: errs.ErrDuplicateName,
		},
		{
			name:       "blank name",
			ctx:        NameContext{Name: "   ", Existing: existing},
			wantKind:   errs.ErrValidation,
			wantReason: "department name must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CanUseName(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Fatalf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if tt.wantAllowed {
				return
			}
			if tt.wantReason != "" && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
			if !errors.Is(result.Error(), tt.wantKind) {
				t.Errorf("Error() = %v, want kind %v", result.Error(), tt.wantKind)
			}
		})
	}
}
