package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
		msg  string
	}{
		{
			name: "not found carries entity and key",
			err:  NotFound("box", "B-7K2Q"),
			kind: ErrNotFound,
			msg:  "box B-7K2Q not found",
		},
		{
			name: "formatted conflict",
			err:  Newf(ErrConflict, "pallet %s already shipped", "P-AAAA"),
			kind: ErrConflict,
			msg:  "pallet P-AAAA already shipped",
		},
		{
			name: "wrapped kind survives fmt.Errorf",
			err:  fmt.Errorf("failed to seal: %w", New(ErrValidation, "box has no lines")),
			kind: ErrValidation,
			msg:  "failed to seal: box has no lines",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.kind) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.kind)
			}
			if KindOf(tt.err) != tt.kind {
				t.Errorf("KindOf = %v, want %v", KindOf(tt.err), tt.kind)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.msg)
			}
		})
	}
}

func TestKindOfUnknown(t *testing.T) {
	if kind := KindOf(errors.New("disk full")); kind != nil {
		t.Errorf("KindOf(plain error) = %v, want nil", kind)
	}
}
