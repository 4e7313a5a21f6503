package cli

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/packtrack/internal/core/errs"
	"github.com/example/packtrack/internal/ports/primary"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		in      string
		want    primary.PackLine
		wantErr bool
	}{
		{in: "Tabak:4:Porselen", want: primary.PackLine{ProductName: "Tabak", Qty: 4, Kind: "Porselen"}},
		{in: "Bardak:6", want: primary.PackLine{ProductName: "Bardak", Qty: 6}},
		{in: " Kase : 2 : ", want: primary.PackLine{ProductName: "Kase", Qty: 2}},
		{in: "Fincan", wantErr: true},
		{in: "Fincan:two", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseLine(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, errs.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", fmt.Errorf("failed to get box: %w", errs.NotFound("box", "B-ZZZZ")), "list"},
		{"conflict", errs.New(errs.ErrConflict, "box B-AAAA is on pallet P-AAAA"), "unlink"},
		{"sealed", errs.New(errs.ErrInvalidTransition, "sealed"), "one-way"},
		{"no actor", errs.New(errs.ErrValidation, "no acting user on the request"), "--actor"},
		{"resumable pack", &primary.PackError{Step: "add_line", LineIndex: 1, BoxCode: "B-AAAA", Err: errs.ErrConflict}, "--box B-AAAA"},
		{"plain", fmt.Errorf("disk full"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Hint(tt.err)
			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestOrDash(t *testing.T) {
	assert.Equal(t, "-", orDash(""))
	assert.Equal(t, "P-AAAA", orDash("P-AAAA"))
}
