// Package codegen produces the short human-readable entity codes and the opaque
// primary keys. Both are allocated client-side so records move between the local
// and remote backends without key translation.
package codegen

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/example/packtrack/internal/core/errs"
)

// Alphabet is the 32-symbol code alphabet: uppercase letters and digits without
// the look-alikes I, O, 0 and 1.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// CodeLength is the number of random symbols after the prefix.
const CodeLength = 4

// DefaultMaxAttempts bounds Allocate when no limit is configured.
const DefaultMaxAttempts = 8

// Kind identifies which entity a code is for.
type Kind string

const (
	KindBox      Kind = "box"
	KindPallet   Kind = "pallet"
	KindShipment Kind = "shipment"
)

// Prefix returns the code prefix for kind.
func Prefix(kind Kind) (string, error) {
	switch kind {
	case KindBox:
		return "B-", nil
	case KindPallet:
		return "P-", nil
	case KindShipment:
		return "S-", nil
	default:
		return "", fmt.Errorf("unknown code kind %q", kind)
	}
}

// ExistsFunc reports whether code is already taken.
type ExistsFunc func(ctx context.Context, code string) (bool, error)

// Generator draws codes from a random source. The zero value is not usable; use New.
type Generator struct {
	rand        io.Reader
	maxAttempts int
}

// New returns a Generator backed by crypto/rand.
func New(maxAttempts int) *Generator {
	return NewWithSource(rand.Reader, maxAttempts)
}

// NewWithSource returns a Generator reading randomness from r.
func NewWithSource(r io.Reader, maxAttempts int) *Generator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Generator{rand: r, maxAttempts: maxAttempts}
}

// Code returns a fresh code for kind without checking for collisions.
func (g *Generator) Code(kind Kind) (string, error) {
	prefix, err := Prefix(kind)
	if err != nil {
		return "", err
	}

	buf := make([]byte, CodeLength)
	if _, err := io.ReadFull(g.rand, buf); err != nil {
		return "", fmt.Errorf("failed to read randomness: %w", err)
	}

	// 256 is a multiple of 32, so masking keeps the draw uniform.
	out := make([]byte, 0, len(prefix)+CodeLength)
	out = append(out, prefix...)
	for _, b := range buf {
		out = append(out, Alphabet[b&31])
	}
	return string(out), nil
}

// Allocate draws codes until exists reports a free one. It fails with a
// conflict once maxAttempts draws have all collided rather than reuse a code.
func (g *Generator) Allocate(ctx context.Context, kind Kind, exists ExistsFunc) (string, error) {
	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		code, err := g.Code(kind)
		if err != nil {
			return "", err
		}
		taken, err := exists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("failed to check code %s: %w", code, err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errs.Newf(errs.ErrConflict, "no free %s code after %d attempts", kind, g.maxAttempts)
}

// NewEntityCode returns a code for kind from crypto/rand. It panics on an unknown kind.
func NewEntityCode(kind Kind) string {
	code, err := New(1).Code(kind)
	if err != nil {
		panic(err)
	}
	return code
}

// NewID returns a random UUIDv4 string for use as a primary key.
func NewID() string {
	return uuid.NewString()
}

// IsValidCode reports whether code has the shape produced for kind.
func IsValidCode(kind Kind, code string) bool {
	prefix, err := Prefix(kind)
	if err != nil || len(code) != len(prefix)+CodeLength || code[:len(prefix)] != prefix {
		return false
	}
	for i := len(prefix); i < len(code); i++ {
		if !isAlphabetSymbol(code[i]) {
			return false
		}
	}
	return true
}

func isAlphabetSymbol(c byte) bool {
	for i := 0; i < len(Alphabet); i++ {
		if Alphabet[i] == c {
			return true
		}
	}
	return false
}
