// Package ctxutil carries the acting user through context.Context.
// It has no internal dependencies so any layer may import it.
package ctxutil

import (
	"context"
	"strings"
)

type actorKey struct{}

// WithActor returns a context carrying the acting user's name.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey{}, strings.TrimSpace(actor))
}

// Actor returns the acting user, or "" when none was set.
func Actor(ctx context.Context) string {
	if v, ok := ctx.Value(actorKey{}).(string); ok {
		return v
	}
	return ""
}
