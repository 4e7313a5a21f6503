// Package cli provides the packtrack commands.
package cli

import (
	"context"

	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/wire"
)

// globalActor stores the --actor flag for the current CLI invocation.
// Set once at startup by SetActor.
var globalActor string

// SetActor records the acting user given on the command line.
// Should be called once at CLI startup in PersistentPreRun.
func SetActor(actor string) {
	globalActor = actor
}

// session loads the services and returns a context carrying the acting user:
// the --actor flag when given, else the configured default.
func session() (context.Context, *wire.Services, error) {
	s, err := wire.Get()
	if err != nil {
		return nil, nil, err
	}
	actor := globalActor
	if actor == "" {
		actor = s.Config.Actor
	}
	return ctxutil.WithActor(context.Background(), actor), s, nil
}
