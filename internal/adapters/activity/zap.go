// Package activity implements the activity log side channel.
package activity

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/packtrack/internal/ctxutil"
	"github.com/example/packtrack/internal/ports/secondary"
)

// ZapLog writes activity entries as structured log lines.
type ZapLog struct {
	logger *zap.Logger
}

// NewZapLog creates a ZapLog writing under the "activity" logger name.
func NewZapLog(logger *zap.Logger) *ZapLog {
	return &ZapLog{logger: logger.Named("activity")}
}

// Log writes one entry. An entry without an actor takes the one carried by ctx.
func (l *ZapLog) Log(ctx context.Context, e secondary.ActivityEntry) {
	if e.Actor == "" {
		e.Actor = ctxutil.Actor(ctx)
	}
	fields := []zap.Field{
		zap.String("actor", e.Actor),
		zap.String("event", e.Event),
		zap.String("entity_type", e.EntityType),
		zap.String("entity_code", e.EntityCode),
	}
	if e.EntityName != "" {
		fields = append(fields, zap.String("entity_name", e.EntityName))
	}
	if e.Detail != "" {
		fields = append(fields, zap.String("detail", e.Detail))
	}
	if !e.At.IsZero() {
		fields = append(fields, zap.Time("at", e.At))
	}
	l.logger.Info(e.EntityType+" "+e.Event, fields...)
}

// Nop discards every entry.
type Nop struct{}

func (Nop) Log(context.Context, secondary.ActivityEntry) {}

var (
	_ secondary.ActivityLog = (*ZapLog)(nil)
	_ secondary.ActivityLog = Nop{}
)
