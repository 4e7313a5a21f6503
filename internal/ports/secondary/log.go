package secondary

import (
	"context"
	"time"
)

// Activity event kinds.
const (
	EventCreate     = "create"
	EventUpdate     = "update"
	EventDelete     = "delete"
	EventLink       = "link"
	EventUnlink     = "unlink"
	EventSeal       = "seal"
	EventLineAdd    = "line_add"
	EventLineDelete = "line_delete"
)

// ActivityLog is the fire-and-forget audit side channel. Log must not block
// the caller for long and has no error to return: a failed write is the sink's
// problem, never the primary operation's.
type ActivityLog interface {
	Log(ctx context.Context, entry ActivityEntry)
}

// ActivityEntry is one audit event.
type ActivityEntry struct {
	Actor      string
	Event      string
	EntityType string
	EntityCode string
	EntityName string
	Detail     string
	At         time.Time
}
