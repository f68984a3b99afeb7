package audit

import (
	"context"
	"time"
)

// Event is emitted from workflow logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out. Details is a structured
// payload persisted as JSON.
type Event struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	Details      map[string]any
	IPHash       *string
	UserAgent    *string
	Success      bool
	ErrorMessage *string
	CreatedAt    time.Time
}

// Sink receives audit events. Implementations must be append-only; the engine
// never updates or deletes audit rows.
type Sink interface {
	LogEvent(ctx context.Context, event Event) error
}
