// Package history mirrors supervision events to an external sink for later
// analysis. The sink is optional; the plain-text failure logs remain the
// source of truth for the restart policy.
package history

import (
	"context"
	"time"
)

// EventType defines the kind of supervision event.
type EventType string

const (
	EventFailure EventType = "failure"
	EventRestart EventType = "restart"
	EventNotify  EventType = "notify"
)

// Event is one supervision event for a registered command.
type Event struct {
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	ID         string    `json:"id"`
	Command    string    `json:"command"`
	PID        int       `json:"pid"`
}

// Sink is a destination for supervision events. Implementations must be
// safe for concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}
