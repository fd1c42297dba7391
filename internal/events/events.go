// Package events fans conversation events out to live subscribers, either
// in-process or through Redis pub/sub when the server runs as multiple
// replicas.
package events

import (
	"context"

	"github.com/gosuda/brainstorm/internal/domain"
)

// Event types.
const (
	TypeMessage = "message"
)

// Event is one conversation update published to subscribers of a session.
type Event struct {
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Message   domain.Message `json:"message"`
}

// Bus publishes session events and hands out per-session subscriptions.
type Bus interface {
	// Publish delivers an event to all current subscribers of its session.
	Publish(ctx context.Context, event Event) error

	// Subscribe returns a channel of events for one session and a cleanup
	// function that must be called when the subscriber goes away. The
	// channel is closed when the context is cancelled.
	Subscribe(ctx context.Context, sessionID string) (<-chan Event, func(), error)
}
