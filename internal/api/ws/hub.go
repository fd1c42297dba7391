// Package ws streams session events to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/events"
)

// SessionChecker verifies that a session exists before a client may
// subscribe to its events. *session.Manager satisfies this interface.
type SessionChecker interface {
	GetSession(ctx context.Context, id string) (*domain.Session, error)
}

// Hub manages WebSocket connections backed by the event bus.
type Hub struct {
	bus      events.Bus
	sessions SessionChecker
}

// NewHub creates a new WebSocket hub.
func NewHub(bus events.Bus, sessions SessionChecker) *Hub {
	return &Hub{bus: bus, sessions: sessions}
}

// ServeSession handles WebSocket connections for live conversation updates.
// Every message appended to the session (agent turns, user messages,
// recorded failures) is sent to the client as a JSON event.
func (h *Hub) ServeSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if _, err := h.sessions.GetSession(r.Context(), sessionID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "session not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to load session", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket accept")
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()

	eventCh, cleanup, err := h.bus.Subscribe(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Str("session_id", sessionID).Msg("websocket subscribe")
		_ = conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer cleanup()

	log.Debug().Str("session_id", sessionID).Msg("websocket client connected")

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "connection closed")
			return
		case event, open := <-eventCh:
			if !open {
				_ = conn.Close(websocket.StatusNormalClosure, "channel closed")
				return
			}
			payload, marshalErr := json.Marshal(event)
			if marshalErr != nil {
				log.Error().Err(marshalErr).Msg("websocket event marshal")
				continue
			}
			if writeErr := conn.Write(ctx, websocket.MessageText, payload); writeErr != nil {
				log.Debug().Err(writeErr).Msg("websocket write")
				return
			}
		}
	}
}
