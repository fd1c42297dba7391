package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/events"
)

// Notifier is told about turns that ended in a generation failure.
type Notifier interface {
	TurnFailed(ctx context.Context, sessionID, agentName string)
}

// Manager owns the live runners and ties each turn to persistence and event
// fan-out: every completed turn or injected user message is saved to storage
// and published on the bus before the call returns.
//
// Turn operations on the same session are serialized by a per-session lock;
// a runner never sees concurrent callers.
type Manager struct {
	store     domain.Storage
	providers Resolver
	bus       events.Bus
	notifier  Notifier // nil when notifications are not configured

	mu      sync.Mutex
	actives map[string]*activeSession
}

type activeSession struct {
	mu     sync.Mutex
	runner *Runner
}

func NewManager(store domain.Storage, providers Resolver, bus events.Bus, notifier Notifier) *Manager {
	return &Manager{
		store:     store,
		providers: providers,
		bus:       bus,
		notifier:  notifier,
		actives:   make(map[string]*activeSession),
	}
}

// CreateSession builds a fresh session from a premise and a list of agent
// template ids, persists it and returns it. The roster rotates in the order
// the template ids are given.
func (m *Manager) CreateSession(ctx context.Context, premiseContent string, agentTemplateIDs []string) (*domain.Session, error) {
	if len(agentTemplateIDs) == 0 {
		return nil, fmt.Errorf("session.Manager.CreateSession: at least one agent is required")
	}

	agents := make([]domain.Agent, 0, len(agentTemplateIDs))
	for _, templateID := range agentTemplateIDs {
		agent, err := m.store.LoadAgent(templateID)
		if err != nil {
			return nil, fmt.Errorf("session.Manager.CreateSession: agent template %q: %w", templateID, err)
		}
		agents = append(agents, *agent)
	}

	id := uuid.New().String()
	sess := domain.NewSession(id, time.Now().UTC(),
		domain.Premise{ID: id, Content: premiseContent}, agents)

	if err := m.store.SaveSession(id, sess); err != nil {
		return nil, fmt.Errorf("session.Manager.CreateSession: %w", err)
	}

	log.Info().Str("session_id", id).Int("agents", len(agents)).Msg("session created")

	_, err := m.activate(ctx, sess)
	if err != nil {
		return nil, fmt.Errorf("session.Manager.CreateSession: %w", err)
	}
	return sess, nil
}

// GetSession returns the live session when one is active, falling back to
// storage otherwise.
func (m *Manager) GetSession(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	active, ok := m.actives[id]
	m.mu.Unlock()

	if ok {
		return active.runner.Session(), nil
	}

	sess, err := m.store.LoadSession(id)
	if err != nil {
		return nil, fmt.Errorf("session.Manager.GetSession: %w", err)
	}
	return sess, nil
}

// ListSessions returns every persisted session.
func (m *Manager) ListSessions(context.Context) ([]*domain.Session, error) {
	sessions, err := m.store.ListSessions()
	if err != nil {
		return nil, fmt.Errorf("session.Manager.ListSessions: %w", err)
	}
	return sessions, nil
}

// NextTurn advances one session by a single turn, persists the grown log and
// publishes the appended message. The turn itself never fails; only loading
// or saving the session can return an error.
func (m *Manager) NextTurn(ctx context.Context, id string) (domain.Message, error) {
	active, err := m.resolveActive(ctx, id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("session.Manager.NextTurn: %w", err)
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	msg := active.runner.Next(ctx)

	if err := m.store.SaveSession(id, active.runner.Session()); err != nil {
		return domain.Message{}, fmt.Errorf("session.Manager.NextTurn: %w", err)
	}

	m.publish(ctx, id, msg)

	if m.notifier != nil && IsErrorMessage(msg) {
		m.notifier.TurnFailed(ctx, id, msg.Author)
	}

	return msg, nil
}

// AddUserMessage injects a human message into a session, persists and
// publishes it. The rotation cursor does not move.
func (m *Manager) AddUserMessage(ctx context.Context, id, content string) (domain.Message, error) {
	active, err := m.resolveActive(ctx, id)
	if err != nil {
		return domain.Message{}, fmt.Errorf("session.Manager.AddUserMessage: %w", err)
	}

	active.mu.Lock()
	defer active.mu.Unlock()

	msg := active.runner.AddUserMessage(content)

	if err := m.store.SaveSession(id, active.runner.Session()); err != nil {
		return domain.Message{}, fmt.Errorf("session.Manager.AddUserMessage: %w", err)
	}

	m.publish(ctx, id, msg)
	return msg, nil
}

// History returns a session's message log in append order.
func (m *Manager) History(ctx context.Context, id string) ([]domain.Message, error) {
	sess, err := m.GetSession(ctx, id)
	if err != nil {
		return nil, err
	}
	return sess.History(), nil
}

// NextSpeaker returns the agent that will speak on the next turn.
func (m *Manager) NextSpeaker(ctx context.Context, id string) (domain.Agent, error) {
	active, err := m.resolveActive(ctx, id)
	if err != nil {
		return domain.Agent{}, fmt.Errorf("session.Manager.NextSpeaker: %w", err)
	}

	active.mu.Lock()
	defer active.mu.Unlock()
	return active.runner.NextAgent(), nil
}

// resolveActive returns the live state for a session, reconstructing it from
// storage on first touch.
func (m *Manager) resolveActive(ctx context.Context, id string) (*activeSession, error) {
	m.mu.Lock()
	if active, ok := m.actives[id]; ok {
		m.mu.Unlock()
		return active, nil
	}
	m.mu.Unlock()

	sess, err := m.store.LoadSession(id)
	if err != nil {
		return nil, err
	}
	return m.activate(ctx, sess)
}

func (m *Manager) activate(_ context.Context, sess *domain.Session) (*activeSession, error) {
	runner, err := NewRunner(sess, m.providers)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another caller may have activated the session while we were loading.
	if active, ok := m.actives[sess.ID]; ok {
		return active, nil
	}

	active := &activeSession{runner: runner}
	m.actives[sess.ID] = active
	return active, nil
}

func (m *Manager) publish(ctx context.Context, id string, msg domain.Message) {
	if m.bus == nil {
		return
	}
	event := events.Event{Type: events.TypeMessage, SessionID: id, Message: msg}
	if err := m.bus.Publish(ctx, event); err != nil {
		log.Warn().Err(err).Str("session_id", id).Msg("event publish failed")
	}
}
