// Package session implements the turn-taking engine: the rotation cursor
// over a session's agent roster, one-turn dispatch to a resolved provider,
// and user message injection.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/provider"
)

// Resolver looks up a generation provider by service type name.
// *provider.Registry satisfies it.
type Resolver interface {
	Resolve(name string) (provider.Provider, error)
}

// Runner drives one session, one turn at a time. The next-speaker cursor is
// never persisted: on resume it is re-derived from the stored history by
// NextIndexFromHistory.
//
// A Runner is not safe for concurrent use; callers must serialize Next and
// AddUserMessage against the same instance.
type Runner struct {
	session   *domain.Session
	providers Resolver
	cursor    int
}

// NewRunner creates a runner for a session, deriving the cursor from the
// session's message history. The session must have at least one agent.
func NewRunner(session *domain.Session, providers Resolver) (*Runner, error) {
	if len(session.Agents) == 0 {
		return nil, fmt.Errorf("session.NewRunner: session %q has no agents", session.ID)
	}

	r := &Runner{
		session:   session,
		providers: providers,
		cursor:    NextIndexFromHistory(session.Messages, session.Agents),
	}
	log.Debug().Str("session_id", session.ID).
		Str("next_agent", r.NextAgent().Name).
		Msg("session runner initialized")
	return r, nil
}

// Session returns the session driven by this runner.
func (r *Runner) Session() *domain.Session {
	return r.session
}

// NextAgent returns the agent that speaks on the next call to Next.
func (r *Runner) NextAgent() domain.Agent {
	return r.session.Agents[r.cursor]
}

// Next runs one turn: it resolves a provider for the current agent, asks it
// to generate, and appends the result to the conversation log. Generation
// failures (including an unregistered provider) are recorded as visible
// conversation messages rather than returned; the cursor advances by exactly
// one position on every path. The appended message is returned.
func (r *Runner) Next(ctx context.Context) domain.Message {
	agent := r.NextAgent()

	var content string
	p, err := r.providers.Resolve(agent.Service)
	switch {
	case errors.Is(err, provider.ErrUnknownProvider):
		log.Warn().Str("session_id", r.session.ID).Str("agent", agent.Name).
			Str("service", agent.Service).Msg("no provider registered for agent")
		content = formatErrorWithSpeaker(agent.Name, categoryProviderNotFound,
			fmt.Errorf("no provider available with name %q", agent.Service))
	case err != nil:
		log.Error().Err(err).Str("session_id", r.session.ID).Str("agent", agent.Name).
			Msg("provider resolution failed")
		content = formatErrorWithSpeaker(agent.Name, categoryProviderFailure, err)
	default:
		text, genErr := p.Generate(ctx, agent, r.session.Premise, r.session.History())
		if genErr != nil {
			log.Error().Err(genErr).Str("session_id", r.session.ID).Str("agent", agent.Name).
				Msg("turn generation failed")
			content = formatErrorWithSpeaker(agent.Name, categoryProviderFailure, genErr)
		} else {
			content = FormatWithSpeaker(agent.Name, StripSpeakerPrefix(text))
		}
	}

	msg := domain.Message{
		Author:    agent.Name,
		Timestamp: time.Now().UTC(),
		Content:   content,
	}
	r.session.AddMessage(msg)
	r.advance()

	log.Info().Str("session_id", r.session.ID).Str("agent", agent.Name).
		Str("next_agent", r.NextAgent().Name).Msg("turn completed")
	return msg
}

// AddUserMessage appends a message from the human driver with the same
// speaker-header formatting. The cursor does not move.
func (r *Runner) AddUserMessage(content string) domain.Message {
	msg := domain.Message{
		Author:    domain.HumanAuthor,
		Timestamp: time.Now().UTC(),
		Content:   FormatWithSpeaker(domain.HumanAuthor, content),
	}
	r.session.AddMessage(msg)
	return msg
}

// History returns a defensive copy of the conversation log in append order.
func (r *Runner) History() []domain.Message {
	return r.session.History()
}

func (r *Runner) advance() {
	r.cursor = (r.cursor + 1) % len(r.session.Agents)
}

// NextIndexFromHistory derives the rotation cursor purely from persisted
// state: the agent after the author of the most recent non-human message.
// With no agent-authored messages, or when that author has left the roster,
// the rotation restarts at index 0.
func NextIndexFromHistory(messages []domain.Message, agents []domain.Agent) int {
	if len(agents) == 0 {
		return 0
	}

	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].IsHuman() {
			continue
		}
		for p, agent := range agents {
			if agent.Name == messages[i].Author {
				return (p + 1) % len(agents)
			}
		}
		return 0
	}
	return 0
}
