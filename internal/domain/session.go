package domain

import "time"

// Session is one persisted brainstorming conversation: a premise, an ordered
// agent roster (list order is rotation order) and an append-only message log.
// The premise and roster are fixed at construction; only the log grows.
//
// A Session is not safe for concurrent use. Callers must serialize access to
// the same instance; persistence is an explicit separate save step.
type Session struct {
	ID       string    `json:"id"`
	Created  time.Time `json:"created" doc:"Creation time, always UTC"`
	Premise  Premise   `json:"premise"`
	Agents   []Agent   `json:"agents"`
	Messages []Message `json:"messages"`
}

// NewSession creates a fresh session with an empty message log.
func NewSession(id string, created time.Time, premise Premise, agents []Agent) *Session {
	return &Session{
		ID:      id,
		Created: created.UTC(),
		Premise: premise,
		Agents:  agents,
	}
}

// AddMessage appends a message to the conversation log.
func (s *Session) AddMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// History returns a defensive copy of the message log in append order.
func (s *Session) History() []Message {
	out := make([]Message, len(s.Messages))
	copy(out, s.Messages)
	return out
}
