package markdown

import (
	"fmt"
	"time"

	"github.com/gosuda/brainstorm/internal/domain"
)

// TimestampLayout is the offset-less wire form for timestamps. Values are
// written in UTC and always reinterpreted as UTC on read.
const TimestampLayout = "2006-01-02T15:04:05"

// Segment type discriminators, stored in the required "type" property.
const (
	TypeSession = "session"
	TypePremise = "premise"
	TypeAgent   = "agent"
	TypeMessage = "message"
)

// Segment is the atomic unit of the document format: one tag's properties
// plus the free text that follows it.
type Segment struct {
	Props   *Properties
	Content string
}

// NewSegment creates a segment, substituting empty properties for nil.
func NewSegment(props *Properties, content string) Segment {
	if props == nil {
		props = NewProperties()
	}
	return Segment{Props: props, Content: content}
}

// Type returns the value of the "type" property, or "" when absent.
func (s Segment) Type() string {
	t, _ := s.Props.Get("type")
	return t
}

// RequiredProperty returns the named property, or ErrBadFormat when absent.
func (s Segment) RequiredProperty(name string) (string, error) {
	v, ok := s.Props.Get(name)
	if !ok {
		return "", fmt.Errorf("markdown: missing required property: %s: %w", name, domain.ErrBadFormat)
	}
	return v, nil
}

// RequiredTimestampUTC parses the named property as an offset-less timestamp
// interpreted as UTC. Missing or unparsable values yield ErrBadFormat.
func (s Segment) RequiredTimestampUTC(name string) (time.Time, error) {
	v, err := s.RequiredProperty(name)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := time.ParseInLocation(TimestampLayout, v, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("markdown: property %s: invalid timestamp %q: %w", name, v, domain.ErrBadFormat)
	}
	return ts, nil
}

// ToAgent converts an agent-typed segment into a domain agent. The system
// prompt is the segment content.
func (s Segment) ToAgent() (*domain.Agent, error) {
	name, err := s.RequiredProperty("name")
	if err != nil {
		return nil, err
	}
	service, err := s.RequiredProperty("service")
	if err != nil {
		return nil, err
	}
	model, err := s.RequiredProperty("model")
	if err != nil {
		return nil, err
	}
	return &domain.Agent{
		Name:         name,
		Service:      service,
		Model:        model,
		SystemPrompt: s.Content,
	}, nil
}

// FromAgent converts a domain agent into an agent-typed segment.
func FromAgent(agent *domain.Agent) Segment {
	return NewSegment(NewProperties(
		"type", TypeAgent,
		"name", agent.Name,
		"service", agent.Service,
		"model", agent.Model,
	), agent.SystemPrompt)
}

// ToPremise converts a premise-typed segment into a domain premise. The id
// is supplied by the caller because it is not stored in the segment.
func (s Segment) ToPremise(id string) *domain.Premise {
	return &domain.Premise{ID: id, Content: s.Content}
}

// FromPremise converts a domain premise into a premise-typed segment.
func FromPremise(premise *domain.Premise) Segment {
	return NewSegment(NewProperties("type", TypePremise), premise.Content)
}

// ToMessage converts a message-typed segment into a domain message.
func (s Segment) ToMessage() (*domain.Message, error) {
	from, err := s.RequiredProperty("from")
	if err != nil {
		return nil, err
	}
	ts, err := s.RequiredTimestampUTC("timestamp")
	if err != nil {
		return nil, err
	}
	return &domain.Message{
		Author:    from,
		Timestamp: ts,
		Content:   s.Content,
	}, nil
}

// FromMessage converts a domain message into a message-typed segment.
func FromMessage(msg *domain.Message) Segment {
	return NewSegment(NewProperties(
		"type", TypeMessage,
		"from", msg.Author,
		"timestamp", msg.Timestamp.UTC().Format(TimestampLayout),
	), msg.Content)
}

// FromSessionHeader builds the session-typed header segment carrying the
// creation timestamp and a human-readable heading.
func FromSessionHeader(id string, session *domain.Session) Segment {
	return NewSegment(NewProperties(
		"type", TypeSession,
		"created", session.Created.UTC().Format(TimestampLayout),
	), "# Session "+id)
}
