package domain

import "time"

// HumanAuthor is the reserved author name for messages injected by the
// person driving the session rather than by an agent.
const HumanAuthor = "Human"

// Message is one entry in a session's conversation log. Messages are
// append-only: once created they are never mutated.
type Message struct {
	Author    string    `json:"author"`
	Timestamp time.Time `json:"timestamp" doc:"Creation time, always UTC"`
	Content   string    `json:"content"`
}

// IsHuman reports whether the message was injected by the human driver.
func (m Message) IsHuman() bool {
	return m.Author == HumanAuthor || m.Author == "user"
}
