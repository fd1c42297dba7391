package domain

// Storage persists agent templates and sessions. Implementations report a
// missing file with ErrNotFound and a malformed document with ErrBadFormat.
type Storage interface {
	LoadAgent(id string) (*Agent, error)
	SaveAgent(id string, agent *Agent) error
	LoadSession(id string) (*Session, error)
	SaveSession(id string, session *Session) error
	ListAgentTemplates() ([]*Agent, error)
	ListSessions() ([]*Session, error)
}
