package v1

import (
	"context"

	"github.com/gosuda/brainstorm/internal/domain"
)

// SessionManager abstracts session lifecycle operations for handler testing.
// *session.Manager satisfies this interface.
type SessionManager interface {
	CreateSession(ctx context.Context, premiseContent string, agentTemplateIDs []string) (*domain.Session, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context) ([]*domain.Session, error)
	NextTurn(ctx context.Context, id string) (domain.Message, error)
	AddUserMessage(ctx context.Context, id, content string) (domain.Message, error)
	History(ctx context.Context, id string) ([]domain.Message, error)
	NextSpeaker(ctx context.Context, id string) (domain.Agent, error)
}

// TemplateStore abstracts agent template storage for handler testing.
// *markdownstore.Store satisfies this interface. Template ids are file
// names; by convention a template is stored under its agent name.
type TemplateStore interface {
	LoadAgent(id string) (*domain.Agent, error)
	SaveAgent(id string, agent *domain.Agent) error
	ListAgentTemplates() ([]*domain.Agent, error)
}

// ModelCatalog abstracts provider discovery for handler testing.
// *provider.Registry satisfies this interface.
type ModelCatalog interface {
	Available() []string
	WithModels(ctx context.Context) map[string][]string
}
