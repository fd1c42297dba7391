package v1_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gosuda/brainstorm/internal/domain"
)

// ---------------------------------------------------------------------------
// Mock SessionManager
// ---------------------------------------------------------------------------

type mockSessionManager struct {
	createFunc      func(ctx context.Context, premise string, ids []string) (*domain.Session, error)
	getFunc         func(ctx context.Context, id string) (*domain.Session, error)
	listFunc        func(ctx context.Context) ([]*domain.Session, error)
	nextTurnFunc    func(ctx context.Context, id string) (domain.Message, error)
	addMessageFunc  func(ctx context.Context, id, content string) (domain.Message, error)
	historyFunc     func(ctx context.Context, id string) ([]domain.Message, error)
	nextSpeakerFunc func(ctx context.Context, id string) (domain.Agent, error)
}

func (m *mockSessionManager) CreateSession(ctx context.Context, premise string, ids []string) (*domain.Session, error) {
	return m.createFunc(ctx, premise, ids)
}

func (m *mockSessionManager) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return m.getFunc(ctx, id)
}

func (m *mockSessionManager) ListSessions(ctx context.Context) ([]*domain.Session, error) {
	return m.listFunc(ctx)
}

func (m *mockSessionManager) NextTurn(ctx context.Context, id string) (domain.Message, error) {
	return m.nextTurnFunc(ctx, id)
}

func (m *mockSessionManager) AddUserMessage(ctx context.Context, id, content string) (domain.Message, error) {
	return m.addMessageFunc(ctx, id, content)
}

func (m *mockSessionManager) History(ctx context.Context, id string) ([]domain.Message, error) {
	return m.historyFunc(ctx, id)
}

func (m *mockSessionManager) NextSpeaker(ctx context.Context, id string) (domain.Agent, error) {
	return m.nextSpeakerFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock TemplateStore
// ---------------------------------------------------------------------------

type mockTemplateStore struct {
	loadFunc func(id string) (*domain.Agent, error)
	saveFunc func(id string, agent *domain.Agent) error
	listFunc func() ([]*domain.Agent, error)
}

func (m *mockTemplateStore) LoadAgent(id string) (*domain.Agent, error) { return m.loadFunc(id) }

func (m *mockTemplateStore) SaveAgent(id string, agent *domain.Agent) error {
	return m.saveFunc(id, agent)
}

func (m *mockTemplateStore) ListAgentTemplates() ([]*domain.Agent, error) { return m.listFunc() }

// ---------------------------------------------------------------------------
// Mock ModelCatalog
// ---------------------------------------------------------------------------

type mockModelCatalog struct {
	available  []string
	withModels map[string][]string
}

func (m *mockModelCatalog) Available() []string { return m.available }

func (m *mockModelCatalog) WithModels(context.Context) map[string][]string { return m.withModels }

// ---------------------------------------------------------------------------
// Fixtures
// ---------------------------------------------------------------------------

func makeSession(id string) *domain.Session {
	return domain.NewSession(id, time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		domain.Premise{ID: id, Content: "Invent a better bicycle."},
		[]domain.Agent{
			{Name: "Optimist", Service: "openai", Model: "gpt-4o", SystemPrompt: "Be positive."},
			{Name: "Skeptic", Service: "anthropic", Model: "claude-sonnet", SystemPrompt: "Find flaws."},
		})
}

// parseErrorBody decodes the RFC 9457 problem detail from the response body.
func parseErrorBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}
