package v1_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/gosuda/brainstorm/internal/api/v1"
	"github.com/gosuda/brainstorm/internal/domain"
)

func newSessionTestAPI(t *testing.T) (humatest.TestAPI, *mockSessionManager) {
	t.Helper()

	_, api := humatest.New(t)
	manager := &mockSessionManager{}
	v1.RegisterSessionRoutes(api, manager)

	return api, manager
}

func TestCreateSession(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		session := makeSession("jam-1")

		manager.createFunc = func(_ context.Context, premise string, ids []string) (*domain.Session, error) {
			assert.Equal(t, "Invent a better bicycle.", premise)
			assert.Equal(t, []string{"Optimist", "Skeptic"}, ids)
			return session, nil
		}

		resp := api.Post("/sessions", map[string]any{
			"premise": "Invent a better bicycle.",
			"agents":  []string{"Optimist", "Skeptic"},
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Session
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "jam-1", body.ID)
		assert.Len(t, body.Agents, 2)
	})

	t.Run("unknown_template", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.createFunc = func(context.Context, string, []string) (*domain.Session, error) {
			return nil, domain.ErrNotFound
		}

		resp := api.Post("/sessions", map[string]any{
			"premise": "topic",
			"agents":  []string{"missing"},
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
		body := parseErrorBody(t, resp.Body.Bytes())
		assert.Contains(t, body["detail"], "unknown agent template")
	})

	t.Run("empty_roster_rejected_by_schema", func(t *testing.T) {
		t.Parallel()

		api, _ := newSessionTestAPI(t)

		resp := api.Post("/sessions", map[string]any{
			"premise": "topic",
			"agents":  []string{},
		})

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestGetSession(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.getFunc = func(_ context.Context, id string) (*domain.Session, error) {
			assert.Equal(t, "jam-1", id)
			return makeSession("jam-1"), nil
		}

		resp := api.Get("/sessions/jam-1")

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Session
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "jam-1", body.ID)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.getFunc = func(context.Context, string) (*domain.Session, error) {
			return nil, domain.ErrNotFound
		}

		resp := api.Get("/sessions/missing")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("malformed_document", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.getFunc = func(context.Context, string) (*domain.Session, error) {
			return nil, domain.ErrBadFormat
		}

		resp := api.Get("/sessions/broken")

		assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	})
}

func TestListSessions(t *testing.T) {
	t.Parallel()

	api, manager := newSessionTestAPI(t)
	manager.listFunc = func(context.Context) ([]*domain.Session, error) {
		return []*domain.Session{makeSession("jam-1"), makeSession("jam-2")}, nil
	}

	resp := api.Get("/sessions")

	require.Equal(t, http.StatusOK, resp.Code)

	var body []domain.Session
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestNextTurn(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.nextTurnFunc = func(_ context.Context, id string) (domain.Message, error) {
			assert.Equal(t, "jam-1", id)
			return domain.Message{
				Author:    "Optimist",
				Timestamp: time.Date(2025, 3, 1, 12, 5, 0, 0, time.UTC),
				Content:   "## [Optimist]:\n\nWhat about airless tires?",
			}, nil
		}

		resp := api.Post("/sessions/jam-1/next")

		require.Equal(t, http.StatusOK, resp.Code)

		var body domain.Message
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, "Optimist", body.Author)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.nextTurnFunc = func(context.Context, string) (domain.Message, error) {
			return domain.Message{}, domain.ErrNotFound
		}

		resp := api.Post("/sessions/missing/next")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}

func TestAddUserMessage(t *testing.T) {
	t.Parallel()

	api, manager := newSessionTestAPI(t)
	manager.addMessageFunc = func(_ context.Context, id, content string) (domain.Message, error) {
		assert.Equal(t, "jam-1", id)
		assert.Equal(t, "please focus on cost", content)
		return domain.Message{Author: domain.HumanAuthor, Content: content}, nil
	}

	resp := api.Post("/sessions/jam-1/messages", map[string]any{
		"content": "please focus on cost",
	})

	require.Equal(t, http.StatusOK, resp.Code)

	var body domain.Message
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, domain.HumanAuthor, body.Author)
}

func TestListMessages(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.historyFunc = func(context.Context, string) ([]domain.Message, error) {
			return []domain.Message{
				{Author: "Optimist", Content: "first"},
				{Author: "Skeptic", Content: "second"},
			}, nil
		}

		resp := api.Get("/sessions/jam-1/messages")

		require.Equal(t, http.StatusOK, resp.Code)

		var body []domain.Message
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		require.Len(t, body, 2)
		assert.Equal(t, "Optimist", body[0].Author)
	})

	t.Run("not_found", func(t *testing.T) {
		t.Parallel()

		api, manager := newSessionTestAPI(t)
		manager.historyFunc = func(context.Context, string) ([]domain.Message, error) {
			return nil, fmt.Errorf("load: %w", domain.ErrNotFound)
		}

		resp := api.Get("/sessions/missing/messages")

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})
}
