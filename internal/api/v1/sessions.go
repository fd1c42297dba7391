package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/brainstorm/internal/domain"
)

type CreateSessionInput struct {
	Body struct {
		Premise string   `json:"premise" minLength:"1" doc:"Shared context for every turn of the conversation"`
		Agents  []string `json:"agents" minItems:"1" doc:"Agent template ids in rotation order"`
	}
}

type CreateSessionOutput struct {
	Body *domain.Session
}

type ListSessionsOutput struct {
	Body []*domain.Session
}

type GetSessionInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type GetSessionOutput struct {
	Body *domain.Session
}

type NextTurnInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type NextTurnOutput struct {
	Body domain.Message
}

type AddUserMessageInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body struct {
		Content string `json:"content" minLength:"1" doc:"Message text"`
	}
}

type AddUserMessageOutput struct {
	Body domain.Message
}

type ListMessagesInput struct {
	ID string `path:"id" doc:"Session ID"`
}

type ListMessagesOutput struct {
	Body []domain.Message
}

func RegisterSessionRoutes(api huma.API, sessions SessionManager) {
	huma.Register(api, huma.Operation{
		OperationID: "create-session",
		Method:      http.MethodPost,
		Path:        "/sessions",
		Summary:     "Create a brainstorming session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *CreateSessionInput) (*CreateSessionOutput, error) {
		session, err := sessions.CreateSession(ctx, input.Body.Premise, input.Body.Agents)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("unknown agent template", err)
			}
			if errors.Is(err, domain.ErrBadFormat) {
				return nil, huma.Error422UnprocessableEntity("agent template is malformed", err)
			}
			return nil, huma.Error500InternalServerError("failed to create session", err)
		}

		return &CreateSessionOutput{Body: session}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-sessions",
		Method:      http.MethodGet,
		Path:        "/sessions",
		Summary:     "List all sessions",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, _ *struct{}) (*ListSessionsOutput, error) {
		list, err := sessions.ListSessions(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list sessions", err)
		}

		return &ListSessionsOutput{Body: list}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-session",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}",
		Summary:     "Get a session by ID",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *GetSessionInput) (*GetSessionOutput, error) {
		session, err := sessions.GetSession(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("session not found")
			}
			if errors.Is(err, domain.ErrBadFormat) {
				return nil, huma.Error422UnprocessableEntity("session document is malformed", err)
			}
			return nil, huma.Error500InternalServerError("failed to load session", err)
		}

		return &GetSessionOutput{Body: session}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "next-turn",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/next",
		Summary:     "Advance the session by one turn",
		Description: "Runs the next agent in rotation. A generation failure is recorded as an error message in the log rather than failing the request.",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *NextTurnInput) (*NextTurnOutput, error) {
		msg, err := sessions.NextTurn(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("session not found")
			}
			return nil, huma.Error500InternalServerError("failed to advance session", err)
		}

		return &NextTurnOutput{Body: msg}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "add-user-message",
		Method:      http.MethodPost,
		Path:        "/sessions/{id}/messages",
		Summary:     "Inject a human message into the session",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *AddUserMessageInput) (*AddUserMessageOutput, error) {
		msg, err := sessions.AddUserMessage(ctx, input.ID, input.Body.Content)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("session not found")
			}
			return nil, huma.Error500InternalServerError("failed to add message", err)
		}

		return &AddUserMessageOutput{Body: msg}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-messages",
		Method:      http.MethodGet,
		Path:        "/sessions/{id}/messages",
		Summary:     "Get the session's conversation log",
		Tags:        []string{"Sessions"},
	}, func(ctx context.Context, input *ListMessagesInput) (*ListMessagesOutput, error) {
		history, err := sessions.History(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("session not found")
			}
			return nil, huma.Error500InternalServerError("failed to load messages", err)
		}

		return &ListMessagesOutput{Body: history}, nil
	})
}
