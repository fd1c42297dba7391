package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/gosuda/brainstorm/internal/domain"
)

type ListAgentTemplatesOutput struct {
	Body []*domain.Agent
}

type GetAgentTemplateInput struct {
	ID string `path:"id" doc:"Agent template ID"`
}

type GetAgentTemplateOutput struct {
	Body *domain.Agent
}

type PutAgentTemplateInput struct {
	ID   string `path:"id" doc:"Agent template ID"`
	Body domain.Agent
}

type PutAgentTemplateOutput struct {
	Body *domain.Agent
}

func RegisterAgentRoutes(api huma.API, store TemplateStore) {
	huma.Register(api, huma.Operation{
		OperationID: "list-agent-templates",
		Method:      http.MethodGet,
		Path:        "/agents",
		Summary:     "List agent templates",
		Tags:        []string{"Agents"},
	}, func(_ context.Context, _ *struct{}) (*ListAgentTemplatesOutput, error) {
		agents, err := store.ListAgentTemplates()
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list agent templates", err)
		}

		return &ListAgentTemplatesOutput{Body: agents}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-agent-template",
		Method:      http.MethodGet,
		Path:        "/agents/{id}",
		Summary:     "Get an agent template by ID",
		Tags:        []string{"Agents"},
	}, func(_ context.Context, input *GetAgentTemplateInput) (*GetAgentTemplateOutput, error) {
		agent, err := store.LoadAgent(input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("agent template not found")
			}
			if errors.Is(err, domain.ErrBadFormat) {
				return nil, huma.Error422UnprocessableEntity("agent template is malformed", err)
			}
			return nil, huma.Error500InternalServerError("failed to load agent template", err)
		}

		return &GetAgentTemplateOutput{Body: agent}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "put-agent-template",
		Method:      http.MethodPut,
		Path:        "/agents/{id}",
		Summary:     "Create or replace an agent template",
		Tags:        []string{"Agents"},
	}, func(_ context.Context, input *PutAgentTemplateInput) (*PutAgentTemplateOutput, error) {
		agent := input.Body
		if err := store.SaveAgent(input.ID, &agent); err != nil {
			return nil, huma.Error500InternalServerError("failed to save agent template", err)
		}

		return &PutAgentTemplateOutput{Body: &agent}, nil
	})
}
