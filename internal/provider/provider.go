// Package provider defines the text-generation capability consumed by the
// turn-taking engine and the name-keyed registry used to resolve one for an
// agent's service type.
package provider

import (
	"context"

	"github.com/gosuda/brainstorm/internal/domain"
)

// Provider generates one conversational turn for an agent. Implementations
// wrap a single external text-generation service.
type Provider interface {
	// Generate returns the agent's next contribution given the session
	// premise and the ordered conversation history so far.
	Generate(ctx context.Context, agent domain.Agent, premise domain.Premise, history []domain.Message) (string, error)

	// Models returns the model identifiers the service currently offers.
	Models(ctx context.Context) ([]string, error)
}
