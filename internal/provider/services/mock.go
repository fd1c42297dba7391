// Package services contains the concrete text-generation providers.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/gosuda/brainstorm/internal/domain"
)

// Mock model names with fixed behavior.
const (
	MockModelReturns = "AlwaysReturns"
	MockModelThrows  = "AlwaysThrows"
)

// Mock is a deterministic provider for tests and offline demos. The model
// name selects the behavior: AlwaysReturns yields a canned response,
// AlwaysThrows always fails.
type Mock struct {
	models []string
}

// NewMock creates a mock provider. With no arguments it offers the two
// built-in models.
func NewMock(models ...string) *Mock {
	if len(models) == 0 {
		models = []string{MockModelReturns, MockModelThrows}
	}
	return &Mock{models: models}
}

func (m *Mock) Generate(_ context.Context, agent domain.Agent, premise domain.Premise, history []domain.Message) (string, error) {
	log.Debug().Str("agent", agent.Name).Str("model", agent.Model).Msg("mock generate")

	switch agent.Model {
	case MockModelReturns:
		excerpt := premise.Content
		if len(excerpt) > 50 {
			excerpt = excerpt[:50]
		}
		return fmt.Sprintf(
			"This is a mock response from the AlwaysReturns model.\n\nAgent: %s\nPremise: %s\nMessage Count: %d",
			agent.Name, excerpt, len(history),
		), nil
	case MockModelThrows:
		return "", errors.New("mock provider was asked to fail (AlwaysThrows)")
	default:
		return "", fmt.Errorf("unknown mock model %q", agent.Model)
	}
}

func (m *Mock) Models(context.Context) ([]string, error) {
	out := make([]string, len(m.models))
	copy(out, m.models)
	return out, nil
}
