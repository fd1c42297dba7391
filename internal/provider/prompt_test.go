package provider_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/provider"
)

func TestBuildPrompt(t *testing.T) {
	t.Parallel()

	agent := domain.Agent{Name: "Critic", Service: "mock", Model: "m", SystemPrompt: "You poke holes."}
	premise := domain.Premise{ID: "p", Content: "Invent a better bicycle."}

	ts := time.Date(2026, 2, 2, 8, 0, 0, 0, time.UTC)
	history := []domain.Message{
		{Author: "Researcher", Timestamp: ts, Content: "## [Researcher]:\n\nFact one."},
		{Author: "Critic", Timestamp: ts, Content: "## [Critic]:\n\nWeak."},
		{Author: domain.HumanAuthor, Timestamp: ts, Content: "## [Human]:\n\nFocus."},
	}

	prompt := provider.BuildPrompt(agent, premise, history)
	require.Len(t, prompt, 5)

	// System prompt first, duplicated as the opening user message.
	assert.Equal(t, "system", prompt[0].Role)
	assert.Equal(t, "user", prompt[1].Role)
	assert.Equal(t, prompt[0].Content, prompt[1].Content)
	assert.Contains(t, prompt[0].Content, "You are Critic.")
	assert.Contains(t, prompt[0].Content, "You poke holes.")
	assert.Contains(t, prompt[0].Content, "Invent a better bicycle.")

	// The agent's own past messages are assistant turns, all others user.
	assert.Equal(t, "user", prompt[2].Role)
	assert.Equal(t, "assistant", prompt[3].Role)
	assert.Equal(t, "user", prompt[4].Role)
	assert.Equal(t, history[1].Content, prompt[3].Content)
}

func TestBuildPrompt_EmptyHistory(t *testing.T) {
	t.Parallel()

	prompt := provider.BuildPrompt(
		domain.Agent{Name: "Solo"},
		domain.Premise{Content: "topic"},
		nil,
	)

	// Even with no history there is always at least one user message.
	require.Len(t, prompt, 2)
	assert.Equal(t, "system", prompt[0].Role)
	assert.Equal(t, "user", prompt[1].Role)
}
