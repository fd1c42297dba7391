package provider

import (
	"fmt"

	"github.com/gosuda/brainstorm/internal/domain"
)

// PromptMessage is one entry of a provider-agnostic chat prompt. Role is
// "system", "user" or "assistant"; providers reshape these into their own
// request formats.
type PromptMessage struct {
	Role    string
	Content string
}

// SystemPrompt builds the extended system prompt for an agent: persona,
// session premise and the speaker-prefix convention used in the history.
func SystemPrompt(agent domain.Agent, premise domain.Premise) string {
	return fmt.Sprintf(
		"You are %s. %s\n\n"+
			"Context: %s\n\n"+
			"You will be provided with the history of the conversation so far with each participant's message prefixed by the name of the speaker in the form `[<SpeakerName>]: `\n\n"+
			"When responding, DO NOT add the prefix to your response!\n\n",
		agent.Name, agent.SystemPrompt, premise.Content,
	)
}

// BuildPrompt maps the conversation history into a chat prompt for one
// agent. The agent's own past messages become assistant turns and everyone
// else's become user turns. The system prompt is duplicated as the first
// user message so the conversation never starts without one.
func BuildPrompt(agent domain.Agent, premise domain.Premise, history []domain.Message) []PromptMessage {
	system := SystemPrompt(agent, premise)

	messages := make([]PromptMessage, 0, len(history)+2)
	messages = append(messages,
		PromptMessage{Role: "system", Content: system},
		PromptMessage{Role: "user", Content: system},
	)

	for _, msg := range history {
		role := "user"
		if msg.Author == agent.Name {
			role = "assistant"
		}
		messages = append(messages, PromptMessage{Role: role, Content: msg.Content})
	}

	return messages
}
