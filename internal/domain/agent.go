package domain

// Agent is one participant in a brainstorming session. The name doubles as
// the rotation identity and as the role discriminator when building prompts
// (an agent's own past messages become "assistant" turns, everyone else's
// become "user" turns). Agents are immutable after construction.
type Agent struct {
	Name         string `json:"name" doc:"Unique participant name within a session"`
	Service      string `json:"service" doc:"Provider that generates this agent's turns (openai, anthropic, gemini, mock)"`
	Model        string `json:"model" doc:"Provider-specific model identifier"`
	SystemPrompt string `json:"system_prompt" doc:"Persona and instructions for the agent"`
}

// Premise is the static context text shared by every turn of a session.
type Premise struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}
