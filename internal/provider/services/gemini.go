package services

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/gosuda/brainstorm/internal/domain"
	"github.com/gosuda/brainstorm/internal/provider"
)

// geminiModels is the fixed catalogue offered through this provider.
var geminiModels = []string{"gemini-2.5-flash", "gemini-2.5-pro"} //nolint:gochecknoglobals // static catalogue

// Gemini generates turns through the official genai client.
type Gemini struct {
	cli *genai.Client
}

// NewGemini creates the Gemini provider. The API key may be empty, in which
// case the genai client falls back to the GEMINI_API_KEY environment variable.
func NewGemini(ctx context.Context, apiKey string) (*Gemini, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Gemini{cli: cli}, nil
}

func (p *Gemini) Generate(ctx context.Context, agent domain.Agent, premise domain.Premise, history []domain.Message) (string, error) {
	prompt := provider.BuildPrompt(agent, premise, history)

	// Flatten the chat prompt into one text part; the speaker prefixes in
	// the history already identify who said what.
	var sb strings.Builder
	for _, m := range prompt {
		if m.Role == "system" {
			continue
		}
		sb.WriteString(m.Content)
		sb.WriteString("\n\n")
	}

	resp, err := p.cli.Models.GenerateContent(ctx, agent.Model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: sb.String()}}}},
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: provider.SystemPrompt(agent, premise)}}},
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: response contains no candidates")
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}

func (p *Gemini) Models(context.Context) ([]string, error) {
	out := make([]string, len(geminiModels))
	copy(out, geminiModels)
	return out, nil
}
