// Package google adapts Google's Gemini API to recipe.AgentExecutor.
package google

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/CoReason-AI/coreason-maco/recipe"
	"github.com/CoReason-AI/coreason-maco/recipe/agent"
)

// Executor implements recipe.AgentExecutor against Gemini's
// GenerateContent API.
type Executor struct {
	client   *genai.Client
	profiles agent.Registry
}

// NewExecutor builds an Executor from an already-dialed genai.Client
// (constructed with genai.NewClient(ctx, option.WithAPIKey(key)) by the
// caller, since client construction itself is context-bound).
func NewExecutor(client *genai.Client, profiles agent.Registry) *Executor {
	return &Executor{client: client, profiles: profiles}
}

// Invoke satisfies recipe.AgentExecutor.
func (e *Executor) Invoke(ctx context.Context, agentName string, inputs map[string]any, overrides map[string]any) (recipe.Output, error) {
	profile, ok := e.profiles[agentName]
	if !ok {
		return nil, &agent.ErrUnknownAgent{Name: agentName}
	}

	modelName := agent.ResolveOverride(overrides, "model", profile.Model)
	systemPrompt := agent.ResolveOverride(overrides, "system_prompt", profile.SystemPrompt)
	prompt := agent.BuildPrompt(inputs)

	model := e.client.GenerativeModel(modelName)
	if systemPrompt != "" {
		model.SystemInstruction = genai.NewUserContent(genai.Text(systemPrompt))
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("google: %w", err)
	}

	var text string
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if t, ok := part.(genai.Text); ok {
				if text != "" {
					text += "\n"
				}
				text += string(t)
			}
		}
	}

	out := recipe.Output{"text": text, "model": modelName}
	if resp != nil && resp.UsageMetadata != nil {
		out["input_tokens"] = resp.UsageMetadata.PromptTokenCount
		out["output_tokens"] = resp.UsageMetadata.CandidatesTokenCount
	}
	return out, nil
}

// option.WithAPIKey is re-exported for callers composing the client the
// same way NewExecutor expects; kept as a thin alias so importers of
// this package do not need a separate import of google.golang.org/api.
var WithAPIKey = option.WithAPIKey
