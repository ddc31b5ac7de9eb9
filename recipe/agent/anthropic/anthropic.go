// Package anthropic adapts Anthropic's Claude API to recipe.AgentExecutor.
package anthropic

import (
	"context"
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/CoReason-AI/coreason-maco/recipe"
	"github.com/CoReason-AI/coreason-maco/recipe/agent"
)

// Executor implements recipe.AgentExecutor against Anthropic's Messages
// API. agent_name resolves through the Registry to a (model, system
// prompt) pair; overrides may set "model" or "system_prompt" per call.
type Executor struct {
	client    *anthropicsdk.Client
	profiles  agent.Registry
	maxTokens int64
}

// NewExecutor builds an Executor. maxTokens defaults to 4096 when <= 0,
// matching the teacher adapter's default.
func NewExecutor(apiKey string, profiles agent.Registry, maxTokens int64) *Executor {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	client := anthropicsdk.NewClient(option.WithAPIKey(apiKey))
	return &Executor{client: &client, profiles: profiles, maxTokens: maxTokens}
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

	params := anthropicsdk.MessageNewParams{
		Model:     anthropicsdk.Model(modelName),
		MaxTokens: e.maxTokens,
		Messages:  []anthropicsdk.MessageParam{anthropicsdk.NewUserMessage(anthropicsdk.NewTextBlock(prompt))},
	}
	if systemPrompt != "" {
		params.System = []anthropicsdk.TextBlockParam{{Text: systemPrompt}}
	}

	resp, err := e.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if tb, ok := block.AsAny().(anthropicsdk.TextBlock); ok {
			if text != "" {
				text += "\n"
			}
			text += tb.Text
		}
	}

	return recipe.Output{
		"text":          text,
		"model":         modelName,
		"input_tokens":  resp.Usage.InputTokens,
		"output_tokens": resp.Usage.OutputTokens,
	}, nil
}
