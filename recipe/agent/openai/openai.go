// Package openai adapts OpenAI's chat completion API to recipe.AgentExecutor.
package openai

import (
	"context"
	"fmt"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/CoReason-AI/coreason-maco/recipe"
	"github.com/CoReason-AI/coreason-maco/recipe/agent"
)

// Executor implements recipe.AgentExecutor against OpenAI's chat
// completions endpoint.
type Executor struct {
	client   *openaisdk.Client
	profiles agent.Registry
}

// NewExecutor builds an Executor bound to an API key and profile registry.
func NewExecutor(apiKey string, profiles agent.Registry) *Executor {
	client := openaisdk.NewClient(option.WithAPIKey(apiKey))
	return &Executor{client: &client, profiles: profiles}
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

	messages := make([]openaisdk.ChatCompletionMessageParamUnion, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, openaisdk.SystemMessage(systemPrompt))
	}
	messages = append(messages, openaisdk.UserMessage(prompt))

	resp, err := e.client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model:    modelName,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	var text string
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}

	return recipe.Output{
		"text":          text,
		"model":         modelName,
		"input_tokens":  resp.Usage.PromptTokens,
		"output_tokens": resp.Usage.CompletionTokens,
	}, nil
}
