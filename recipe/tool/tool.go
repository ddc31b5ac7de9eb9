// Package tool provides the recipe.ToolExecutor plumbing for LogicNode
// dispatch: a Tool interface matching the teacher engine's graph/tool
// package, and a Registry that looks a LogicNode's manifest "code"
// field up by name.
package tool

import (
	"context"
	"fmt"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Tool is a single named, deterministic local transformation a
// LogicNode can invoke.
type Tool interface {
	Name() string
	Call(ctx context.Context, input map[string]any) (map[string]any, error)
}

// ErrUnknownTool is returned when Execute is called with a tool name
// absent from the Registry.
type ErrUnknownTool struct{ Name string }

func (e *ErrUnknownTool) Error() string {
	return fmt.Sprintf("tool: unknown tool %q", e.Name)
}

// Registry implements recipe.ToolExecutor by dispatching to registered
// Tools keyed by their Name().
type Registry struct {
	tools map[string]Tool
}

// NewRegistry builds a Registry from zero or more Tools.
func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{tools: make(map[string]Tool, len(tools))}
	for _, t := range tools {
		r.tools[t.Name()] = t
	}
	return r
}

// Register adds or replaces a Tool.
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// Execute satisfies recipe.ToolExecutor.
func (r *Registry) Execute(ctx context.Context, toolName string, args map[string]any) (recipe.Output, error) {
	t, ok := r.tools[toolName]
	if !ok {
		return nil, &ErrUnknownTool{Name: toolName}
	}
	out, err := t.Call(ctx, args)
	if err != nil {
		return nil, err
	}
	return recipe.Output(out), nil
}
