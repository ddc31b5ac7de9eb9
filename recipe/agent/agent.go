// Package agent provides the shared plumbing used by every provider
// adapter under recipe/agent/*: a named-profile registry mapping an
// AgentNode's agent_name to a concrete model and system prompt, and the
// convention for turning a node's resolved inputs into a single prompt
// string.
//
// Each provider subpackage (anthropic, openai, google, mock) implements
// recipe.AgentExecutor independently, mirroring how the teacher engine
// kept its model adapters as separate, dependency-isolated packages
// under graph/model/*.
package agent

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Profile names one addressable agent: which model answers for it and
// what system prompt frames the call. AgentNode.agent_name in the
// manifest looks up a Profile by this key.
type Profile struct {
	Model        string
	SystemPrompt string
}

// Registry maps agent_name to Profile. A missing name is a caller error
// surfaced as ErrUnknownAgent.
type Registry map[string]Profile

// ErrUnknownAgent is returned when Invoke is called with an agent_name
// absent from the Registry.
type ErrUnknownAgent struct{ Name string }

func (e *ErrUnknownAgent) Error() string {
	return fmt.Sprintf("agent: unknown agent profile %q", e.Name)
}

// BuildPrompt renders a node's resolved inputs (predecessor outputs
// keyed by node_id, plus the reserved "__inputs__" entry) into a single
// deterministic user-turn string. Keys are sorted so repeated calls
// with the same inputs produce byte-identical prompts.
func BuildPrompt(inputs map[string]any) string {
	keys := make([]string, 0, len(inputs))
	for k := range inputs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		encoded, err := json.Marshal(inputs[k])
		if err != nil {
			encoded = []byte(fmt.Sprintf("%v", inputs[k]))
		}
		parts = append(parts, fmt.Sprintf("%s: %s", k, encoded))
	}

	out, err := json.MarshalIndent(map[string]any{"inputs": parts}, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", inputs)
	}
	return string(out)
}

// ResolveOverride reads a string override by key, falling back to def
// when the override map is nil or the key is absent or not a string.
func ResolveOverride(overrides map[string]any, key, def string) string {
	if overrides == nil {
		return def
	}
	if v, ok := overrides[key].(string); ok && v != "" {
		return v
	}
	return def
}
