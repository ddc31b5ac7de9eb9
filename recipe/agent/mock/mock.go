// Package mock provides a scriptable recipe.AgentExecutor for tests,
// grounded on the teacher engine's model.MockChatModel: configurable
// responses, error injection, and call history, safe for concurrent
// council voting.
package mock

import (
	"context"
	"sync"
	"time"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Call records a single Invoke (or InvokeStream) for test assertions.
type Call struct {
	AgentName string
	Inputs    map[string]any
	Overrides map[string]any
}

// Executor is a test double implementing both recipe.AgentExecutor and
// recipe.StreamingAgentExecutor. Responses is consumed in order per
// agent name, repeating the last entry once exhausted; Default is
// returned for an agent name with no queued responses.
type Executor struct {
	mu sync.Mutex

	// Responses maps agent_name to a queue of outputs returned in
	// order; the last one repeats once the queue is drained.
	Responses map[string][]recipe.Output

	// Default is returned for an agent_name with no queued responses.
	Default recipe.Output

	// Err, if set, is returned instead of a response for every call.
	Err error

	// StreamChunks, if set, are delivered via InvokeStream before the
	// final output, one at a time.
	StreamChunks []recipe.StreamChunk

	Calls []Call

	indices map[string]int
}

// NewExecutor builds an empty Executor ready for Responses/Default/Err
// to be set by the caller before use.
func NewExecutor() *Executor {
	return &Executor{Responses: make(map[string][]recipe.Output), indices: make(map[string]int)}
}

// Invoke satisfies recipe.AgentExecutor.
func (e *Executor) Invoke(ctx context.Context, agentName string, inputs map[string]any, overrides map[string]any) (recipe.Output, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = append(e.Calls, Call{AgentName: agentName, Inputs: inputs, Overrides: overrides})

	if e.Err != nil {
		return nil, e.Err
	}

	queue := e.Responses[agentName]
	if len(queue) == 0 {
		return e.Default, nil
	}
	if e.indices == nil {
		e.indices = make(map[string]int)
	}
	idx := e.indices[agentName]
	if idx >= len(queue) {
		idx = len(queue) - 1
	} else {
		e.indices[agentName] = idx + 1
	}
	return queue[idx], nil
}

// InvokeStream satisfies recipe.StreamingAgentExecutor, delivering
// StreamChunks synchronously before returning the same result Invoke
// would produce.
func (e *Executor) InvokeStream(ctx context.Context, agentName string, inputs map[string]any, overrides map[string]any, onChunk func(recipe.StreamChunk)) (recipe.Output, error) {
	for _, c := range e.StreamChunks {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		onChunk(c)
		time.Sleep(time.Millisecond)
	}
	return e.Invoke(ctx, agentName, inputs, overrides)
}

// Reset clears call history and response indices, for reuse across
// test cases.
func (e *Executor) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls = nil
	e.indices = make(map[string]int)
}

// CallCount returns the number of recorded Invoke/InvokeStream calls.
func (e *Executor) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Calls)
}
