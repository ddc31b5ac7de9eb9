package recipe

import "context"

// AgentExecutor dispatches an AgentNode to an external model call.
// Implementations may optionally satisfy StreamingAgentExecutor to
// forward incremental chunks as NODE_STREAM events.
type AgentExecutor interface {
	Invoke(ctx context.Context, agentName string, inputs map[string]any, overrides map[string]any) (Output, error)
}

// StreamChunk is forwarded verbatim as a NODE_STREAM event payload
// chunk; the engine does not interpret its contents.
type StreamChunk = any

// StreamingAgentExecutor is an AgentExecutor that can additionally
// stream incremental output before its final result. onChunk is called
// synchronously from within InvokeStream, once per chunk, in order.
type StreamingAgentExecutor interface {
	AgentExecutor
	InvokeStream(ctx context.Context, agentName string, inputs map[string]any, overrides map[string]any, onChunk func(StreamChunk)) (Output, error)
}

// ToolExecutor dispatches a LogicNode's tool_name (the manifest's
// "code" field) to a deterministic local transformation.
type ToolExecutor interface {
	Execute(ctx context.Context, toolName string, args map[string]any) (Output, error)
}

// HumanGate suspends execution pending an externally supplied
// decision. A zero timeout means wait indefinitely (SPEC_FULL.md
// §4.3); a positive timeout bounds the wait and an expiry surfaces as
// ErrHumanTimeout.
type HumanGate interface {
	AwaitDecision(ctx context.Context, nodeID string, inputs map[string]any, timeoutMS int64) (Output, error)
}

// ManifestValidator parses an untyped raw manifest (e.g. the
// JSON/YAML decoded into map[string]any, or raw bytes) into a typed
// Recipe, or returns a ValidationError.
type ManifestValidator interface {
	Parse(raw any) (*Recipe, error)
}

// AuditSink receives a best-effort copy of every emitted Event.
// Failures here never fail the run.
type AuditSink interface {
	Record(ctx context.Context, event Event)
}

// ExecutionContext bundles the capabilities and per-run metadata a
// Runner needs to dispatch node work and emit telemetry. It is
// supplied fresh (or reused read-only) per Controller.ExecuteRecipe
// call.
type ExecutionContext struct {
	UserID     string
	TraceID    string
	SecretsMap map[string]string

	AgentExecutor     AgentExecutor
	ToolExecutor      ToolExecutor
	HumanGate         HumanGate
	ManifestValidator ManifestValidator
	AuditSink         AuditSink

	// MaxParallelNodes bounds concurrent node execution within a
	// layer. Zero means the engine default (8) applies.
	MaxParallelNodes int
}
