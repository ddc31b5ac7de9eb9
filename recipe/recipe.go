// Package recipe implements the core of a workflow orchestration engine:
// it builds a validated DAG from a declarative Recipe, executes it layer
// by layer with bounded concurrency, and streams structured telemetry
// events as execution progresses.
//
// The engine owns no transport, no persistence, and no agent or tool
// implementations. Those are supplied by the caller through the
// capability interfaces in context.go and invoked via an ExecutionContext.
package recipe

// Kind discriminates the polymorphic Node variants. Dispatch on Kind is
// concentrated in the runner rather than scattered across node types.
type Kind string

const (
	KindAgent Kind = "agent"
	KindHuman Kind = "human"
	KindLogic Kind = "logic"
)

// Recipe is the immutable declarative input to the engine: metadata, an
// inputs schema, and a graph of nodes and edges. It is read-only once
// built into a Topology.
type Recipe struct {
	ID          string
	Version     string
	Name        string
	Description string

	// Inputs is a free-form mapping from input name to type tag, as
	// declared in the manifest. The engine does not enforce it; a
	// ManifestValidator may.
	Inputs map[string]string

	Graph Graph
}

// Graph is the raw node/edge list before topology validation.
type Graph struct {
	Nodes []Node
	Edges []Edge
}

// CouncilConfig promotes an AgentNode to a consensus node: the same
// resolved inputs are fanned out to every voter, and a synthesizer
// reconciles the verdicts.
type CouncilConfig struct {
	// Strategy is "consensus" (a reserved synthesizer agent reconciles
	// the votes) or "majority" (the runner tallies verbatim, no extra
	// agent call).
	Strategy string
	Voters   []string
}

// Node is a single polymorphic graph vertex. Kind-specific fields are
// populated only for the matching Kind; see the manifest shape in
// spec.md §6 for the source field names.
type Node struct {
	NodeID string
	Kind   Kind

	CouncilConfig  *CouncilConfig
	VisualMetadata map[string]string
	Metadata       map[string]any

	// AgentNode fields.
	AgentName string
	Overrides map[string]any

	// HumanNode fields. TimeoutMS is nil when the manifest omits
	// timeout_ms, meaning "wait indefinitely" (see SPEC_FULL.md §4.3).
	TimeoutMS *int64

	// LogicNode fields. ToolName is the manifest's "code" field,
	// interpreted as a tool identifier, never executable source.
	ToolName string
}

// Edge connects two declared nodes. Condition is an opaque string
// matched against the source node's output under the reserved
// "branch_key" field (see SPEC_FULL.md §4.3); an empty Condition means
// the edge is unconditional.
type Edge struct {
	SourceNodeID string
	TargetNodeID string
	Condition    string
}

// BranchKey is the reserved output field executors use to signal which
// named branch their result selects. An empty or missing branch_key
// never satisfies a non-empty edge condition.
const BranchKey = "branch_key"

// Output is the result produced by executing a single node. It is
// JSON-friendly by convention; executors that produce arbitrarily large
// results should store them externally and set ArtifactIDKey instead of
// inlining the payload (see spec.md §9 "Large artifacts" — the engine
// never inspects this key, it is documentation for executor authors).
type Output map[string]any

// ArtifactIDKey is the documented-but-unenforced convention for
// referencing externally stored large outputs.
const ArtifactIDKey = "artifact_id"

// Snapshot is an unordered mapping of already-completed node outputs
// supplied by the caller to skip re-execution on resume. The engine
// never serializes a Snapshot itself; see recipe/snapshotstore for a
// caller-side persistence helper.
type Snapshot map[string]Output

// ReservedInputsKey is the key under which the resolved-inputs mapping
// passed to a node carries the run's global inputs, alongside each
// predecessor's output keyed by node_id.
const ReservedInputsKey = "__inputs__"

// ReservedSynthesizerAgent is the agent name invoked for a "consensus"
// council's synthesis step.
const ReservedSynthesizerAgent = "__council_synthesizer__"
