package recipe

import "fmt"

// ErrorKind is the machine-readable error taxonomy from spec.md §7.
type ErrorKind string

const (
	ErrCyclicDependency  ErrorKind = "CYCLIC_DEPENDENCY"
	ErrDanglingEdge      ErrorKind = "DANGLING_EDGE"
	ErrDisconnectedGraph ErrorKind = "DISCONNECTED_GRAPH"
	ErrManifestInvalid   ErrorKind = "MANIFEST_INVALID"
	ErrNodeExecFailed    ErrorKind = "NODE_EXECUTION_FAILED"
	ErrHumanTimeout      ErrorKind = "HUMAN_TIMEOUT"
	ErrCancelled         ErrorKind = "CANCELLED"
	ErrUnknownNodeKind   ErrorKind = "UNKNOWN_NODE_KIND"
)

// TopologyError is raised synchronously by Build; it never reaches the
// event stream.
type TopologyError struct {
	Kind    ErrorKind
	Message string
}

func (e *TopologyError) Error() string {
	return fmt.Sprintf("topology: %s: %s", e.Kind, e.Message)
}

func newDanglingEdgeError(edge Edge, missing string) *TopologyError {
	return &TopologyError{
		Kind:    ErrDanglingEdge,
		Message: fmt.Sprintf("edge %s->%s references undeclared node %q", edge.SourceNodeID, edge.TargetNodeID, missing),
	}
}

func newCyclicDependencyError(cycleHint string) *TopologyError {
	return &TopologyError{
		Kind:    ErrCyclicDependency,
		Message: fmt.Sprintf("graph contains a cycle involving %q", cycleHint),
	}
}

func newDisconnectedGraphError() *TopologyError {
	return &TopologyError{
		Kind:    ErrDisconnectedGraph,
		Message: "undirected projection has more than one connected component",
	}
}

// ValidationError wraps a ManifestValidator failure. It is raised
// synchronously by Controller.ExecuteRecipe, before the event stream
// opens. Kind is one of ErrManifestInvalid or ErrUnknownNodeKind
// (spec.md §7), letting a caller recover the documented error kind
// programmatically instead of string-matching Message.
type ValidationError struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("manifest invalid: %s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("manifest invalid: %s: %s", e.Kind, e.Message)
}

func (e *ValidationError) Unwrap() error { return e.Cause }

// NodeExecutionError wraps a capability failure raised while executing
// a node. It is never returned from Run; it is carried inside the
// terminal ERROR event's payload.
type NodeExecutionError struct {
	NodeID  string
	Kind    ErrorKind
	Message string
	Cause   error
}

func (e *NodeExecutionError) Error() string {
	return fmt.Sprintf("node %s: %s: %s", e.NodeID, e.Kind, e.Message)
}

func (e *NodeExecutionError) Unwrap() error { return e.Cause }

// ErrRunnerReused is returned by Run when a Runner instance is reused
// across executions. Invariant #5 (spec.md §3): at most one in-flight
// run per Runner instance. The Controller enforces fresh-runner-per-call
// to guarantee this never fires in normal use.
var ErrRunnerReused = fmt.Errorf("recipe: runner already used for a prior run")
