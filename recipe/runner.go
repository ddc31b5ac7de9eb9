package recipe

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Runner is the heart of the engine: a layered, bounded-concurrency
// executor. It fans out independent nodes within a layer, enforces a
// barrier between layers, prunes dead branches, honors snapshot resume,
// and emits the event stream described in spec.md §4.1.
//
// A Runner executes at most one run (invariant #5, spec.md §3); the
// Controller is responsible for constructing a fresh Runner per call.
type Runner struct {
	topo    *Topology
	execCtx *ExecutionContext
	cfg     runnerConfig
	metrics *RunnerMetrics

	used atomic.Bool
	seq  int64
}

// NewRunner constructs a Runner bound to a Topology and an
// ExecutionContext. Options override context-level defaults.
func NewRunner(topo *Topology, execCtx *ExecutionContext, opts ...Option) *Runner {
	cfg := runnerConfig{maxParallelNodes: execCtx.MaxParallelNodes}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.maxParallelNodes <= 0 {
		cfg.maxParallelNodes = defaultMaxParallelNodes
	}
	if cfg.auditSink == nil {
		cfg.auditSink = execCtx.AuditSink
	}

	return &Runner{
		topo:    topo,
		execCtx: execCtx,
		cfg:     cfg,
		metrics: cfg.metrics,
	}
}

// runState holds the per-execution bookkeeping owned exclusively by the
// runner's scheduling goroutine. It is created at Run start and
// discarded at completion; it is never shared across runs.
type runState struct {
	stateMap      map[string]Output
	skipSet       map[string]bool
	restored      map[string]bool
	activeInbound map[string]bool
}

// Run executes the topology against inputs, optionally skipping
// already-completed nodes named in snapshot, and returns a lazy, finite
// stream of Events. The channel is closed when the run completes
// (normally, by a terminal ERROR, or by context cancellation).
func (r *Runner) Run(ctx context.Context, inputs map[string]any, snapshot Snapshot) (<-chan Event, error) {
	if !r.used.CompareAndSwap(false, true) {
		return nil, ErrRunnerReused
	}

	events := make(chan Event)
	go r.drive(ctx, inputs, snapshot, events)
	return events, nil
}

func (r *Runner) drive(ctx context.Context, inputs map[string]any, snapshot Snapshot, events chan<- Event) {
	defer close(events)

	runID := uuid.NewString()
	traceID := r.execCtx.TraceID
	if traceID == "" {
		traceID = uuid.NewString()
	}

	st := &runState{
		stateMap:      make(map[string]Output, len(r.topo.nodes)),
		skipSet:       make(map[string]bool),
		restored:      make(map[string]bool, len(snapshot)),
		activeInbound: make(map[string]bool, len(r.topo.nodes)),
	}
	for _, id := range r.topo.NodeIDs() {
		if len(r.topo.Predecessors(id)) == 0 {
			st.activeInbound[id] = true
		}
	}

	// NODE_INIT, layer order then sorted within layer (Topology.NodeIDs).
	for _, id := range r.topo.NodeIDs() {
		node, _ := r.topo.Node(id)
		r.emit(ctx, events, traceID, runID, id, EventNodeInit, map[string]any{"kind": string(node.Kind)}, node.VisualMetadata)
	}

	// Snapshot preload: nodes present in snapshot are treated as
	// complete and excluded from scheduling. Every restored node is
	// marked before any of them propagate, so an edge between two
	// adjacent restored nodes (A->B, both in snapshot) is never
	// mistaken for a live transition and reported as EDGE_ACTIVE.
	for _, id := range r.topo.NodeIDs() {
		output, ok := snapshot[id]
		if !ok {
			continue
		}
		st.stateMap[id] = output
		st.restored[id] = true
		node, _ := r.topo.Node(id)
		r.emit(ctx, events, traceID, runID, id, EventNodeRestored, map[string]any{"output": map[string]any(output)}, node.VisualMetadata)
	}
	for _, id := range r.topo.NodeIDs() {
		output, ok := snapshot[id]
		if !ok {
			continue
		}
		r.propagateFrom(ctx, events, traceID, runID, st, id, output)
	}

	sem := semaphore.NewWeighted(int64(r.cfg.maxParallelNodes))

	for _, layer := range r.topo.Layers() {
		if ctx.Err() != nil {
			return
		}

		// Decide skip_set membership for this layer before partitioning:
		// every predecessor is in a strictly earlier, already-barriered
		// layer, so activeInbound is final for every node here.
		for _, id := range layer {
			if st.restored[id] || st.skipSet[id] {
				continue
			}
			if len(r.topo.Predecessors(id)) > 0 && !st.activeInbound[id] {
				st.skipSet[id] = true
			}
		}

		var runnable []string
		for _, id := range layer {
			switch {
			case st.restored[id]:
				// no-op, already emitted above
			case st.skipSet[id]:
				node, _ := r.topo.Node(id)
				r.emit(ctx, events, traceID, runID, id, EventNodeSkipped, map[string]any{"reason": "PRUNED_BY_CONDITION"}, node.VisualMetadata)
			default:
				runnable = append(runnable, id)
			}
		}

		if len(runnable) == 0 {
			continue
		}

		results := make([]nodeOutcome, len(runnable))
		group, groupCtx := errgroup.WithContext(ctx)
		for i, id := range runnable {
			i, id := i, id
			group.Go(func() error {
				if err := sem.Acquire(groupCtx, 1); err != nil {
					return nil // context done; no event, cooperative cancellation
				}
				defer sem.Release(1)

				out, err := r.executeNode(groupCtx, events, traceID, runID, st, id, inputs, sem)
				results[i] = nodeOutcome{nodeID: id, output: out, err: err}
				if err != nil {
					return err
				}
				return nil
			})
		}
		groupErr := group.Wait()

		for _, res := range results {
			if res.nodeID == "" {
				continue // slot never ran (cooperative cancellation)
			}
			if res.err == nil {
				st.stateMap[res.nodeID] = res.output
			}
		}

		if groupErr != nil {
			if ctx.Err() != nil {
				return // consumer-initiated cancellation, no terminal event
			}
			r.emitError(ctx, events, traceID, runID, results, groupErr, st)
			return
		}

		for _, res := range results {
			if res.nodeID == "" {
				continue
			}
			r.propagateFrom(ctx, events, traceID, runID, st, res.nodeID, res.output)
		}
	}
}

type nodeOutcome struct {
	nodeID string
	output Output
	err    error
}

// propagateFrom evaluates every outgoing edge of a just-completed node
// u, emitting EDGE_ACTIVE and marking activeInbound for successors
// whose edge condition is satisfied. Restored successors are left
// untouched: they are already complete and are never skipped.
func (r *Runner) propagateFrom(ctx context.Context, events chan<- Event, traceID, runID string, st *runState, u string, output Output) {
	for _, v := range r.topo.Successors(u) {
		if st.restored[v] || st.skipSet[v] {
			continue
		}
		edge, _ := r.topo.Edge(u, v)
		if !conditionSatisfied(edge, output) {
			continue
		}
		st.activeInbound[v] = true
		r.emit(ctx, events, traceID, runID, "", EventEdgeActive, map[string]any{"from": u, "to": v}, nil)
	}
}

// conditionSatisfied implements the resolved interpretation of spec.md
// §9's open question: an empty condition is always satisfied; a
// non-empty one is matched as a named branch label against the
// executor-returned branch_key.
func conditionSatisfied(edge *Edge, output Output) bool {
	if edge == nil || edge.Condition == "" {
		return true
	}
	key, _ := output[BranchKey].(string)
	return key == edge.Condition
}

// executeNode dispatches one node by kind, emitting its NODE_START and
// (on success) NODE_DONE, including any council vote or streamed
// chunks in between.
func (r *Runner) executeNode(ctx context.Context, events chan<- Event, traceID, runID string, st *runState, nodeID string, inputs map[string]any, sem *semaphore.Weighted) (Output, error) {
	node, _ := r.topo.Node(nodeID)
	resolved := r.resolveInputs(st, node, inputs)

	r.emit(ctx, events, traceID, runID, nodeID, EventNodeStart, map[string]any{"inputs_summary": resolved}, node.VisualMetadata)
	r.metrics.nodeStarted()
	start := time.Now()

	var (
		out         Output
		err         error
		votePayload map[string]any
	)

	switch node.Kind {
	case KindAgent:
		if node.CouncilConfig != nil {
			out, votePayload, err = r.runCouncil(ctx, sem, node, resolved)
		} else if streamer, ok := r.execCtx.AgentExecutor.(StreamingAgentExecutor); ok {
			out, err = streamer.InvokeStream(ctx, node.AgentName, resolved, node.Overrides, func(chunk StreamChunk) {
				r.emit(ctx, events, traceID, runID, nodeID, EventNodeStream, map[string]any{"chunk": chunk}, node.VisualMetadata)
			})
		} else {
			out, err = r.execCtx.AgentExecutor.Invoke(ctx, node.AgentName, resolved, node.Overrides)
		}
	case KindLogic:
		out, err = r.execCtx.ToolExecutor.Execute(ctx, node.ToolName, resolved)
	case KindHuman:
		out, err = r.awaitHuman(ctx, node, resolved)
	default:
		err = &NodeExecutionError{NodeID: nodeID, Kind: ErrUnknownNodeKind, Message: "unrecognized node kind " + string(node.Kind)}
	}

	latency := float64(time.Since(start).Microseconds()) / 1000.0

	if err != nil {
		r.metrics.nodeFinished(node.Kind, "error", latency)
		if nee, ok := err.(*NodeExecutionError); ok {
			nee.NodeID = nodeID
			return nil, nee
		}
		return nil, &NodeExecutionError{NodeID: nodeID, Kind: ErrNodeExecFailed, Message: err.Error(), Cause: err}
	}

	if votePayload != nil {
		r.emit(ctx, events, traceID, runID, nodeID, EventCouncilVote, votePayload, node.VisualMetadata)
	}

	donePayload := map[string]any{"output": map[string]any(out)}
	if cost, ok := estimateCost(out); ok {
		donePayload["cost"] = cost
	}
	r.emit(ctx, events, traceID, runID, nodeID, EventNodeDone, donePayload, node.VisualMetadata)
	r.metrics.nodeFinished(node.Kind, "done", latency)

	return out, nil
}

// awaitHuman resolves the effective timeout (node override, else the
// runner's configured default, else indefinite — spec.md §9 open
// question) and wraps the gate call so an expired wait surfaces as
// ErrHumanTimeout.
func (r *Runner) awaitHuman(ctx context.Context, node *Node, resolved map[string]any) (Output, error) {
	var timeoutMS int64
	switch {
	case node.TimeoutMS != nil && *node.TimeoutMS > 0:
		timeoutMS = *node.TimeoutMS
	case r.cfg.defaultHumanTimeout > 0:
		timeoutMS = r.cfg.defaultHumanTimeout.Milliseconds()
	}

	callCtx := ctx
	var cancel context.CancelFunc
	if timeoutMS > 0 {
		callCtx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
		defer cancel()
	}

	out, err := r.execCtx.HumanGate.AwaitDecision(callCtx, node.NodeID, resolved, timeoutMS)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, &NodeExecutionError{NodeID: node.NodeID, Kind: ErrHumanTimeout, Message: "human gate timed out", Cause: err}
		}
		return nil, err
	}
	return out, nil
}

// resolveInputs collects every predecessor's completed output, keyed
// by node_id, plus the run's global inputs under the reserved
// "__inputs__" key. All reads happen here, on the scheduler side,
// before dispatch — the map handed to an executor is a snapshot.
func (r *Runner) resolveInputs(st *runState, node *Node, inputs map[string]any) map[string]any {
	preds := r.topo.Predecessors(node.NodeID)
	resolved := make(map[string]any, len(preds)+1)
	for _, p := range preds {
		resolved[p] = map[string]any(st.stateMap[p])
	}
	resolved[ReservedInputsKey] = inputs
	return resolved
}

func (r *Runner) emitError(ctx context.Context, events chan<- Event, traceID, runID string, results []nodeOutcome, groupErr error, st *runState) {
	var failed *NodeExecutionError
	for _, res := range results {
		if res.err != nil {
			if nee, ok := res.err.(*NodeExecutionError); ok {
				failed = nee
				break
			}
		}
	}
	if failed == nil {
		failed = &NodeExecutionError{Kind: ErrNodeExecFailed, Message: groupErr.Error(), Cause: groupErr}
	}

	snapshot := make(map[string]any, len(st.stateMap))
	for k, v := range st.stateMap {
		snapshot[k] = map[string]any(v)
	}

	r.emit(ctx, events, traceID, runID, failed.NodeID, EventError, map[string]any{
		"node_id":    failed.NodeID,
		"error_kind": string(failed.Kind),
		"message":    failed.Message,
		"snapshot":   snapshot,
	}, nil)
}

// emit assigns the next sequence number, builds the Event, and sends it
// on the stream, blocking for consumer backpressure but yielding to run
// cancellation. It also forwards a best-effort copy to the audit sink.
func (r *Runner) emit(ctx context.Context, events chan<- Event, traceID, runID, nodeID string, et EventType, payload map[string]any, nodeVisuals map[string]string) {
	seq := atomic.AddInt64(&r.seq, 1)
	ev := Event{
		TraceID:    traceID,
		RunID:      runID,
		Timestamp:  time.Now().UTC(),
		SequenceID: seq,
		NodeID:     nodeID,
		EventType:  et,
		Payload:    payload,
		Visuals:    mergeVisuals(et, nodeVisuals),
	}

	select {
	case events <- ev:
	case <-ctx.Done():
		return
	}

	if r.cfg.auditSink != nil {
		r.cfg.auditSink.Record(ctx, ev)
	}
}
