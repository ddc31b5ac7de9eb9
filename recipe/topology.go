package recipe

import "sort"

// Topology is the validated, in-memory DAG derived from a Recipe. It is
// read-only once built and is owned by a Runner for the duration of a
// run (spec.md §3 "Ownership").
type Topology struct {
	recipe       *Recipe
	nodes        map[string]*Node
	successors   map[string][]string
	predecessors map[string][]string
	edges        map[edgeKey]*Edge
	layers       [][]string
}

type edgeKey struct {
	from, to string
}

// Build inserts all nodes into a directed graph, then all edges,
// proving the result is acyclic and fully connected, and computes
// execution layers via Kahn's algorithm. See spec.md §3 invariants 1-4
// and §4.2.
func Build(recipe *Recipe) (*Topology, error) {
	t := &Topology{
		recipe:       recipe,
		nodes:        make(map[string]*Node, len(recipe.Graph.Nodes)),
		successors:   make(map[string][]string),
		predecessors: make(map[string][]string),
		edges:        make(map[edgeKey]*Edge, len(recipe.Graph.Edges)),
	}

	for i := range recipe.Graph.Nodes {
		n := &recipe.Graph.Nodes[i]
		t.nodes[n.NodeID] = n
		if _, ok := t.successors[n.NodeID]; !ok {
			t.successors[n.NodeID] = nil
		}
		if _, ok := t.predecessors[n.NodeID]; !ok {
			t.predecessors[n.NodeID] = nil
		}
	}

	for i := range recipe.Graph.Edges {
		e := recipe.Graph.Edges[i]
		if _, ok := t.nodes[e.SourceNodeID]; !ok {
			return nil, newDanglingEdgeError(e, e.SourceNodeID)
		}
		if _, ok := t.nodes[e.TargetNodeID]; !ok {
			return nil, newDanglingEdgeError(e, e.TargetNodeID)
		}
		key := edgeKey{e.SourceNodeID, e.TargetNodeID}
		if _, dup := t.edges[key]; dup {
			// At most one edge per (source, target); last one wins is
			// not an option here since it would silently drop a
			// condition — reject the manifest instead.
			return nil, &TopologyError{Kind: ErrManifestInvalid, Message: "duplicate edge " + e.SourceNodeID + "->" + e.TargetNodeID}
		}
		ec := e
		t.edges[key] = &ec
		t.successors[e.SourceNodeID] = append(t.successors[e.SourceNodeID], e.TargetNodeID)
		t.predecessors[e.TargetNodeID] = append(t.predecessors[e.TargetNodeID], e.SourceNodeID)
	}

	if err := t.checkConnected(); err != nil {
		return nil, err
	}

	layers, err := t.computeLayers()
	if err != nil {
		return nil, err
	}
	t.layers = layers

	return t, nil
}

// checkConnected enforces invariant #3: the undirected projection has
// exactly one connected component when there are >= 2 nodes.
func (t *Topology) checkConnected() error {
	if len(t.nodes) < 2 {
		return nil
	}

	adjacency := make(map[string][]string, len(t.nodes))
	for key := range t.edges {
		adjacency[key.from] = append(adjacency[key.from], key.to)
		adjacency[key.to] = append(adjacency[key.to], key.from)
	}

	var start string
	for id := range t.nodes {
		start = id
		break
	}

	visited := map[string]bool{start: true}
	stack := []string{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adjacency[cur] {
			if !visited[next] {
				visited[next] = true
				stack = append(stack, next)
			}
		}
	}

	if len(visited) != len(t.nodes) {
		return newDisconnectedGraphError()
	}
	return nil
}

// computeLayers runs Kahn's algorithm, producing generations: the set
// of all nodes with zero unresolved in-degree is extracted as one
// layer, in-degree of successors is decremented, and the process
// repeats until empty. Intra-layer order is sorted by node_id for
// deterministic NODE_INIT emission, though spec.md leaves this
// unspecified and tests must not assert on it.
func (t *Topology) computeLayers() ([][]string, error) {
	indegree := make(map[string]int, len(t.nodes))
	for id := range t.nodes {
		indegree[id] = len(t.predecessors[id])
	}

	var layers [][]string
	remaining := len(t.nodes)

	for remaining > 0 {
		var layer []string
		for id, deg := range indegree {
			if deg == 0 {
				layer = append(layer, id)
			}
		}
		if len(layer) == 0 {
			// Nodes remain but none are ready: a cycle exists among them.
			var hint string
			for id, deg := range indegree {
				if deg > 0 {
					hint = id
					break
				}
			}
			return nil, newCyclicDependencyError(hint)
		}

		sort.Strings(layer)
		for _, id := range layer {
			delete(indegree, id)
			remaining--
			for _, succ := range t.successors[id] {
				if _, ok := indegree[succ]; ok {
					indegree[succ]--
				}
			}
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

// Layers returns the ordered list of execution layers, each an
// independent set of node IDs.
func (t *Topology) Layers() [][]string { return t.layers }

// Successors returns the direct successors of a node.
func (t *Topology) Successors(nodeID string) []string { return t.successors[nodeID] }

// Predecessors returns the direct predecessors of a node.
func (t *Topology) Predecessors(nodeID string) []string { return t.predecessors[nodeID] }

// Edge looks up the edge between two nodes, if declared.
func (t *Topology) Edge(from, to string) (*Edge, bool) {
	e, ok := t.edges[edgeKey{from, to}]
	return e, ok
}

// Node looks up a node by ID.
func (t *Topology) Node(nodeID string) (*Node, bool) {
	n, ok := t.nodes[nodeID]
	return n, ok
}

// NodeIDs returns every declared node ID, in layer order then sorted
// within each layer.
func (t *Topology) NodeIDs() []string {
	ids := make([]string, 0, len(t.nodes))
	for _, layer := range t.layers {
		ids = append(ids, layer...)
	}
	return ids
}
