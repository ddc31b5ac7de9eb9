package recipe

import (
	"errors"
	"testing"
)

func linearRecipe() *Recipe {
	return &Recipe{
		ID: "r1",
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "b", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "c", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "a", TargetNodeID: "b"},
				{SourceNodeID: "b", TargetNodeID: "c"},
			},
		},
	}
}

func TestBuild_LinearChainLayers(t *testing.T) {
	topo, err := Build(linearRecipe())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	layers := topo.Layers()
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d: %v", len(layers), layers)
	}
	for i, id := range []string{"a", "b", "c"} {
		if len(layers[i]) != 1 || layers[i][0] != id {
			t.Errorf("layer %d = %v, want [%s]", i, layers[i], id)
		}
	}
}

func TestBuild_DiamondLayersTogether(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "start", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "left", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "right", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "end", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "start", TargetNodeID: "left"},
				{SourceNodeID: "start", TargetNodeID: "right"},
				{SourceNodeID: "left", TargetNodeID: "end"},
				{SourceNodeID: "right", TargetNodeID: "end"},
			},
		},
	}

	topo, err := Build(recipe)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	layers := topo.Layers()
	if len(layers) != 3 {
		t.Fatalf("expected 3 layers, got %d: %v", len(layers), layers)
	}
	if len(layers[1]) != 2 {
		t.Fatalf("expected left/right in the same layer, got %v", layers[1])
	}
}

func TestBuild_CyclicDependencyRejected(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "b", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "a", TargetNodeID: "b"},
				{SourceNodeID: "b", TargetNodeID: "a"},
			},
		},
	}

	_, err := Build(recipe)
	var topoErr *TopologyError
	if !errors.As(err, &topoErr) || topoErr.Kind != ErrCyclicDependency {
		t.Fatalf("expected CYCLIC_DEPENDENCY, got %v", err)
	}
}

func TestBuild_DanglingEdgeRejected(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "a", TargetNodeID: "ghost"},
			},
		},
	}

	_, err := Build(recipe)
	var topoErr *TopologyError
	if !errors.As(err, &topoErr) || topoErr.Kind != ErrDanglingEdge {
		t.Fatalf("expected DANGLING_EDGE, got %v", err)
	}
}

func TestBuild_DisconnectedGraphRejected(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "b", Kind: KindLogic, ToolName: "noop"},
			},
		},
	}

	_, err := Build(recipe)
	var topoErr *TopologyError
	if !errors.As(err, &topoErr) || topoErr.Kind != ErrDisconnectedGraph {
		t.Fatalf("expected DISCONNECTED_GRAPH, got %v", err)
	}
}

func TestBuild_DuplicateEdgeRejected(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "b", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "a", TargetNodeID: "b"},
				{SourceNodeID: "a", TargetNodeID: "b", Condition: "x"},
			},
		},
	}

	_, err := Build(recipe)
	var topoErr *TopologyError
	if !errors.As(err, &topoErr) || topoErr.Kind != ErrManifestInvalid {
		t.Fatalf("expected MANIFEST_INVALID for duplicate edge, got %v", err)
	}
}

func TestBuild_SingleNodeIsConnected(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{{NodeID: "solo", Kind: KindLogic, ToolName: "noop"}},
		},
	}
	if _, err := Build(recipe); err != nil {
		t.Fatalf("Build: %v", err)
	}
}

func TestTopology_NodeIDsOrderedByLayerThenSorted(t *testing.T) {
	recipe := &Recipe{
		Graph: Graph{
			Nodes: []Node{
				{NodeID: "root", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "z", Kind: KindLogic, ToolName: "noop"},
				{NodeID: "a", Kind: KindLogic, ToolName: "noop"},
			},
			Edges: []Edge{
				{SourceNodeID: "root", TargetNodeID: "z"},
				{SourceNodeID: "root", TargetNodeID: "a"},
			},
		},
	}
	topo, err := Build(recipe)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ids := topo.NodeIDs()
	if len(ids) != 3 || ids[0] != "root" || ids[1] != "a" || ids[2] != "z" {
		t.Errorf("NodeIDs() = %v, want [root a z]", ids)
	}
}
