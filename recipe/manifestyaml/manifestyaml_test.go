package manifestyaml

import (
	"errors"
	"testing"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

const sampleManifest = `
id: rec-1
version: "1"
name: sample
inputs:
  topic: string
graph:
  nodes:
    - node_id: draft
      type: agent
      agent_name: writer
    - node_id: review
      type: human
      timeout_ms: 60000
    - node_id: publish
      type: logic
      code: publish_tool
  edges:
    - source_node_id: draft
      target_node_id: review
    - source_node_id: review
      target_node_id: publish
      condition: approved
`

func TestValidator_ParseValidManifest(t *testing.T) {
	v := New()
	rec, err := v.Parse([]byte(sampleManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if rec.ID != "rec-1" || rec.Name != "sample" {
		t.Errorf("unexpected recipe metadata: %+v", rec)
	}
	if len(rec.Graph.Nodes) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(rec.Graph.Nodes))
	}

	byID := map[string]recipe.Node{}
	for _, n := range rec.Graph.Nodes {
		byID[n.NodeID] = n
	}

	if byID["draft"].Kind != recipe.KindAgent || byID["draft"].AgentName != "writer" {
		t.Errorf("draft node = %+v", byID["draft"])
	}
	if byID["review"].Kind != recipe.KindHuman || byID["review"].TimeoutMS == nil || *byID["review"].TimeoutMS != 60000 {
		t.Errorf("review node = %+v", byID["review"])
	}
	if byID["publish"].Kind != recipe.KindLogic || byID["publish"].ToolName != "publish_tool" {
		t.Errorf("publish node = %+v", byID["publish"])
	}

	if len(rec.Graph.Edges) != 2 || rec.Graph.Edges[1].Condition != "approved" {
		t.Errorf("unexpected edges: %+v", rec.Graph.Edges)
	}
}

func TestValidator_RejectsUnknownNodeType(t *testing.T) {
	v := New()
	_, err := v.Parse([]byte(`
graph:
  nodes:
    - node_id: bad
      type: mystery
`))
	if err == nil {
		t.Fatal("expected error for unrecognized node type")
	}
	var verr *recipe.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *recipe.ValidationError", err)
	}
	if verr.Kind != recipe.ErrUnknownNodeKind {
		t.Errorf("Kind = %v, want %v", verr.Kind, recipe.ErrUnknownNodeKind)
	}
}

func TestValidator_RejectsUnsupportedInputType(t *testing.T) {
	v := New()
	_, err := v.Parse(42)
	if err == nil {
		t.Fatal("expected error for non-[]byte/string input")
	}
	var verr *recipe.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want *recipe.ValidationError", err)
	}
	if verr.Kind != recipe.ErrManifestInvalid {
		t.Errorf("Kind = %v, want %v", verr.Kind, recipe.ErrManifestInvalid)
	}
}
