// Package manifestyaml implements recipe.ManifestValidator over YAML
// documents, using gopkg.in/yaml.v3 the way the example pack's spec
// export/import tooling does.
package manifestyaml

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// rawManifest mirrors the manifest shape from spec.md §6: graph.nodes
// discriminated on "type", graph.edges with optional "condition".
type rawManifest struct {
	ID          string            `yaml:"id"`
	Version     string            `yaml:"version"`
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Inputs      map[string]string `yaml:"inputs"`
	Graph       rawGraph          `yaml:"graph"`
}

type rawGraph struct {
	Nodes []rawNode `yaml:"nodes"`
	Edges []rawEdge `yaml:"edges"`
}

type rawNode struct {
	NodeID         string            `yaml:"node_id"`
	Type           string            `yaml:"type"`
	AgentName      string            `yaml:"agent_name"`
	Overrides      map[string]any    `yaml:"overrides"`
	TimeoutMS      *int64            `yaml:"timeout_ms"`
	Code           string            `yaml:"code"` // tool identifier; never executable source
	CouncilConfig  *rawCouncilConfig `yaml:"council_config"`
	VisualMetadata map[string]string `yaml:"visual_metadata"`
	Metadata       map[string]any    `yaml:"metadata"`
}

type rawCouncilConfig struct {
	Strategy string   `yaml:"strategy"`
	Voters   []string `yaml:"voters"`
}

type rawEdge struct {
	SourceNodeID string `yaml:"source_node_id"`
	TargetNodeID string `yaml:"target_node_id"`
	Condition    string `yaml:"condition"`
}

// Validator implements recipe.ManifestValidator.
type Validator struct{}

// New builds a Validator. It holds no state.
func New() *Validator { return &Validator{} }

// Parse accepts raw YAML as []byte or string and decodes it into a
// recipe.Recipe, rejecting unrecognized node types up front rather than
// deferring the failure to topology construction.
func (v *Validator) Parse(raw any) (*recipe.Recipe, error) {
	var data []byte
	switch r := raw.(type) {
	case []byte:
		data = r
	case string:
		data = []byte(r)
	default:
		return nil, &recipe.ValidationError{
			Kind:    recipe.ErrManifestInvalid,
			Message: fmt.Sprintf("unsupported input type %T, want []byte or string", raw),
		}
	}

	var m rawManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &recipe.ValidationError{Kind: recipe.ErrManifestInvalid, Message: "malformed YAML", Cause: err}
	}

	nodes := make([]recipe.Node, 0, len(m.Graph.Nodes))
	for _, n := range m.Graph.Nodes {
		node, err := convertNode(n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}

	edges := make([]recipe.Edge, 0, len(m.Graph.Edges))
	for _, e := range m.Graph.Edges {
		edges = append(edges, recipe.Edge{
			SourceNodeID: e.SourceNodeID,
			TargetNodeID: e.TargetNodeID,
			Condition:    e.Condition,
		})
	}

	return &recipe.Recipe{
		ID:          m.ID,
		Version:     m.Version,
		Name:        m.Name,
		Description: m.Description,
		Inputs:      m.Inputs,
		Graph:       recipe.Graph{Nodes: nodes, Edges: edges},
	}, nil
}

func convertNode(n rawNode) (recipe.Node, error) {
	var kind recipe.Kind
	switch n.Type {
	case string(recipe.KindAgent):
		kind = recipe.KindAgent
	case string(recipe.KindHuman):
		kind = recipe.KindHuman
	case string(recipe.KindLogic):
		kind = recipe.KindLogic
	default:
		return recipe.Node{}, &recipe.ValidationError{
			Kind:    recipe.ErrUnknownNodeKind,
			Message: fmt.Sprintf("node %q has unrecognized type %q", n.NodeID, n.Type),
		}
	}

	node := recipe.Node{
		NodeID:         n.NodeID,
		Kind:           kind,
		VisualMetadata: n.VisualMetadata,
		Metadata:       n.Metadata,
		AgentName:      n.AgentName,
		Overrides:      n.Overrides,
		TimeoutMS:      n.TimeoutMS,
		ToolName:       n.Code,
	}
	if n.CouncilConfig != nil {
		node.CouncilConfig = &recipe.CouncilConfig{
			Strategy: n.CouncilConfig.Strategy,
			Voters:   n.CouncilConfig.Voters,
		}
	}
	return node, nil
}
