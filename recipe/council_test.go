package recipe

import (
	"context"
	"testing"

	"golang.org/x/sync/semaphore"
)

func TestRunCouncil_ConsensusDelegatesToSynthesizer(t *testing.T) {
	agent := newStubAgent()
	agent.outputs["v1"] = []Output{{"verdict": "yes"}}
	agent.outputs["v2"] = []Output{{"verdict": "no"}}
	agent.outputs[ReservedSynthesizerAgent] = []Output{{"verdict": "synthesized"}}

	runner := &Runner{execCtx: newExecCtx(agent, nil, nil)}
	node := &Node{
		NodeID:        "panel",
		CouncilConfig: &CouncilConfig{Strategy: "consensus", Voters: []string{"v1", "v2"}},
	}

	out, payload, err := runner.runCouncil(context.Background(), semaphore.NewWeighted(4), node, map[string]any{})
	if err != nil {
		t.Fatalf("runCouncil: %v", err)
	}
	if out["verdict"] != "synthesized" {
		t.Errorf("synthesis = %v, want synthesized", out)
	}

	votes, _ := payload["votes"].(map[string]any)
	if len(votes) != 2 {
		t.Errorf("votes = %v, want 2 entries", votes)
	}
}

func TestRunCouncil_VoterFailurePropagates(t *testing.T) {
	agent := newStubAgent()
	agent.err = context.Canceled

	runner := &Runner{execCtx: newExecCtx(agent, nil, nil)}
	node := &Node{
		NodeID:        "panel",
		CouncilConfig: &CouncilConfig{Strategy: "majority", Voters: []string{"v1"}},
	}

	_, _, err := runner.runCouncil(context.Background(), semaphore.NewWeighted(4), node, map[string]any{})
	if err == nil {
		t.Fatal("expected error when a voter fails")
	}
}

func TestMajorityTally_BreaksTiesByLexicographicallySmallestKey(t *testing.T) {
	votes := map[string]Output{
		"v1": {BranchKey: "b"},
		"v2": {BranchKey: "a"},
	}
	result := majorityTally(votes)
	if result[BranchKey] != "a" {
		t.Errorf("tie-break winner = %v, want a", result[BranchKey])
	}
}

func TestMajorityTally_PicksStrictMajority(t *testing.T) {
	votes := map[string]Output{
		"v1": {BranchKey: "x"},
		"v2": {BranchKey: "x"},
		"v3": {BranchKey: "y"},
	}
	result := majorityTally(votes)
	if result[BranchKey] != "x" {
		t.Errorf("winner = %v, want x", result[BranchKey])
	}
	tally, _ := result["tally"].(map[string]int)
	if tally["x"] != 2 || tally["y"] != 1 {
		t.Errorf("tally = %v", tally)
	}
}
