package recipe

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/semaphore"
)

// runCouncil fans the same resolved inputs out to every voter
// concurrently (sharing the layer's semaphore, so a council never
// exceeds the configured parallelism budget), then synthesizes a
// single verdict. It returns the synthesized Output; the caller wraps
// it with the usual NODE_START/NODE_DONE pair and emits the
// COUNCIL_VOTE event produced here in between.
func (r *Runner) runCouncil(ctx context.Context, sem *semaphore.Weighted, node *Node, resolvedInputs map[string]any) (Output, map[string]any, error) {
	cfg := node.CouncilConfig
	votes := make(map[string]Output, len(cfg.Voters))
	errs := make([]error, len(cfg.Voters))
	outs := make([]Output, len(cfg.Voters))

	type job struct {
		idx   int
		voter string
	}
	jobs := make([]job, len(cfg.Voters))
	for i, v := range cfg.Voters {
		jobs[i] = job{idx: i, voter: v}
	}

	done := make(chan struct{}, len(jobs))
	for _, j := range jobs {
		j := j
		if err := sem.Acquire(ctx, 1); err != nil {
			errs[j.idx] = err
			done <- struct{}{}
			continue
		}
		go func() {
			defer sem.Release(1)
			defer func() { done <- struct{}{} }()
			out, err := r.execCtx.AgentExecutor.Invoke(ctx, j.voter, resolvedInputs, node.Overrides)
			outs[j.idx] = out
			errs[j.idx] = err
		}()
	}
	for range jobs {
		<-done
	}

	for i, j := range jobs {
		if errs[i] != nil {
			return nil, nil, &NodeExecutionError{NodeID: node.NodeID, Kind: ErrNodeExecFailed, Message: fmt.Sprintf("voter %q failed", j.voter), Cause: errs[i]}
		}
		votes[j.voter] = outs[i]
	}

	synthesis, err := r.synthesizeCouncil(ctx, node, resolvedInputs, votes)
	if err != nil {
		return nil, nil, err
	}

	r.metrics.recordVote(cfg.Strategy, len(votes))

	votePayload := map[string]any{
		"votes":     votesAsAny(votes),
		"synthesis": synthesis,
	}
	return synthesis, votePayload, nil
}

func votesAsAny(votes map[string]Output) map[string]any {
	out := make(map[string]any, len(votes))
	for k, v := range votes {
		out[k] = v
	}
	return out
}

// synthesizeCouncil reconciles the votes according to the council's
// strategy. "consensus" delegates to a reserved synthesizer agent;
// "majority" tallies the votes' branch_key verbatim with no extra
// agent call.
func (r *Runner) synthesizeCouncil(ctx context.Context, node *Node, resolvedInputs map[string]any, votes map[string]Output) (Output, error) {
	switch node.CouncilConfig.Strategy {
	case "majority":
		return majorityTally(votes), nil
	default: // "consensus" and any unrecognized strategy fall back to a synthesizer call
		synthInputs := make(map[string]any, len(resolvedInputs)+1)
		for k, v := range resolvedInputs {
			synthInputs[k] = v
		}
		synthInputs["votes"] = votesAsAny(votes)
		out, err := r.execCtx.AgentExecutor.Invoke(ctx, ReservedSynthesizerAgent, synthInputs, node.Overrides)
		if err != nil {
			return nil, &NodeExecutionError{NodeID: node.NodeID, Kind: ErrNodeExecFailed, Message: "synthesizer failed", Cause: err}
		}
		return out, nil
	}
}

// majorityTally picks the most common branch_key among votes, breaking
// ties by the lexicographically smallest branch_key for determinism.
func majorityTally(votes map[string]Output) Output {
	counts := make(map[string]int)
	for _, v := range votes {
		key, _ := v[BranchKey].(string)
		counts[key]++
	}

	var winner string
	best := -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > best {
			best = counts[k]
			winner = k
		}
	}

	return Output{
		BranchKey: winner,
		"tally":   counts,
	}
}
