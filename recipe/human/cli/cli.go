// Package cli provides a terminal-driven recipe.HumanGate, adapted from
// the teacher engine's human_in_the_loop example's stdin approval
// prompt.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/CoReason-AI/coreason-maco/recipe"
)

// Gate prompts a reviewer on In and prints the decision request and
// resolved inputs to Out. A blank or "y"/"yes" line approves; anything
// else rejects with the line as the comment.
type Gate struct {
	In  io.Reader
	Out io.Writer
}

// New builds a Gate. Passing nil for either stream defaults to the
// process's stdin/stdout.
func New(in io.Reader, out io.Writer) *Gate {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Gate{In: in, Out: out}
}

// AwaitDecision satisfies recipe.HumanGate. A positive timeoutMS races
// the prompt against the deadline; a zero timeoutMS waits indefinitely
// (SPEC_FULL.md §4.3).
func (g *Gate) AwaitDecision(ctx context.Context, nodeID string, inputs map[string]any, timeoutMS int64) (recipe.Output, error) {
	if timeoutMS > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeoutMS)*time.Millisecond)
		defer cancel()
	}

	fmt.Fprintf(g.Out, "\n⏸  awaiting human decision for node %q\n", nodeID)
	for k, v := range inputs {
		fmt.Fprintf(g.Out, "  %s: %v\n", k, v)
	}
	fmt.Fprint(g.Out, "approve? [Y/n, or type a rejection reason]: ")

	type result struct {
		out recipe.Output
		err error
	}
	resCh := make(chan result, 1)

	go func() {
		scanner := bufio.NewScanner(g.In)
		scanner.Scan()
		line := strings.TrimSpace(scanner.Text())
		if err := scanner.Err(); err != nil {
			resCh <- result{err: err}
			return
		}

		approved := line == "" || strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
		resCh <- result{out: recipe.Output{
			"approved": approved,
			"comment":  line,
		}}
	}()

	select {
	case res := <-resCh:
		return res.out, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
