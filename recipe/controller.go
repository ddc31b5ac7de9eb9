package recipe

import (
	"context"
	"errors"
)

// RunnerFactory constructs a fresh Runner for a single execution. The
// default is NewRunner; tests substitute a factory that returns a
// pre-wired Runner.
type RunnerFactory func(topo *Topology, execCtx *ExecutionContext, opts ...Option) *Runner

// Controller is the caller-facing entry point: it validates a raw
// manifest, builds its Topology, and hands off to a fresh Runner per
// call, enforcing invariant #5 (at most one in-flight run per Runner)
// without burdening callers with Runner lifecycle.
type Controller struct {
	newRunner RunnerFactory
	opts      []Option
}

// NewController builds a Controller. opts are applied to every Runner
// the Controller creates; per-call overrides are not supported, mirroring
// the engine's "config at construction" style.
func NewController(opts ...Option) *Controller {
	return &Controller{newRunner: NewRunner, opts: opts}
}

// WithRunnerFactory overrides Runner construction, primarily for tests
// that need to observe or wrap Runner behavior.
func (c *Controller) WithRunnerFactory(f RunnerFactory) *Controller {
	c.newRunner = f
	return c
}

// ExecuteRecipe validates raw against the context's ManifestValidator,
// builds its Topology, and starts a fresh Runner. Validation and
// topology errors are returned synchronously, before any event is
// emitted; everything after that point is reported only through the
// returned event stream.
func (c *Controller) ExecuteRecipe(ctx context.Context, raw any, inputs map[string]any, execCtx *ExecutionContext, snapshot Snapshot) (<-chan Event, error) {
	recipe, err := execCtx.ManifestValidator.Parse(raw)
	if err != nil {
		// Preserve a validator-supplied Kind (e.g. UNKNOWN_NODE_KIND)
		// rather than flattening every Parse failure into the same tag.
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, &ValidationError{Kind: ErrManifestInvalid, Message: "parse failed", Cause: err}
	}

	topo, err := Build(recipe)
	if err != nil {
		return nil, err
	}

	runner := c.newRunner(topo, execCtx, c.opts...)
	return runner.Run(ctx, inputs, snapshot)
}
