package recipe

import "time"

// defaultMaxParallelNodes is used when neither ExecutionContext nor any
// Option sets a positive value (spec.md §4.3: "default 8").
const defaultMaxParallelNodes = 8

// runnerConfig collects Option values before a Runner is constructed.
type runnerConfig struct {
	maxParallelNodes   int
	defaultHumanTimeout time.Duration
	metrics            *RunnerMetrics
	auditSink          AuditSink
}

// Option configures a Runner at construction time.
//
// Example:
//
//	runner := recipe.NewRunner(topo, execCtx,
//	    recipe.WithMaxParallelNodes(16),
//	    recipe.WithMetrics(metrics),
//	)
type Option func(*runnerConfig)

// WithMaxParallelNodes overrides ExecutionContext.MaxParallelNodes.
// Takes precedence over the context field when both are set.
func WithMaxParallelNodes(n int) Option {
	return func(c *runnerConfig) {
		if n > 0 {
			c.maxParallelNodes = n
		}
	}
}

// WithDefaultHumanTimeout sets a process-wide fallback timeout applied
// to HumanNodes whose manifest omits timeout_ms. Without this option, a
// missing timeout_ms means "wait indefinitely" (SPEC_FULL.md §4.3).
func WithDefaultHumanTimeout(d time.Duration) Option {
	return func(c *runnerConfig) {
		c.defaultHumanTimeout = d
	}
}

// WithMetrics attaches Prometheus instrumentation to the Runner.
func WithMetrics(m *RunnerMetrics) Option {
	return func(c *runnerConfig) {
		c.metrics = m
	}
}

// WithAuditSink overrides the audit sink configured on the
// ExecutionContext, useful when the same context is reused across
// Controller calls but a particular run needs distinct auditing.
func WithAuditSink(sink AuditSink) Option {
	return func(c *runnerConfig) {
		c.auditSink = sink
	}
}
