package recipe

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RunnerMetrics provides Prometheus instrumentation for runner
// internals, mirroring the shape of the teacher's PrometheusMetrics:
// gauges for live concurrency, histograms for per-node latency, and
// counters for terminal outcomes.
//
// Metrics exposed (namespaced "recipe_"):
//   - inflight_nodes (gauge): nodes currently dispatched, unlabeled.
//   - node_latency_ms (histogram): wall-clock per executed node, labeled
//     by kind (agent/human/logic) and outcome (done/error).
//   - nodes_total (counter): outcomes of executed nodes, labeled by
//     outcome (done/error); skipped and restored nodes are not counted.
//   - council_votes_total (counter): votes cast, labeled by strategy.
type RunnerMetrics struct {
	inflightNodes prometheus.Gauge
	nodeLatency   *prometheus.HistogramVec
	nodesTotal    *prometheus.CounterVec
	councilVotes  *prometheus.CounterVec

	mu sync.RWMutex
}

// NewRunnerMetrics creates and registers all runner metrics with the
// provided registry (use prometheus.DefaultRegisterer for the global
// registry).
func NewRunnerMetrics(registry prometheus.Registerer) *RunnerMetrics {
	factory := promauto.With(registry)
	return &RunnerMetrics{
		inflightNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "recipe_inflight_nodes",
			Help: "Current number of nodes executing concurrently.",
		}),
		nodeLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipe_node_latency_ms",
			Help:    "Node execution duration in milliseconds.",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000},
		}, []string{"kind", "outcome"}),
		nodesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_nodes_total",
			Help: "Terminal node outcomes.",
		}, []string{"outcome"}),
		councilVotes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "recipe_council_votes_total",
			Help: "Council votes cast, by strategy.",
		}, []string{"strategy"}),
	}
}

func (m *RunnerMetrics) nodeStarted() {
	if m == nil {
		return
	}
	m.inflightNodes.Inc()
}

func (m *RunnerMetrics) nodeFinished(kind Kind, outcome string, latencyMS float64) {
	if m == nil {
		return
	}
	m.inflightNodes.Dec()
	m.nodeLatency.WithLabelValues(string(kind), outcome).Observe(latencyMS)
	m.nodesTotal.WithLabelValues(outcome).Inc()
}

func (m *RunnerMetrics) recordVote(strategy string, n int) {
	if m == nil {
		return
	}
	m.councilVotes.WithLabelValues(strategy).Add(float64(n))
}
