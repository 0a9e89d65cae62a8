package stream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the engine metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "velo").
	Namespace string

	// Subsystem is the metrics subsystem (default: "stream").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for traversal duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the engine metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "velo",
		Subsystem: "stream",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus metrics for one engine.
//
// Metrics collected:
//   - velo_stream_traversals_total: Counter of traversals by status
//   - velo_stream_traversal_duration_seconds: Histogram of traversal duration
//   - velo_stream_ops_total: Counter of ops recorded
//   - velo_stream_violations_total: Counter of recovered violations by category
//   - velo_stream_batches_sent_total: Counter of frames broadcast
//   - velo_stream_active_connections: Gauge of live WebSocket connections
type Metrics struct {
	traversalsTotal   *prometheus.CounterVec
	traversalDuration prometheus.Histogram
	opsTotal          prometheus.Counter
	violationsTotal   *prometheus.CounterVec
	batchesSent       prometheus.Counter
	activeConns       prometheus.Gauge
}

// NewMetrics registers and returns engine metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		traversalsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "traversals_total",
			Help:        "Total number of reconciler traversals",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		traversalDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "traversal_duration_seconds",
			Help:        "Traversal duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		opsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "ops_total",
			Help:        "Total number of mutation ops recorded",
			ConstLabels: config.ConstLabels,
		}),

		violationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "violations_total",
			Help:        "Recovered reconciler violations by category",
			ConstLabels: config.ConstLabels,
		}, []string{"category"}),

		batchesSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "batches_sent_total",
			Help:        "Total number of op batches broadcast to clients",
			ConstLabels: config.ConstLabels,
		}),

		activeConns: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_connections",
			Help:        "Number of live WebSocket connections",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// RecordViolation records one recovered violation.
func (m *Metrics) RecordViolation(category string) {
	if m != nil {
		m.violationsTotal.WithLabelValues(category).Inc()
	}
}

// RecordTraversal records one traversal outcome.
func (m *Metrics) RecordTraversal(status string, seconds float64, ops int) {
	if m != nil {
		m.traversalsTotal.WithLabelValues(status).Inc()
		m.traversalDuration.Observe(seconds)
		m.opsTotal.Add(float64(ops))
	}
}

// RecordBatch records one broadcast frame.
func (m *Metrics) RecordBatch() {
	if m != nil {
		m.batchesSent.Inc()
	}
}

// ConnOpened records a connection being established.
func (m *Metrics) ConnOpened() {
	if m != nil {
		m.activeConns.Inc()
	}
}

// ConnClosed records a connection going away.
func (m *Metrics) ConnClosed() {
	if m != nil {
		m.activeConns.Dec()
	}
}
