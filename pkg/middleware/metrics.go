package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/vango-dev/store/pkg/store"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "store").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for commit duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
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
		Namespace: "store",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for one registry.
type metrics struct {
	commitsTotal   *prometheus.CounterVec
	commitDuration *prometheus.HistogramVec
	listeners      *prometheus.GaugeVec
}

// Collectors are registered once per registry; every store using the same
// registry shares them and is told apart by the "store" label.
var (
	metricsByRegistry   = map[prometheus.Registerer]*metrics{}
	metricsByRegistryMu sync.Mutex
)

func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		commitsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commits_total",
			Help:        "Total number of store updates by outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "status"}),

		commitDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "commit_duration_seconds",
			Help:        "Time spent merging state and notifying listeners",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),

		listeners: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "listeners",
			Help:        "Listeners subscribed at the start of the last update",
			ConstLabels: config.ConstLabels,
		}, []string{"store"}),
	}
}

func metricsFor(config MetricsConfig) *metrics {
	metricsByRegistryMu.Lock()
	defer metricsByRegistryMu.Unlock()

	m, ok := metricsByRegistry[config.Registry]
	if !ok {
		m = initMetrics(config)
		metricsByRegistry[config.Registry] = m
	}
	return m
}

// Prometheus creates middleware that records store commits.
//
// Metrics collected:
//   - store_commits_total: Counter by store and status (success, panic)
//   - store_commit_duration_seconds: Histogram of merge+notify duration
//   - store_listeners: Gauge of listeners per store
//
// A commit whose updater or listener panics is counted with status "panic";
// the panic keeps propagating.
func Prometheus(opts ...MetricsOption) store.Middleware {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	m := metricsFor(config)

	return func(c *store.Commit, next func()) {
		start := time.Now()
		status := "panic"

		defer func() {
			m.commitDuration.WithLabelValues(c.Store).Observe(time.Since(start).Seconds())
			m.commitsTotal.WithLabelValues(c.Store, status).Inc()
			m.listeners.WithLabelValues(c.Store).Set(float64(c.Listeners))
		}()

		next()
		status = "success"
	}
}
