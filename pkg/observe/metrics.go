package observe

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	ierrors "github.com/vango-dev/incdom/internal/errors"
	"github.com/vango-dev/incdom/pkg/idom"
)

// MetricsConfig configures the Prometheus metrics observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "incdom").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for patch duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics observer.
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
		Namespace: "incdom",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an idom.Observer that records patch calls as Prometheus
// metrics.
//
// Metrics collected:
//   - incdom_patches_total: Counter of patches by strategy and status
//   - incdom_patch_duration_seconds: Histogram of patch duration by strategy
//   - incdom_patch_errors_total: Counter of failed patches by error type
//   - incdom_nested_patches_total: Counter of patches started inside a render
//   - incdom_active_patches: Gauge of patches currently on the stack
//   - incdom_nodes_created_total: Counter of nodes created
//   - incdom_nodes_deleted_total: Counter of nodes removed
//   - incdom_nodes_moved_total: Counter of nodes repositioned
//
// Example:
//
//	reg := prometheus.NewRegistry()
//	engine := idom.New(idom.WithObserver(observe.NewMetrics(
//	    observe.WithRegistry(reg),
//	)))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
type Metrics struct {
	patchesTotal  *prometheus.CounterVec
	patchDuration *prometheus.HistogramVec
	patchErrors   *prometheus.CounterVec
	nestedPatches prometheus.Counter
	activePatches prometheus.Gauge
	nodesCreated  prometheus.Counter
	nodesDeleted  prometheus.Counter
	nodesMoved    prometheus.Counter
}

var _ idom.Observer = (*Metrics)(nil)

// NewMetrics registers the patch metrics and returns the observer. It panics
// if the metrics are already registered with the configured registry.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	counter := func(name, help string) prometheus.Counter {
		return factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: config.ConstLabels,
		})
	}

	return &Metrics{
		patchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patches_total",
			Help:        "Total number of patch calls",
			ConstLabels: config.ConstLabels,
		}, []string{"strategy", "status"}),

		patchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_duration_seconds",
			Help:        "Patch call duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"strategy"}),

		patchErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "patch_errors_total",
			Help:        "Total number of failed patch calls",
			ConstLabels: config.ConstLabels,
		}, []string{"error_type"}),

		activePatches: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_patches",
			Help:        "Number of patch calls currently running",
			ConstLabels: config.ConstLabels,
		}),

		nestedPatches: counter("nested_patches_total", "Total number of patches started from a render function"),
		nodesCreated:  counter("nodes_created_total", "Total number of nodes created"),
		nodesDeleted:  counter("nodes_deleted_total", "Total number of nodes removed"),
		nodesMoved:    counter("nodes_moved_total", "Total number of nodes repositioned"),
	}
}

// PatchStarted implements idom.Observer.
func (m *Metrics) PatchStarted(info idom.PatchInfo) {
	m.activePatches.Inc()
	if info.Nested() {
		m.nestedPatches.Inc()
	}
}

// PatchFinished implements idom.Observer.
func (m *Metrics) PatchFinished(info idom.PatchInfo, stats idom.Stats, err error) {
	m.activePatches.Dec()
	m.patchDuration.WithLabelValues(info.Strategy).Observe(stats.Duration.Seconds())

	status := "success"
	if err != nil {
		status = "error"
		m.patchErrors.WithLabelValues(categorizeError(err)).Inc()
	}
	m.patchesTotal.WithLabelValues(info.Strategy, status).Inc()

	m.nodesCreated.Add(float64(stats.Created))
	m.nodesDeleted.Add(float64(stats.Deleted))
	m.nodesMoved.Add(float64(stats.Moved))
}

// categorizeError keeps the error label low-cardinality.
func categorizeError(err error) string {
	var coded *ierrors.Error
	switch {
	case errors.Is(err, idom.ErrRenderPanicked):
		return "panic"
	case errors.As(err, &coded):
		return string(coded.Category)
	default:
		return "render"
	}
}
