package weft

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the engine's Prometheus instrumentation.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "weft").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for render duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus instrumentation.
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

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "weft",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus metrics for the engine.
type metrics struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   prometheus.Histogram
	templateCompiles prometheus.Counter
	templateHits     prometheus.Counter
	listMoves        prometheus.Counter
	listReuses       prometheus.Counter
	contentsReplaced prometheus.Counter
}

// globalMetrics is the singleton metrics instance, created on the first
// EnableMetrics call. Recording helpers are no-ops until then.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

// initMetrics initializes the Prometheus metrics.
func initMetrics(config MetricsConfig) *metrics {
	factory := promauto.With(config.Registry)

	return &metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of top-level renders by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		renderDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_duration_seconds",
			Help:        "Top-level render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		templateCompiles: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "template_compiles_total",
			Help:        "Total number of template compilations",
			ConstLabels: config.ConstLabels,
		}),

		templateHits: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "template_cache_hits_total",
			Help:        "Total number of compiled-template cache hits",
			ConstLabels: config.ConstLabels,
		}),

		listMoves: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "list_moves_total",
			Help:        "Total number of physical node-range moves during list reconciliation",
			ConstLabels: config.ConstLabels,
		}),

		listReuses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "list_entries_reused_total",
			Help:        "Total number of list entries matched and reused across passes",
			ConstLabels: config.ConstLabels,
		}),

		contentsReplaced: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "contents_replaced_total",
			Help:        "Total number of contents torn down because the new render was incompatible",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// EnableMetrics turns on Prometheus instrumentation for the engine.
//
// Metrics collected:
//   - weft_renders_total: Counter of top-level renders by status
//   - weft_render_duration_seconds: Histogram of render duration
//   - weft_template_compiles_total: Counter of template compilations
//   - weft_template_cache_hits_total: Counter of template cache hits
//   - weft_list_moves_total: Counter of physical list moves
//   - weft_list_entries_reused_total: Counter of reused list entries
//   - weft_contents_replaced_total: Counter of content teardowns
//
// Example:
//
//	weft.EnableMetrics(weft.WithNamespace("myapp"))
//
//	// Expose metrics endpoint
//	http.Handle("/metrics", promhttp.Handler())
func EnableMetrics(opts ...MetricsOption) {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	globalMetricsMu.Lock()
	if globalMetrics == nil {
		globalMetrics = initMetrics(config)
	}
	globalMetricsMu.Unlock()
}

func recordRender(d time.Duration, err error) {
	if globalMetrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	globalMetrics.rendersTotal.WithLabelValues(status).Inc()
	globalMetrics.renderDuration.Observe(d.Seconds())
}

func recordCompile() {
	if globalMetrics != nil {
		globalMetrics.templateCompiles.Inc()
	}
}

func recordCacheHit() {
	if globalMetrics != nil {
		globalMetrics.templateHits.Inc()
	}
}

func recordListMove() {
	if globalMetrics != nil {
		globalMetrics.listMoves.Inc()
	}
}

func recordListReuse() {
	if globalMetrics != nil {
		globalMetrics.listReuses.Inc()
	}
}

func recordReplace() {
	if globalMetrics != nil {
		globalMetrics.contentsReplaced.Inc()
	}
}
