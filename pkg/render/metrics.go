package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures renderer metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "vnode").
	Namespace string

	// Subsystem is the metrics subsystem (default: "render").
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

// MetricsOption configures renderer metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the duration histogram buckets.
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
		Namespace: "vnode",
		Subsystem: "render",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics holds the Prometheus collectors for a Renderer. A nil *Metrics
// records nothing.
type Metrics struct {
	rendersTotal    *prometheus.CounterVec
	renderDuration  *prometheus.HistogramVec
	componentsTotal *prometheus.CounterVec
	outputBytes     prometheus.Histogram
}

// NewMetrics registers renderer metrics.
//
// Metrics collected:
//   - vnode_render_renders_total: renders by entry point and status
//   - vnode_render_duration_seconds: render duration by entry point
//   - vnode_render_components_total: component executions by kind
//   - vnode_render_output_bytes: size of successful renders
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "renders_total",
			Help:        "Total number of top-level renders",
			ConstLabels: config.ConstLabels,
		}, []string{"entry", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "duration_seconds",
			Help:        "Render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"entry"}),

		componentsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "components_total",
			Help:        "Total number of component executions",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		outputBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "output_bytes",
			Help:        "Size of rendered markup in bytes",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
		}),
	}
}

func (m *Metrics) observeRender(entry string, d time.Duration, size int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rendersTotal.WithLabelValues(entry, status).Inc()
	m.renderDuration.WithLabelValues(entry).Observe(d.Seconds())
	if err == nil {
		m.outputBytes.Observe(float64(size))
	}
}

func (m *Metrics) observeComponents(composite, stateless int) {
	if m == nil {
		return
	}
	if composite > 0 {
		m.componentsTotal.WithLabelValues("composite").Add(float64(composite))
	}
	if stateless > 0 {
		m.componentsTotal.WithLabelValues("stateless").Add(float64(stateless))
	}
}
