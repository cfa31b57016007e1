package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "lumen").
	Namespace string

	// Subsystem is the metrics subsystem (default: "reactive").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// PassBuckets are the histogram buckets for flush passes.
	// Default: 1, 2, 4, 8, 16, 32, 64.
	PassBuckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus collector.
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

// WithPassBuckets sets the flush-pass histogram buckets.
func WithPassBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.PassBuckets = buckets
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
		Namespace:   "lumen",
		Subsystem:   "reactive",
		PassBuckets: []float64{1, 2, 4, 8, 16, 32, 64},
		Registry:    prometheus.DefaultRegisterer,
	}
}

// Metrics is a reactive.Instrument exporting graph activity as
// Prometheus metrics.
type Metrics struct {
	flushes         prometheus.Counter
	flushPasses     prometheus.Histogram
	flushTasks      prometheus.Histogram
	effectRuns      prometheus.Counter
	effectsDisabled prometheus.Counter
	taskPanics      prometheus.Counter
	signalWrites    prometheus.Counter
}

// NewMetrics creates and registers the collector.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		flushes: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flushes_total",
			Help:        "Total flush cycles executed.",
			ConstLabels: cfg.ConstLabels,
		}),
		flushPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_passes",
			Help:        "Passes taken per flush cycle.",
			Buckets:     cfg.PassBuckets,
			ConstLabels: cfg.ConstLabels,
		}),
		flushTasks: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "flush_tasks",
			Help:        "Tasks executed per flush cycle.",
			Buckets:     cfg.PassBuckets,
			ConstLabels: cfg.ConstLabels,
		}),
		effectRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total effect executions.",
			ConstLabels: cfg.ConstLabels,
		}),
		effectsDisabled: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "effects_disabled_total",
			Help:        "Effects permanently disabled by the loop guard.",
			ConstLabels: cfg.ConstLabels,
		}),
		taskPanics: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "task_panics_total",
			Help:        "Panics recovered from effect and subscription bodies.",
			ConstLabels: cfg.ConstLabels,
		}),
		signalWrites: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "signal_writes_total",
			Help:        "Signal writes that passed the equality gate.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

// FlushStart implements reactive.Instrument.
func (m *Metrics) FlushStart() {
	m.flushes.Inc()
}

// FlushEnd implements reactive.Instrument.
func (m *Metrics) FlushEnd(passes, tasks int) {
	m.flushPasses.Observe(float64(passes))
	m.flushTasks.Observe(float64(tasks))
}

// EffectRan implements reactive.Instrument.
func (m *Metrics) EffectRan(name string, id uint64) {
	m.effectRuns.Inc()
}

// EffectDisabled implements reactive.Instrument.
func (m *Metrics) EffectDisabled(name string, id uint64) {
	m.effectsDisabled.Inc()
}

// TaskPanicked implements reactive.Instrument.
func (m *Metrics) TaskPanicked(id uint64, value any) {
	m.taskPanics.Inc()
}

// SignalWrote implements reactive.Instrument.
func (m *Metrics) SignalWrote(id uint64) {
	m.signalWrites.Inc()
}
