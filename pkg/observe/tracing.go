package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for lumen instrumentation.
const defaultTracerName = "lumen"

// TracerConfig configures the OpenTelemetry instrument.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "lumen").
	TracerName string

	// RecordEffects adds an event to the flush span for each effect run.
	// Enabled by default; disable for very hot graphs.
	RecordEffects bool

	tracer trace.Tracer
}

// TracerOption configures the OpenTelemetry instrument.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithRecordEffects enables or disables per-effect span events.
func WithRecordEffects(record bool) TracerOption {
	return func(c *TracerConfig) {
		c.RecordEffects = record
	}
}

// Tracer is a reactive.Instrument that records one span per flush cycle,
// with pass and task counts as attributes and effect runs as events.
//
// Flush cycles never overlap (the scheduler serializes them), so the
// instrument keeps the single active span internally.
type Tracer struct {
	cfg TracerConfig

	mu   sync.Mutex
	span trace.Span
}

// NewTracer creates the tracing instrument.
func NewTracer(opts ...TracerOption) *Tracer {
	cfg := TracerConfig{
		TracerName:    defaultTracerName,
		RecordEffects: true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.tracer = otel.Tracer(cfg.TracerName)

	return &Tracer{cfg: cfg}
}

// FlushStart implements reactive.Instrument.
func (t *Tracer) FlushStart() {
	_, span := t.cfg.tracer.Start(context.Background(), "lumen.flush")

	t.mu.Lock()
	t.span = span
	t.mu.Unlock()
}

// FlushEnd implements reactive.Instrument.
func (t *Tracer) FlushEnd(passes, tasks int) {
	t.mu.Lock()
	span := t.span
	t.span = nil
	t.mu.Unlock()

	if span == nil {
		return
	}

	span.SetAttributes(
		attribute.Int("lumen.flush.passes", passes),
		attribute.Int("lumen.flush.tasks", tasks),
	)
	span.End()
}

// EffectRan implements reactive.Instrument.
func (t *Tracer) EffectRan(name string, id uint64) {
	if !t.cfg.RecordEffects {
		return
	}

	t.mu.Lock()
	span := t.span
	t.mu.Unlock()

	if span == nil {
		return
	}

	span.AddEvent("effect.run", trace.WithAttributes(
		attribute.String("lumen.effect.name", name),
		attribute.Int64("lumen.effect.id", int64(id)),
	))
}

// EffectDisabled implements reactive.Instrument.
func (t *Tracer) EffectDisabled(name string, id uint64) {
	t.mu.Lock()
	span := t.span
	t.mu.Unlock()

	if span == nil {
		return
	}

	span.AddEvent("effect.disabled", trace.WithAttributes(
		attribute.String("lumen.effect.name", name),
		attribute.Int64("lumen.effect.id", int64(id)),
	))
}

// TaskPanicked implements reactive.Instrument.
func (t *Tracer) TaskPanicked(id uint64, value any) {
	t.mu.Lock()
	span := t.span
	t.mu.Unlock()

	if span == nil {
		return
	}

	span.AddEvent("task.panic", trace.WithAttributes(
		attribute.Int64("lumen.task.id", int64(id)),
	))
}

// SignalWrote implements reactive.Instrument.
func (t *Tracer) SignalWrote(id uint64) {}
