package observe

import "testing"

// The tests run against the global no-op tracer provider; they exercise
// the span bookkeeping, not exported span contents.

func TestTracerFlushLifecycle(t *testing.T) {
	tr := NewTracer()

	tr.FlushStart()
	tr.EffectRan("watcher", 1)
	tr.EffectDisabled("looper", 2)
	tr.TaskPanicked(3, "boom")
	tr.SignalWrote(4)
	tr.FlushEnd(2, 5)

	// The span slot is cleared on FlushEnd.
	tr.mu.Lock()
	span := tr.span
	tr.mu.Unlock()
	if span != nil {
		t.Error("span should be cleared after FlushEnd")
	}
}

func TestTracerEventsOutsideFlush(t *testing.T) {
	tr := NewTracer()

	// No active span: events and a stray FlushEnd must be no-ops.
	tr.EffectRan("watcher", 1)
	tr.FlushEnd(0, 0)
}

func TestTracerRecordEffectsDisabled(t *testing.T) {
	tr := NewTracer(WithRecordEffects(false), WithTracerName("custom"))

	if tr.cfg.TracerName != "custom" {
		t.Errorf("expected tracer name custom, got %s", tr.cfg.TracerName)
	}

	tr.FlushStart()
	tr.EffectRan("watcher", 1)
	tr.FlushEnd(1, 1)
}
