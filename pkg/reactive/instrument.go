package reactive

import "sync/atomic"

// Instrument receives notifications about reactive-graph activity.
// Implementations must be safe for concurrent use and must not read or
// write signals from inside their callbacks.
//
// The observe package provides Prometheus and OpenTelemetry
// implementations; the inspect package streams these events to dev
// tooling over WebSocket.
type Instrument interface {
	// FlushStart is called when a flush cycle begins draining the queue.
	FlushStart()

	// FlushEnd is called when a flush cycle settles, with the number of
	// passes taken and total tasks executed.
	FlushEnd(passes, tasks int)

	// EffectRan is called after an effect completes one run.
	EffectRan(name string, id uint64)

	// EffectDisabled is called when an effect is permanently disabled by
	// the AutoDisable loop guard.
	EffectDisabled(name string, id uint64)

	// TaskPanicked is called when a task panics during a flush and the
	// panic is recovered.
	TaskPanicked(id uint64, value any)

	// SignalWrote is called when a signal write passes the equality gate.
	SignalWrote(id uint64)
}

// noopInstrument is the default Instrument; every callback is a no-op.
type noopInstrument struct{}

func (noopInstrument) FlushStart()                        {}
func (noopInstrument) FlushEnd(passes, tasks int)         {}
func (noopInstrument) EffectRan(name string, id uint64)   {}
func (noopInstrument) EffectDisabled(name string, id uint64) {}
func (noopInstrument) TaskPanicked(id uint64, value any)  {}
func (noopInstrument) SignalWrote(id uint64)              {}

// instrumentHolder wraps the Instrument so an interface value can live in
// an atomic.Value without type panics on replacement.
type instrumentHolder struct {
	in Instrument
}

var currentInstrument atomic.Value // instrumentHolder

func init() {
	currentInstrument.Store(instrumentHolder{in: noopInstrument{}})
}

// SetInstrument installs the instrument receiving graph activity.
// Pass nil to restore the no-op default. Safe to call concurrently,
// though typically called once at startup.
func SetInstrument(in Instrument) {
	if in == nil {
		in = noopInstrument{}
	}
	currentInstrument.Store(instrumentHolder{in: in})
}

// instrument returns the active Instrument.
func instrument() Instrument {
	return currentInstrument.Load().(instrumentHolder).in
}

// multiInstrument fans callbacks out to several instruments in order.
type multiInstrument []Instrument

// MultiInstrument combines several instruments into one. Events are
// delivered to each in argument order.
func MultiInstrument(ins ...Instrument) Instrument {
	return multiInstrument(ins)
}

func (m multiInstrument) FlushStart() {
	for _, in := range m {
		in.FlushStart()
	}
}

func (m multiInstrument) FlushEnd(passes, tasks int) {
	for _, in := range m {
		in.FlushEnd(passes, tasks)
	}
}

func (m multiInstrument) EffectRan(name string, id uint64) {
	for _, in := range m {
		in.EffectRan(name, id)
	}
}

func (m multiInstrument) EffectDisabled(name string, id uint64) {
	for _, in := range m {
		in.EffectDisabled(name, id)
	}
}

func (m multiInstrument) TaskPanicked(id uint64, value any) {
	for _, in := range m {
		in.TaskPanicked(id, value)
	}
}

func (m multiInstrument) SignalWrote(id uint64) {
	for _, in := range m {
		in.SignalWrote(id)
	}
}
