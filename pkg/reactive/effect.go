package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Effect is a reactive side effect that re-runs when its dependencies
// change. Effects run immediately on creation — that first run discovers
// their dependencies — and re-run on the flush after any dependency
// changes. The effect function may return a Cleanup that is invoked
// exactly once before each re-run and once on disposal.
//
// An effect that keeps re-triggering itself is stopped by the MaxRuns
// guard: by default the flush panics with ErrEffectOverrun; with
// AutoDisable the effect is instead disabled permanently with a warning.
type Effect struct {
	id uint64

	// name labels the effect in logs, panics, and instrumentation.
	name string

	// fn is the effect body.
	fn func() Cleanup

	// cleanup is the Cleanup returned by the last run, if any.
	cleanup Cleanup

	// sources are the cells this effect currently depends on.
	sources   []*subscriberSet
	sourcesMu sync.Mutex

	// owner is the scope that disposes this effect, if any.
	owner *Owner

	// pending indicates the effect is queued for a re-run.
	pending atomic.Bool

	// disabled is set by the AutoDisable loop guard. Terminal.
	disabled atomic.Bool

	// disposed is set by Dispose. Terminal.
	disposed atomic.Bool

	// maxRuns bounds runs per flush cycle; 0 means DefaultMaxRuns.
	maxRuns int

	// autoDisable turns the MaxRuns overrun panic into disablement.
	autoDisable bool
}

// EffectOption configures an Effect at creation.
type EffectOption interface {
	applyEffect(e *Effect)
}

type effectOptionFunc func(*Effect)

func (f effectOptionFunc) applyEffect(e *Effect) { f(e) }

// EffectName labels the effect for logs, loop-guard panics, and
// instrumentation. Unnamed effects report as "effect-<id>".
func EffectName(name string) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.name = name
	})
}

// MaxRuns overrides the per-flush-cycle run ceiling for this effect.
// n <= 0 keeps DefaultMaxRuns.
func MaxRuns(n int) EffectOption {
	return effectOptionFunc(func(e *Effect) {
		if n > 0 {
			e.maxRuns = n
		}
	})
}

// AutoDisable converts the MaxRuns overrun from a panic into a logged
// warning plus permanent disablement of the effect. Use in defensive
// production code that prefers degraded function over a crash.
func AutoDisable() EffectOption {
	return effectOptionFunc(func(e *Effect) {
		e.autoDisable = true
	})
}

// CreateEffect creates an effect, runs it once immediately, and registers
// it with the current owner (if any) for disposal. The effect re-runs on
// the flush following any change to a cell it read during its last run.
//
// Example:
//
//	e := CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { fmt.Println("cleanup") }
//	})
//	defer e.Dispose()
func CreateEffect(fn func() Cleanup, opts ...EffectOption) *Effect {
	e := &Effect{
		id:      nextID(),
		fn:      fn,
		owner:   getCurrentOwner(),
		maxRuns: DefaultMaxRuns,
	}

	for _, opt := range opts {
		opt.applyEffect(e)
	}

	if e.owner != nil {
		e.owner.registerEffect(e)
	}

	e.run()

	return e
}

// MarkDirty schedules the effect for a re-run.
// Implements the Listener interface. No-op once disabled or disposed.
func (e *Effect) MarkDirty() {
	if e.disposed.Load() || e.disabled.Load() {
		return
	}

	// CAS so the effect is queued at most once per flush pass.
	if e.pending.CompareAndSwap(false, true) {
		sched.enqueue(e)
	}
}

// ID returns the unique identifier for this effect.
// Implements the Listener interface.
func (e *Effect) ID() uint64 {
	return e.id
}

// Dispose runs the cleanup one final time, unsubscribes from all
// dependencies, and detaches the effect from its owner. Safe to call
// multiple times; only the first call has any effect.
func (e *Effect) Dispose() {
	if e.disposed.Swap(true) {
		return
	}

	e.runCleanup()
	e.clearSources()

	if e.owner != nil {
		e.owner.unregisterEffect(e)
	}
}

// IsDisabled reports whether the AutoDisable loop guard stopped this
// effect permanently.
func (e *Effect) IsDisabled() bool {
	return e.disabled.Load()
}

// run executes one iteration: previous cleanup, dependency reset, then
// the body with this effect installed as the active listener.
func (e *Effect) run() {
	if e.disposed.Load() || e.disabled.Load() {
		return
	}

	e.pending.Store(false)

	e.runCleanup()
	e.clearSources()

	old := setCurrentListener(e)
	defer setCurrentListener(old)

	// Contain body panics here rather than in the scheduler so the
	// initial run in CreateEffect gets the same treatment as re-runs.
	func() {
		defer func() {
			if r := recover(); r != nil {
				if isFatal(r) {
					panic(r)
				}
				logger().Error("lumen: panic in effect body",
					"effect", e.label(), "id", e.id, "panic", r)
				instrument().TaskPanicked(e.id, r)
			}
		}()
		e.cleanup = e.fn()
	}()

	instrument().EffectRan(e.label(), e.id)
}

// runCleanup invokes the stored cleanup at most once, containing panics
// so a failing cleanup never blocks the re-run or the rest of a flush.
func (e *Effect) runCleanup() {
	if e.cleanup == nil {
		return
	}
	cleanup := e.cleanup
	e.cleanup = nil

	defer func() {
		if r := recover(); r != nil {
			if isFatal(r) {
				panic(r)
			}
			logger().Error("lumen: panic in effect cleanup",
				"effect", e.label(), "id", e.id, "panic", r)
		}
	}()
	cleanup()
}

// clearSources unsubscribes from every dependency of the previous run.
func (e *Effect) clearSources() {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, src := range e.sources {
		src.remove(e)
	}
	e.sources = e.sources[:0]
}

// addSource records a dependency read during the current run.
func (e *Effect) addSource(src *subscriberSet) {
	e.sourcesMu.Lock()
	defer e.sourcesMu.Unlock()

	for _, s := range e.sources {
		if s == src {
			return
		}
	}
	e.sources = append(e.sources, src)
}

// invoke implements runnable.
func (e *Effect) invoke() {
	e.run()
}

// runnableNow implements runnable.
func (e *Effect) runnableNow() bool {
	return !e.disposed.Load() && !e.disabled.Load()
}

// resetPending implements runnable.
func (e *Effect) resetPending() {
	e.pending.Store(false)
}

// runLimit implements runnable.
func (e *Effect) runLimit() (int, bool) {
	return e.maxRuns, e.autoDisable
}

// disable implements runnable. Terminal; the effect never runs again,
// and its cleanup and subscriptions are released.
func (e *Effect) disable() {
	if e.disabled.Swap(true) {
		return
	}
	e.runCleanup()
	e.clearSources()
}

// label implements runnable.
func (e *Effect) label() string {
	if e.name != "" {
		return e.name
	}
	return fmt.Sprintf("effect-%d", e.id)
}

var _ dependent = (*Effect)(nil)
var _ runnable = (*Effect)(nil)
