package reactive

import (
	"sync"
	"sync/atomic"
)

// Signal is a mutable reactive value container.
// Reading a Signal's value during a tracked context (effect execution or
// computed recomputation) automatically subscribes the current listener
// to receive notifications when the value changes.
type Signal[T any] struct {
	base subscriberSet

	// value is the current signal value.
	value T

	// mu protects the value.
	mu sync.RWMutex

	// equal is the equality function gating change notification.
	// If nil, defaultEquals is used.
	equal func(T, T) bool

	// inflight counts overlapping UpdateAsync calls. Pending is true
	// while inflight > 0.
	inflight atomic.Int64

	// pendingSubs are listeners that read Pending(). They are notified
	// only on pending-state transitions, never on value changes, so
	// effects that ignore Pending are not re-run by async bookkeeping.
	pendingSubs subscriberSet
}

// NewSignal creates a new signal with the given initial value.
func NewSignal[T any](initial T) *Signal[T] {
	s := &Signal[T]{value: initial}
	s.base.id = nextID()
	s.pendingSubs.id = nextID()
	return s
}

// Get returns the current value and subscribes the current listener.
func (s *Signal[T]) Get() T {
	s.mu.RLock()
	value := s.value
	s.mu.RUnlock()

	// Track after releasing the value lock to prevent deadlock.
	s.base.track()

	return value
}

// Peek returns the current value without subscribing.
// Use this to read a value without creating a dependency.
func (s *Signal[T]) Peek() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set updates the signal's value and notifies subscribers if the value
// changed under the signal's equality function. Writing an equal value is
// silently ignored. Outside a Batch the write flushes immediately.
//
// The default gate compares scalars with == and everything else with
// reflect.DeepEqual, so two structurally equal slices or structs count as
// the same value. Use WithEquals for identity or custom semantics.
func (s *Signal[T]) Set(value T) {
	s.mu.Lock()
	changed := !s.equals(s.value, value)
	if changed {
		s.value = value
	}
	s.mu.Unlock()

	if changed {
		instrument().SignalWrote(s.base.id)
		s.base.notify()
		sched.maybeFlush()
	}
}

// Update atomically reads and updates the signal's value.
// The function receives the current value and returns the new one.
// A panic in fn propagates to the caller with the value unchanged.
func (s *Signal[T]) Update(fn func(T) T) {
	changed := func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()

		newValue := fn(s.value)
		if s.equals(s.value, newValue) {
			return false
		}
		s.value = newValue
		return true
	}()

	if changed {
		instrument().SignalWrote(s.base.id)
		s.base.notify()
		sched.maybeFlush()
	}
}

// UpdateAsync applies fn to the current value on a new goroutine and
// stores the result via Set when it returns. Pending() is true from the
// call until fn resolves; overlapping calls are counted, so Pending()
// stays true while any update is in flight.
//
// The returned channel closes after the value is stored and the pending
// counter drops, whether or not fn succeeded.
//
// Errors (and panics) from fn are logged and swallowed: the value is left
// unchanged and the channel still closes. Callers who need failure signals
// must carry them through another signal. Overlapping calls race on Set;
// the last write wins, with no ordering guarantee between completions.
//
// UpdateAsync cannot be cancelled. Callers needing cancellation should
// check a token inside fn.
func (s *Signal[T]) UpdateAsync(fn func(T) (T, error)) <-chan struct{} {
	done := make(chan struct{})

	s.beginPending()
	current := s.Peek()

	go func() {
		defer close(done)
		defer s.endPending()
		defer func() {
			if r := recover(); r != nil {
				if isFatal(r) {
					panic(r)
				}
				logger().Error("lumen: panic in async update",
					"signal", s.base.id, "panic", r)
			}
		}()

		value, err := fn(current)
		if err != nil {
			logger().Error("lumen: async update failed",
				"signal", s.base.id, "error", err)
			return
		}
		s.Set(value)
	}()

	return done
}

// Pending reports whether any UpdateAsync call is in flight.
// Reading it inside a tracked context subscribes the listener to
// pending-state transitions only.
func (s *Signal[T]) Pending() bool {
	s.pendingSubs.track()
	return s.inflight.Load() > 0
}

// beginPending increments the in-flight counter, notifying pending-state
// subscribers on the 0 -> 1 transition.
func (s *Signal[T]) beginPending() {
	if s.inflight.Add(1) == 1 {
		s.pendingSubs.notify()
		sched.maybeFlush()
	}
}

// endPending decrements the in-flight counter, notifying pending-state
// subscribers on the 1 -> 0 transition.
func (s *Signal[T]) endPending() {
	if s.inflight.Add(-1) == 0 {
		s.pendingSubs.notify()
		sched.maybeFlush()
	}
}

// Subscribe registers fn as an explicit listener, independent of the
// ambient tracking mechanism: it runs on every value-changing Set or
// Update until unsubscribed. Returns the unsubscribe function.
func (s *Signal[T]) Subscribe(fn func()) func() {
	sub := newSubscription(fn)
	s.base.add(sub)
	return func() {
		s.base.remove(sub)
	}
}

// WithEquals returns the signal configured with a custom equality
// function. Useful for types where reflect.DeepEqual is too expensive or
// has the wrong semantics.
func (s *Signal[T]) WithEquals(fn func(T, T) bool) *Signal[T] {
	s.equal = fn
	return s
}

// ID returns the unique identifier for this signal.
func (s *Signal[T]) ID() uint64 {
	return s.base.id
}

// equals applies the configured equality function.
func (s *Signal[T]) equals(a, b T) bool {
	if s.equal != nil {
		return s.equal(a, b)
	}
	return defaultEquals(a, b)
}
