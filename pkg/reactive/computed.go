package reactive

import (
	"sync"
	"sync/atomic"
)

// Computed is a read-only cached derivation that automatically tracks its
// dependencies. Recomputation is lazy, happening on Get() and never
// eagerly, while invalidation is pushed the instant any upstream cell
// changes. If several upstreams change before a read, the computation
// runs once.
//
// Computeds can be subscribed to and read from other computeds, so chains
// of derived values compose. There is no mutation API.
type Computed[T any] struct {
	base subscriberSet

	// compute derives the value. It must be pure with respect to the
	// reactive graph: it may read cells but must not write them.
	compute func() T

	// value is the cached result, trustworthy only while valid is true.
	value   T
	valueMu sync.RWMutex

	// valid is the inverse dirty flag. It starts false (never computed)
	// and is cleared by MarkDirty.
	valid atomic.Bool

	// sources are the cells read during the last computation. The set is
	// fully replaced on every recompute so a branch that stops reading a
	// cell also stops subscribing to it.
	sources   []*subscriberSet
	sourcesMu sync.Mutex

	// computing breaks recursion when a compute function reads itself
	// through a dependency cycle.
	computing atomic.Bool
}

// NewComputed creates a computed with the given derivation function.
// The function does not run immediately; the first Get() computes.
func NewComputed[T any](compute func() T) *Computed[T] {
	c := &Computed[T]{compute: compute}
	c.base.id = nextID()
	return c
}

// Get returns the computed value, recomputing if it is stale, and
// subscribes the current listener the same way a signal read would.
func (c *Computed[T]) Get() T {
	c.base.track()

	if !c.valid.Load() {
		c.recompute()
	}

	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// Peek returns the value without subscribing.
// Still recomputes if the cached value is stale.
func (c *Computed[T]) Peek() T {
	if !c.valid.Load() {
		c.recompute()
	}
	c.valueMu.RLock()
	value := c.value
	c.valueMu.RUnlock()
	return value
}

// MarkDirty invalidates the cache and forwards the notification to this
// computed's own subscribers. Only the clean -> dirty transition
// notifies; an already-dirty computed absorbs further upstream writes
// silently, so a multi-signal change produces one downstream notification
// per dirtying, not one per write.
func (c *Computed[T]) MarkDirty() {
	if c.valid.CompareAndSwap(true, false) {
		c.base.notify()
	}
}

// ID returns the unique identifier for this computed.
func (c *Computed[T]) ID() uint64 {
	return c.base.id
}

// Subscribe registers fn as an explicit listener. It runs once per
// distinct dirtying transition, not once per upstream write.
// Returns the unsubscribe function.
func (c *Computed[T]) Subscribe(fn func()) func() {
	sub := newSubscription(fn)
	c.base.add(sub)
	return func() {
		c.base.remove(sub)
	}
}

// addSource records a cell read during computation, for unsubscription
// before the next recompute.
func (c *Computed[T]) addSource(src *subscriberSet) {
	c.sourcesMu.Lock()
	defer c.sourcesMu.Unlock()

	for _, s := range c.sources {
		if s == src {
			return
		}
	}
	c.sources = append(c.sources, src)
}

// recompute runs the derivation with this computed installed as the
// active listener, rebuilding the dependency set from scratch.
func (c *Computed[T]) recompute() {
	if c.computing.Swap(true) {
		// Circular dependency; keep the stale value rather than recurse.
		return
	}
	defer c.computing.Store(false)

	// Drop subscriptions from the previous computation so control-flow
	// changes in compute cannot leak stale dependencies.
	c.sourcesMu.Lock()
	for _, src := range c.sources {
		src.remove(c)
	}
	c.sources = c.sources[:0]
	c.sourcesMu.Unlock()

	old := setCurrentListener(c)
	defer setCurrentListener(old)

	newValue := c.compute()

	c.valueMu.Lock()
	c.value = newValue
	c.valueMu.Unlock()

	c.valid.Store(true)
}

var _ dependent = (*Computed[int])(nil)
