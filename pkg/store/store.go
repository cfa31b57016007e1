package store

import (
	"sync"
	"sync/atomic"

	"github.com/lumen-dev/lumen/pkg/reactive"
)

// Handle is the opaque key a Def uses to locate its signal inside a
// Registry. Handles are process-unique; two Defs never collide.
type Handle struct {
	id uint64
}

var handleCounter uint64

func nextHandle() Handle {
	return Handle{id: atomic.AddUint64(&handleCounter, 1)}
}

// Registry holds the signal instances for one scope.
// The zero value is not usable; create with NewRegistry.
type Registry struct {
	signals sync.Map // map[Handle]any
}

// NewRegistry creates an empty scope.
func NewRegistry() *Registry {
	return &Registry{}
}

// Def is a declaration of a scoped signal: an initial value bound to a
// handle. The signal itself is created lazily, once per Registry, on
// first access.
type Def[T any] struct {
	handle  Handle
	initial T
}

// Define declares a scoped signal with the given initial value.
// Typically called at package level:
//
//	var Counter = store.Define(0)
func Define[T any](initial T) *Def[T] {
	return &Def[T]{
		handle:  nextHandle(),
		initial: initial,
	}
}

// Get reads the signal's value in the given registry, subscribing the
// current listener if one is active.
func (d *Def[T]) Get(r *Registry) T {
	return d.Signal(r).Get()
}

// Set writes the signal's value in the given registry.
func (d *Def[T]) Set(r *Registry, value T) {
	d.Signal(r).Set(value)
}

// Update transforms the signal's value in the given registry.
func (d *Def[T]) Update(r *Registry, fn func(T) T) {
	d.Signal(r).Update(fn)
}

// Signal returns the underlying signal for this definition in the given
// registry, creating it on first access.
func (d *Def[T]) Signal(r *Registry) *reactive.Signal[T] {
	if val, ok := r.signals.Load(d.handle); ok {
		return val.(*reactive.Signal[T])
	}

	sig := reactive.NewSignal(d.initial)
	actual, loaded := r.signals.LoadOrStore(d.handle, sig)
	if loaded {
		return actual.(*reactive.Signal[T])
	}
	return sig
}

// Global wraps a signal shared across all scopes.
type Global[T any] struct {
	*reactive.Signal[T]
}

// NewGlobal creates a process-wide signal. This is just a standard
// reactive.Signal declared once; the wrapper exists so call sites read
// consistently next to Def.
func NewGlobal[T any](initial T) *Global[T] {
	return &Global[T]{
		Signal: reactive.NewSignal(initial),
	}
}
