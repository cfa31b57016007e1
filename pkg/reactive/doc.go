// Package reactive provides a fine-grained reactive state core.
//
// Dependencies are tracked automatically at runtime: reading a signal or
// computed while a listener (an effect or a computed recomputation) is
// active subscribes that listener to future changes.
//
// # Core Types
//
// Signal[T] is a reactive value container:
//
//	count := NewSignal(0)
//	value := count.Get()  // Read (subscribes current listener)
//	count.Set(5)          // Write (notifies subscribers if changed)
//	count.Update(func(n int) int { return n + 1 })
//
// Computed[T] is a cached derived value:
//
//	doubled := NewComputed(func() int { return count.Get() * 2 })
//	value := doubled.Get()  // Recomputes only if dependencies changed
//
// Effect runs side effects when dependencies change:
//
//	CreateEffect(func() Cleanup {
//	    fmt.Println("Count is:", count.Get())
//	    return func() { /* cleanup */ }
//	})
//
// # Batching
//
// Multiple signal writes can be batched so dependents run once:
//
//	Batch(func() {
//	    a.Set(1)
//	    b.Set(2)
//	})  // Single flush after both writes
//
// Outside Batch, every write flushes immediately. A dependent of several
// signals may therefore observe intermediate states of a multi-signal
// write; callers needing atomicity must use Batch.
//
// # Loop Guards
//
// The flush loop is bounded by two independent counters: a per-effect run
// limit per flush cycle (MaxRuns, AutoDisable) and a hard ceiling on flush
// passes. Exceeding either without AutoDisable panics with an error
// wrapping ErrEffectOverrun or ErrFlushOverflow.
//
// # Thread Safety
//
// All primitives are safe for concurrent use. The tracking context is
// per-goroutine, so spawning goroutines requires explicit propagation via
// WithOwner or WithListener.
package reactive
