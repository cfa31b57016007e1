package reactive

import "errors"

// DefaultMaxRuns is the per-flush-cycle run ceiling applied to effects
// created without an explicit MaxRuns option. An effect that runs this
// many times within a single flush cycle is considered to be caught in a
// feedback loop.
const DefaultMaxRuns = 100

// maxFlushPasses bounds the number of passes a single flush cycle may
// take before the scheduler gives up. This is independent of any single
// effect's run counter and catches cross-effect cycles (A invalidates B
// invalidates A) where each participant stays under its own limit.
const maxFlushPasses = 1000

// ErrEffectOverrun is the sentinel wrapped by the panic raised when an
// effect exceeds its MaxRuns limit within one flush cycle and was not
// created with AutoDisable. It indicates an effect that writes to its own
// dependencies without converging.
//
// Recover and use errors.Is to detect it:
//
//	defer func() {
//	    if r := recover(); r != nil {
//	        if err, ok := r.(error); ok && errors.Is(err, reactive.ErrEffectOverrun) {
//	            // a runaway effect
//	        }
//	    }
//	}()
var ErrEffectOverrun = errors.New("lumen: effect exceeded max runs per flush cycle")

// ErrFlushOverflow is the sentinel wrapped by the panic raised when a
// flush cycle fails to settle within the pass ceiling. It indicates a
// cycle spanning multiple effects or subscriptions.
var ErrFlushOverflow = errors.New("lumen: flush did not settle within pass limit")

// isFatal reports whether a recovered panic value carries one of the
// loop-guard sentinels. Containment sites rethrow these: they indicate a
// true infinite-loop bug in caller code and must surface loudly instead
// of being absorbed like an ordinary task panic.
func isFatal(r any) bool {
	err, ok := r.(error)
	return ok && (errors.Is(err, ErrEffectOverrun) || errors.Is(err, ErrFlushOverflow))
}
