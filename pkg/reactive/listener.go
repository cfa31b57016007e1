package reactive

// Listener is anything that can be notified when a dependency changes.
// It is implemented by effects, computeds, and explicit subscriptions.
type Listener interface {
	// MarkDirty notifies the listener that one of its dependencies changed.
	// For computeds, this invalidates the cached value and forwards the
	// notification downstream. For effects and subscriptions, this schedules
	// a run on the next flush.
	MarkDirty()

	// ID returns a unique identifier for this listener.
	// Used for deduplication in the scheduler queue and subscriber sets.
	ID() uint64
}

// Cleanup is a function returned by effects to release resources.
// It is called before the effect re-runs and when the effect is disposed.
type Cleanup func()

// runnable is a listener the scheduler can execute during a flush.
// Effects and explicit subscriptions implement it; computeds do not
// (they recompute lazily on read and are never queued).
type runnable interface {
	Listener

	// invoke performs one run of the task.
	invoke()

	// runnableNow reports whether the task may execute at all.
	runnableNow() bool

	// resetPending clears any queued-for-run state so a later MarkDirty
	// schedules the task again. Called when a flush aborts with the task
	// drained but not run.
	resetPending()

	// runLimit returns the per-flush-cycle run ceiling (0 = unlimited)
	// and whether exceeding it disables the task instead of panicking.
	runLimit() (max int, autoDisable bool)

	// disable permanently stops the task. Called by the scheduler when the
	// run ceiling is exceeded and autoDisable is set.
	disable()

	// label returns a human-readable name for diagnostics.
	label() string
}

// dependent is a listener that tracks which cells it has subscribed to,
// so stale subscriptions can be dropped before a re-run or recompute.
type dependent interface {
	Listener
	addSource(src *subscriberSet)
}
