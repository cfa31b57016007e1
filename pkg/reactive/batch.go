package reactive

// Batch groups multiple signal writes into a single flush. Dependents of
// all signals written inside fn are queued, deduplicated, and run once
// when the outermost batch exits.
//
// Batches nest; inner Batch calls are transparent and only the outermost
// boundary flushes.
//
// Example:
//
//	Batch(func() {
//	    firstName.Set("John")
//	    lastName.Set("Doe")
//	})
//	// Dependents of both signals run once, seeing both new values.
func Batch(fn func()) {
	incrementBatchDepth()

	defer func() {
		if decrementBatchDepth() {
			sched.flush()
		}
	}()

	fn()
}

// Untracked runs fn without tracking cell reads as dependencies.
// For single reads, prefer Peek.
//
// Example:
//
//	Untracked(func() {
//	    // Reading count here does not subscribe the current listener.
//	    value := count.Get()
//	    fmt.Println("Current value:", value)
//	})
func Untracked(fn func()) {
	old := setCurrentListener(nil)
	defer setCurrentListener(old)
	fn()
}

// UntrackedGet reads a signal without creating a dependency.
// Equivalent to s.Peek().
func UntrackedGet[T any](s *Signal[T]) T {
	return s.Peek()
}
