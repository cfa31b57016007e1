package reactive

import (
	"runtime"
	"sync"
)

// trackingContext holds the reactive state for one goroutine.
// Each goroutine has its own context so concurrent readers and writers
// never observe each other's active listener or batch depth.
type trackingContext struct {
	// currentListener is what is currently tracking dependencies.
	// When a cell is read, it subscribes this listener.
	// nil means no tracking (reads do not create subscriptions).
	currentListener Listener

	// currentOwner is the Owner that will adopt newly created effects.
	currentOwner *Owner

	// batchDepth tracks nested Batch() calls. When > 0, writes queue
	// work without flushing; the outermost Batch exit flushes.
	batchDepth int
}

// trackingContexts stores per-goroutine tracking contexts.
var trackingContexts sync.Map

// goroutineID returns a unique identifier for the current goroutine,
// parsed from the runtime stack header ("goroutine <id> ...").
// Implementation detail; never exposed.
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)

	var id uint64
	for i := 10; i < n; i++ { // skip "goroutine "
		if buf[i] == ' ' {
			break
		}
		id = id*10 + uint64(buf[i]-'0')
	}
	return id
}

// getTrackingContext returns the tracking context for the current
// goroutine, creating it on first use.
func getTrackingContext() *trackingContext {
	gid := goroutineID()

	if ctx, ok := trackingContexts.Load(gid); ok {
		return ctx.(*trackingContext)
	}

	ctx := &trackingContext{}
	trackingContexts.Store(gid, ctx)
	return ctx
}

// getCurrentListener returns the active listener, or nil when no
// tracking is in progress on this goroutine.
func getCurrentListener() Listener {
	return getTrackingContext().currentListener
}

// setCurrentListener installs l as the active listener and returns the
// previous one so callers can restore it. Always pair with a deferred
// restore; nesting depends on it.
func setCurrentListener(l Listener) Listener {
	ctx := getTrackingContext()
	old := ctx.currentListener
	ctx.currentListener = l
	return old
}

// getCurrentOwner returns the owner that adopts new effects, or nil.
func getCurrentOwner() *Owner {
	return getTrackingContext().currentOwner
}

// setCurrentOwner installs o as the current owner and returns the
// previous one so callers can restore it.
func setCurrentOwner(o *Owner) *Owner {
	ctx := getTrackingContext()
	old := ctx.currentOwner
	ctx.currentOwner = o
	return old
}

// batchDepth returns the current Batch nesting depth for this goroutine.
func batchDepth() int {
	return getTrackingContext().batchDepth
}

// incrementBatchDepth enters one level of batching.
func incrementBatchDepth() {
	getTrackingContext().batchDepth++
}

// decrementBatchDepth leaves one level of batching and reports whether
// the outermost batch just completed.
func decrementBatchDepth() bool {
	ctx := getTrackingContext()
	ctx.batchDepth--
	return ctx.batchDepth == 0
}

// WithOwner runs fn with the given owner adopting any effects created
// inside. Use this when spawning goroutines that create reactive state
// belonging to an existing scope:
//
//	go func() {
//	    reactive.WithOwner(owner, func() {
//	        reactive.CreateEffect(...)
//	    })
//	}()
func WithOwner(owner *Owner, fn func()) {
	old := setCurrentOwner(owner)
	defer setCurrentOwner(old)
	fn()
}

// WithListener runs fn with l installed as the active listener, so every
// cell read inside subscribes l. Used internally by effects and computeds
// and exported for building custom subscribers (renderers, test probes).
func WithListener(l Listener, fn func()) {
	old := setCurrentListener(l)
	defer setCurrentListener(old)
	fn()
}
