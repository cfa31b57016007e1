package reactive

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// scheduler owns the process-wide pending queue and the flush loop.
// Tasks (effects and explicit subscriptions) are enqueued deduplicated by
// ID; a flush drains the queue in passes until no new work appears.
type scheduler struct {
	mu     sync.Mutex
	queue  []runnable
	queued map[uint64]struct{}

	// flushing guards against re-entrant and concurrent flush cycles.
	// Work enqueued while a flush runs is picked up by its next pass.
	flushing atomic.Bool
}

// sched is the process-wide scheduler instance.
var sched = &scheduler{queued: make(map[uint64]struct{})}

// enqueue adds a task to the pending queue. A task already queued for
// this cycle is not added twice; it runs once per flush pass.
func (s *scheduler) enqueue(t runnable) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := t.ID()
	if _, ok := s.queued[id]; ok {
		return
	}
	s.queued[id] = struct{}{}
	s.queue = append(s.queue, t)
}

// drain snapshots the pending queue in scheduling order and clears it.
func (s *scheduler) drain() []runnable {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := s.queue
	s.queue = nil
	if len(s.queued) > 0 {
		s.queued = make(map[uint64]struct{})
	}
	return batch
}

// empty reports whether the pending queue has no work.
func (s *scheduler) empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue) == 0
}

// maybeFlush flushes unless the current goroutine is inside a Batch.
// Write paths call this once after notifying all subscribers, so every
// dependent of a write is queued before any of them runs.
func (s *scheduler) maybeFlush() {
	if batchDepth() == 0 {
		s.flush()
	}
}

// flush executes pending tasks until the queue is quiescent.
//
// Each cycle drains the queue into an ordered pass and runs every entry.
// Tasks that schedule new work (including re-scheduling themselves) cause
// another pass; per-task run counters persist across passes of one cycle
// so the MaxRuns guard can trip. The pass count itself is bounded
// independently: exceeding maxFlushPasses panics with ErrFlushOverflow.
//
// A flush requested while one is already running returns immediately;
// the running cycle picks the new work up on its next pass.
func (s *scheduler) flush() {
	for {
		if !s.flushing.CompareAndSwap(false, true) {
			return
		}

		func() {
			// Reset the flag even when a loop guard panics, so the
			// scheduler stays usable after the caller recovers.
			defer s.flushing.Store(false)
			s.runCycle()
		}()

		// Work enqueued between the last empty drain and the flag reset
		// would otherwise be stranded until the next write.
		if s.empty() {
			return
		}
	}
}

// runCycle performs one complete flush cycle: repeated passes until the
// queue stays empty.
func (s *scheduler) runCycle() {
	runs := make(map[uint64]int)
	passes := 0
	tasks := 0

	var batch []runnable
	next := 0

	// A loop-guard panic aborts the cycle mid-batch. Drained tasks that
	// did not run still carry their pending flag; clear it on the way out
	// or their MarkDirty would refuse to schedule them ever again.
	defer func() {
		if r := recover(); r != nil {
			for _, t := range batch[next:] {
				t.resetPending()
			}
			panic(r)
		}
	}()

	instrument().FlushStart()

	for {
		batch = s.drain()
		next = 0
		if len(batch) == 0 {
			break
		}

		passes++
		if passes > maxFlushPasses {
			panic(fmt.Errorf("%w: %d passes", ErrFlushOverflow, passes))
		}

		for next < len(batch) {
			if s.runTask(batch[next], runs) {
				tasks++
			}
			next++
		}
	}

	instrument().FlushEnd(passes, tasks)
}

// runTask executes one task, enforcing its per-cycle run limit.
// Returns true if the task actually ran.
//
// Panics from the task body are recovered and logged so one misbehaving
// subscriber cannot stop the rest of the flush. The loop-guard panics
// raised here deliberately escape: they indicate caller bugs and must
// surface loudly.
func (s *scheduler) runTask(t runnable, runs map[uint64]int) bool {
	if !t.runnableNow() {
		return false
	}

	id := t.ID()
	if max, auto := t.runLimit(); max > 0 && runs[id] >= max {
		if auto {
			t.disable()
			logger().Warn("lumen: effect disabled after exceeding max runs",
				"effect", t.label(), "id", id, "max_runs", max)
			instrument().EffectDisabled(t.label(), id)
			return false
		}
		panic(fmt.Errorf("%w: %s ran %d times", ErrEffectOverrun, t.label(), runs[id]))
	}
	runs[id]++

	func() {
		defer func() {
			if r := recover(); r != nil {
				if isFatal(r) {
					panic(r)
				}
				logger().Error("lumen: panic in scheduled task",
					"task", t.label(), "id", id, "panic", r)
				instrument().TaskPanicked(id, r)
			}
		}()
		t.invoke()
	}()

	return true
}
