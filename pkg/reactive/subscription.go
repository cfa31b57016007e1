package reactive

// subscription wraps an explicit Subscribe callback as a schedulable
// task. Unlike effects, subscriptions do not track dependencies or hold
// cleanups, and they carry no per-cycle run limit of their own; the flush
// pass ceiling still bounds them.
type subscription struct {
	id uint64
	fn func()
}

func newSubscription(fn func()) *subscription {
	return &subscription{id: nextID(), fn: fn}
}

// MarkDirty schedules the callback for the next flush.
// The triggering write path decides when that flush happens.
func (s *subscription) MarkDirty() {
	sched.enqueue(s)
}

func (s *subscription) ID() uint64 {
	return s.id
}

func (s *subscription) invoke() {
	s.fn()
}

func (s *subscription) runnableNow() bool {
	return true
}

func (s *subscription) resetPending() {}

func (s *subscription) runLimit() (int, bool) {
	return 0, false
}

func (s *subscription) disable() {}

func (s *subscription) label() string {
	return "subscription"
}
