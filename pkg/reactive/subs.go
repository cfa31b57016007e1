package reactive

import "sync"

// subscriberSet provides type-erased subscriber management.
// It is embedded in Signal[T] and Computed[T] to share subscription logic,
// and a second instance backs a signal's pending-state subscribers.
type subscriberSet struct {
	id uint64

	// subs are the listeners subscribed to this cell.
	subs []Listener

	// mu protects the subs slice.
	mu sync.RWMutex
}

// add registers a listener. Deduplicates by listener ID to prevent
// double-subscription when a cell is read several times in one run.
func (s *subscriberSet) add(l Listener) {
	if l == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lid := l.ID()
	for _, existing := range s.subs {
		if existing.ID() == lid {
			return
		}
	}

	s.subs = append(s.subs, l)
}

// remove drops a listener from the set.
func (s *subscriberSet) remove(l Listener) {
	if l == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lid := l.ID()
	for i, existing := range s.subs {
		if existing.ID() == lid {
			// Preserve order so notification stays in subscription order.
			s.subs = append(s.subs[:i], s.subs[i+1:]...)
			return
		}
	}
}

// notify marks every current subscriber dirty, in subscription order.
// Subscribers are copied out first so no lock is held during notification;
// listeners are free to subscribe or unsubscribe reentrantly.
//
// notify does not flush. Write paths call the scheduler after notifying so
// that every subscriber of a write is queued before any of them runs.
func (s *subscriberSet) notify() {
	s.mu.RLock()
	subs := make([]Listener, len(s.subs))
	copy(subs, s.subs)
	s.mu.RUnlock()

	for _, sub := range subs {
		sub.MarkDirty()
	}
}

// track subscribes the currently active listener, if any, and records the
// reverse edge on dependents so they can unsubscribe before a re-run.
func (s *subscriberSet) track() {
	listener := getCurrentListener()
	if listener == nil {
		return
	}

	s.add(listener)

	if d, ok := listener.(dependent); ok {
		d.addSource(s)
	}
}
