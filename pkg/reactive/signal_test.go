package reactive

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestSignalBasic(t *testing.T) {
	count := NewSignal(0)

	if count.Get() != 0 {
		t.Errorf("expected initial value 0, got %d", count.Get())
	}

	count.Set(5)
	if count.Get() != 5 {
		t.Errorf("expected value 5, got %d", count.Get())
	}

	count.Update(func(n int) int { return n * 2 })
	if count.Get() != 10 {
		t.Errorf("expected value 10, got %d", count.Get())
	}
}

func TestSignalPeek(t *testing.T) {
	count := NewSignal(42)

	listener := newTestListener()
	WithListener(listener, func() {
		if v := count.Peek(); v != 42 {
			t.Errorf("expected 42, got %d", v)
		}
	})

	count.Set(100)
	if listener.getDirtyCount() != 0 {
		t.Errorf("Peek should not subscribe listener, got %d notifications", listener.getDirtyCount())
	}
}

func TestSignalValueChangeGating(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification, got %d", listener.getDirtyCount())
	}

	// Same value must not notify again.
	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("same value should not notify, got %d", listener.getDirtyCount())
	}

	count.Set(2)
	if listener.getDirtyCount() != 2 {
		t.Errorf("expected 2 notifications, got %d", listener.getDirtyCount())
	}
}

func TestSignalNoTrackingOutsideContext(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	_ = count.Get()

	WithListener(listener, func() {
		// No reads here.
	})

	count.Set(1)
	if listener.getDirtyCount() != 0 {
		t.Errorf("expected 0 notifications when not tracking, got %d", listener.getDirtyCount())
	}
}

func TestSignalDeduplicateSubscription(t *testing.T) {
	count := NewSignal(0)
	listener := newTestListener()

	WithListener(listener, func() {
		_ = count.Get()
		_ = count.Get()
		_ = count.Get()
	})

	count.Set(1)
	if listener.getDirtyCount() != 1 {
		t.Errorf("expected 1 notification (deduplicated), got %d", listener.getDirtyCount())
	}
}

func TestSignalCustomEquals(t *testing.T) {
	type user struct {
		ID   int
		Name string
	}

	// Only the ID participates in the change gate.
	u := NewSignal(user{ID: 1, Name: "Alice"}).WithEquals(func(a, b user) bool {
		return a.ID == b.ID
	})

	listener := newTestListener()
	WithListener(listener, func() {
		_ = u.Get()
	})

	u.Set(user{ID: 1, Name: "Bob"})
	if listener.getDirtyCount() != 0 {
		t.Errorf("same ID should not notify, got %d", listener.getDirtyCount())
	}

	u.Set(user{ID: 2, Name: "Bob"})
	if listener.getDirtyCount() != 1 {
		t.Errorf("different ID should notify, got %d", listener.getDirtyCount())
	}
}

func TestSignalDeepEqualFallback(t *testing.T) {
	s := NewSignal([]int{1, 2, 3})
	listener := newTestListener()

	WithListener(listener, func() {
		_ = s.Get()
	})

	// Equal contents, different backing array: gated.
	s.Set([]int{1, 2, 3})
	if listener.getDirtyCount() != 0 {
		t.Errorf("deep-equal slice should not notify, got %d", listener.getDirtyCount())
	}

	s.Set([]int{1, 2, 4})
	if listener.getDirtyCount() != 1 {
		t.Errorf("changed slice should notify, got %d", listener.getDirtyCount())
	}
}

func TestSignalExplicitSubscribe(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	unsubscribe := count.Subscribe(func() {
		runs++
	})

	count.Set(1)
	if runs != 1 {
		t.Errorf("expected 1 run after first set, got %d", runs)
	}

	// Value-change gate applies to explicit subscribers too.
	count.Set(1)
	if runs != 1 {
		t.Errorf("same value should not run subscriber, got %d", runs)
	}

	count.Set(2)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}

	unsubscribe()
	count.Set(3)
	if runs != 2 {
		t.Errorf("unsubscribed callback should not run, got %d", runs)
	}

	// Unsubscribe is safe to call again.
	unsubscribe()
}

func TestSignalUpdateAsyncStoresResult(t *testing.T) {
	count := NewSignal(1)

	done := count.UpdateAsync(func(n int) (int, error) {
		return n + 10, nil
	})
	<-done

	if got := count.Get(); got != 11 {
		t.Errorf("expected 11 after async update, got %d", got)
	}
}

func TestSignalUpdateAsyncSwallowsError(t *testing.T) {
	count := NewSignal(7)

	done := count.UpdateAsync(func(n int) (int, error) {
		return 0, errors.New("fetch failed")
	})

	// Best-effort contract: the channel closes, the value is untouched.
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("done channel never closed after failed update")
	}

	if got := count.Get(); got != 7 {
		t.Errorf("failed update should not change value, got %d", got)
	}
}

func TestSignalUpdateAsyncSwallowsPanic(t *testing.T) {
	count := NewSignal(7)

	done := count.UpdateAsync(func(n int) (int, error) {
		panic("boom")
	})
	<-done

	if got := count.Get(); got != 7 {
		t.Errorf("panicking update should not change value, got %d", got)
	}
	if count.Pending() {
		t.Error("pending should clear even when the callback panics")
	}
}

func TestSignalPendingLifecycle(t *testing.T) {
	count := NewSignal(0)

	var mu sync.Mutex
	var observed []bool
	e := CreateEffect(func() Cleanup {
		p := count.Pending()
		mu.Lock()
		observed = append(observed, p)
		mu.Unlock()
		return nil
	})
	defer e.Dispose()

	release := make(chan struct{})
	done := count.UpdateAsync(func(n int) (int, error) {
		<-release
		return n + 1, nil
	})

	// Pending flipped true synchronously, before the callback resolves.
	mu.Lock()
	sawTrue := len(observed) >= 2 && observed[len(observed)-1]
	mu.Unlock()
	if !sawTrue {
		t.Fatalf("effect should observe pending=true while update is in flight, observed %v", observed)
	}

	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	if observed[0] != false {
		t.Errorf("first observation should be false, observed %v", observed)
	}
	if observed[len(observed)-1] != false {
		t.Errorf("pending should be false after resolution, observed %v", observed)
	}
	if count.Peek() != 1 {
		t.Errorf("expected value 1 after update, got %d", count.Peek())
	}
}

func TestSignalPendingDoesNotRerunValueEffects(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get() // value dependency only; Pending is never read
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Fatalf("expected 1 initial run, got %d", runs)
	}

	done := count.UpdateAsync(func(n int) (int, error) {
		return n, nil // same value: no value change at all
	})
	<-done

	// Pending toggled twice, but this effect never read Pending.
	if runs != 1 {
		t.Errorf("pending transitions should not re-run value-only effects, got %d runs", runs)
	}
}

func TestSignalOverlappingAsyncUpdates(t *testing.T) {
	count := NewSignal(0)

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})

	doneA := count.UpdateAsync(func(n int) (int, error) {
		<-releaseA
		return 100, nil
	})
	doneB := count.UpdateAsync(func(n int) (int, error) {
		<-releaseB
		return 200, nil
	})

	if !count.Pending() {
		t.Error("pending should be true with two updates in flight")
	}

	close(releaseA)
	<-doneA
	if !count.Pending() {
		t.Error("pending should stay true while one update remains in flight")
	}

	close(releaseB)
	<-doneB
	if count.Pending() {
		t.Error("pending should be false after both updates resolve")
	}

	// Completion order was forced A then B; last write wins.
	if got := count.Get(); got != 200 {
		t.Errorf("expected last write 200, got %d", got)
	}
}

func TestUntrackedGet(t *testing.T) {
	count := NewSignal(5)
	listener := newTestListener()

	WithListener(listener, func() {
		if v := UntrackedGet(count); v != 5 {
			t.Errorf("expected 5, got %d", v)
		}
	})

	count.Set(6)
	if listener.getDirtyCount() != 0 {
		t.Errorf("UntrackedGet should not subscribe, got %d notifications", listener.getDirtyCount())
	}
}

func TestUntracked(t *testing.T) {
	count := NewSignal(5)
	listener := newTestListener()

	WithListener(listener, func() {
		Untracked(func() {
			_ = count.Get()
		})
	})

	count.Set(6)
	if listener.getDirtyCount() != 0 {
		t.Errorf("reads inside Untracked should not subscribe, got %d notifications", listener.getDirtyCount())
	}
}
