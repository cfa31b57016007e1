package reactive

import (
	"testing"
)

func TestEffectRunsOnCreate(t *testing.T) {
	ran := false
	e := CreateEffect(func() Cleanup {
		ran = true
		return nil
	})
	defer e.Dispose()

	if !ran {
		t.Error("effect should run immediately on creation")
	}
}

func TestEffectRerunsOnDependencyChange(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	count.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs after write, got %d", runs)
	}

	count.Set(1)
	if runs != 2 {
		t.Errorf("same-value write should not re-run, got %d", runs)
	}
}

func TestEffectCleanupOrdering(t *testing.T) {
	count := NewSignal(0)

	cleanups := 0
	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return func() {
			cleanups++
		}
	})

	if runs != 1 || cleanups != 0 {
		t.Fatalf("after create: runs=%d cleanups=%d, expected 1/0", runs, cleanups)
	}

	count.Set(1)
	if runs != 2 || cleanups != 1 {
		t.Errorf("after first write: runs=%d cleanups=%d, expected 2/1", runs, cleanups)
	}

	count.Set(2)
	if runs != 3 || cleanups != 2 {
		t.Errorf("after second write: runs=%d cleanups=%d, expected 3/2", runs, cleanups)
	}

	e.Dispose()
	if cleanups != 3 {
		t.Errorf("dispose should run final cleanup, got %d", cleanups)
	}

	// Idempotent disposal: no further cleanup, no further runs.
	e.Dispose()
	if cleanups != 3 {
		t.Errorf("second dispose should be a no-op, got %d cleanups", cleanups)
	}

	count.Set(3)
	if runs != 3 {
		t.Errorf("disposed effect should not re-run, got %d runs", runs)
	}
}

func TestEffectDynamicDependencies(t *testing.T) {
	flag := NewSignal(true)
	a := NewSignal(1)
	b := NewSignal(10)

	runs := 0
	e := CreateEffect(func() Cleanup {
		if flag.Get() {
			_ = a.Get()
		} else {
			_ = b.Get()
		}
		runs++
		return nil
	})
	defer e.Dispose()

	if runs != 1 {
		t.Fatalf("expected 1 run, got %d", runs)
	}

	// b is not currently a dependency.
	b.Set(11)
	if runs != 1 {
		t.Errorf("write to unread signal should not re-run, got %d", runs)
	}

	flag.Set(false)
	if runs != 2 {
		t.Fatalf("expected 2 runs after branch toggle, got %d", runs)
	}

	// Roles swapped: a dropped, b live.
	a.Set(2)
	if runs != 2 {
		t.Errorf("write to dropped dependency should not re-run, got %d", runs)
	}

	b.Set(12)
	if runs != 3 {
		t.Errorf("write to live dependency should re-run, got %d", runs)
	}
}

func TestEffectBodyPanicContained(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		if runs == 2 {
			panic("effect body failure")
		}
		return nil
	})
	defer e.Dispose()

	// The panicking run is logged and contained; the graph stays usable.
	count.Set(1)
	if runs != 2 {
		t.Errorf("expected 2 runs, got %d", runs)
	}

	count.Set(2)
	if runs != 3 {
		t.Errorf("effect should keep running after a contained panic, got %d", runs)
	}
}

func TestEffectCleanupPanicContained(t *testing.T) {
	count := NewSignal(0)

	runs := 0
	e := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return func() {
			panic("cleanup failure")
		}
	})

	count.Set(1)
	if runs != 2 {
		t.Errorf("cleanup panic should not block the re-run, got %d runs", runs)
	}

	// Disposal survives the panicking final cleanup too.
	e.Dispose()

	count.Set(2)
	if runs != 2 {
		t.Errorf("disposed effect should not re-run, got %d", runs)
	}
}

func TestEffectOneMisbehavingSubscriberDoesNotBlockOthers(t *testing.T) {
	count := NewSignal(0)

	e1 := CreateEffect(func() Cleanup {
		_ = count.Get()
		if count.Peek() > 0 {
			panic("unstable effect")
		}
		return nil
	})
	defer e1.Dispose()

	runs := 0
	e2 := CreateEffect(func() Cleanup {
		_ = count.Get()
		runs++
		return nil
	})
	defer e2.Dispose()

	count.Set(1)
	if runs != 2 {
		t.Errorf("second effect should run despite first panicking, got %d runs", runs)
	}
}

func TestEffectMultipleDependencies(t *testing.T) {
	a := NewSignal(1)
	b := NewSignal(2)

	var sums []int
	e := CreateEffect(func() Cleanup {
		sums = append(sums, a.Get()+b.Get())
		return nil
	})
	defer e.Dispose()

	a.Set(10)
	b.Set(20)

	// Outside Batch each write flushes: three runs, intermediate state
	// visible between the writes.
	want := []int{3, 12, 30}
	if len(sums) != len(want) {
		t.Fatalf("expected %v, got %v", want, sums)
	}
	for i := range want {
		if sums[i] != want[i] {
			t.Errorf("expected %v, got %v", want, sums)
			break
		}
	}
}

func TestEffectName(t *testing.T) {
	e := CreateEffect(func() Cleanup { return nil }, EffectName("watcher"))
	defer e.Dispose()

	if e.label() != "watcher" {
		t.Errorf("expected label watcher, got %s", e.label())
	}

	anon := CreateEffect(func() Cleanup { return nil })
	defer anon.Dispose()

	if anon.label() == "" {
		t.Error("unnamed effect should synthesize a label")
	}
}
