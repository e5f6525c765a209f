package unitsync

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestGoScheduler_CurrentUnitIdentity(t *testing.T) {
	sched := NewGoScheduler()

	u1 := sched.CurrentUnit()
	u2 := sched.CurrentUnit()
	if u1 != u2 {
		t.Fatal("expected stable unit identity within a goroutine")
	}

	runOtherUnit(t, func() {
		if other := sched.CurrentUnit(); other == u1 {
			t.Error("expected distinct unit identity across goroutines")
		}
	})
}

func TestGoScheduler_ThreadIDs(t *testing.T) {
	sched := NewGoScheduler()

	tid := sched.ThreadID()
	if tid != sched.ThreadID() {
		t.Fatal("expected stable thread id within a goroutine")
	}
	if sched.ThreadCount() < tid+1 {
		t.Fatalf("thread count %d does not cover id %d", sched.ThreadCount(), tid)
	}

	runOtherUnit(t, func() {
		other := sched.ThreadID()
		if other == tid {
			t.Error("expected distinct thread ids across goroutines")
		}
		if sched.ThreadCount() < other+1 {
			t.Errorf("thread count %d does not cover id %d", sched.ThreadCount(), other)
		}
	})
}

func TestGoScheduler_UnitLocalCaches(t *testing.T) {
	sched := NewGoScheduler()
	key := new(int)

	var invocations atomic.Int32
	init := func() (any, error) {
		return int(invocations.Add(1)), nil
	}

	v1, err := sched.UnitLocal(key, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := sched.UnitLocal(key, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != v2 {
		t.Fatalf("expected cached value, got %v then %v", v1, v2)
	}
	if invocations.Load() != 1 {
		t.Fatalf("expected one invocation, got %d", invocations.Load())
	}

	// Errors are cached too.
	boom := errors.New("boom")
	failKey := new(int)
	fails := 0
	failInit := func() (any, error) {
		fails++
		return nil, boom
	}
	if _, err := sched.UnitLocal(failKey, failInit); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := sched.UnitLocal(failKey, failInit); !errors.Is(err, boom) {
		t.Fatalf("expected cached boom, got %v", err)
	}
	if fails != 1 {
		t.Fatalf("expected one failed invocation, got %d", fails)
	}
}

func TestGoScheduler_UnitLocalIsolatedPerUnit(t *testing.T) {
	sched := NewGoScheduler()
	key := new(int)

	var invocations atomic.Int32
	init := func() (any, error) {
		return int(invocations.Add(1)), nil
	}

	v, err := sched.UnitLocal(key, init)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	runOtherUnit(t, func() {
		other, err := sched.UnitLocal(key, init)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
			return
		}
		if other == v {
			t.Error("expected another unit to compute its own value")
		}
	})
	if invocations.Load() != 2 {
		t.Fatalf("expected two invocations, got %d", invocations.Load())
	}
}

func TestGoScheduler_FinalizerDepth(t *testing.T) {
	sched := NewGoScheduler()

	sched.DisableFinalizers()
	sched.DisableFinalizers()
	sched.EnableFinalizers()
	sched.EnableFinalizers()

	defer func() {
		r := recover()
		var violation *InvariantViolationError
		if err, _ := r.(error); !errors.As(err, &violation) {
			t.Fatalf("expected *InvariantViolationError panic, got %v", r)
		}
	}()
	sched.EnableFinalizers()
}
