package unitsync

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// PerThread is a memoized lazy value computed at most once per worker
// thread. Reads of an already-initialized slot are lock-free; one shared
// lock (the wait queue's mutex) guards growth and slow-path initialization,
// and the initializer itself runs without the lock so unrelated slots and
// all lock-free reads stay unblocked during a slow initializer.
//
// A failed initializer is permanent for its thread: the same
// *InitFailedError is returned to that thread's callers forever.
//
// Each PerThread is an independent registry object; construct one and pass
// it around explicitly.
type PerThread[T any] struct {
	// snap is the published snapshot. Snapshots are immutable in length:
	// growth allocates a strictly larger snapshot, copies every existing
	// slot forward, and swaps the handle; superseded snapshots are never
	// grown or shrunk, so a lock-free reader always sees a consistent
	// (values, states) pair.
	snap atomic.Pointer[perThreadSnapshot[T]]

	wq    WaitQueue
	sched Scheduler
	init  func() (T, error)
	log   *logiface.Logger[logiface.Event]
}

// perThreadSnapshot holds one (value, state) pair per worker-thread id.
// states transition per the once-state machine; values[i] and errs[i] are
// written before the corresponding states[i] store (release) and read only
// after observing onceDone or onceFailed (acquire).
type perThreadSnapshot[T any] struct {
	values []T
	errs   []error
	states []atomic.Uint32
}

// NewPerThread creates a PerThread with the given initializer.
//
// Providing a nil initializer will cause a panic.
func NewPerThread[T any](init func() (T, error), opts ...Option) *PerThread[T] {
	if init == nil {
		panic(`unitsync: nil initializer`)
	}
	cfg := resolveConfig(opts)
	return &PerThread[T]{
		wq:    cfg.wq,
		sched: cfg.sched,
		init:  init,
		log:   cfg.log,
	}
}

// Get returns the calling worker thread's memoized value, computing it on
// first call. Once a thread's slot is initialized, Get is a snapshot load
// plus a state load, with no locking.
func (x *PerThread[T]) Get() (T, error) {
	tid := x.sched.ThreadID()
	if snap := x.snap.Load(); snap != nil && tid < len(snap.states) && snap.states[tid].Load() == onceDone {
		return snap.values[tid], nil
	}
	return x.getSlow(tid)
}

func (x *PerThread[T]) getSlow(tid int) (value T, err error) {
	x.wq.Lock()
	for {
		snap := x.snap.Load()
		if snap == nil || tid >= len(snap.states) {
			snap = x.grow(snap, tid)
		}
		switch snap.states[tid].Load() {
		case onceDone:
			value = snap.values[tid]
			x.wq.Unlock()
			return value, nil
		case onceFailed:
			err = snap.errs[tid]
			x.wq.Unlock()
			return value, err
		case onceRunning:
			// One wait queue serves every slot, so a broadcast may be for
			// an unrelated slot; recheck after each wakeup.
			x.wq.Wait()
		case onceUninit:
			snap.states[tid].Store(onceRunning)
			x.wq.Unlock()
			value, err = runInitializer(x.init)
			x.wq.Lock()
			return x.complete(tid, value, err)
		}
	}
}

// complete records the initializer's outcome in the current snapshot and
// wakes all waiters. Called with the queue mutex held; releases it.
func (x *PerThread[T]) complete(tid int, value T, err error) (T, error) {
	// The snapshot may have been superseded while the initializer ran;
	// slots are only ever completed in the current one.
	cur := x.snap.Load()
	if cur == nil || tid >= len(cur.states) || cur.states[tid].Load() != onceRunning {
		panic(&InvariantViolationError{Message: "per-thread slot changed under running initializer"})
	}
	if err != nil {
		failure := &InitFailedError{Cause: err}
		cur.errs[tid] = failure
		cur.states[tid].Store(onceFailed)
		x.wq.NotifyAll()
		x.wq.Unlock()
		x.log.Debug().Str("op", "perthread").Int("tid", tid).Err(err).Log("initializer failed permanently")
		var zero T
		return zero, failure
	}
	cur.values[tid] = value
	cur.states[tid].Store(onceDone)
	x.wq.NotifyAll()
	x.wq.Unlock()
	return value, nil
}

// grow publishes a strictly larger snapshot covering tid, copying every
// existing slot forward. Called with the queue mutex held, so only one
// grower runs at a time; previously published indices are never mutated in
// place, leaving concurrent lock-free readers of already-done slots
// unaffected.
func (x *PerThread[T]) grow(old *perThreadSnapshot[T], tid int) *perThreadSnapshot[T] {
	var oldLen int
	if old != nil {
		oldLen = len(old.states)
	}
	// Old length plus the current worker count; may over-allocate under
	// rapid growth, which is a tuning choice rather than a correctness
	// concern.
	newLen := oldLen + x.sched.ThreadCount()
	if newLen < tid+1 {
		newLen = tid + 1
	}
	next := &perThreadSnapshot[T]{
		values: make([]T, newLen),
		errs:   make([]error, newLen),
		states: make([]atomic.Uint32, newLen),
	}
	for i := range oldLen {
		next.values[i] = old.values[i]
		next.errs[i] = old.errs[i]
		next.states[i].Store(old.states[i].Load())
	}
	x.snap.Store(next)
	return next
}
