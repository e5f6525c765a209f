package unitsync

import (
	"sync"
	"sync/atomic"

	"github.com/joeycumines/go-unitsync/internal/goid"
)

// Unit is the opaque identity of a cooperatively-scheduled execution unit.
// Units are compared with ==; two values are the same unit iff they compare
// equal. The zero value (nil) means "no unit".
//
// Do not assume a unit maps to one OS thread for the lifetime of an
// operation: the scheduler may migrate units between worker threads at any
// suspension point.
type Unit any

// Scheduler is the external runtime collaborator. It supplies unit identity
// for reentrancy checks, worker-thread ids for [PerThread], unit-private
// storage for [PerTask], and the finalizer-deferral capability hooked by
// [ReentrantLock].
//
// The default, returned by [NewGoScheduler], treats each goroutine as its
// own unit running on its own logical worker thread. Host runtimes that
// multiplex units themselves inject their own implementation via
// [WithScheduler].
type Scheduler interface {
	// CurrentUnit returns the identity of the calling unit. It must be
	// stable for the duration of the unit and comparable with ==.
	CurrentUnit() Unit

	// ThreadID returns the dense id (0-based) of the worker thread the
	// calling unit is currently running on.
	ThreadID() int

	// ThreadCount returns the current number of worker threads. It must be
	// at least ThreadID()+1 for every live worker, and may only grow.
	ThreadCount() int

	// UnitLocal returns the value stored under key in the calling unit's
	// private storage, invoking init and storing its results (value and
	// error alike) on first access. The storage is exclusively owned by
	// its unit and never observed by another unit.
	UnitLocal(key any, init func() (any, error)) (any, error)

	// DisableFinalizers defers execution of pending finalizer-style cleanup
	// callbacks on the current worker thread. Calls nest; each must be
	// matched by EnableFinalizers. Runtimes without a finalizer queue
	// implement this as a depth-counted no-op.
	DisableFinalizers()

	// EnableFinalizers reverses one DisableFinalizers call.
	EnableFinalizers()
}

// goUnit is the default unit identity: the goroutine id.
type goUnit int64

// GoScheduler is the default [Scheduler], backed by the Go runtime. Units
// are goroutines, identified by goroutine id; each goroutine is assigned a
// dense worker-thread id on first use (Go does not expose its own M:N
// mapping, so the default degenerates to one logical worker per goroutine).
// Finalizer deferral is a depth-counted no-op: Go finalizers already run on
// a dedicated goroutine and cannot re-enter the caller's critical section.
type GoScheduler struct {
	// units caches the per-goroutine unit handle and thread id.
	// Key: int64 goroutine id. Value: int thread id.
	threads sync.Map
	nextTID atomic.Int32

	// locals stores unit-private values. Key: unitLocalKey.
	// Value: *unitLocalSlot. Only the owning goroutine reads or writes a
	// given key, so slots need no further synchronization.
	//
	// TODO: reclaim slots of exited goroutines, e.g. a periodic liveness
	// sweep keyed off runtime.NumGoroutine deltas.
	locals sync.Map

	finalizerDepth atomic.Int32
}

type unitLocalKey struct {
	unit Unit
	key  any
}

type unitLocalSlot struct {
	value any
	err   error
}

// NewGoScheduler creates a goroutine-backed scheduler. Thread ids and
// unit-local storage are scoped to the returned instance.
func NewGoScheduler() *GoScheduler {
	return &GoScheduler{}
}

// defaultScheduler backs primitives constructed without WithScheduler.
var defaultScheduler Scheduler = NewGoScheduler()

// CurrentUnit returns the calling goroutine's identity.
func (x *GoScheduler) CurrentUnit() Unit {
	return goUnit(goid.ID())
}

// ThreadID returns the dense id assigned to the calling goroutine.
func (x *GoScheduler) ThreadID() int {
	id := goid.ID()
	if v, ok := x.threads.Load(id); ok {
		return v.(int)
	}
	tid := int(x.nextTID.Add(1) - 1)
	// The same goroutine cannot race itself; LoadOrStore is belt and
	// braces against id reuse bugs in goid.
	if v, loaded := x.threads.LoadOrStore(id, tid); loaded {
		return v.(int)
	}
	return tid
}

// ThreadCount returns the number of worker-thread ids assigned so far.
func (x *GoScheduler) ThreadCount() int {
	if n := int(x.nextTID.Load()); n > 0 {
		return n
	}
	return 1
}

// UnitLocal implements get-or-insert on the calling goroutine's private
// storage. Both the value and the error returned by init are cached.
func (x *GoScheduler) UnitLocal(key any, init func() (any, error)) (any, error) {
	k := unitLocalKey{unit: x.CurrentUnit(), key: key}
	if v, ok := x.locals.Load(k); ok {
		slot := v.(*unitLocalSlot)
		return slot.value, slot.err
	}
	value, err := init()
	x.locals.Store(k, &unitLocalSlot{value: value, err: err})
	return value, err
}

// DisableFinalizers increments the deferral depth. No-op beyond bookkeeping.
func (x *GoScheduler) DisableFinalizers() {
	x.finalizerDepth.Add(1)
}

// EnableFinalizers decrements the deferral depth.
func (x *GoScheduler) EnableFinalizers() {
	if x.finalizerDepth.Add(-1) < 0 {
		panic(&InvariantViolationError{Message: "EnableFinalizers without matching DisableFinalizers"})
	}
}
