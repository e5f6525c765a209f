package unitsync

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// ReentrantLock is a recursive mutual-exclusion lock for cooperatively
// scheduled units. A unit that holds the lock may acquire it again; it must
// release exactly as many times as it acquired before any other unit can
// acquire.
//
// The fast path is lock-free: acquisition is a single CAS on the tri-state
// lock word, and reentrant acquisition touches no atomics beyond an owner
// load. The slow path parks on the lock's [WaitQueue].
//
// While a unit holds the lock (depth > 0), finalizer-style cleanup callbacks
// on its worker thread are deferred via the scheduler, so a cleanup callback
// cannot re-enter lock-protected state while invariants are mid-update.
//
// A ReentrantLock must not be copied after first use.
type ReentrantLock struct {
	word lockWord

	// owner is the identity of the holding unit, nil if unheld. Published
	// with release ordering after the word transitions to locked, read with
	// acquire ordering by the reentrant fast path.
	owner atomic.Pointer[lockOwner]

	// depth is the reentrancy count. It is only ever accessed by the unit
	// that owns the lock, and is meaningful only while owner is set.
	depth int

	wq    WaitQueue
	sched Scheduler
	log   *logiface.Logger[logiface.Event]
}

type lockOwner struct {
	unit Unit
}

// NewReentrantLock creates an unlocked ReentrantLock.
func NewReentrantLock(opts ...Option) *ReentrantLock {
	cfg := resolveConfig(opts)
	return &ReentrantLock{
		wq:    cfg.wq,
		sched: cfg.sched,
		log:   cfg.log,
	}
}

// TryLock attempts to acquire the lock without blocking, returning true iff
// the calling unit now holds it. It never suspends the caller.
func (x *ReentrantLock) TryLock() bool {
	u := x.sched.CurrentUnit()
	if o := x.owner.Load(); o != nil && o.unit == u {
		// Reentrant fast path: no atomic exchange required.
		x.sched.DisableFinalizers()
		x.depth++
		return true
	}
	return x.tryAcquire(u)
}

// tryAcquire attempts the non-reentrant fast acquire: CAS the word from
// unlocked to locked, then publish owner and depth.
func (x *ReentrantLock) tryAcquire(u Unit) bool {
	if !x.word.tryTransition(lockUnlocked, lockLocked) {
		return false
	}
	x.sched.DisableFinalizers()
	x.depth = 1
	x.owner.Store(&lockOwner{unit: u})
	return true
}

// Lock acquires the lock, suspending the calling unit until it is
// available.
func (x *ReentrantLock) Lock() {
	if x.TryLock() {
		return
	}
	x.lockSlow(x.sched.CurrentUnit())
}

// lockSlow parks on the wait queue until the lock is acquired. The word is
// forced to contended before each park so the releasing side knows to issue
// a wakeup.
func (x *ReentrantLock) lockSlow(u Unit) {
	x.log.Trace().Str("op", "lock").Log("contended, entering slow path")
	x.wq.Lock()
	for {
		switch old := x.word.load(); old {
		case lockUnlocked:
			// Acquire as contended, not merely locked: other waiters may
			// still be parked, and the eventual unlock must wake one of
			// them. A spare wakeup with no waiters is a no-op.
			if x.word.tryTransition(lockUnlocked, lockContended) {
				x.sched.DisableFinalizers()
				x.depth = 1
				x.owner.Store(&lockOwner{unit: u})
				x.wq.Unlock()
				return
			}
			// Lost the race; re-read the word.
			continue
		case lockLocked:
			if !x.word.tryTransition(lockLocked, lockContended) {
				continue
			}
		}
		// Word is contended. Holding the queue mutex here closes the
		// missed-wakeup window: the releasing side cannot notify until
		// Wait has parked us and released the mutex.
		x.wq.Wait()
	}
}

// Unlock releases one level of the lock. If the calling unit does not hold
// the lock, an *InvalidOperationError is returned: "wrong owner" if another
// unit holds it, "count mismatch" if it is not held at all. The lock state
// is unchanged on error.
func (x *ReentrantLock) Unlock() error {
	u := x.sched.CurrentUnit()
	o := x.owner.Load()
	if o == nil {
		return errCountMismatch()
	}
	if o.unit != u {
		return errWrongOwner()
	}
	if x.depth <= 0 {
		panic(&InvariantViolationError{Message: "lock owned with non-positive depth"})
	}
	x.depth--
	if x.depth == 0 {
		// Clear owner before the word swap; the swap publishes it.
		x.owner.Store(nil)
		if x.word.swap(lockUnlocked) == lockContended {
			x.wq.Lock()
			x.wq.NotifyOne()
			x.wq.Unlock()
		}
	}
	x.sched.EnableFinalizers()
	return nil
}

// IsLocked reports whether the lock is currently held by any unit. It is
// data-race-free but advisory only: the result may be stale by the time it
// is observed, and it is not a synchronization guarantee by itself.
func (x *ReentrantLock) IsLocked() bool {
	return x.word.load() != lockUnlocked
}

// heldByCurrent reports whether the calling unit holds the lock.
func (x *ReentrantLock) heldByCurrent() bool {
	o := x.owner.Load()
	return o != nil && o.unit == x.sched.CurrentUnit()
}

// UnlockAll fully releases a lock held by the calling unit at depth exactly
// 1, returning the captured depth for a later [ReentrantLock.RelockAll].
// Any other state (not held, held by another unit, depth != 1) is an
// invariant violation and panics.
//
// The pair exists for callers that must cross a suspension point without
// holding the lock but resume holding exactly what they had.
func (x *ReentrantLock) UnlockAll() int {
	o := x.owner.Load()
	if o == nil || o.unit != x.sched.CurrentUnit() {
		panic(&InvariantViolationError{Message: "UnlockAll by non-owner"})
	}
	depth := x.depth
	if depth != 1 {
		panic(&InvariantViolationError{Message: "UnlockAll at depth other than 1"})
	}
	if err := x.Unlock(); err != nil {
		panic(&InvariantViolationError{Message: "UnlockAll: " + err.Error()})
	}
	return depth
}

// RelockAll reacquires the lock, restoring the depth captured by
// [ReentrantLock.UnlockAll]. A depth other than the one UnlockAll can
// capture panics with an *InvariantViolationError.
func (x *ReentrantLock) RelockAll(depth int) {
	if depth != 1 {
		panic(&InvariantViolationError{Message: "RelockAll depth does not match captured depth"})
	}
	x.Lock()
	x.depth = depth
}
