package unitsync

import (
	"sync"
)

// WaitQueue is the external parking collaborator: a mutex-protected queue of
// suspended units offering park and notify. Every blocking operation in this
// package suspends through a WaitQueue, never while holding any primitive's
// fast-path atomics.
//
// The contract matches [sync.Cond] with its associated [sync.Locker]:
//
//   - Wait must be called with the queue locked. It atomically releases the
//     queue's internal mutex while the calling unit is parked, and reacquires
//     it before returning.
//   - Wait returns only after a matching NotifyOne or NotifyAll; there are
//     no spurious wakeups. (A notify may be consumed by a unit that parked
//     after it was issued, so callers that share one queue across unrelated
//     conditions must still recheck their condition in a loop.)
//   - NotifyOne and NotifyAll may be called with or without the lock held.
//
// Host runtimes that schedule their own units should provide a WaitQueue
// that parks those units rather than OS threads, via [WithWaitQueue].
type WaitQueue interface {
	// Lock acquires the queue's internal mutex.
	Lock()
	// Unlock releases the queue's internal mutex.
	Unlock()
	// Wait parks the calling unit, releasing the internal mutex for the
	// duration of the park and reacquiring it before returning.
	Wait()
	// NotifyOne wakes at most one parked unit.
	NotifyOne()
	// NotifyAll wakes every currently-parked unit.
	NotifyAll()
}

// CondQueue is the default [WaitQueue], parking goroutines on a [sync.Cond].
type CondQueue struct {
	mu   sync.Mutex
	cond sync.Cond
}

// NewWaitQueue creates a goroutine-parking wait queue.
func NewWaitQueue() *CondQueue {
	q := &CondQueue{}
	q.cond.L = &q.mu
	return q
}

// Lock acquires the queue's internal mutex.
func (x *CondQueue) Lock() { x.mu.Lock() }

// Unlock releases the queue's internal mutex.
func (x *CondQueue) Unlock() { x.mu.Unlock() }

// Wait parks the calling goroutine. The queue must be locked.
func (x *CondQueue) Wait() { x.cond.Wait() }

// NotifyOne wakes at most one parked goroutine.
func (x *CondQueue) NotifyOne() { x.cond.Signal() }

// NotifyAll wakes every parked goroutine.
func (x *CondQueue) NotifyAll() { x.cond.Broadcast() }
