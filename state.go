package unitsync

import (
	"sync/atomic"
)

// lockState is the tri-state contention word of a [ReentrantLock].
//
// State Machine:
//
//	lockUnlocked (0) → lockLocked (1)     [TryLock / Lock, CAS]
//	lockLocked (1) → lockContended (2)    [Lock slow path, CAS]
//	lockLocked (1) → lockUnlocked (0)     [Unlock, swap]
//	lockContended (2) → lockUnlocked (0)  [Unlock, swap + notify]
//
// lockContended means "locked, and at least one waiter is or was parked
// since the last transition to lockLocked". It obliges the releasing side
// to issue a wakeup.
type lockState uint32

const (
	lockUnlocked lockState = iota
	lockLocked
	lockContended
)

// String returns a human-readable representation of the state.
func (s lockState) String() string {
	switch s {
	case lockUnlocked:
		return "Unlocked"
	case lockLocked:
		return "Locked"
	case lockContended:
		return "Contended"
	default:
		return "Unknown"
	}
}

// lockWord is a lock-free state machine over a lockState.
//
// All transitions are CAS or swap-with-capture; the word is never written
// under a mutex. Loads carry acquire semantics and successful transitions
// carry acquire/release semantics (Go atomics are sequentially consistent,
// which subsumes both).
type lockWord struct {
	v atomic.Uint32
}

// load returns the current state.
func (w *lockWord) load() lockState {
	return lockState(w.v.Load())
}

// tryTransition attempts to atomically transition from one state to
// another, returning true on success.
func (w *lockWord) tryTransition(from, to lockState) bool {
	return w.v.CompareAndSwap(uint32(from), uint32(to))
}

// swap atomically stores the given state, capturing the previous one.
func (w *lockWord) swap(to lockState) lockState {
	return lockState(w.v.Swap(uint32(to)))
}
