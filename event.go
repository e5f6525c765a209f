package unitsync

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Event is a level- or edge-triggered signal.
//
// In the default (latched) mode, one [Event.Notify] releases every parked
// waiter and every future [Event.Wait] returns immediately, until
// [Event.Reset]. In auto-reset mode each notification is consumed by
// exactly one waiter: a parked unit if any, otherwise the next single Wait
// call.
//
// An Event must not be copied after first use.
type Event struct {
	// autoreset is fixed at construction.
	autoreset bool

	// signaled is the latched signal flag. Readers never need the queue
	// mutex to observe it.
	signaled atomic.Bool

	// waiters counts parked units and grants counts notifications issued to
	// them but not yet consumed, both auto-reset only and guarded by the
	// wait queue's mutex. A notification is never lost in the window between
	// a waiter being woken and it reacquiring the mutex: the grant stays
	// outstanding until some waiter consumes it. Latched mode needs neither;
	// its waiters just recheck signaled after each broadcast.
	waiters int
	grants  int

	wq  WaitQueue
	log *logiface.Logger[logiface.Event]
}

// NewEvent creates a latched (manual-reset) event.
func NewEvent(opts ...Option) *Event {
	cfg := resolveConfig(opts)
	return &Event{wq: cfg.wq, log: cfg.log}
}

// NewAutoResetEvent creates an auto-reset event: each notification releases
// at most one waiter.
func NewAutoResetEvent(opts ...Option) *Event {
	cfg := resolveConfig(opts)
	return &Event{autoreset: true, wq: cfg.wq, log: cfg.log}
}

// consume checks the signal without the queue mutex. In auto-reset mode a
// true result consumes the pending notification.
func (x *Event) consume() bool {
	if x.autoreset {
		return x.signaled.Swap(false)
	}
	return x.signaled.Load()
}

// Wait suspends the calling unit until the event is signaled. If the event
// is already signaled it returns immediately; in auto-reset mode this
// consumes the signal, otherwise the call is repeatable.
func (x *Event) Wait() {
	if x.consume() {
		return
	}
	x.log.Trace().Str("op", "wait").Bool("autoreset", x.autoreset).Log("event not signaled, parking")
	x.wq.Lock()
	// Recheck under the lock: a notify issued between the fast-path check
	// and here latched the flag (no waiter was visible to it yet), so it
	// must be consumed rather than parked past.
	if x.autoreset {
		if x.signaled.Swap(false) {
			x.wq.Unlock()
			return
		}
		// A notify that observes us parked hands its wakeup directly to
		// a parked unit instead of latching; consuming the grant is the
		// signal.
		x.waiters++
		for x.grants == 0 {
			x.wq.Wait()
		}
		x.grants--
		x.waiters--
		x.wq.Unlock()
		return
	}
	for !x.signaled.Load() {
		x.wq.Wait()
	}
	x.wq.Unlock()
}

// Notify signals the event. In auto-reset mode it wakes exactly one parked
// waiter if any, and otherwise latches the signal for the next Wait. In
// latched mode it sets the signal and wakes all waiters; notifying an
// already-signaled latched event is a no-op.
func (x *Event) Notify() {
	x.wq.Lock()
	if x.autoreset {
		if x.waiters > x.grants {
			x.grants++
			x.wq.NotifyOne()
		} else {
			x.signaled.Store(true)
		}
	} else if !x.signaled.Load() {
		x.signaled.Store(true)
		x.wq.NotifyAll()
	}
	x.wq.Unlock()
}

// Reset unconditionally clears the signal. It does not take the queue
// mutex; units already released by a previous notification are unaffected.
func (x *Event) Reset() {
	x.signaled.Store(false)
}

// IsSet reports whether the event is currently signaled. Advisory only.
func (x *Event) IsSet() bool {
	return x.signaled.Load()
}
