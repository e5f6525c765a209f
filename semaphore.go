package unitsync

import (
	"github.com/joeycumines/logiface"
)

// Semaphore is a bounded counting gate: at most capacity units may be
// between [Semaphore.Acquire] and the matching [Semaphore.Release] at any
// time. Capacity is fixed at construction.
//
// A Semaphore must not be copied after first use.
type Semaphore struct {
	capacity int

	// count is the number of outstanding acquisitions, 0 <= count <=
	// capacity, guarded by the wait queue's mutex.
	count int

	wq  WaitQueue
	log *logiface.Logger[logiface.Event]
}

// NewSemaphore creates a semaphore admitting at most capacity concurrent
// acquisitions. Panics with an *InvalidArgumentError unless capacity > 0.
func NewSemaphore(capacity int, opts ...Option) *Semaphore {
	if capacity <= 0 {
		panic(&InvalidArgumentError{Message: "semaphore capacity must be positive"})
	}
	cfg := resolveConfig(opts)
	return &Semaphore{
		capacity: capacity,
		wq:       cfg.wq,
		log:      cfg.log,
	}
}

// Acquire obtains one slot, suspending the calling unit while the semaphore
// is at capacity.
func (x *Semaphore) Acquire() {
	x.wq.Lock()
	for x.count >= x.capacity {
		x.log.Trace().Str("op", "acquire").Int("capacity", x.capacity).Log("semaphore at capacity, parking")
		x.wq.Wait()
	}
	x.count++
	x.wq.Unlock()
}

// Release returns one slot and wakes exactly one parked acquirer, if any.
// Releasing with no outstanding acquisition returns an
// *InvalidOperationError and leaves the count unchanged.
func (x *Semaphore) Release() error {
	x.wq.Lock()
	if x.count == 0 {
		x.wq.Unlock()
		return errReleaseMismatch()
	}
	x.count--
	x.wq.NotifyOne()
	x.wq.Unlock()
	return nil
}

// Do acquires a slot, runs body, and releases the slot on every exit path
// of body, including panic. The body's error is returned unchanged.
//
// Providing a nil body will cause a panic.
func (x *Semaphore) Do(body func() error) error {
	if body == nil {
		panic(`unitsync: nil body`)
	}
	x.Acquire()
	defer func() {
		// Release cannot fail here: this unit holds the slot acquired
		// above.
		_ = x.Release()
	}()
	return body()
}

// Count returns the number of outstanding acquisitions. Advisory only; the
// value may be stale by the time it is observed.
func (x *Semaphore) Count() int {
	x.wq.Lock()
	n := x.count
	x.wq.Unlock()
	return n
}

// Capacity returns the fixed capacity.
func (x *Semaphore) Capacity() int {
	return x.capacity
}
