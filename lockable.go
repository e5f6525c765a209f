package unitsync

// Lockable pairs a value with a [ReentrantLock], enforcing "must hold the
// lock to touch the value" at the call site. Access is through a
// [LockGuard] returned by Acquire or TryAcquire, which makes the held-ness
// requirement structural; [Lockable.Get] additionally offers a
// runtime-checked read for callers already inside a critical section.
type Lockable[V any] struct {
	value V
	lk    *ReentrantLock
}

// NewLockable creates a Lockable holding value, guarded by a new lock.
func NewLockable[V any](value V, opts ...Option) *Lockable[V] {
	return &Lockable[V]{
		value: value,
		lk:    NewReentrantLock(opts...),
	}
}

// Acquire acquires the underlying lock, suspending the calling unit until
// it is available, and returns a guard granting access to the value.
func (x *Lockable[V]) Acquire() *LockGuard[V] {
	x.lk.Lock()
	return &LockGuard[V]{lockable: x}
}

// TryAcquire attempts to acquire the underlying lock without blocking. On
// success it returns a guard and true; otherwise nil and false.
func (x *Lockable[V]) TryAcquire() (*LockGuard[V], bool) {
	if !x.lk.TryLock() {
		return nil, false
	}
	return &LockGuard[V]{lockable: x}, true
}

// Get returns the value, asserting that the calling unit holds the
// underlying lock. Calling Get without holding the lock is an invariant
// violation and panics.
func (x *Lockable[V]) Get() V {
	if !x.lk.heldByCurrent() {
		panic(&InvariantViolationError{Message: "Lockable.Get without holding the lock"})
	}
	return x.value
}

// Locker returns the underlying lock, for composition with [WithLock] and
// reentrant acquisition.
func (x *Lockable[V]) Locker() *ReentrantLock {
	return x.lk
}

// LockGuard grants access to a [Lockable]'s value while its lock is held.
// The guard is valid until Release is called; a released guard must not be
// used again.
type LockGuard[V any] struct {
	lockable *Lockable[V]
}

// Value returns a pointer to the guarded value. The pointer must not be
// retained beyond Release.
func (x *LockGuard[V]) Value() *V {
	if x.lockable == nil {
		panic(&InvariantViolationError{Message: "LockGuard.Value after Release"})
	}
	return &x.lockable.value
}

// Release releases the underlying lock and invalidates the guard. Releasing
// an already-released guard returns an *InvalidOperationError.
func (x *LockGuard[V]) Release() error {
	if x.lockable == nil {
		return &InvalidOperationError{Op: "release", Message: "guard already released"}
	}
	lk := x.lockable.lk
	x.lockable = nil
	return lk.Unlock()
}
