package unitsync

import (
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// PerProcess is a memoized lazy value computed at most once per instance.
// The first caller of [PerProcess.Get] runs the initializer; every caller
// observes the identical result. If the initializer fails, the failure is
// permanent: every subsequent and concurrent caller receives the same
// *InitFailedError, forever, without the initializer being re-invoked.
//
// Each PerProcess is an independent registry object; construct one and pass
// it around explicitly.
type PerProcess[T any] struct {
	// state is onceUninit, onceDone, or onceFailed. onceRunning is not
	// used: concurrent first callers serialize on the lock instead.
	state atomic.Uint32

	// value and err are written before the corresponding state store
	// (release), and read only after observing that state (acquire).
	value T
	err   error

	lk   *ReentrantLock
	init func() (T, error)
	log  *logiface.Logger[logiface.Event]
}

// NewPerProcess creates a PerProcess with the given initializer.
//
// Providing a nil initializer will cause a panic.
func NewPerProcess[T any](init func() (T, error), opts ...Option) *PerProcess[T] {
	if init == nil {
		panic(`unitsync: nil initializer`)
	}
	cfg := resolveConfig(opts)
	return &PerProcess[T]{
		lk:   NewReentrantLock(opts...),
		init: init,
		log:  cfg.log,
	}
}

// Get returns the memoized value, computing it on first call. Once a call
// has returned, the fast path is a single atomic load with no locking.
func (x *PerProcess[T]) Get() (T, error) {
	if x.state.Load() == onceDone {
		return x.value, nil
	}
	return x.getSlow()
}

func (x *PerProcess[T]) getSlow() (value T, err error) {
	// A failed initializer is permanent; do not touch the lock.
	if x.state.Load() == onceFailed {
		return value, x.err
	}

	x.lk.Lock()
	defer func() {
		_ = x.lk.Unlock()
	}()

	// Double-checked: another unit may have initialized while we waited.
	switch x.state.Load() {
	case onceDone:
		return x.value, nil
	case onceFailed:
		return value, x.err
	}

	value, err = runInitializer(x.init)
	if err != nil {
		x.err = &InitFailedError{Cause: err}
		x.state.Store(onceFailed)
		x.log.Debug().Str("op", "perprocess").Err(err).Log("initializer failed permanently")
		var zero T
		return zero, x.err
	}
	x.value = value
	x.state.Store(onceDone)
	return value, nil
}
