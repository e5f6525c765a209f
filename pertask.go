package unitsync

// PerTask is a memoized lazy value computed at most once per unit. Storage
// is the scheduler's unit-private map, keyed by the PerTask instance's
// identity: the first [PerTask.Get] on a given unit runs the initializer
// and caches the outcome in that unit's storage; later calls on the same
// unit replay it. No cross-unit synchronization is involved, as a unit's
// storage is exclusively its own.
//
// A failed initializer is permanent for its unit and replayed as the same
// *InitFailedError; other units still run their own initialization.
//
// Each PerTask is an independent registry object; construct one and pass it
// around explicitly.
type PerTask[T any] struct {
	sched Scheduler
	init  func() (T, error)
}

// NewPerTask creates a PerTask with the given initializer.
//
// Providing a nil initializer will cause a panic.
func NewPerTask[T any](init func() (T, error), opts ...Option) *PerTask[T] {
	if init == nil {
		panic(`unitsync: nil initializer`)
	}
	cfg := resolveConfig(opts)
	return &PerTask[T]{
		sched: cfg.sched,
		init:  init,
	}
}

// Get returns the calling unit's memoized value, computing it on the unit's
// first call.
func (x *PerTask[T]) Get() (T, error) {
	v, err := x.sched.UnitLocal(x, func() (any, error) {
		value, err := runInitializer(x.init)
		if err != nil {
			return nil, &InitFailedError{Cause: err}
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
