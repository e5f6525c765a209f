package unitsync

import (
	"fmt"
)

// Once-state values for the memoized slots of [PerProcess] and [PerThread].
// Transitions are monotonic, onceUninit → onceRunning → {onceDone,
// onceFailed}, exactly once per slot; there is no reset. A slot's result
// cell is readable only when the state is onceDone, and onceFailed is
// terminal with no retry path.
const (
	onceUninit uint32 = iota
	onceRunning
	onceDone
	onceFailed
)

// runInitializer invokes a once-initializer, converting a panic into an
// error so the failure can be cached and replayed to every caller of the
// scope. Leaving a slot permanently running would deadlock waiters.
func runInitializer[T any](init func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("initializer panicked: %v", r)
		}
	}()
	return init()
}
