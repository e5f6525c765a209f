package unitsync

import (
	"errors"
)

// ErrInvalidOperation is a sentinel matching any *InvalidOperationError via
// [errors.Is], for callers that only care whether a call was a misuse rather
// than which misuse it was.
var ErrInvalidOperation = errors.New(`unitsync: invalid operation`)

// InvalidOperationError reports misuse of a primitive by its caller, such as
// unlocking a lock held by another unit or releasing a semaphore that has no
// outstanding acquisition. The primitive is left in a well-defined state and
// the caller may recover.
type InvalidOperationError struct {
	// Op is the operation that was misused, e.g. "unlock".
	Op string
	// Message describes the misuse, e.g. "wrong owner".
	Message string
}

// Error implements the error interface.
func (e *InvalidOperationError) Error() string {
	return "unitsync: " + e.Op + ": " + e.Message
}

// Is implements custom error matching: every InvalidOperationError matches
// the [ErrInvalidOperation] sentinel.
func (e *InvalidOperationError) Is(target error) bool {
	return target == ErrInvalidOperation
}

// InvalidArgumentError reports an invalid constructor argument. Constructors
// deliver it by panic, as the zero cases are programming errors rather than
// runtime conditions.
type InvalidArgumentError struct {
	Message string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	return "unitsync: invalid argument: " + e.Message
}

// InvariantViolationError reports an internal consistency violation, such as
// [ReentrantLock.RelockAll] called with a depth other than the one captured.
// It indicates a defect in the caller or this library, and is always
// delivered by panic. It must not be recovered and retried.
type InvariantViolationError struct {
	Message string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return "unitsync: invariant violation: " + e.Message
}

// InitFailedError reports that a once-primitive's initializer failed. The
// error is cached and returned verbatim to every subsequent caller of the
// same scope, forever; the initializer is never invoked again.
type InitFailedError struct {
	// Cause is the error the initializer returned, or a synthesized error
	// if the initializer panicked.
	Cause error
}

// Error implements the error interface.
func (e *InitFailedError) Error() string {
	return "unitsync: initialization failed permanently: " + e.Cause.Error()
}

// Unwrap returns the initializer's original error, for use with [errors.Is]
// and [errors.As].
func (e *InitFailedError) Unwrap() error {
	return e.Cause
}

func errWrongOwner() error {
	return &InvalidOperationError{Op: "unlock", Message: "wrong owner"}
}

func errCountMismatch() error {
	return &InvalidOperationError{Op: "unlock", Message: "count mismatch"}
}

func errReleaseMismatch() error {
	return &InvalidOperationError{Op: "release", Message: "release count must match acquire count"}
}
