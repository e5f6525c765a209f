// Package unitsync implements low-level synchronization primitives for
// runtimes that multiplex many cooperatively-scheduled logical execution
// units onto a smaller pool of worker threads.
//
// The primitives are:
//
//   - [ReentrantLock]: recursive mutual exclusion with a lock-free fast path
//   - [Lockable]: a value paired with a lock, accessed through a guard
//   - [Semaphore]: a bounded counting gate
//   - [Event]: a latched or auto-resetting signal
//   - [PerProcess], [PerThread], [PerTask]: exactly-once lazy initialization
//     at process, worker-thread, and unit scope respectively
//
// All blocking is delegated to a [WaitQueue] collaborator, a mutex-protected
// park/notify primitive. The default wait queue parks goroutines via
// [sync.Cond]; host runtimes with their own schedulers inject a queue that
// parks their units instead, via [WithWaitQueue]. Unit identity, worker
// thread ids, and unit-local storage likewise come from a [Scheduler]
// collaborator, defaulting to a goroutine-backed implementation.
//
// # Memory ordering
//
// The fast paths are guarded by atomic state words. Go's sync/atomic
// operations are sequentially consistent, which is strictly stronger than
// the acquire/release contract the design requires: every write made before
// a lock, semaphore slot, or event is released is visible to the next unit
// that acquires it or observes the signal.
//
// # No cancellation
//
// None of these primitives support timeouts or cancellation. A caller that
// needs a timeout must compose one from the non-blocking operations, for
// example polling [ReentrantLock.IsLocked] and [ReentrantLock.TryLock] with
// its own backoff. That pattern is intentionally non-atomic: IsLocked is
// advisory, and a TryLock immediately after IsLocked reports false may
// still fail.
package unitsync
