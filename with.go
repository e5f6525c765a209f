package unitsync

// WithLock acquires the lock, runs body, and releases the lock on every
// exit path of body, including panic. The body's error is returned
// unchanged.
//
// Providing a nil lock or body will cause a panic.
func WithLock(lk *ReentrantLock, body func() error) error {
	if lk == nil {
		panic(`unitsync: nil lock`)
	}
	if body == nil {
		panic(`unitsync: nil body`)
	}
	lk.Lock()
	defer func() {
		// Unlock cannot fail here: the lock was acquired above by this
		// unit and body cannot release it without unbalancing its own
		// acquisitions first.
		_ = lk.Unlock()
	}()
	return body()
}

// WithLockValue is [WithLock] for bodies producing a value.
func WithLockValue[T any](lk *ReentrantLock, body func() (T, error)) (T, error) {
	if lk == nil {
		panic(`unitsync: nil lock`)
	}
	if body == nil {
		panic(`unitsync: nil body`)
	}
	lk.Lock()
	defer func() {
		_ = lk.Unlock()
	}()
	return body()
}
