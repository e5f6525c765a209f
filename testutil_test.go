package unitsync

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/joeycumines/go-unitsync/internal/goid"
)

// scriptedScheduler assigns worker-thread ids explicitly, so tests can
// simulate several units sharing one worker thread (the default scheduler
// gives every goroutine its own).
type scriptedScheduler struct {
	*GoScheduler
	tids  sync.Map // goroutine id -> thread id
	count atomic.Int32
}

func newScriptedScheduler() *scriptedScheduler {
	return &scriptedScheduler{GoScheduler: NewGoScheduler()}
}

func (x *scriptedScheduler) ThreadID() int {
	v, ok := x.tids.Load(goid.ID())
	if !ok {
		panic("scriptedScheduler: goroutine not bound to a thread id")
	}
	return v.(int)
}

func (x *scriptedScheduler) ThreadCount() int {
	if n := int(x.count.Load()); n > 0 {
		return n
	}
	return 1
}

// bind pins the calling goroutine to the given thread id.
func (x *scriptedScheduler) bind(tid int) {
	x.tids.Store(goid.ID(), tid)
	for {
		old := x.count.Load()
		if int(old) > tid || x.count.CompareAndSwap(old, int32(tid+1)) {
			return
		}
	}
}

// onThread runs fn on a new goroutine bound to tid, without waiting.
func (x *scriptedScheduler) onThread(tid int, fn func()) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		x.bind(tid)
		fn()
	}()
	return done
}

func waitDone(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for scripted unit")
	}
}
