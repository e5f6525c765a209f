package unitsync

import (
	"sync"
	"testing"
	"time"
)

func TestCondQueue_NotifyOneWakesOne(t *testing.T) {
	q := NewWaitQueue()

	var (
		tokens int // guarded by q
		woken  sync.WaitGroup
	)
	const waiters = 3
	woken.Add(waiters)
	for range waiters {
		go func() {
			defer woken.Done()
			q.Lock()
			for tokens == 0 {
				q.Wait()
			}
			tokens--
			q.Unlock()
		}()
	}

	time.Sleep(50 * time.Millisecond)
	for range waiters {
		q.Lock()
		tokens++
		q.NotifyOne()
		q.Unlock()
		time.Sleep(10 * time.Millisecond)
	}

	done := make(chan struct{})
	go func() {
		woken.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for notified units")
	}
}

func TestCondQueue_NotifyAllWakesAll(t *testing.T) {
	q := NewWaitQueue()

	var (
		ready bool // guarded by q
		woken sync.WaitGroup
	)
	const waiters = 4
	woken.Add(waiters)
	for range waiters {
		go func() {
			defer woken.Done()
			q.Lock()
			for !ready {
				q.Wait()
			}
			q.Unlock()
		}()
	}

	time.Sleep(50 * time.Millisecond)
	q.Lock()
	ready = true
	q.NotifyAll()
	q.Unlock()

	done := make(chan struct{})
	go func() {
		woken.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for broadcast units")
	}
}
