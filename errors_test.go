package unitsync

import (
	"errors"
	"testing"
)

func TestErrInvalidOperation_MatchesAllMisuses(t *testing.T) {
	lk := NewReentrantLock()
	if err := lk.Unlock(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected unlock misuse to match sentinel, got %v", err)
	}

	lk.Lock()
	runOtherUnit(t, func() {
		if err := lk.Unlock(); !errors.Is(err, ErrInvalidOperation) {
			t.Errorf("expected wrong-owner unlock to match sentinel, got %v", err)
		}
	})
	if err := lk.Unlock(); err != nil {
		t.Fatalf("unexpected unlock error: %v", err)
	}

	sem := NewSemaphore(1)
	if err := sem.Release(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected release misuse to match sentinel, got %v", err)
	}

	box := NewLockable(0)
	guard := box.Acquire()
	if err := guard.Release(); err != nil {
		t.Fatalf("unexpected release error: %v", err)
	}
	if err := guard.Release(); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected double guard release to match sentinel, got %v", err)
	}
}

func TestErrInvalidOperation_DoesNotMatchOtherErrors(t *testing.T) {
	boom := errors.New("boom")
	if errors.Is(&InitFailedError{Cause: boom}, ErrInvalidOperation) {
		t.Fatal("expected InitFailedError not to match the sentinel")
	}
	if errors.Is(boom, ErrInvalidOperation) {
		t.Fatal("expected unrelated error not to match the sentinel")
	}
	if errors.Is(&InvalidOperationError{Op: "unlock", Message: "wrong owner"}, boom) {
		t.Fatal("expected InvalidOperationError not to match unrelated targets")
	}
}
