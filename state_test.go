package unitsync

import (
	"testing"
)

func TestLockWord_ZeroValueUnlocked(t *testing.T) {
	var w lockWord

	if got := w.load(); got != lockUnlocked {
		t.Fatalf("expected zero-value word to be Unlocked, got %v", got)
	}
}

func TestLockWord_TryTransition(t *testing.T) {
	var w lockWord

	if !w.tryTransition(lockUnlocked, lockLocked) {
		t.Fatal("expected Unlocked->Locked to succeed")
	}
	if w.tryTransition(lockUnlocked, lockLocked) {
		t.Fatal("expected second Unlocked->Locked to fail")
	}
	if !w.tryTransition(lockLocked, lockContended) {
		t.Fatal("expected Locked->Contended to succeed")
	}
	if got := w.load(); got != lockContended {
		t.Fatalf("expected Contended, got %v", got)
	}
}

func TestLockWord_SwapCapturesPrevious(t *testing.T) {
	var w lockWord

	w.tryTransition(lockUnlocked, lockLocked)
	w.tryTransition(lockLocked, lockContended)

	if prev := w.swap(lockUnlocked); prev != lockContended {
		t.Fatalf("expected swap to capture Contended, got %v", prev)
	}
	if got := w.load(); got != lockUnlocked {
		t.Fatalf("expected Unlocked after swap, got %v", got)
	}
}

func TestLockState_String(t *testing.T) {
	for _, tc := range []struct {
		state lockState
		want  string
	}{
		{lockUnlocked, "Unlocked"},
		{lockLocked, "Locked"},
		{lockContended, "Contended"},
		{lockState(99), "Unknown"},
	} {
		if got := tc.state.String(); got != tc.want {
			t.Errorf("lockState(%d).String() = %q, want %q", tc.state, got, tc.want)
		}
	}
}
