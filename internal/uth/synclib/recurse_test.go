package synclib

import (
	"testing"
	"time"

	"github.com/kolkov/uthsync/internal/uth/sched"
)

// tryFromOtherThread attempts TryLock on a separate user thread and
// reports the outcome (unlocking again on success).
func tryFromOtherThread(r *RecurseMutex) bool {
	result := make(chan bool, 1)
	sched.Go(func() {
		if r.TryLock() {
			r.Unlock()
			result <- true
			return
		}
		result <- false
	})
	return <-result
}

// TestZeroValueRecurseMutex: zero storage is a valid unlocked recursive
// mutex.
func TestZeroValueRecurseMutex(t *testing.T) {
	var r RecurseMutex

	r.Lock()
	r.Unlock()
	if !r.TryLock() {
		t.Errorf("TryLock() on zero-value recursive mutex = false")
	}
	r.Unlock()
}

// TestRecursiveDepth locks three deep; a second thread's TryLock must fail
// until the third unlock.
func TestRecursiveDepth(t *testing.T) {
	r := NewRecurseMutex()

	r.Lock()
	r.Lock()
	r.Lock()

	for depth := 3; depth > 1; depth-- {
		r.Unlock()
		if tryFromOtherThread(r) {
			t.Fatalf("TryLock succeeded with recursion depth %d", depth-1)
		}
	}
	r.Unlock()
	if !tryFromOtherThread(r) {
		t.Errorf("TryLock failed after the final unlock")
	}
}

// TestRecursiveTryLockFastPath: the holder's TryLock deepens instead of
// touching the inner mutex.
func TestRecursiveTryLockFastPath(t *testing.T) {
	r := NewRecurseMutex()

	r.Lock()
	if !r.TryLock() {
		t.Fatalf("holder's TryLock() = false, want recursion")
	}
	r.Unlock()
	r.Unlock()
	if !tryFromOtherThread(r) {
		t.Errorf("mutex still held after matching unlocks")
	}
}

// TestRecursiveTimedLockFastPath: a holder's timed re-lock succeeds
// without sleeping, regardless of deadline.
func TestRecursiveTimedLockFastPath(t *testing.T) {
	r := NewRecurseMutex()

	r.Lock()
	start := time.Now()
	if !r.TimedLock(start.Add(time.Nanosecond)) {
		t.Errorf("holder's TimedLock() = false")
	}
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Errorf("recursive re-lock took %v, want no sleep", elapsed)
	}
	r.Unlock()
	r.Unlock()
}

// TestRecursiveTimedLockTimeout: a non-holder times out against a held
// recursive mutex.
func TestRecursiveTimedLockTimeout(t *testing.T) {
	r := NewRecurseMutex()
	r.Lock()

	got := make(chan bool, 1)
	sched.Go(func() {
		got <- r.TimedLock(time.Now().Add(30 * time.Millisecond))
	})
	if <-got {
		t.Errorf("TimedLock() = true while another thread held the mutex")
	}
	r.Unlock()
}

// TestUnlockByNonOwnerPanics: only the holder may unlock.
func TestUnlockByNonOwnerPanics(t *testing.T) {
	r := NewRecurseMutex()
	r.Lock()

	panicked := make(chan bool, 1)
	sched.Go(func() {
		defer func() { panicked <- recover() != nil }()
		r.Unlock()
	})
	if !<-panicked {
		t.Errorf("Unlock() by a non-owner did not panic")
	}
	r.Unlock()
}
