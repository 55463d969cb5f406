package uth_test

import (
	"testing"
	"time"

	"github.com/kolkov/uthsync/uth"
)

// TestZeroValuePrimitives: every primitive works from zero storage through
// the public aliases.
func TestZeroValuePrimitives(t *testing.T) {
	var mu uth.Mutex
	mu.Lock()
	mu.Unlock()

	var sem uth.Semaphore
	if sem.TryDown() {
		t.Errorf("zero-value semaphore had a unit")
	}

	var rmu uth.RecurseMutex
	rmu.Lock()
	rmu.Lock()
	rmu.Unlock()
	rmu.Unlock()

	var rw uth.RWLock
	rw.RdLock()
	rw.Unlock()

	var cv uth.CondVar
	cv.Broadcast()
}

// TestConstructors: the New* helpers hand back ready primitives.
func TestConstructors(t *testing.T) {
	sem := uth.NewSemaphore(2)
	if !sem.TryDown() || !sem.TryDown() || sem.TryDown() {
		t.Errorf("NewSemaphore(2) count wrong")
	}

	m := uth.NewMutex()
	if !m.TryLock() {
		t.Errorf("NewMutex() not unlocked")
	}
	m.Unlock()

	rw := uth.NewRWLock()
	if !rw.TryWrLock() {
		t.Errorf("NewRWLock() not free")
	}
	rw.Unlock()
}

// TestGoAndCurrentThread: spawned threads see their own handle.
func TestGoAndCurrentThread(t *testing.T) {
	seen := make(chan *uth.Thread, 1)
	th := uth.Go(func() {
		seen <- uth.CurrentThread()
	})
	if got := <-seen; got != th {
		t.Errorf("CurrentThread() inside thread != handle from Go")
	}
}

// TestTimedVariantsAgree: deadline semantics are uniform across
// primitives.
func TestTimedVariantsAgree(t *testing.T) {
	m := uth.NewMutex()
	m.Lock()
	if m.TimedLock(time.Now().Add(10 * time.Millisecond)) {
		t.Errorf("TimedLock() on self-held mutex = true")
	}
	m.Unlock()

	sem := uth.NewSemaphore(0)
	if sem.TimedDown(time.Now().Add(10 * time.Millisecond)) {
		t.Errorf("TimedDown() on empty semaphore = true")
	}
}

// TestGetInfo reports the built-in scheduler by default.
func TestGetInfo(t *testing.T) {
	info := uth.GetInfo()
	if info.Version != uth.Version {
		t.Errorf("Info.Version = %q, want %q", info.Version, uth.Version)
	}
	if info.Scheduler != "builtin goroutine-backed" {
		t.Errorf("Info.Scheduler = %q, want builtin goroutine-backed", info.Scheduler)
	}
}
