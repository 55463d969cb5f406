package synclib

import (
	"testing"
	"time"

	"github.com/kolkov/uthsync/internal/uth/sched"
)

// TestZeroValueMutex: zero storage is a valid unlocked mutex.
func TestZeroValueMutex(t *testing.T) {
	var m Mutex

	m.Lock()
	m.Unlock()
	if !m.TryLock() {
		t.Errorf("TryLock() on unlocked zero-value mutex = false")
	}
	m.Unlock()
}

// TestMutualExclusion: concurrent increments under the lock never collide.
func TestMutualExclusion(t *testing.T) {
	const threads = 8
	const iters = 500

	var m Mutex
	counter := 0
	finished := NewSemaphore(0)

	for i := 0; i < threads; i++ {
		sched.Go(func() {
			for j := 0; j < iters; j++ {
				m.Lock()
				counter++
				m.Unlock()
			}
			finished.Up()
		})
	}
	for i := 0; i < threads; i++ {
		finished.Down()
	}

	if counter != threads*iters {
		t.Errorf("counter = %d, want %d (lost update)", counter, threads*iters)
	}
}

// TestTryLockHeld: TryLock never sleeps and reports a held mutex.
func TestTryLockHeld(t *testing.T) {
	m := NewMutex()

	m.Lock()
	if m.TryLock() {
		t.Errorf("TryLock() on held mutex = true")
	}
	m.Unlock()
	if !m.TryLock() {
		t.Errorf("TryLock() on released mutex = false")
	}
	m.Unlock()
}

// TestLockUnlockRestores: a lock/unlock pair returns the mutex to its
// initial state.
func TestLockUnlockRestores(t *testing.T) {
	m := NewMutex()

	m.Lock()
	m.Unlock()
	if !m.TryLock() {
		t.Errorf("mutex not unlocked after lock/unlock round trip")
	}
	m.Unlock()
}

// TestTimedLockTimeout: a timed lock against a holder gives up at the
// deadline; the holder's state is untouched.
func TestTimedLockTimeout(t *testing.T) {
	m := NewMutex()
	m.Lock()

	start := time.Now()
	got := make(chan bool, 1)
	sched.Go(func() {
		got <- m.TimedLock(start.Add(30 * time.Millisecond))
	})
	if ok := <-got; ok {
		t.Fatalf("TimedLock() = true while the mutex was held")
	}
	if elapsed := time.Since(start); elapsed < 30*time.Millisecond {
		t.Errorf("TimedLock() gave up after %v, want >= 30ms", elapsed)
	}

	m.Unlock()
	if !m.TryLock() {
		t.Errorf("mutex unusable after a waiter timed out")
	}
	m.Unlock()
}

// TestTimedLockSuccess: the lock is handed to the timed waiter when the
// holder releases before the deadline.
func TestTimedLockSuccess(t *testing.T) {
	m := NewMutex()
	m.Lock()

	got := make(chan bool, 1)
	sched.Go(func() {
		got <- m.TimedLock(time.Now().Add(500 * time.Millisecond))
	})
	eventually(t, m.sem.hasSleepers, "waiter enqueued on mutex")

	m.Unlock()
	if ok := <-got; !ok {
		t.Errorf("TimedLock() = false despite release before deadline")
	}
	m.Unlock()
}

// TestUnlockHandsOffDirectly: the released lock goes to the queued waiter,
// not to a concurrent TryLock.
func TestUnlockHandsOffDirectly(t *testing.T) {
	m := NewMutex()
	m.Lock()

	acquired := make(chan struct{})
	sched.Go(func() {
		m.Lock()
		close(acquired)
	})
	eventually(t, m.sem.hasSleepers, "waiter enqueued on mutex")

	m.Unlock()
	if m.TryLock() {
		t.Errorf("TryLock() stole a lock handed to a waiter")
	}
	<-acquired
	m.Unlock()
}
