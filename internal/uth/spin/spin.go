// Package spin provides the short-critical-section spinlock used inside the
// sync primitives.
//
// The lock never yields to the user-level scheduler: critical sections under
// it are a handful of pointer operations (count updates, queue links), so
// spinning is cheaper than a context switch. After a bounded number of
// failed acquisition attempts the spinner calls runtime.Gosched to let the
// OS-level scheduler make progress; it never parks.
//
// This is the same shape as the test-and-set locks in the reference
// runtimes: an atomic CAS loop with a polite backoff.
package spin

import (
	"runtime"
	"sync/atomic"
)

// spinBudget is how many CAS failures we tolerate before yielding the OS
// thread. Critical sections under a Lock are tens of nanoseconds, so a
// small budget is enough to ride out a contended neighbor.
const spinBudget = 64

// Lock is a test-and-set spinlock. The zero value is an unlocked lock.
//
// Lock must not be held across anything that can yield to the user-level
// scheduler; it exists to protect the primitives' own state words and wait
// queues.
type Lock struct {
	v atomic.Uint32
}

// Init resets the lock to the unlocked state. The zero value is already
// valid; Init exists for symmetry with the primitives' init paths.
func (l *Lock) Init() {
	l.v.Store(0)
}

// Acquire spins until the lock is taken.
func (l *Lock) Acquire() {
	spins := 0
	for !l.v.CompareAndSwap(0, 1) {
		spins++
		if spins >= spinBudget {
			runtime.Gosched()
			spins = 0
		}
	}
}

// TryAcquire takes the lock if it is free, without spinning.
func (l *Lock) TryAcquire() bool {
	return l.v.CompareAndSwap(0, 1)
}

// Release drops the lock. Releasing a lock that is not held panics: it
// means two sections believed they owned the same state.
func (l *Lock) Release() {
	if !l.v.CompareAndSwap(1, 0) {
		panic("spin: release of unheld lock")
	}
}
