package synclib

import (
	"sync"
	"time"

	"github.com/kolkov/uthsync/internal/uth/sched"
	"github.com/kolkov/uthsync/internal/uth/thread"
)

// RecurseMutex is a mutex the holder may lock again; it unlocks for other
// threads when the depth returns to zero.
//
// Invariants: count == 0 exactly when lockholder is nil, and count > 0
// implies the inner mutex is held. Both fields are written only by the
// holder, which is what makes the recursion fast path race-free: the
// lockholder check can only be true for the thread that set it, and a
// thread is single-threaded with respect to itself.
//
// The zero value is a valid unlocked recursive mutex.
type RecurseMutex struct {
	mtx        Mutex
	lockholder *thread.Thread
	count      uint
	once       sync.Once
}

func (r *RecurseMutex) lazyInit() {
	r.once.Do(func() {
		// The inner mutex is initialized here by hand, so its own lazy
		// guard is consumed in the process.
		r.mtx.Init()
		r.lockholder = nil
		r.count = 0
	})
}

// Init initializes a recursive mutex acquired from somewhere else.
func (r *RecurseMutex) Init() {
	r.mtx.Init()
	r.lockholder = nil
	r.count = 0
	r.once.Do(func() {})
}

// Destroy retires the recursive mutex.
func (r *RecurseMutex) Destroy() {
	r.mtx.Destroy()
}

// NewRecurseMutex allocates an initialized recursive mutex.
func NewRecurseMutex() *RecurseMutex {
	r := new(RecurseMutex)
	r.Init()
	return r
}

// Free retires an allocated recursive mutex.
func (r *RecurseMutex) Free() {
	r.Destroy()
}

func (r *RecurseMutex) timedLock(abs time.Time, timed bool) bool {
	sched.AssertCanBlock()
	r.lazyInit()
	// No races on lockholder or count here: they are only written by the
	// holder, and the comparison is only true for the holder, which
	// cannot be in this function twice at once.
	if r.lockholder == sched.CurrentThread() {
		r.count++
		return true
	}
	if timed {
		if !r.mtx.TimedLock(abs) {
			return false
		}
	} else {
		r.mtx.Lock()
	}
	r.lockholder = sched.CurrentThread()
	r.count = 1
	return true
}

// Lock acquires the mutex, or deepens it if the caller already holds it.
func (r *RecurseMutex) Lock() {
	r.timedLock(time.Time{}, false)
}

// TimedLock is Lock with an absolute deadline on the initial acquisition.
// A recursive re-lock never sleeps and so never times out. Returns false
// on timeout.
func (r *RecurseMutex) TimedLock(abs time.Time) bool {
	return r.timedLock(abs, true)
}

// TryLock takes the recursion fast path if the caller holds the mutex,
// otherwise attempts the inner lock without sleeping.
func (r *RecurseMutex) TryLock() bool {
	sched.AssertCanBlock()
	r.lazyInit()
	if r.lockholder == sched.CurrentThread() {
		r.count++
		return true
	}
	ret := r.mtx.TryLock()
	if ret {
		r.lockholder = sched.CurrentThread()
		r.count = 1
	}
	return ret
}

// Unlock drops one level of recursion, releasing the inner mutex when the
// depth reaches zero. Unlocking a recursive mutex the caller does not hold
// panics.
func (r *RecurseMutex) Unlock() {
	if r.lockholder != sched.CurrentThread() {
		panic("synclib: unlock of recursive mutex not held by caller")
	}
	r.count--
	if r.count == 0 {
		r.lockholder = nil
		r.mtx.Unlock()
	}
}
