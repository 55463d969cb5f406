package synclib

import (
	"sync"
	"time"

	"github.com/kolkov/uthsync/internal/uth/alarm"
	"github.com/kolkov/uthsync/internal/uth/sched"
	"github.com/kolkov/uthsync/internal/uth/spin"
	"github.com/kolkov/uthsync/internal/uth/thread"
	"github.com/kolkov/uthsync/internal/uth/waitq"
)

// Semaphore is a counting semaphore for user threads.
//
// Invariant: count > 0 implies the wait queue is empty. A releasing Up
// hands its unit directly to a queued waiter instead of incrementing the
// count, so a released unit can never be stolen by a late TryDown between
// wake and resume.
//
// The zero value is a semaphore with count zero; the first operation runs
// the lazy initializer. Use Init or NewSemaphore for a nonzero initial
// count, or set Count on a zero value before first use for the static-
// initializer pattern.
type Semaphore struct {
	lk spin.Lock

	// Count is the number of available units. Exported only to permit
	// static initialization (Semaphore{Count: n}); never touch it after
	// the semaphore is in use.
	Count uint

	q    waitq.Queue
	once sync.Once
}

// baseInit sets up the spinlock and wait queue. The count is deliberately
// left alone: a statically initialized semaphore already carries its count,
// and Init sets it explicitly.
func (s *Semaphore) baseInit() {
	s.lk.Init()
	s.q.Init()
}

// lazyInit runs baseInit exactly once across all entry points.
func (s *Semaphore) lazyInit() {
	s.once.Do(s.baseInit)
}

// Init initializes a semaphore acquired from somewhere else with the given
// count, the way sem_init does. It also consumes the lazy-init guard so a
// later operation does not re-initialize.
func (s *Semaphore) Init(count uint) {
	s.baseInit()
	s.Count = count
	s.once.Do(func() {})
}

// Destroy retires the semaphore. Destroying one with sleepers panics.
func (s *Semaphore) Destroy() {
	s.q.Destroy()
}

// NewSemaphore allocates an initialized semaphore.
func NewSemaphore(count uint) *Semaphore {
	s := new(Semaphore)
	s.Init(count)
	return s
}

// Free retires an allocated semaphore.
func (s *Semaphore) Free() {
	s.Destroy()
}

// semaphoreCB is the register-and-sleep callback for Down. It runs in
// scheduler context with the thread quiescent and the semaphore spinlock
// still held.
//
// The block notification must precede the unlock: the moment the spinlock
// drops, a concurrent Up can find the thread and make it runnable, and the
// scheduler has to already know it blocked. Note the lock ordering: the
// semaphore spinlock is held across whatever the 2LS grabs in its hooks.
func semaphoreCB(th *thread.Thread, arg any) {
	s := arg.(*Semaphore)

	sched.ThreadHasBlocked(th, thread.ReasonMutex)
	s.q.Enqueue(th)
	s.lk.Release()
}

// timedDown is the one blocking path; Down and TimedDown both land here.
func (s *Semaphore) timedDown(abs time.Time, timed bool) bool {
	var waiter alarm.Waiter
	var blob timeoutBlob

	sched.AssertCanBlock()
	s.lazyInit()
	s.lk.Acquire()
	if s.Count > 0 {
		// Only down if we got a unit. A semaphore out of units sits at
		// zero, not negative, which is what lets timeoutHandler work
		// unchanged for semaphores and CVs.
		s.Count--
		s.lk.Release()
		return true
	}
	if timed {
		blob.set(&s.q, &s.lk)
		armTimeout(&waiter, &blob, abs)
	}
	// The enqueue and unlock happen in the yield callback, once this
	// thread can no longer run: atomically register and sleep.
	sched.Yield(semaphoreCB, s)
	if timed {
		// Cancel returns with the handler either never-run or complete,
		// so reading blob is race-free.
		waiter.Cancel()
		return !blob.timedOut
	}
	return true
}

// Down acquires a unit, sleeping until one is available.
func (s *Semaphore) Down() {
	s.timedDown(time.Time{}, false)
}

// TimedDown acquires a unit or gives up at the absolute deadline. Returns
// false on timeout.
func (s *Semaphore) TimedDown(abs time.Time) bool {
	return s.timedDown(abs, true)
}

// TryDown acquires a unit only if one is immediately available. Never
// sleeps.
func (s *Semaphore) TryDown() bool {
	ret := false

	sched.AssertCanBlock()
	s.lazyInit()
	s.lk.Acquire()
	if s.Count > 0 {
		s.Count--
		ret = true
	}
	s.lk.Release()
	return ret
}

// Up releases a unit. If a thread is queued the unit is handed to it
// directly and the count stays at zero; otherwise the count goes up.
func (s *Semaphore) Up() {
	// Up runs the lazy init, unlike mutex Unlock, since a semaphore's
	// first operation can legitimately be an Up.
	s.lazyInit()
	s.lk.Acquire()
	th := s.q.GetNext()
	if th == nil {
		s.Count++
	}
	s.lk.Release()
	if th != nil {
		sched.MakeRunnable(th)
	}
}
