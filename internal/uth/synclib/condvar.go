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

// CondVar is a condition variable paired with an external Mutex for the
// duration of each wait. It keeps no count: a signal with no sleeper is
// lost, as POSIX condition variables behave.
//
// The zero value is a valid condition variable.
type CondVar struct {
	lk   spin.Lock
	q    waitq.Queue
	once sync.Once
}

func (cv *CondVar) lazyInit() {
	cv.once.Do(func() {
		cv.lk.Init()
		cv.q.Init()
	})
}

// Init initializes a condition variable acquired from somewhere else.
func (cv *CondVar) Init() {
	cv.lk.Init()
	cv.q.Init()
	cv.once.Do(func() {})
}

// Destroy retires the condition variable. Destroying one with sleepers
// panics.
func (cv *CondVar) Destroy() {
	cv.q.Destroy()
}

// NewCondVar allocates an initialized condition variable.
func NewCondVar() *CondVar {
	cv := new(CondVar)
	cv.Init()
	return cv
}

// Free retires an allocated condition variable.
func (cv *CondVar) Free() {
	cv.Destroy()
}

// cvLink carries the cv/mutex pair into the wait callback.
type cvLink struct {
	cv  *CondVar
	mtx *Mutex
}

// cvWaitCB is the register-and-sleep callback for Wait. It runs in
// scheduler context holding the cv spinlock.
//
// The block notification comes before the unlock, as in the semaphore: as
// soon as the cv spinlock drops, a signaller can wake this thread.
//
// Two subtleties live here. First, the sleeping thread holds the mutex
// while it sleeps on the cv; holding does not use the thread's wait link,
// sleeping does, so the one-queue-at-a-time rule is kept. Second, the cv
// spinlock is released before the mutex is unlocked. Unlocking the mutex
// grabs the mutex's own spinlock, and releasing the cv spin first means no
// ordering ever exists between the two internal spinlocks.
func cvWaitCB(th *thread.Thread, arg any) {
	link := arg.(*cvLink)
	cv := link.cv
	mtx := link.mtx

	sched.ThreadHasBlocked(th, thread.ReasonMutex)
	cv.q.Enqueue(th)
	cv.lk.Release()
	// External mutex API on purpose: a 2LS can substitute mutex ops and
	// still use these cv ops.
	mtx.Unlock()
}

// timedWait atomically releases mtx and sleeps on cv, then reacquires mtx
// before returning. "Atomically" is POSIX's sense: with respect to another
// thread taking the mutex and then signalling. The waiter is on the cv's
// queue before the mutex is released, so a signal sent under the mutex
// after the release cannot be missed.
//
// Signallers only get that guarantee if they hold the mutex when flipping
// the condition in the canonical test-a-flag idiom; signalling without it
// re-opens the classic missed-wakeup window (flag set and signal sent
// between the waiter's check and its enqueue). The library does not
// enforce the convention.
//
// The deadline governs only the cv sleep, never the mutex reacquisition.
func (cv *CondVar) timedWait(mtx *Mutex, abs time.Time, timed bool) bool {
	var waiter alarm.Waiter
	var blob timeoutBlob
	ret := true

	sched.AssertCanBlock()
	cv.lazyInit()
	link := cvLink{cv: cv, mtx: mtx}
	cv.lk.Acquire()
	if timed {
		blob.set(&cv.q, &cv.lk)
		armTimeout(&waiter, &blob, abs)
	}
	sched.Yield(cvWaitCB, &link)
	if timed {
		waiter.Cancel()
		ret = !blob.timedOut
	}
	mtx.Lock()
	return ret
}

// Wait releases mtx, sleeps until signalled, and reacquires mtx. The
// caller must hold mtx.
func (cv *CondVar) Wait(mtx *Mutex) {
	cv.timedWait(mtx, time.Time{}, false)
}

// TimedWait is Wait with an absolute deadline on the sleep. Returns false
// on timeout; either way mtx is held on return.
func (cv *CondVar) TimedWait(mtx *Mutex, abs time.Time) bool {
	return cv.timedWait(mtx, abs, true)
}

// TimedWaitRecurse is TimedWait over a recursive mutex: the full recursion
// depth is released for the wait and restored after reacquisition.
func (cv *CondVar) TimedWaitRecurse(r *RecurseMutex, abs time.Time) bool {
	oldCount := r.count

	// The wait unlocks the inner mutex, so the tracking must read as
	// unlocked first (no holder, depth zero).
	r.lockholder = nil
	r.count = 0
	ret := cv.timedWait(&r.mtx, abs, true)
	// Inner mutex held again; restore the tracking. This restoration
	// happens even when the wait timed out: the reacquisition already
	// completed, so the depth is simply put back.
	r.lockholder = sched.CurrentThread()
	r.count = oldCount
	return ret
}

// WaitRecurse fully releases a recursive mutex for the wait and returns
// with the caller's recursion depth intact.
func (cv *CondVar) WaitRecurse(r *RecurseMutex) {
	oldCount := r.count

	r.lockholder = nil
	r.count = 0
	cv.timedWait(&r.mtx, time.Time{}, false)
	r.lockholder = sched.CurrentThread()
	r.count = oldCount
}

// Signal wakes one sleeper, if any.
func (cv *CondVar) Signal() {
	cv.lazyInit()
	cv.lk.Acquire()
	th := cv.q.GetNext()
	cv.lk.Release()
	if th != nil {
		sched.MakeRunnable(th)
	}
}

// Broadcast wakes every thread asleep on the cv at the moment of the call.
// The sleepers are swapped into a local queue under the spinlock and woken
// after it drops, so the wakeups never re-enter the cv lock and the hold
// time stays constant regardless of sleeper count. A broadcast on an empty
// cv is a no-op.
func (cv *CondVar) Broadcast() {
	var restartees waitq.Queue

	cv.lazyInit()
	cv.lk.Acquire()
	if cv.q.IsEmpty() {
		cv.lk.Release()
		return
	}
	restartees.Init()
	cv.q.Swap(&restartees)
	cv.lk.Release()
	sched.WakeAll(&restartees)
}
