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

// RWLock is a sleeping reader-writer lock with a writer-preferring wake
// policy: when a writer releases, queued writers are woken before queued
// readers. Steady reader load therefore cannot starve a writer; the price
// is that steady writer load can starve readers, and that trade is
// deliberate.
//
// Invariants: hasWriter implies nrReaders == 0, and while no writer holds
// or waits for the lock the reader queue is empty (readers only ever queue
// behind a writer).
//
// The zero value is a valid unlocked RWLock.
type RWLock struct {
	lk        spin.Lock
	nrReaders uint
	hasWriter bool
	readers   waitq.Queue
	writers   waitq.Queue
	once      sync.Once
}

func (rw *RWLock) lazyInit() {
	rw.once.Do(func() {
		rw.lk.Init()
		rw.nrReaders = 0
		rw.hasWriter = false
		rw.readers.Init()
		rw.writers.Init()
	})
}

// Init initializes an RWLock acquired from somewhere else.
func (rw *RWLock) Init() {
	rw.lk.Init()
	rw.nrReaders = 0
	rw.hasWriter = false
	rw.readers.Init()
	rw.writers.Init()
	rw.once.Do(func() {})
}

// Destroy retires the RWLock. Destroying one with sleepers panics.
func (rw *RWLock) Destroy() {
	rw.readers.Destroy()
	rw.writers.Destroy()
}

// NewRWLock allocates an initialized RWLock.
func NewRWLock() *RWLock {
	rw := new(RWLock)
	rw.Init()
	return rw
}

// Free retires an allocated RWLock.
func (rw *RWLock) Free() {
	rw.Destroy()
}

// Readers and writers sleep until they hold the lock; all the delicate
// wake decisions belong to Unlock.

func rwlockRdCB(th *thread.Thread, arg any) {
	rw := arg.(*RWLock)

	sched.ThreadHasBlocked(th, thread.ReasonMutex)
	rw.readers.Enqueue(th)
	rw.lk.Release()
}

func (rw *RWLock) timedRdLock(abs time.Time, timed bool) bool {
	var waiter alarm.Waiter
	var blob timeoutBlob

	sched.AssertCanBlock()
	rw.lazyInit()
	rw.lk.Acquire()
	if !rw.hasWriter {
		rw.nrReaders++
		rw.lk.Release()
		return true
	}
	if timed {
		// A timed-out reader is pulled off the queue before it was ever
		// counted, so there is no reader accounting to undo.
		blob.set(&rw.readers, &rw.lk)
		armTimeout(&waiter, &blob, abs)
	}
	sched.Yield(rwlockRdCB, rw)
	if timed {
		waiter.Cancel()
		return !blob.timedOut
	}
	return true
}

// RdLock acquires the lock for reading. Readers always make progress while
// no writer holds the lock.
func (rw *RWLock) RdLock() {
	rw.timedRdLock(time.Time{}, false)
}

// TimedRdLock acquires the lock for reading or gives up at the absolute
// deadline. Returns false on timeout.
func (rw *RWLock) TimedRdLock(abs time.Time) bool {
	return rw.timedRdLock(abs, true)
}

// TryRdLock acquires the lock for reading only if no writer holds it.
// Never sleeps.
func (rw *RWLock) TryRdLock() bool {
	ret := false

	sched.AssertCanBlock()
	rw.lazyInit()
	rw.lk.Acquire()
	if !rw.hasWriter {
		rw.nrReaders++
		ret = true
	}
	rw.lk.Release()
	return ret
}

func rwlockWrCB(th *thread.Thread, arg any) {
	rw := arg.(*RWLock)

	sched.ThreadHasBlocked(th, thread.ReasonMutex)
	rw.writers.Enqueue(th)
	rw.lk.Release()
}

func (rw *RWLock) timedWrLock(abs time.Time, timed bool) bool {
	var waiter alarm.Waiter
	var blob timeoutBlob

	sched.AssertCanBlock()
	rw.lazyInit()
	rw.lk.Acquire()
	if !rw.hasWriter && rw.nrReaders == 0 {
		rw.hasWriter = true
		rw.lk.Release()
		return true
	}
	if timed {
		blob.set(&rw.writers, &rw.lk)
		armTimeout(&waiter, &blob, abs)
	}
	sched.Yield(rwlockWrCB, rw)
	if timed {
		waiter.Cancel()
		return !blob.timedOut
	}
	return true
}

// WrLock acquires the lock for writing. Writers require total mutual
// exclusion: no holder of either kind.
func (rw *RWLock) WrLock() {
	rw.timedWrLock(time.Time{}, false)
}

// TimedWrLock acquires the lock for writing or gives up at the absolute
// deadline. Returns false on timeout.
func (rw *RWLock) TimedWrLock(abs time.Time) bool {
	return rw.timedWrLock(abs, true)
}

// TryWrLock acquires the lock for writing only if it is entirely free.
// Never sleeps.
func (rw *RWLock) TryWrLock() bool {
	ret := false

	sched.AssertCanBlock()
	rw.lazyInit()
	rw.lk.Acquire()
	if !rw.hasWriter && rw.nrReaders == 0 {
		rw.hasWriter = true
		ret = true
	}
	rw.lk.Release()
	return ret
}

// unlockWriter hands the lock from a releasing writer to the next queued
// writer, or, with none queued, drains every queued reader. hasWriter is
// left set on a writer hand-off so the lock never appears free in between.
func (rw *RWLock) unlockWriter(restartees *[]*thread.Thread) {
	th := rw.writers.GetNext()
	if th != nil {
		*restartees = append(*restartees, th)
		return
	}
	rw.hasWriter = false
	for th = rw.readers.GetNext(); th != nil; th = rw.readers.GetNext() {
		*restartees = append(*restartees, th)
		rw.nrReaders++
	}
}

// unlockReader drops one reader; the last reader out hands the lock to a
// queued writer if there is one.
func (rw *RWLock) unlockReader(restartees *[]*thread.Thread) {
	rw.nrReaders--
	if rw.nrReaders == 0 {
		th := rw.writers.GetNext()
		if th != nil {
			*restartees = append(*restartees, th)
			rw.hasWriter = true
		}
	}
}

// Unlock releases either kind of hold; the unlocker's role is read off
// hasWriter. Woken threads are collected under the spinlock and made
// runnable after it drops.
func (rw *RWLock) Unlock() {
	var restartees []*thread.Thread

	rw.lk.Acquire()
	if rw.hasWriter {
		rw.unlockWriter(&restartees)
	} else {
		rw.unlockReader(&restartees)
	}
	rw.lk.Release()
	for _, th := range restartees {
		sched.MakeRunnable(th)
	}
}
