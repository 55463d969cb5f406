package synclib

import (
	"time"

	"github.com/kolkov/uthsync/internal/uth/alarm"
	"github.com/kolkov/uthsync/internal/uth/sched"
	"github.com/kolkov/uthsync/internal/uth/spin"
	"github.com/kolkov/uthsync/internal/uth/thread"
	"github.com/kolkov/uthsync/internal/uth/waitq"
)

// timeoutBlob ties an armed alarm to the wait queue and spinlock a timed
// sleeper is parked behind. It lives on the waiter's stack: the waiter
// either cancels the alarm or is woken by it before returning, so the blob
// always outlives the handler.
//
// The blob is what makes the signal/timeout race safe. Both sides remove
// the thread under the same spinlock, the waker with GetNext and the
// timeout handler with GetSpecific; exactly one of them finds the thread
// on the queue, and only the timeout path sets timedOut.
type timeoutBlob struct {
	timedOut bool
	th       *thread.Thread
	q        *waitq.Queue
	lk       *spin.Lock
}

// timeoutHandler is the alarm callback shared by every timed variant. If
// the sleeper is still enqueued it is removed and woken with timedOut set;
// if a waker got there first the handler does nothing.
func timeoutHandler(w *alarm.Waiter) {
	blob := w.Data.(*timeoutBlob)

	blob.lk.Acquire()
	if blob.q.GetSpecific(blob.th) {
		blob.timedOut = true
	}
	blob.lk.Release()
	if blob.timedOut {
		sched.MakeRunnable(blob.th)
	}
}

// set points the blob at the queue/lock pair the current thread is about
// to sleep behind.
func (b *timeoutBlob) set(q *waitq.Queue, lk *spin.Lock) {
	b.timedOut = false
	b.th = sched.CurrentThread()
	b.q = q
	b.lk = lk
}

// armTimeout arms w to fire timeoutHandler over blob at the absolute
// deadline.
func armTimeout(w *alarm.Waiter, blob *timeoutBlob, abs time.Time) {
	w.Init(timeoutHandler)
	w.Data = blob
	w.ArmAbs(abs)
}
