package sched

import (
	"github.com/kolkov/uthsync/internal/uth/thread"
	"github.com/kolkov/uthsync/internal/uth/waitq"
)

// Ops is the function table a second-level scheduler registers to take over
// scheduling decisions. The first four fields are mandatory for a custom
// 2LS; the rest are optional refinements.
type Ops struct {
	// ThreadHasBlocked tells the scheduler that th has blocked for the
	// given reason. Called from the yield callback, before the primitive's
	// spinlock is dropped.
	ThreadHasBlocked func(th *thread.Thread, reason thread.Reason)

	// MakeRunnable hands a woken thread back to the scheduler. Called
	// outside any spinlock, at most once per suspension.
	MakeRunnable func(th *thread.Thread)

	// Yield suspends the current thread and runs cb once with its handle
	// after the thread is quiescent.
	Yield func(cb func(th *thread.Thread, arg any), arg any)

	// CurrentThread returns the handle of the thread executing the caller.
	CurrentThread func() *thread.Thread

	// Optional wait-queue representation overrides; any nil field keeps
	// the default FIFO. Installed into the waitq package at Register time.
	SyncInit        func(q *waitq.Queue)
	SyncDestroy     func(q *waitq.Queue)
	SyncEnqueue     func(th *thread.Thread, q *waitq.Queue)
	SyncGetNext     func(q *waitq.Queue) *thread.Thread
	SyncGetSpecific func(q *waitq.Queue, th *thread.Thread) bool
	SyncSwap        func(a, b *waitq.Queue)
	SyncIsEmpty     func(q *waitq.Queue) bool

	// ThreadBulkRunnable wakes every thread on q at once. Optional; absent
	// it, WakeAll pops and wakes threads one by one.
	ThreadBulkRunnable func(q *waitq.Queue)
}

// ops is the registered 2LS table, nil while the built-in scheduler is in
// charge. Registration happens at program setup, before primitives are
// used, so reads are unsynchronized.
var ops *Ops

// Register installs a 2LS. Passing nil restores the built-in scheduler.
// Must happen before any primitive is used; swapping schedulers while
// threads sleep is undefined.
func Register(o *Ops) {
	ops = o
	if o == nil {
		waitq.SetOverrides(waitq.Overrides{})
		return
	}
	if o.ThreadHasBlocked == nil || o.MakeRunnable == nil ||
		o.Yield == nil || o.CurrentThread == nil {
		panic("sched: 2LS registration missing a mandatory op")
	}
	waitq.SetOverrides(waitq.Overrides{
		Init:        o.SyncInit,
		Destroy:     o.SyncDestroy,
		Enqueue:     o.SyncEnqueue,
		GetNext:     o.SyncGetNext,
		GetSpecific: o.SyncGetSpecific,
		Swap:        o.SyncSwap,
		IsEmpty:     o.SyncIsEmpty,
	})
}

// Registered reports whether a custom 2LS is installed.
func Registered() bool {
	return ops != nil
}

// CurrentThread returns the handle of the calling thread.
func CurrentThread() *thread.Thread {
	if ops != nil {
		return ops.CurrentThread()
	}
	return builtinCurrent()
}

// ThreadHasBlocked records that th blocked for the given reason.
func ThreadHasBlocked(th *thread.Thread, reason thread.Reason) {
	if ops != nil {
		ops.ThreadHasBlocked(th, reason)
		return
	}
	th.SetReason(reason)
}

// MakeRunnable wakes th.
func MakeRunnable(th *thread.Thread) {
	if ops != nil {
		ops.MakeRunnable(th)
		return
	}
	th.SetReason(thread.ReasonNone)
	th.Unpark()
}

// Yield suspends the calling thread and runs cb with its handle.
func Yield(cb func(th *thread.Thread, arg any), arg any) {
	if ops != nil {
		ops.Yield(cb, arg)
		return
	}
	builtinYield(cb, arg)
}

// WakeAll wakes every thread on q. The caller must not hold the spinlock
// that guarded q; swap the sleepers into a local queue first.
func WakeAll(q *waitq.Queue) {
	if ops != nil && ops.ThreadBulkRunnable != nil {
		ops.ThreadBulkRunnable(q)
		return
	}
	for th := q.GetNext(); th != nil; th = q.GetNext() {
		MakeRunnable(th)
	}
}
