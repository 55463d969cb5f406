// Package sched is the seam between the sync primitives and the
// second-level scheduler (2LS).
//
// The primitives never talk to a scheduler directly; they call the
// package-level dispatch functions (CurrentThread, ThreadHasBlocked,
// MakeRunnable, Yield, WakeAll). When a 2LS has registered an Ops table,
// the dispatch routes there; otherwise it lands in the built-in scheduler,
// which backs every user thread with a goroutine and implements blocking
// with the thread handle's park token.
//
// The contract the primitives rely on, whichever scheduler is active:
//
//   - Yield(cb, arg) suspends the calling thread and runs cb exactly once
//     with the suspended thread's handle. The callback is the atomic
//     register-and-sleep step: it notifies the scheduler of the block,
//     links the thread onto a wait queue, and drops the primitive's
//     spinlock. The thread does not run again until MakeRunnable.
//   - ThreadHasBlocked(th, reason) must be called before the primitive's
//     spinlock is dropped, so a concurrent waker cannot see the thread
//     runnable before the scheduler knows it blocked.
//   - MakeRunnable(th) is called at most once per suspension, outside any
//     spinlock.
//
// A 2LS may also override the wait-queue representation (the Sync* fields)
// and bulk wakeup (ThreadBulkRunnable); those overrides are installed into
// the waitq package at registration time.
package sched
