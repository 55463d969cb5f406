// Package uth is the public API of the uthsync user-level synchronization
// runtime.
//
// # Overview
//
// uthsync provides the blocking primitives user threads need in an M:N
// threading runtime — counting semaphores, mutexes, recursive mutexes,
// condition variables, and reader-writer locks — implemented entirely in
// user space on a cooperative scheduler. A thread that must wait never
// traps anywhere on the fast path: it either satisfies the operation under
// a short internal spinlock or registers itself on a wait queue and yields,
// in one atomic step.
//
// The locks and the semaphore come in three acquisition flavors; a
// condition variable has only the sleeping and timed waits (there is no
// try-wait):
//
//	Lock / Down / Wait              sleep until satisfied
//	TryLock / TryDown               succeed immediately or report false
//	TimedLock / TimedDown / ...     sleep until an absolute deadline
//
// Timed variants take a time.Time deadline, not a duration, and return
// false on timeout.
//
// # Zero values
//
// Every primitive is usable from its zero value. The first operation runs
// a one-shot initializer, so zero-initialized storage is a valid unlocked
// mutex, an empty condition variable, a free RWLock, or a semaphore with
// count zero. Use the New* constructors or Init methods when an initial
// semaphore count is needed:
//
//	var mu uth.Mutex        // ready to use
//	sem := uth.NewSemaphore(4)
//
// # Scheduling
//
// Out of the box a built-in scheduler backs each user thread with a
// goroutine; Go spawns one and any other goroutine is adopted on first
// use, so ordinary programs can use the primitives directly. A custom
// second-level scheduler takes over by registering a SchedOps table, and
// may also substitute the wait-queue representation the primitives sleep
// on (the Sync* fields) and the bulk-wakeup path used by Broadcast.
//
// # Example
//
//	var mu uth.Mutex
//	cv := uth.NewCondVar()
//	ready := false
//
//	uth.Go(func() {
//		mu.Lock()
//		ready = true
//		cv.Signal()
//		mu.Unlock()
//	})
//
//	mu.Lock()
//	for !ready {
//		cv.Wait(&mu)
//	}
//	mu.Unlock()
package uth
