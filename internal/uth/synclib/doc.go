// Package synclib implements the blocking synchronization primitives for
// user threads: counting semaphores, mutexes, recursive mutexes, condition
// variables and reader-writer locks.
//
// Every primitive follows the same control flow. A blocking entry takes the
// primitive's internal spinlock and either satisfies the request from the
// primitive's state and returns, or yields to the scheduler with a callback
// that — running once the thread is quiescent — notifies the scheduler of
// the block, enqueues the thread on the primitive's wait queue, and drops
// the spinlock. That callback is the atomic register-and-sleep step: the
// thread is on the queue before any waker can look for it, so no wakeup is
// lost. Wake-side operations take the spinlock, dequeue, drop the lock, and
// only then make threads runnable.
//
// Each primitive is layered on the ones below it. A mutex is a semaphore
// whose count starts at one. A recursive mutex wraps a mutex with
// owner/depth bookkeeping that only the holder writes. A condition variable
// pairs with an external mutex for the duration of a wait. The
// reader-writer lock runs two wait queues under one spinlock.
//
// All primitives are usable from their zero value: the first operation runs
// a one-shot lazy initializer, so zero-initialized storage is a valid
// unlocked primitive, the way POSIX static initializers behave.
//
// Timed variants take an absolute deadline. The timeout and any concurrent
// wake race to remove the thread from the wait queue (the wake pops it with
// GetNext, the timeout pulls it with GetSpecific); whichever removes the
// thread first wins, and the other observes it already gone.
package synclib
