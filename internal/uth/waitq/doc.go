// Package waitq implements the wait-queue abstraction the sync primitives
// sleep on.
//
// A Queue is an opaque ordered container of blocked threads. The default
// representation is a FIFO: a doubly linked list threaded through the
// intrusive Next/Prev link embedded in each thread handle, so enqueue and
// dequeue allocate nothing. A second-level scheduler may replace the
// representation wholesale (priority queues, per-core structures) by
// installing an Overrides table; every Queue method first consults the
// table and falls through to the FIFO.
//
// The seven operations are exactly what the primitives need:
//
//	Init        prepare a queue for use
//	Destroy     retire a queue; panics if threads are still enqueued
//	Enqueue     add a thread at the back
//	GetNext     pop the front thread, nil if empty
//	GetSpecific remove one specific thread, reporting whether it was there
//	Swap        exchange the contents of two queues in O(1)
//	IsEmpty     report whether any thread is enqueued
//
// GetSpecific exists for timeout cancellation: a timer handler and a
// signaller race to pull the same thread off the queue, and whichever
// removes it wins. Swap exists for broadcast: the waker exchanges the
// queue's contents into a local queue under the spinlock and drains the
// local copy after dropping it.
package waitq
