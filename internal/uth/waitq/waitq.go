package waitq

import "github.com/kolkov/uthsync/internal/uth/thread"

// Queue is an ordered container of blocked threads. The zero value must be
// passed through Init before use (the primitives do this lazily via their
// once guard).
//
// In the default representation head/tail anchor a doubly linked FIFO
// through each thread's intrusive link. When an Overrides table is
// installed the default fields are unused and Opaque carries whatever state
// the 2LS representation needs.
type Queue struct {
	head *thread.Thread
	tail *thread.Thread

	// Opaque is storage for a 2LS-supplied queue representation. The
	// default FIFO does not touch it.
	Opaque any
}

// Overrides lets a second-level scheduler substitute the queue
// representation. Any nil field falls through to the default FIFO. The
// table is installed once, before primitives are used, via SetOverrides.
type Overrides struct {
	Init        func(q *Queue)
	Destroy     func(q *Queue)
	Enqueue     func(th *thread.Thread, q *Queue)
	GetNext     func(q *Queue) *thread.Thread
	GetSpecific func(q *Queue, th *thread.Thread) bool
	Swap        func(a, b *Queue)
	IsEmpty     func(q *Queue) bool
}

// overrides is the installed table, empty by default. Not synchronized:
// installation happens during 2LS registration, before any primitive is
// used.
var overrides Overrides

// SetOverrides installs a 2LS queue representation. Passing the zero table
// restores the default FIFO.
func SetOverrides(o Overrides) {
	overrides = o
}

// Init prepares q for use. A destroyed queue may be re-initialized.
func (q *Queue) Init() {
	if overrides.Init != nil {
		overrides.Init(q)
		return
	}
	q.head = nil
	q.tail = nil
}

// Destroy retires q. Destroying a queue with threads still enqueued is a
// lifecycle bug in the caller and panics.
func (q *Queue) Destroy() {
	if overrides.Destroy != nil {
		overrides.Destroy(q)
		return
	}
	if q.head != nil {
		panic("waitq: destroy of non-empty queue")
	}
}

// Enqueue links th at the back of the queue. The thread must not be linked
// anywhere else; its link is owned by q until it is removed.
func (q *Queue) Enqueue(th *thread.Thread) {
	if overrides.Enqueue != nil {
		overrides.Enqueue(th, q)
		return
	}
	th.Next = nil
	th.Prev = q.tail
	if q.tail != nil {
		q.tail.Next = th
	} else {
		q.head = th
	}
	q.tail = th
}

// GetNext pops the front thread, or returns nil if the queue is empty.
func (q *Queue) GetNext() *thread.Thread {
	if overrides.GetNext != nil {
		return overrides.GetNext(q)
	}
	th := q.head
	if th == nil {
		return nil
	}
	q.unlink(th)
	return th
}

// GetSpecific removes th from the queue if it is enqueued there, reporting
// whether it was found. This is the timeout-cancellation primitive: the
// alarm handler removes its thread through it while a concurrent waker
// pops with GetNext, and exactly one of them finds the thread.
func (q *Queue) GetSpecific(th *thread.Thread) bool {
	if overrides.GetSpecific != nil {
		return overrides.GetSpecific(q, th)
	}
	for i := q.head; i != nil; i = i.Next {
		if i == th {
			q.unlink(i)
			return true
		}
	}
	return false
}

// Swap exchanges the contents of q and other in O(1).
func (q *Queue) Swap(other *Queue) {
	if overrides.Swap != nil {
		overrides.Swap(q, other)
		return
	}
	q.head, other.head = other.head, q.head
	q.tail, other.tail = other.tail, q.tail
	q.Opaque, other.Opaque = other.Opaque, q.Opaque
}

// IsEmpty reports whether no thread is enqueued.
func (q *Queue) IsEmpty() bool {
	if overrides.IsEmpty != nil {
		return overrides.IsEmpty(q)
	}
	return q.head == nil
}

// unlink removes th from the default FIFO and clears its link.
func (q *Queue) unlink(th *thread.Thread) {
	if th.Prev != nil {
		th.Prev.Next = th.Next
	} else {
		q.head = th.Next
	}
	if th.Next != nil {
		th.Next.Prev = th.Prev
	} else {
		q.tail = th.Prev
	}
	th.Next = nil
	th.Prev = nil
}
