package synclib

import (
	"testing"
	"time"

	"github.com/kolkov/uthsync/internal/uth/thread"
	"github.com/kolkov/uthsync/internal/uth/waitq"
)

// eventually polls cond until it holds or the test deadline expires.
// Concurrency tests use it to wait for a thread to reach a wait queue
// without racing on timing assumptions.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition never held: %s", msg)
}

// hasSleepers reports whether any thread is parked on the semaphore.
func (s *Semaphore) hasSleepers() bool {
	s.lk.Acquire()
	empty := s.q.IsEmpty()
	s.lk.Release()
	return !empty
}

// sleeperCount counts threads parked on the semaphore, preserving their
// FIFO position.
func (s *Semaphore) sleeperCount() int {
	s.lk.Acquire()
	defer s.lk.Release()
	return countQueue(&s.q)
}

// hasSleepers reports whether any thread is parked on the cv.
func (cv *CondVar) hasSleepers() bool {
	cv.lk.Acquire()
	empty := cv.q.IsEmpty()
	cv.lk.Release()
	return !empty
}

// countQueue counts threads on q, preserving their order. Caller holds
// the spinlock guarding q.
func countQueue(q *waitq.Queue) int {
	var tmp waitq.Queue
	tmp.Init()
	q.Swap(&tmp)
	var ths []*thread.Thread
	for th := tmp.GetNext(); th != nil; th = tmp.GetNext() {
		ths = append(ths, th)
	}
	for _, th := range ths {
		q.Enqueue(th)
	}
	return len(ths)
}

// queuedReaders counts threads parked on the reader queue.
func (rw *RWLock) queuedReaders() int {
	rw.lk.Acquire()
	defer rw.lk.Release()
	return countQueue(&rw.readers)
}

// queuedWriters counts threads parked on the writer queue.
func (rw *RWLock) queuedWriters() int {
	rw.lk.Acquire()
	defer rw.lk.Release()
	return countQueue(&rw.writers)
}

// sleeperCount counts threads parked on the cv, preserving their order.
func (cv *CondVar) sleeperCount() int {
	cv.lk.Acquire()
	defer cv.lk.Release()
	return countQueue(&cv.q)
}
