// Package uth re-exports the synchronization runtime's user-facing surface.
//
// See doc.go for detailed documentation and examples.
package uth

import (
	"github.com/kolkov/uthsync/internal/uth/sched"
	"github.com/kolkov/uthsync/internal/uth/synclib"
	"github.com/kolkov/uthsync/internal/uth/thread"
	"github.com/kolkov/uthsync/internal/uth/waitq"
)

// The primitive types are aliases of the runtime implementations so that
// zero values, method sets, and static initialization behave identically
// through the public path.

// Semaphore is a counting semaphore. See synclib.Semaphore.
type Semaphore = synclib.Semaphore

// Mutex is a sleeping lock, a semaphore with count one. See synclib.Mutex.
type Mutex = synclib.Mutex

// RecurseMutex is a mutex the holder may re-lock. See synclib.RecurseMutex.
type RecurseMutex = synclib.RecurseMutex

// CondVar is a condition variable paired with a Mutex per wait. See
// synclib.CondVar.
type CondVar = synclib.CondVar

// RWLock is a writer-preferring sleeping reader-writer lock. See
// synclib.RWLock.
type RWLock = synclib.RWLock

// Thread is the handle for one user thread.
type Thread = thread.Thread

// Reason tags why a thread blocked, as reported to the scheduler.
type Reason = thread.Reason

// Blocked-reason tags.
const (
	ReasonNone  = thread.ReasonNone
	ReasonMutex = thread.ReasonMutex
	ReasonMisc  = thread.ReasonMisc
)

// WaitQueue is the opaque container of blocked threads a primitive sleeps
// its waiters on. Custom schedulers may substitute its representation.
type WaitQueue = waitq.Queue

// SchedOps is the function table a second-level scheduler registers to
// take over scheduling. See the sched package for the contract each hook
// must honor.
type SchedOps = sched.Ops

// NewSemaphore allocates a semaphore with the given initial count.
func NewSemaphore(count uint) *Semaphore {
	return synclib.NewSemaphore(count)
}

// NewMutex allocates an unlocked mutex.
func NewMutex() *Mutex {
	return synclib.NewMutex()
}

// NewRecurseMutex allocates an unlocked recursive mutex.
func NewRecurseMutex() *RecurseMutex {
	return synclib.NewRecurseMutex()
}

// NewCondVar allocates a condition variable.
func NewCondVar() *CondVar {
	return synclib.NewCondVar()
}

// NewRWLock allocates an unlocked reader-writer lock.
func NewRWLock() *RWLock {
	return synclib.NewRWLock()
}

// Go spawns fn as a user thread under the built-in scheduler and returns
// its handle. With a custom scheduler registered, thread creation is that
// scheduler's business and Go must not be used.
func Go(fn func()) *Thread {
	return sched.Go(fn)
}

// CurrentThread returns the calling thread's handle.
func CurrentThread() *Thread {
	return sched.CurrentThread()
}

// RegisterScheduler installs a second-level scheduler. Must be called
// before any primitive is used; passing nil restores the built-in
// scheduler.
func RegisterScheduler(ops *SchedOps) {
	sched.Register(ops)
}
