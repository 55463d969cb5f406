package sched

import (
	"sync"

	"github.com/kolkov/uthsync/internal/uth/thread"
)

// The built-in scheduler backs each user thread with one goroutine. The OS
// threads the Go runtime multiplexes those goroutines onto play the role of
// virtual cores: a thread runs until it blocks in a primitive, at which
// point it parks its goroutine and the runtime picks another.
//
// Thread identity is tracked per goroutine: threads map goroutine id to
// handle. Goroutines spawned through Go are registered on entry; any other
// goroutine that touches a primitive is adopted on first use, so the main
// goroutine can use the library without ceremony.

// threads maps goroutine id to *thread.Thread for the built-in scheduler.
var threads sync.Map

// noBlock marks goroutine ids that must not reach a suspension point:
// alarm handlers and yield callbacks. AssertCanBlock panics for them.
var noBlock sync.Map

// builtinCurrent returns the calling goroutine's thread handle, adopting
// the goroutine if it was not spawned through Go.
func builtinCurrent() *thread.Thread {
	gid := goroutineID()
	if th, ok := threads.Load(gid); ok {
		return th.(*thread.Thread)
	}
	th := thread.New()
	actual, _ := threads.LoadOrStore(gid, th)
	return actual.(*thread.Thread)
}

// builtinYield suspends the calling thread: it runs the register-and-sleep
// callback with the handle and then parks. The callback must not yield
// itself, so the goroutine is marked no-block for its duration.
//
// A MakeRunnable racing ahead of the park is harmless: the wake deposits
// the park token and the park consumes it immediately. The handle is
// quiescent from the callback's point of view because the only thing the
// thread does between callback and wake is consume that token.
func builtinYield(cb func(th *thread.Thread, arg any), arg any) {
	th := builtinCurrent()
	gid := goroutineID()
	noBlock.Store(gid, true)
	cb(th, arg)
	noBlock.Delete(gid)
	th.Park()
}

// Go spawns fn as a new user thread under the built-in scheduler and
// returns its handle. The handle is registered before fn runs, so fn can
// immediately block on primitives.
func Go(fn func()) *thread.Thread {
	th := thread.New()
	ready := make(chan struct{})
	go func() {
		gid := goroutineID()
		threads.Store(gid, th)
		close(ready)
		defer threads.Delete(gid)
		fn()
	}()
	<-ready
	return th
}

// EnterNoBlockContext marks the calling goroutine as forbidden to reach a
// suspension point. The alarm service wraps handler invocations with this.
func EnterNoBlockContext() {
	noBlock.Store(goroutineID(), true)
}

// ExitNoBlockContext clears the mark set by EnterNoBlockContext.
func ExitNoBlockContext() {
	noBlock.Delete(goroutineID())
}

// AssertCanBlock panics if the calling context must not yield: inside an
// alarm handler or a yield callback. Blocking entry points call this before
// touching any state.
func AssertCanBlock() {
	if _, bad := noBlock.Load(goroutineID()); bad {
		panic("sched: blocking call from a non-blocking context")
	}
}
