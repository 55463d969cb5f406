// Package alarm runs a callback at an absolute deadline, with a cancel that
// is synchronous with respect to the handler.
//
// The timed sync variants arm a Waiter before sleeping and cancel it after
// waking. The one guarantee everything rests on: when Cancel returns, the
// handler either never ran or has completed. That lets the waiter read the
// timeout outcome off its stack without racing the handler.
package alarm

import (
	"sync"
	"time"

	"github.com/kolkov/uthsync/internal/uth/sched"
)

// Handler is an alarm callback. It runs in its own context, not on any
// user thread, and must not block on sync primitives; the alarm service
// marks the context accordingly so AssertCanBlock catches violations.
type Handler func(w *Waiter)

// Waiter is a one-shot alarm binding a deadline to a handler. Data carries
// whatever the handler needs (the timed sync paths stash their timeout
// blob there). A Waiter may be re-armed after the previous arm has been
// resolved by Cancel.
type Waiter struct {
	handler Handler

	// Data is owned by the arming party; read by the handler.
	Data any

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
	armed bool
}

// Init binds the handler. Must precede the first ArmAbs.
func (w *Waiter) Init(h Handler) {
	w.handler = h
}

// ArmAbs schedules the handler to run at the absolute time abs. A deadline
// already in the past fires the handler immediately (asynchronously).
// Arming an armed waiter is a misuse and panics.
func (w *Waiter) ArmAbs(abs time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.armed {
		panic("alarm: arm of an already-armed waiter")
	}
	if w.handler == nil {
		panic("alarm: arm before Init")
	}
	w.armed = true
	w.done = make(chan struct{})
	w.timer = time.AfterFunc(time.Until(abs), w.fire)
}

// fire runs the handler in a no-block context and then publishes
// completion for Cancel.
func (w *Waiter) fire() {
	sched.EnterNoBlockContext()
	w.handler(w)
	sched.ExitNoBlockContext()
	close(w.done)
}

// Cancel resolves an armed waiter. It returns true if the alarm was
// stopped before the handler ran; otherwise it blocks until the handler
// has completed and returns false. Either way the waiter is disarmed and
// may be re-armed.
func (w *Waiter) Cancel() bool {
	w.mu.Lock()
	if !w.armed {
		w.mu.Unlock()
		panic("alarm: cancel of an unarmed waiter")
	}
	w.armed = false
	timer := w.timer
	done := w.done
	w.mu.Unlock()

	if timer.Stop() {
		return true
	}
	<-done
	return false
}
