// scenarios.go defines the named concurrency scenarios uthdemo runs.
//
// Each scenario is self-checking: it exercises one primitive pattern,
// validates the ordering or state it is supposed to guarantee, and returns
// an error describing the first violation.
package main

import (
	"fmt"
	"time"

	"github.com/kolkov/uthsync/uth"
)

// scenario is one runnable demo.
type scenario struct {
	name    string
	summary string
	run     func() error
}

// scenarios is the registry, in presentation order.
var scenarios = []scenario{
	{"producer-consumer", "1000 items through a single-slot buffer with CV+mutex", runProducerConsumer},
	{"barrier", "semaphore with count 0 releasing 16 workers", runBarrier},
	{"timed-wait", "CV timed wait with and without a signaller", runTimedWait},
	{"recursive", "depth-3 recursive locking probed by a second thread", runRecursive},
	{"writer-preference", "writer woken before queued readers on release", runWriterPreference},
}

// lookupScenario finds a scenario by name.
func lookupScenario(name string) (scenario, bool) {
	for _, sc := range scenarios {
		if sc.name == name {
			return sc, true
		}
	}
	return scenario{}, false
}

// runProducerConsumer pushes items through a single-slot buffer guarded by
// one mutex and one condition variable. The slot forces strict
// alternation: the producer sleeps while the slot is full, the consumer
// while it is empty.
func runProducerConsumer() error {
	const items = 1000

	var mu uth.Mutex
	cv := uth.NewCondVar()
	slot := 0
	full := false

	consumed := make([]int, 0, items)
	done := uth.NewSemaphore(0)

	uth.Go(func() {
		for i := 1; i <= items; i++ {
			mu.Lock()
			for full {
				cv.Wait(&mu)
			}
			slot = i
			full = true
			cv.Signal()
			mu.Unlock()
		}
		done.Up()
	})

	uth.Go(func() {
		for i := 0; i < items; i++ {
			mu.Lock()
			for !full {
				cv.Wait(&mu)
			}
			consumed = append(consumed, slot)
			full = false
			cv.Signal()
			mu.Unlock()
		}
		done.Up()
	})

	done.Down()
	done.Down()

	if len(consumed) != items {
		return fmt.Errorf("consumed %d items, want %d", len(consumed), items)
	}
	for i, v := range consumed {
		if v != i+1 {
			return fmt.Errorf("item %d = %d, want %d (alternation broken)", i, v, i+1)
		}
	}
	if full {
		return fmt.Errorf("buffer still full after drain")
	}
	return nil
}

// runBarrier initializes a semaphore at zero, parks 16 workers on Down,
// and releases them with 16 Ups from the main thread.
func runBarrier() error {
	const workers = 16

	gate := uth.NewSemaphore(0)
	finished := uth.NewSemaphore(0)

	for i := 0; i < workers; i++ {
		uth.Go(func() {
			gate.Down()
			finished.Up()
		})
	}
	for i := 0; i < workers; i++ {
		gate.Up()
	}
	for i := 0; i < workers; i++ {
		finished.Down()
	}
	return nil
}

// runTimedWait checks both timed-wait outcomes: a wait with no signaller
// times out inside its window with the mutex held on return, and a wait
// signalled before the deadline reports success.
func runTimedWait() error {
	var mu uth.Mutex
	cv := uth.NewCondVar()

	// No signaller: must time out at +50ms, and not sleep to +100ms.
	mu.Lock()
	start := time.Now()
	ok := cv.TimedWait(&mu, start.Add(50*time.Millisecond))
	elapsed := time.Since(start)
	if ok {
		mu.Unlock()
		return fmt.Errorf("timed wait reported success with no signaller")
	}
	if elapsed < 50*time.Millisecond || elapsed >= 100*time.Millisecond {
		mu.Unlock()
		return fmt.Errorf("timed out after %v, want [50ms, 100ms)", elapsed)
	}
	mu.Unlock()

	// Signaller at +10ms: must report success.
	mu.Lock()
	uth.Go(func() {
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		cv.Signal()
		mu.Unlock()
	})
	ok = cv.TimedWait(&mu, time.Now().Add(50*time.Millisecond))
	mu.Unlock()
	if !ok {
		return fmt.Errorf("timed wait reported timeout despite signal")
	}
	return nil
}

// runRecursive locks a recursive mutex three levels deep and has a second
// thread probe it with TryLock after every unlock. The probe must fail
// until the third unlock.
func runRecursive() error {
	rmu := uth.NewRecurseMutex()

	probe := make(chan struct{})
	verdict := make(chan bool)
	uth.Go(func() {
		for range probe {
			if rmu.TryLock() {
				rmu.Unlock()
				verdict <- true
				continue
			}
			verdict <- false
		}
	})
	defer close(probe)

	tryFromOther := func() bool {
		probe <- struct{}{}
		return <-verdict
	}

	rmu.Lock()
	rmu.Lock()
	rmu.Lock()

	for depth := 3; depth > 1; depth-- {
		rmu.Unlock()
		if tryFromOther() {
			return fmt.Errorf("TryLock succeeded at depth %d, want failure", depth-1)
		}
	}
	rmu.Unlock()
	if !tryFromOther() {
		return fmt.Errorf("TryLock failed after final unlock")
	}
	return nil
}

// runWriterPreference builds a queue of one writer and eight readers
// behind a held write lock and checks two things on release: the queued
// writer is woken before any reader, and while it holds the lock no new
// reader gets in.
func runWriterPreference() error {
	const readers = 8

	rw := uth.NewRWLock()
	// One slot of slack for a possible reader-overlap violation event.
	events := make(chan string, readers+2)
	finished := uth.NewSemaphore(0)

	rw.WrLock()

	uth.Go(func() {
		rw.WrLock()
		events <- "writer"
		// Readers must stay out while the writer holds the lock.
		if rw.TryRdLock() {
			events <- "reader-overlap"
			rw.Unlock()
		}
		rw.Unlock()
		finished.Up()
	})
	// Give the writer time to enqueue before the readers pile up behind
	// it; both orders are legal, but the scenario is about this one.
	time.Sleep(10 * time.Millisecond)

	for i := 0; i < readers; i++ {
		uth.Go(func() {
			rw.RdLock()
			events <- "reader"
			rw.Unlock()
			finished.Up()
		})
	}
	time.Sleep(10 * time.Millisecond)

	rw.Unlock()
	for i := 0; i < readers+1; i++ {
		finished.Down()
	}
	close(events)

	order := make([]string, 0, readers+1)
	for ev := range events {
		order = append(order, ev)
	}
	if len(order) != readers+1 {
		return fmt.Errorf("saw %d events, want %d", len(order), readers+1)
	}
	if order[0] != "writer" {
		return fmt.Errorf("first lock holder after release = %q, want writer", order[0])
	}
	for _, ev := range order[1:] {
		if ev != "reader" {
			return fmt.Errorf("unexpected event %q after writer", ev)
		}
	}
	return nil
}
