package synclib

import "time"

// Mutex is a sleeping lock: structurally a Semaphore whose count starts at
// one. Invariant: the count is always zero or one.
//
// The zero value is a valid unlocked mutex; the first Lock/TryLock/
// TimedLock runs the lazy initializer. Unlock deliberately does not run
// it — unlocking a never-initialized, never-locked mutex is undefined, as
// it is for POSIX.
type Mutex struct {
	sem Semaphore
}

// lazyInit is the mutex-flavored one-shot: beyond the semaphore setup it
// seeds the count to one (unlocked).
func (m *Mutex) lazyInit() {
	m.sem.once.Do(func() {
		m.sem.baseInit()
		m.sem.Count = 1
	})
}

// Init initializes a mutex acquired from somewhere else.
func (m *Mutex) Init() {
	m.sem.baseInit()
	m.sem.Count = 1
	m.sem.once.Do(func() {})
}

// Destroy retires the mutex. Destroying a mutex with sleepers panics.
func (m *Mutex) Destroy() {
	m.sem.Destroy()
}

// NewMutex allocates an initialized mutex.
func NewMutex() *Mutex {
	m := new(Mutex)
	m.Init()
	return m
}

// Free retires an allocated mutex.
func (m *Mutex) Free() {
	m.Destroy()
}

// Lock acquires the mutex, sleeping until it is free.
func (m *Mutex) Lock() {
	m.lazyInit()
	m.sem.Down()
}

// TimedLock acquires the mutex or gives up at the absolute deadline.
// Returns false on timeout.
func (m *Mutex) TimedLock(abs time.Time) bool {
	m.lazyInit()
	return m.sem.TimedDown(abs)
}

// TryLock acquires the mutex only if it is immediately free. Never sleeps.
func (m *Mutex) TryLock() bool {
	m.lazyInit()
	return m.sem.TryDown()
}

// Unlock releases the mutex. A queued waiter receives the lock directly;
// see Semaphore.Up.
func (m *Mutex) Unlock() {
	m.sem.Up()
}
