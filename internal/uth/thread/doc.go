// Package thread defines the user-thread handle shared by the scheduler and
// the synchronization primitives.
//
// A Thread is the unit that blocks and wakes. It carries exactly four things
// the rest of the runtime needs:
//   - A stable identity (ID) for logging and ordering.
//   - One intrusive wait link (Next/Prev) used by wait queues. A thread is
//     linked into at most one wait queue at any time; the link's ownership
//     moves between "the queue the thread sleeps on" and "free" as the
//     thread blocks and wakes.
//   - A one-slot park token. Park consumes the token (blocking until one is
//     deposited); Unpark deposits it. Because the slot is buffered, an
//     Unpark that races ahead of the corresponding Park is legal and does
//     not lose the wakeup.
//   - A blocked-reason tag (Reason), set when the thread blocks and reset
//     to ReasonNone when it is made runnable.
//
// The handle is owned by the scheduler; the sync primitives only borrow it
// for the duration of a sleep.
package thread
