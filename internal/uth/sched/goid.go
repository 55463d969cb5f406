// Goroutine ID extraction for the built-in scheduler.
//
// The built-in scheduler needs a per-goroutine key to find the calling
// thread's handle. Go deliberately hides goroutine ids, so we recover the
// id by parsing the header line of runtime.Stack output. This is the
// universal method: it works on every architecture and Go version, at the
// cost of roughly a microsecond per call. That cost is paid on every
// blocking or try entry (AssertCanBlock), on every CurrentThread lookup
// (recursive-mutex ownership checks, timed waits) and in the yield path;
// the timed-wait lookup and the yield path run while the primitive's
// spinlock is held.
//
// Stack trace header format: "goroutine 123 [running]:\n..."

package sched

import "runtime"

// goroutineID returns the calling goroutine's id, or 0 if the stack header
// cannot be parsed (which would mean the runtime changed its traceback
// format).
func goroutineID() int64 {
	// Only the header line is needed; 64 bytes covers any id width.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return parseGID(buf[:n])
}

// parseGID extracts the numeric id from a stack trace header. Direct byte
// parsing, no allocation.
func parseGID(buf []byte) int64 {
	const prefix = "goroutine "
	if len(buf) < len(prefix) {
		return 0
	}
	for i := 0; i < len(prefix); i++ {
		if buf[i] != prefix[i] {
			return 0
		}
	}
	var id int64
	for _, c := range buf[len(prefix):] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + int64(c-'0')
	}
	return id
}
