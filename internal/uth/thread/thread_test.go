package thread

import "testing"

// TestNewIdentity: handles get distinct, nonzero ids.
func TestNewIdentity(t *testing.T) {
	a := New()
	b := New()

	if a.ID() == 0 || b.ID() == 0 {
		t.Errorf("ID() = 0, want nonzero")
	}
	if a.ID() == b.ID() {
		t.Errorf("two handles share id %d", a.ID())
	}
}

// TestUnparkBeforePark: the one-slot token makes an early wake legal.
func TestUnparkBeforePark(t *testing.T) {
	th := New()

	th.Unpark()
	th.Park() // must not block: token already deposited
}

// TestParkThenUnpark: a parked thread resumes on Unpark.
func TestParkThenUnpark(t *testing.T) {
	th := New()
	resumed := make(chan struct{})

	go func() {
		th.Park()
		close(resumed)
	}()
	th.Unpark()
	<-resumed
}

// TestDoubleUnparkPanics: waking a thread twice per sleep is a bug in the
// waker.
func TestDoubleUnparkPanics(t *testing.T) {
	th := New()

	th.Unpark()
	defer func() {
		if recover() == nil {
			t.Errorf("second Unpark() did not panic")
		}
	}()
	th.Unpark()
}

// TestBlockedReason round-trips the tag.
func TestBlockedReason(t *testing.T) {
	th := New()

	if got := th.BlockedReason(); got != ReasonNone {
		t.Errorf("initial BlockedReason() = %v, want %v", got, ReasonNone)
	}
	th.SetReason(ReasonMutex)
	if got := th.BlockedReason(); got != ReasonMutex {
		t.Errorf("BlockedReason() = %v, want %v", got, ReasonMutex)
	}
}

// TestReasonString covers the tag names.
func TestReasonString(t *testing.T) {
	cases := []struct {
		r    Reason
		want string
	}{
		{ReasonNone, "none"},
		{ReasonMutex, "mutex"},
		{ReasonMisc, "misc"},
		{Reason(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.r.String(); got != c.want {
			t.Errorf("Reason(%d).String() = %q, want %q", c.r, got, c.want)
		}
	}
}
