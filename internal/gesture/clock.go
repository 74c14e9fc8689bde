package gesture

import "time"

// Clock abstracts wall-clock time and timer scheduling so the hold countdown
// can be driven deterministically in tests.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is the cancellable handle returned by Clock.AfterFunc.
type Timer interface {
	// Stop prevents the timer from firing, reporting whether it was still
	// pending.
	Stop() bool
}

type realClock struct{}

// NewRealClock returns a Clock backed by the time package.
func NewRealClock() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{t: time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }
