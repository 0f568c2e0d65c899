package kiosk

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// Clock is the source of time for the controller's countdowns.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type clockworkClock struct {
	c clockwork.Clock
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return FromClockwork(clockwork.NewRealClock()) }

// FromClockwork adapts a clockwork clock. Its AfterFunc callbacks run on
// their own goroutine, as with time.AfterFunc.
func FromClockwork(c clockwork.Clock) Clock { return clockworkClock{c: c} }

func (k clockworkClock) Now() time.Time { return k.c.Now() }

func (k clockworkClock) AfterFunc(d time.Duration, f func()) Timer {
	return k.c.AfterFunc(d, f)
}
