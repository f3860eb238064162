// Package clock abstracts time for components that schedule work, so
// tests can advance virtual time instead of sleeping.
package clock

import "time"

// Timer is a resettable one-shot timer handle.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
	// Reset re-arms the timer to fire after d.
	Reset(d time.Duration) bool
}

// Clock supplies the current time and one-shot timers.
type Clock interface {
	Now() time.Time
	// AfterFunc schedules f to run in its own goroutine after d.
	AfterFunc(d time.Duration, f func()) Timer
}

// Real is a Clock backed by the time package.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// New returns the real clock.
func New() Clock { return Real{} }
