package clock

import (
	"sync"
	"time"
)

// Fake is a manually-advanced Clock for tests. Timer callbacks run
// synchronously inside Advance, on the caller's goroutine.
type Fake struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

// NewFake returns a Fake clock pinned at start.
func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{clock: f, fn: fn, deadline: f.now.Add(d), armed: true}
	f.timers = append(f.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every armed timer whose
// deadline has passed, in deadline order.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()

	for {
		t := f.nextDue()
		if t == nil {
			return
		}
		t.fn()
	}
}

func (f *Fake) nextDue() *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()

	var due *fakeTimer
	for _, t := range f.timers {
		if !t.armed || t.deadline.After(f.now) {
			continue
		}
		if due == nil || t.deadline.Before(due.deadline) {
			due = t
		}
	}
	if due != nil {
		due.armed = false
	}
	return due
}

type fakeTimer struct {
	clock    *Fake
	fn       func()
	deadline time.Time
	armed    bool
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.armed
	t.armed = false
	return was
}

func (t *fakeTimer) Reset(d time.Duration) bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	was := t.armed
	t.deadline = t.clock.now.Add(d)
	t.armed = true
	return was
}
