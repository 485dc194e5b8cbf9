// Package clock abstracts the time source so clock-in timestamps, lock
// waits and summary cut-offs can be driven deterministically in tests.
//
// Production code injects Real(); tests inject Fake() and move time with
// Advance or Set.
package clock

import "time"

// Clock is the subset of the time package used by the service.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d
	// has elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time
}

type realClock struct{}

// Real returns a Clock backed by the time package.
func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) After(d time.Duration) <-chan time.Time { return time.After(d) }
