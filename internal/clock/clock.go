package clock

import "time"

// NowFunc returns wall-clock time used to stamp events and journal entries.
// Override in tests for determinism.
var NowFunc = time.Now

// Now returns NowFunc().
func Now() time.Time { return NowFunc() }

// Fixed returns a NowFunc that always reports t.
func Fixed(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
