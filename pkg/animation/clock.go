package animation

import "time"

// Clock is the time source animations sample once per retained-task run to
// compute their progress. The default reads system time; the test harness
// installs a fake clock through SetClock so ticks advance time
// deterministically instead of sleeping.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

var clock Clock = realClock{}

// SetClock replaces the animation clock and returns the previous one so the
// caller can restore it during cleanup. Swap clocks only between ticks; a
// running animation that samples two different clocks jumps.
func SetClock(c Clock) Clock {
	prev := clock
	clock = c
	return prev
}

// Now returns the current time from the active clock.
func Now() time.Time { return clock.Now() }

// progressSince samples the clock and returns the unit progress of an
// animation started at start with the given duration. Non-positive
// durations complete immediately.
func progressSince(start time.Time, d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return clampUnit(float64(Now().Sub(start)) / float64(d))
}
