package testing

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/reactive/pkg/animation"
	"github.com/go-drift/reactive/pkg/updates"
)

// Harness couples a detached update driver with a controllable clock for
// deterministic tests of variables, bindings and animations.
type Harness struct {
	Driver *updates.Driver

	t     *testing.T
	clock *FakeClock
}

// New creates a harness. It installs a [FakeClock] as the animation time
// source and restores the previous clock when the test finishes.
func New(t *testing.T) *Harness {
	clk := NewFakeClock()
	prev := animation.SetClock(clk)
	t.Cleanup(func() { animation.SetClock(prev) })
	return &Harness{Driver: updates.New(), t: t, clock: clk}
}

// Clock returns the harness clock.
func (h *Harness) Clock() *FakeClock { return h.clock }

// Advance moves the clock forward without running a tick.
func (h *Harness) Advance(d time.Duration) { h.clock.Advance(d) }

// Pump runs one update tick.
func (h *Harness) Pump() updates.Invalidations {
	return h.Driver.OnTick()
}

// PumpAndSettle pumps until no queued work or running animation remains,
// advancing the clock by step between ticks so time-based work can finish.
// It fails after maxTicks ticks.
func (h *Harness) PumpAndSettle(step time.Duration, maxTicks int) error {
	for range maxTicks {
		h.Pump()
		if !h.Driver.NeedsTick() && !animation.HasActive() {
			return nil
		}
		h.Advance(step)
	}
	return fmt.Errorf("did not settle within %d ticks", maxTicks)
}
