// Package animation drives variables from one value to another over time.
//
// An animation is a retained task on an update driver: once per tick it
// computes eased progress from the package clock and queues a write on the
// animated variable, so animated values flow through the same commit and
// hook fan-out as any other write. Starting a new animation on a variable
// replaces the one already running on it.
package animation

import (
	"time"

	"github.com/go-drift/reactive/pkg/handle"
	"github.com/go-drift/reactive/pkg/updates"
	"github.com/go-drift/reactive/pkg/vars"
)

// Options configure one animation.
type Options struct {
	// Duration is the total run time. Zero completes on the first tick.
	Duration time.Duration

	// Curve is the easing function, [LinearCurve] when nil.
	Curve func(float64) float64

	// Done runs on the tick the animation reaches its end value. It does
	// not run when the animation is replaced or cancelled.
	Done func()
}

type anim struct {
	h handle.Weak
}

// running maps a variable to its active animation, so a newly started
// animation can displace the previous one. UI thread only.
var running = map[vars.ID]*anim{}

// HasActive reports whether any animation is still driving a variable.
// Hosts keep their frame loop running while this is true.
func HasActive() bool {
	for id, a := range running {
		if a.h.IsDropped() {
			delete(running, id)
		}
	}
	return len(running) > 0
}

// Animate drives v along tw over opts.Duration. It returns a handle;
// dropping it cancels the animation, leaving the variable at the last
// written value. The animation holds v weakly and cancels itself if the
// variable is collected.
func Animate[T any](d *updates.Driver, v vars.Var[T], tw *Tween[T], opts Options) handle.Handle {
	id := v.VarID()
	curve := opts.Curve
	if curve == nil {
		curve = LinearCurve
	}

	start := Now()
	target := v.DowngradeAny()
	a := &anim{}
	running[id] = a

	h := d.Retain(func() bool {
		if running[id] != a {
			// Replaced by a newer animation on the same variable.
			return false
		}
		av, ok := target.UpgradeAny()
		if !ok {
			delete(running, id)
			return false
		}
		tv := av.(vars.Var[T])

		t := progressSince(start, opts.Duration)
		_ = tv.Set(tw.Evaluate(curve(t)))

		if t >= 1 {
			delete(running, id)
			if opts.Done != nil {
				opts.Done()
			}
			return false
		}
		return true
	})
	a.h = h.Downgrade()
	return h
}

// EaseTo animates a float64 variable from its current value to target.
func EaseTo(d *updates.Driver, v vars.Var[float64], to float64, opts Options) handle.Handle {
	return Animate(d, v, TweenFloat64(v.Get(), to), opts)
}
