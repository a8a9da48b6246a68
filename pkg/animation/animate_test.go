package animation_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/go-drift/reactive/pkg/animation"
	rxtest "github.com/go-drift/reactive/pkg/testing"
	"github.com/go-drift/reactive/pkg/vars"
)

func TestAnimateReachesTarget(t *testing.T) {
	h := rxtest.New(t)
	v := vars.New(0.0)

	done := false
	hd := animation.EaseTo(h.Driver, v, 100, animation.Options{
		Duration: time.Second,
		Done:     func() { done = true },
	})
	defer hd.Drop()

	h.Advance(500 * time.Millisecond)
	h.Pump()
	mid := v.Get()
	if mid <= 0 || mid >= 100 {
		t.Errorf("value = %v at the halfway tick, want strictly between 0 and 100", mid)
	}

	h.Advance(600 * time.Millisecond)
	h.Pump()
	if got := v.Get(); got != 100 {
		t.Errorf("value = %v after the animation window, want 100", got)
	}
	if !done {
		t.Error("Done callback never ran")
	}
	if animation.HasActive() {
		t.Error("animation still active after completing")
	}
	runtime.KeepAlive(v)
}

func TestAnimateEasedProgress(t *testing.T) {
	h := rxtest.New(t)
	v := vars.New(0.0)

	hd := animation.Animate(h.Driver, v, animation.TweenFloat64(0, 1), animation.Options{
		Duration: time.Second,
		Curve:    animation.EaseIn,
	})
	defer hd.Drop()

	h.Advance(250 * time.Millisecond)
	h.Pump()

	// EaseIn starts slowly: at a quarter of the duration the eased value
	// must trail linear progress.
	if got := v.Get(); got >= 0.25 {
		t.Errorf("eased value = %v at t=0.25, want below linear progress", got)
	}
	runtime.KeepAlive(v)
}

func TestAnimateReplacedByNewerAnimation(t *testing.T) {
	h := rxtest.New(t)
	v := vars.New(0.0)

	h1 := animation.EaseTo(h.Driver, v, 100, animation.Options{Duration: time.Second})
	defer h1.Drop()
	h2 := animation.EaseTo(h.Driver, v, -100, animation.Options{Duration: time.Second})
	defer h2.Drop()

	h.Advance(2 * time.Second)
	h.Pump()
	h.Pump()

	if got := v.Get(); got != -100 {
		t.Errorf("value = %v, want the newer animation's target -100", got)
	}
	runtime.KeepAlive(v)
}

func TestAnimateCancelledByHandleDrop(t *testing.T) {
	h := rxtest.New(t)
	v := vars.New(0.0)

	hd := animation.EaseTo(h.Driver, v, 100, animation.Options{Duration: time.Second})

	h.Advance(300 * time.Millisecond)
	h.Pump()
	partial := v.Get()

	hd.Drop()
	h.Advance(2 * time.Second)
	h.Pump()
	h.Pump()

	if got := v.Get(); got != partial {
		t.Errorf("value moved from %v to %v after cancellation", partial, got)
	}
	runtime.KeepAlive(v)
}

func TestTweenEvaluate(t *testing.T) {
	tw := animation.TweenInt(10, 20)
	if got := tw.Evaluate(0); got != 10 {
		t.Errorf("Evaluate(0) = %d, want Begin", got)
	}
	if got := tw.Evaluate(0.5); got != 15 {
		t.Errorf("Evaluate(0.5) = %d, want 15", got)
	}
	if got := tw.Evaluate(1); got != 20 {
		t.Errorf("Evaluate(1) = %d, want End", got)
	}
}

func TestCurvesEndpoints(t *testing.T) {
	for _, curve := range []func(float64) float64{
		animation.LinearCurve, animation.Ease, animation.EaseIn,
		animation.EaseOut, animation.EaseInOut,
	} {
		if got := curve(0); got != 0 {
			t.Errorf("curve(0) = %v, want 0", got)
		}
		if got := curve(1); got != 1 {
			t.Errorf("curve(1) = %v, want 1", got)
		}
	}
}
