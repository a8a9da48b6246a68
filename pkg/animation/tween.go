package animation

import "time"

// Tween interpolates between Begin and End values based on animation progress.
//
// Tween maps the 0-1 range of an animation to any value range or type. Use
// the helper constructors ([TweenFloat64], [TweenInt], [TweenDuration]) for
// common types, or create custom tweens with a Lerp function.
type Tween[T any] struct {
	// Begin is the starting value (when t = 0).
	Begin T
	// End is the ending value (when t = 1).
	End T
	// Lerp linearly interpolates between Begin and End. Receives the begin value,
	// end value, and progress t in [0, 1]. Returns the interpolated value.
	Lerp func(a, b T, t float64) T
}

// Evaluate returns the interpolated value at t (0.0 to 1.0).
func (tw *Tween[T]) Evaluate(t float64) T {
	if tw.Lerp == nil {
		return tw.End
	}
	return tw.Lerp(tw.Begin, tw.End, t)
}

// LerpFloat64 linearly interpolates between two float64 values.
func LerpFloat64(a, b float64, t float64) float64 {
	return a + (b-a)*t
}

// LerpInt linearly interpolates between two int values.
func LerpInt(a, b int, t float64) int {
	return a + int(float64(b-a)*t)
}

// LerpDuration linearly interpolates between two durations.
func LerpDuration(a, b time.Duration, t float64) time.Duration {
	return a + time.Duration(float64(b-a)*t)
}

// TweenFloat64 creates a tween for float64 values.
func TweenFloat64(begin, end float64) *Tween[float64] {
	return &Tween[float64]{Begin: begin, End: end, Lerp: LerpFloat64}
}

// TweenInt creates a tween for int values.
func TweenInt(begin, end int) *Tween[int] {
	return &Tween[int]{Begin: begin, End: end, Lerp: LerpInt}
}

// TweenDuration creates a tween for duration values.
func TweenDuration(begin, end time.Duration) *Tween[time.Duration] {
	return &Tween[time.Duration]{Begin: begin, End: end, Lerp: LerpDuration}
}
