// Package testing provides a test harness for reactive variables.
//
// # Quick Start
//
// Create a harness, queue writes, and pump ticks:
//
//	func TestCounter(t *testing.T) {
//	    h := rxtest.New(t)
//	    count := vars.New(0)
//
//	    count.Set(1)
//	    h.Pump()
//
//	    if count.Get() != 1 {
//	        t.Error("write did not commit")
//	    }
//	}
//
// # Animation Testing
//
// The harness installs a [FakeClock] as the animation time source, so
// animations advance only when the test says so:
//
//	animation.EaseTo(h.Driver, opacity, 1.0, animation.Options{Duration: time.Second})
//	h.Advance(500 * time.Millisecond)
//	h.Pump()
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import rxtest "github.com/go-drift/reactive/pkg/testing"
package testing
