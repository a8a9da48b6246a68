package vars_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/go-drift/reactive/pkg/vars"
)

// Bindings reference their endpoints weakly, so tests pin the vars they
// only write to, making sure a collection cannot race the final tick.

func TestBindPropagatesSameTick(t *testing.T) {
	a := vars.New(0)
	b := vars.New(0)
	h := vars.Bind[int](a, b)
	defer h.Drop()

	a.Set(5)
	tick()

	if got := b.Get(); got != 5 {
		t.Errorf("b = %d on the tick a changed, want 5", got)
	}
	runtime.KeepAlive(a)
}

func TestBindIsOneWay(t *testing.T) {
	a := vars.New(0)
	b := vars.New(0)
	h := vars.Bind[int](a, b)
	defer h.Drop()
	tick()

	b.Set(9)
	tick()

	if got := a.Get(); got != 0 {
		t.Errorf("a = %d after writing the one-way target, want 0", got)
	}
	if got := b.Get(); got != 9 {
		t.Errorf("b = %d, want 9", got)
	}
}

func TestBindTwoWay(t *testing.T) {
	a := vars.New(0)
	b := vars.New(0)
	h := vars.BindTwoWay[int](a, b)

	a.Set(5)
	tick()
	if got := b.Get(); got != 5 {
		t.Errorf("b = %d, want 5", got)
	}

	b.Set(7)
	tick()
	if got := a.Get(); got != 7 {
		t.Errorf("a = %d, want 7", got)
	}

	h.Drop()
	a.Set(100)
	tick()
	if got := b.Get(); got != 7 {
		t.Errorf("b = %d after handle drop, want 7", got)
	}
}

func TestBindInitialSync(t *testing.T) {
	a := vars.New(3)
	b := vars.New(0)
	h := vars.Bind[int](a, b)
	defer h.Drop()
	tick()

	if got := b.Get(); got != 3 {
		t.Errorf("b = %d after install tick, want the source value 3", got)
	}
}

func TestBindEqualVarsProduceNoWrites(t *testing.T) {
	a := vars.New(4)
	b := vars.New(4)
	h := vars.BindTwoWay[int](a, b)
	defer h.Drop()
	tick()

	va, vb := a.Version(), b.Version()
	tick()
	tick()

	if a.Version() != va || b.Version() != vb {
		t.Error("binding between equal vars kept writing")
	}
}

func TestBindMapTransforms(t *testing.T) {
	count := vars.New(2)
	label := vars.New("")
	h := vars.BindMap[int, string](count, label, func(n int) string {
		return fmt.Sprintf("%d items", n)
	})
	defer h.Drop()
	tick()

	if got := label.Get(); got != "2 items" {
		t.Errorf("label = %q after install, want 2 items", got)
	}

	count.Set(6)
	tick()
	if got := label.Get(); got != "6 items" {
		t.Errorf("label = %q, want 6 items", got)
	}
	runtime.KeepAlive(count)
}

func TestBindBidiMapped(t *testing.T) {
	celsius := vars.New(0.0)
	fahrenheit := vars.New(0.0)
	h := vars.BindBidi[float64, float64](celsius, fahrenheit,
		func(c float64) float64 { return c*9/5 + 32 },
		func(f float64) float64 { return (f - 32) * 5 / 9 },
	)
	defer h.Drop()
	tick()

	if got := fahrenheit.Get(); got != 32 {
		t.Errorf("fahrenheit = %v after initial sync, want 32", got)
	}

	celsius.Set(100)
	tick()
	if got := fahrenheit.Get(); got != 212 {
		t.Errorf("fahrenheit = %v, want 212", got)
	}

	fahrenheit.Set(32)
	tick()
	if got := celsius.Get(); got != 0 {
		t.Errorf("celsius = %v, want 0", got)
	}
	runtime.KeepAlive(fahrenheit)
}

func TestBindReadOnlyTargetKeepsOtherDirection(t *testing.T) {
	a := vars.New(1)
	roBacking := vars.New(1)
	ro := vars.ReadOnly[int](roBacking)
	h := vars.BindTwoWay[int](a, ro)
	defer h.Drop()
	tick()

	// a -> ro fails silently; ro -> a must keep working.
	roBacking.Set(5)
	tick()
	if got := a.Get(); got != 5 {
		t.Errorf("a = %d after the readable direction fired, want 5", got)
	}

	a.Set(9)
	tick()
	if got := roBacking.Get(); got != 5 {
		t.Errorf("read-only side = %d, want unchanged 5", got)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(ro)
}

func TestBindChainConvergesInOneTick(t *testing.T) {
	a := vars.New(0)
	b := vars.New(0)
	c := vars.New(0)
	h1 := vars.Bind[int](a, b)
	h2 := vars.Bind[int](b, c)
	defer h1.Drop()
	defer h2.Drop()
	tick()

	a.Set(3)
	tick()

	if got := c.Get(); got != 3 {
		t.Errorf("c = %d on the tick a changed, want the chained value 3", got)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
