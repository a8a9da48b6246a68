package updates_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/go-drift/reactive/pkg/updates"
	"github.com/go-drift/reactive/pkg/vars"
)

func TestDriverCommitsWrites(t *testing.T) {
	d := updates.New()
	v := vars.New(0)

	v.Set(3)
	d.OnTick()

	if got := v.Get(); got != 3 {
		t.Errorf("Get() = %d after a tick, want 3", got)
	}
}

func TestDispatchRunsOnTick(t *testing.T) {
	d := updates.New()
	v := vars.New(0)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		d.Dispatch(func() { v.Set(42) })
	}()
	wg.Wait()

	if !d.NeedsTick() {
		t.Error("NeedsTick false with a queued dispatch")
	}

	d.OnTick()
	if got := v.Get(); got != 42 {
		t.Errorf("Get() = %d, want the dispatched write 42", got)
	}
}

func TestRefreshRunsBeforeCommit(t *testing.T) {
	d := updates.New()
	v := vars.New("stale")

	d.RequestRefresh(func() { v.Set("fresh") })
	d.OnTick()

	if got := v.Get(); got != "fresh" {
		t.Errorf("Get() = %q, want the refreshed value", got)
	}
}

func TestRetainedTaskRunsUntilFalse(t *testing.T) {
	d := updates.New()

	runs := 0
	h := d.Retain(func() bool {
		runs++
		return runs < 3
	})
	defer h.Drop()

	for range 5 {
		d.OnTick()
	}
	if runs != 3 {
		t.Errorf("retained task ran %d times, want 3", runs)
	}
}

func TestRetainedTaskDroppedByHandle(t *testing.T) {
	d := updates.New()

	runs := 0
	h := d.Retain(func() bool {
		runs++
		return true
	})

	d.OnTick()
	h.Drop()
	d.OnTick()

	if runs != 1 {
		t.Errorf("retained task ran %d times after drop, want 1", runs)
	}
}

func TestWatchFiresAndFlags(t *testing.T) {
	d := updates.New()
	v := vars.New(0)

	fired := 0
	h := d.Watch(v, updates.Invalidations{Layout: true}, func() { fired++ })
	defer h.Drop()

	v.Set(1)
	inv := d.OnTick()

	if fired != 1 {
		t.Errorf("watch fired %d times, want 1", fired)
	}
	if !inv.Update || !inv.Layout {
		t.Errorf("invalidations = %+v, want Update and Layout set", inv)
	}
	if inv.Render || inv.Info {
		t.Errorf("invalidations = %+v, unrequested flags set", inv)
	}

	// Flags clear on read; a quiet tick reports nothing.
	if inv := d.OnTick(); inv.Any() {
		t.Errorf("quiet tick reported %+v", inv)
	}
	runtime.KeepAlive(v)
}

func TestWatchDroppedByHandle(t *testing.T) {
	d := updates.New()
	v := vars.New(0)

	fired := 0
	h := d.Watch(v, updates.Invalidations{}, func() { fired++ })

	v.Set(1)
	d.OnTick()
	h.Drop()
	v.Set(2)
	d.OnTick()

	if fired != 1 {
		t.Errorf("watch fired %d times after drop, want 1", fired)
	}
	runtime.KeepAlive(v)
}

func TestChildDriverTicksWithParent(t *testing.T) {
	parent := updates.New()
	child := parent.NewChild()
	v := vars.New(0)

	h := child.Watch(v, updates.Invalidations{Render: true}, nil)
	defer h.Drop()

	v.Set(1)
	inv := parent.OnTick()

	if !inv.Render {
		t.Errorf("child invalidations did not bubble up: %+v", inv)
	}

	parent.RemoveChild(child)
	v.Set(2)
	if inv := parent.OnTick(); inv.Render {
		t.Error("removed child still contributed invalidations")
	}
	runtime.KeepAlive(v)
}

func TestWakeFiresOnceUntilTick(t *testing.T) {
	d := updates.New()

	wakes := 0
	d.OnWake(func() { wakes++ })

	d.Dispatch(func() {})
	d.Dispatch(func() {})
	if wakes != 1 {
		t.Errorf("wake fired %d times for two queued callbacks, want 1", wakes)
	}

	d.OnTick()
	d.Dispatch(func() {})
	if wakes != 2 {
		t.Errorf("wake fired %d times after a tick re-armed it, want 2", wakes)
	}
}

func TestDeferredWriteWakesHost(t *testing.T) {
	d := updates.New()
	wakes := 0
	vars.SetWake(func() { wakes++ })
	t.Cleanup(func() { vars.SetWake(nil) })

	v := vars.New(0)
	other := vars.New(0)
	v.Hook(func(n int) bool {
		other.Set(n * 10)
		return true
	})

	v.Set(1)
	before := wakes
	d.OnTick()

	// The hook's write was deferred; a wake-only host needs a fresh
	// signal to schedule the tick that commits it.
	if !d.NeedsTick() {
		t.Fatal("deferred write should leave the driver needing a tick")
	}
	if wakes == before {
		t.Error("no wake after a tick left deferred writes queued")
	}

	d.OnTick()
	if got := other.Get(); got != 10 {
		t.Errorf("other = %d after the committing tick, want 10", got)
	}
	runtime.KeepAlive(v)
}

func TestPanickingDispatchDoesNotKillTick(t *testing.T) {
	d := updates.New()
	v := vars.New(0)

	d.Dispatch(func() { panic("bad callback") })
	d.Dispatch(func() { v.Set(1) })
	d.OnTick()

	if got := v.Get(); got != 1 {
		t.Errorf("Get() = %d, want the callback after the panic to run", got)
	}
}
