package updates

import (
	"sync"

	"github.com/go-drift/reactive/pkg/vars"
)

// Dispatch queues a callback to run on the UI goroutine at the start of
// the main driver's next tick. Safe to call from any goroutine; this is
// how background work integrates its results into variables.
func Dispatch(f func()) {
	Main().Dispatch(f)
}

// Dispatch queues a callback for the start of this driver's next tick.
// Safe to call from any goroutine.
func (d *Driver) Dispatch(f func()) {
	if f == nil {
		return
	}
	d.mu.Lock()
	d.inbox = append(d.inbox, f)
	d.mu.Unlock()
	d.requestWake()
}

func (d *Driver) drainInbox() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.inbox
	d.inbox = nil
	return out
}

func (d *Driver) drainRefresh() []func() {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.refresh
	d.refresh = nil
	return out
}

var (
	mainOnce sync.Once
	mainDrv  *Driver
)

// Main returns the process-wide driver. The first call creates it and
// wires the variable scheduler's wake signal to it, so writes queued while
// the host is idle reach the callback registered with [Driver.OnWake].
func Main() *Driver {
	mainOnce.Do(func() {
		mainDrv = New()
		vars.SetWake(mainDrv.requestWake)
	})
	return mainDrv
}
