// Package updates runs the per-tick update pipeline that commits variable
// writes and tells the host what downstream work became necessary.
//
// A host (a widget runtime, a game loop, a test) owns one [Driver] and
// calls [Driver.OnTick] once per frame, plus whenever the driver wakes it
// through the callback registered with [Driver.OnWake]. Everything inside
// the driver runs on the host's UI goroutine; the only goroutine-safe
// entry points are [Driver.Dispatch] and [Driver.RequestRefresh].
package updates

import (
	"sync"
	"sync/atomic"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
	"github.com/go-drift/reactive/pkg/vars"
)

// Invalidations are the downstream work flags accumulated during one tick.
// The host schedules the matching passes and the flags reset on return.
type Invalidations struct {
	// Update is set whenever any watched variable changed.
	Update bool
	// Layout requests a layout pass.
	Layout bool
	// Render requests a repaint.
	Render bool
	// Info requests an info/semantics rebuild.
	Info bool
}

// Any reports whether any flag is set.
func (i Invalidations) Any() bool {
	return i.Update || i.Layout || i.Render || i.Info
}

func (i *Invalidations) merge(o Invalidations) {
	i.Update = i.Update || o.Update
	i.Layout = i.Layout || o.Layout
	i.Render = i.Render || o.Render
	i.Info = i.Info || o.Info
}

type watch struct {
	target vars.AnyWeak
	h      handle.Weak
	flags  Invalidations
	onNew  func()
}

type retained struct {
	h handle.Weak
	f func() bool
}

// Driver owns the update pipeline for one scope and its children.
type Driver struct {
	mu      sync.Mutex
	inbox   []func()
	refresh []func()

	retained []*retained
	watches  []*watch
	children []*Driver

	inval       Invalidations
	wake        func()
	wakePending atomic.Bool
}

// New creates a detached driver. Hosts normally use [Main]; detached
// drivers are for tests and for embedding under another update loop.
func New() *Driver {
	return &Driver{}
}

// NewChild creates a driver ticked by this one after its own watches
// reconcile. Child invalidations bubble up into the parent's result.
func (d *Driver) NewChild() *Driver {
	c := New()
	d.children = append(d.children, c)
	return c
}

// RemoveChild detaches a child created with [Driver.NewChild].
func (d *Driver) RemoveChild(c *Driver) {
	for i, got := range d.children {
		if got == c {
			d.children = append(d.children[:i], d.children[i+1:]...)
			return
		}
	}
}

// OnWake registers the host callback invoked when work is queued while the
// driver is idle. It may be called from any goroutine; hosts typically use
// it to schedule an extraordinary frame.
func (d *Driver) OnWake(f func()) {
	d.wake = f
}

// requestWake coalesces wake signals until the next tick runs.
func (d *Driver) requestWake() {
	if d.wake != nil && d.wakePending.CompareAndSwap(false, true) {
		d.wake()
	}
}

// RequestRefresh queues a source refresh (a config file changed on disk, a
// platform setting flipped). Refreshers run early in the next tick and
// translate external state into variable writes. Safe to call from any
// goroutine.
func (d *Driver) RequestRefresh(f func()) {
	if f == nil {
		return
	}
	d.mu.Lock()
	d.refresh = append(d.refresh, f)
	d.mu.Unlock()
	d.requestWake()
}

// Retain installs a task run once per tick until it returns false or its
// handle is dropped. Animations and polled futures are retained tasks.
func (d *Driver) Retain(f func() bool) handle.Handle {
	_, h := handle.New()
	d.retained = append(d.retained, &retained{h: h.Downgrade(), f: f})
	return h
}

// Watch subscribes the driver to v. On every tick in which v changed,
// onNew runs (it may be nil) and flags are merged into the tick's
// invalidations. The watch holds v weakly and drops itself when v is
// collected or the returned handle is dropped.
func (d *Driver) Watch(v vars.AnyVar, flags Invalidations, onNew func()) handle.Handle {
	_, h := handle.New()
	d.watches = append(d.watches, &watch{
		target: v.DowngradeAny(),
		h:      h.Downgrade(),
		flags:  flags,
		onNew:  onNew,
	})
	return h
}

// OnTick runs one update: dispatched callbacks, refresh requests and
// retained tasks for this driver and its children, then the single
// variable commit, then watch reconciliation top-down. It returns the
// accumulated invalidation flags and clears them.
//
// Only the driver at the top of a tree may be ticked; children share the
// commit of their root, so the whole tree observes one consistent tick.
func (d *Driver) OnTick() Invalidations {
	d.prepare()
	changed := vars.ApplyUpdates()
	return d.reconcile(changed)
}

// prepare runs the enqueue-only steps of the pipeline. Everything here may
// queue writes; nothing commits.
func (d *Driver) prepare() {
	d.wakePending.Store(false)

	for _, f := range d.drainInbox() {
		runGuarded("updates.dispatch", f)
	}
	for _, f := range d.drainRefresh() {
		runGuarded("updates.refresh", f)
	}

	d.runRetained()

	for _, c := range d.children {
		c.prepare()
	}
}

// reconcile dispatches watch callbacks and collects invalidations for this
// driver and its children.
func (d *Driver) reconcile(changed bool) Invalidations {
	if changed {
		d.reconcileWatches()
	}
	for _, c := range d.children {
		d.inval.merge(c.reconcile(changed))
	}

	out := d.inval
	d.inval = Invalidations{}
	return out
}

// NeedsTick reports whether queued work is waiting for the next tick.
// Hosts that pause their frame loop poll this before sleeping.
func (d *Driver) NeedsTick() bool {
	d.mu.Lock()
	queued := len(d.inbox) > 0 || len(d.refresh) > 0
	d.mu.Unlock()
	if queued || len(d.retained) > 0 || vars.HasPendingUpdates() {
		return true
	}
	for _, c := range d.children {
		if c.NeedsTick() {
			return true
		}
	}
	return false
}

func (d *Driver) runRetained() {
	alive := d.retained[:0]
	for _, r := range d.retained {
		if r.h.IsDropped() {
			continue
		}
		if r.f() {
			alive = append(alive, r)
		}
	}
	d.retained = alive
}

func (d *Driver) reconcileWatches() {
	alive := d.watches[:0]
	for _, w := range d.watches {
		if w.h.IsDropped() {
			continue
		}
		v, ok := w.target.UpgradeAny()
		if !ok {
			continue
		}
		if v.IsNew() {
			d.inval.Update = true
			d.inval.merge(w.flags)
			if w.onNew != nil {
				runGuarded("updates.watch", w.onNew)
			}
		}
		alive = append(alive, w)
	}
	d.watches = alive
}

// runGuarded keeps one failing callback from killing the tick.
func runGuarded(op string, f func()) {
	defer errors.Recover(op)
	f()
}
