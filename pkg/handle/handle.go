// Package handle provides subscription lifetime tokens.
//
// A [Handle] represents a claim on a resource (a hook, a binding, an
// animation). The resource stays installed as long as at least one clone of
// the handle is alive. Dropping the last clone, or calling
// [Handle.ForceDrop] on any clone, marks the resource dropped; the resource
// manager observes [Handle.IsDropped] on its next pass and uninstalls it.
//
// [Handle.Perm] pins the resource for the rest of the process; after that
// the clone count no longer matters.
//
// The producer side usually keeps a [Owner]. Dropping the owner force-drops
// every live clone at once, which is how a dying variable revokes all of its
// hooks in one step.
package handle

import "sync/atomic"

const (
	stateNone      uint32 = 0
	statePermanent uint32 = 0b01
	stateForceDrop uint32 = 0b11
)

type core struct {
	state  atomic.Uint32
	clones atomic.Int32 // live non-owner clones
}

// Handle is one strong claim on a resource. The zero Handle is dummy,
// permanently in the dropped state.
//
// Handles are small and safe to copy, but each copy shares the same claim;
// use [Handle.Clone] to take an additional claim.
type Handle struct {
	c *core
}

// Owner is the producer-side claim paired with a resource. Dropping the
// owner force-drops all live handles.
type Owner struct {
	c *core
}

// New creates a resource claim, returning the producer-side owner and the
// first subscriber handle.
func New() (Owner, Handle) {
	c := &core{}
	c.clones.Store(1)
	return Owner{c}, Handle{c}
}

// Dummy returns a handle that is already dropped. Useful as a placeholder
// where an API requires a handle but nothing was installed.
func Dummy() Handle {
	c := &core{}
	c.state.Store(stateForceDrop)
	return Handle{c}
}

// Clone takes an additional claim on the resource.
func (h Handle) Clone() Handle {
	if h.c == nil {
		return h
	}
	h.c.clones.Add(1)
	return h
}

// Perm pins the resource until the process exits. The clone count stops
// mattering; only [Handle.ForceDrop] or dropping the owner can still revoke
// the resource.
func (h Handle) Perm() {
	if h.c == nil {
		return
	}
	h.c.state.Or(statePermanent)
}

// IsPermanent reports whether Perm was called on any clone.
func (h Handle) IsPermanent() bool {
	return h.c != nil && h.c.state.Load() == statePermanent
}

// ForceDrop marks the resource dropped regardless of how many clones are
// still alive.
func (h Handle) ForceDrop() {
	if h.c == nil {
		return
	}
	h.c.state.Store(stateForceDrop)
}

// Drop releases this claim. When the last non-owner claim is released and
// the handle is not permanent, the resource is force-dropped so that weak
// holders cannot resurrect it through the owner's remaining claim.
func (h Handle) Drop() {
	if h.c == nil {
		return
	}
	if h.c.clones.Add(-1) <= 0 && h.c.state.Load() != statePermanent {
		h.c.state.Store(stateForceDrop)
	}
}

// IsDropped reports whether the resource was dropped, either explicitly or
// because the last claim was released.
func (h Handle) IsDropped() bool {
	return h.c == nil || h.c.state.Load() == stateForceDrop
}

// Downgrade returns a weak reference that upgrades only while the resource
// is alive.
func (h Handle) Downgrade() Weak {
	return Weak{h.c}
}

// Weak is a non-owning reference to a handle. The zero Weak never upgrades.
type Weak struct {
	c *core
}

// Upgrade returns a live handle if the resource was not dropped.
func (w Weak) Upgrade() (Handle, bool) {
	if w.c == nil || w.c.state.Load() == stateForceDrop {
		return Handle{}, false
	}
	if w.c.state.Load() != statePermanent && w.c.clones.Load() <= 0 {
		return Handle{}, false
	}
	w.c.clones.Add(1)
	return Handle{w.c}, true
}

// IsDropped reports whether the referenced resource was dropped.
func (w Weak) IsDropped() bool {
	if w.c == nil || w.c.state.Load() == stateForceDrop {
		return true
	}
	return w.c.state.Load() != statePermanent && w.c.clones.Load() <= 0
}

// IsDropped reports whether the owned resource was dropped. The owner's own
// claim does not keep the resource alive.
func (o Owner) IsDropped() bool {
	if o.c == nil {
		return true
	}
	state := o.c.state.Load()
	return state == stateForceDrop || (state != statePermanent && o.c.clones.Load() <= 0)
}

// Drop force-drops every live handle of the owned resource.
func (o Owner) Drop() {
	if o.c == nil {
		return
	}
	o.c.state.Store(stateForceDrop)
}

// Weak returns a weak reference to the owned resource.
func (o Owner) Weak() Weak {
	return Weak{o.c}
}
