package vars

import (
	"weak"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
)

// Shared is the mutable, reference-counted variable kind. All writes are
// queued and applied by the update driver at the start of the next tick;
// reads issued before that tick observe the pre-write value.
//
// Shared is NOT safe for concurrent use. It must only be accessed from the
// UI thread; background goroutines hand writes over with updates.Dispatch.
type Shared[T any] struct {
	core *sharedCore[T]
}

type sharedCore[T any] struct {
	id         ID
	cell       Cell[T]
	lastUpdate uint64 // tick id of the last commit, 0 = never
	hooks      hookList[T]

	// pendingSets tracks queued plain Set writes for coalescing.
	pendingSets []*queuedWrite
}

// New creates a shared variable holding initial.
func New[T any](initial T) *Shared[T] {
	return &Shared[T]{core: &sharedCore[T]{
		id:   nextID(),
		cell: NewCell(initial),
	}}
}

// VarID returns the variable identity.
func (v *Shared[T]) VarID() ID { return v.core.id }

// Writable reports true; shared variables always accept writes.
func (v *Shared[T]) Writable() bool { return true }

// Get returns a copy of the current value.
func (v *Shared[T]) Get() T { return v.core.cell.Read() }

// GetAny returns the current value.
func (v *Shared[T]) GetAny() any { return v.core.cell.Read() }

// With calls f with the current value without copying it out first.
func (v *Shared[T]) With(f func(T)) { v.core.cell.With(f) }

// Version returns the cell version; it increments once per accepted write.
func (v *Shared[T]) Version() uint64 { return v.core.cell.Version() }

// LastVersion returns the version as of the last completed commit. Within
// one tick it equals Version.
func (v *Shared[T]) LastVersion() uint64 { return v.core.cell.Version() }

// IsNew reports whether the value changed during the current tick.
func (v *Shared[T]) IsNew() bool {
	return v.core.isNew()
}

func (c *sharedCore[T]) isNew() bool {
	return c.lastUpdate != 0 && c.lastUpdate == sched.tick
}

// Set queues a write replacing the value.
func (v *Shared[T]) Set(value T) error {
	v.core.enqueueSet(value)
	return nil
}

// SetAny queues a write; value must be a T.
func (v *Shared[T]) SetAny(value any) error {
	t, ok := value.(T)
	if !ok {
		return typeMismatch("vars.Shared.SetAny", value)
	}
	return v.Set(t)
}

// SetIfNE queues a write that only applies (and only bumps the version) if
// the new value differs from the value at apply time.
func (v *Shared[T]) SetIfNE(value T) error {
	return v.Modify(func(current *T) bool {
		if deepEqual(*current, value) {
			return false
		}
		*current = value
		return true
	})
}

// Modify queues an in-place mutation. If f reports no observable change the
// version is not incremented and hooks do not run. Modify writes are never
// coalesced away.
func (v *Shared[T]) Modify(f func(value *T) bool) error {
	c := v.core
	c.checkReentrant()
	enqueue(&queuedWrite{apply: func(tick uint64) bool {
		_, changed := c.cell.Modify(f)
		if !changed {
			return false
		}
		c.commit(tick)
		return true
	}})
	return nil
}

// Hook registers an observer called after each accepted write with the new
// value. Returning false unregisters it; dropping the returned handle does
// the same on the next fan-out.
func (v *Shared[T]) Hook(f func(value T) bool) handle.Handle {
	return v.core.hooks.add(f)
}

// HookAny registers a type-erased observer; see Hook.
func (v *Shared[T]) HookAny(f func(value any) bool) handle.Handle {
	return v.core.hooks.add(func(value T) bool { return f(value) })
}

// Downgrade returns a weak reference to this variable. The target becomes
// collectable once no strong references remain; writes through a dead weak
// reference are silent no-ops.
func (v *Shared[T]) Downgrade() Weak[T] {
	return Weak[T]{p: weak.Make(v.core)}
}

// DowngradeAny returns a type-erased weak reference.
func (v *Shared[T]) DowngradeAny() AnyWeak {
	return v.Downgrade()
}

// ReadOnly returns a read-only view sharing this variable's identity and
// version.
func (v *Shared[T]) ReadOnly() Var[T] {
	return &readOnlyVar[T]{src: v}
}

func (c *sharedCore[T]) checkReentrant() {
	if c.hooks.notifying && sched.opts.ReentrantWrite == ReentrantPanic {
		panic(&errors.VarError{
			Op:   "vars.Shared.Set",
			Kind: errors.KindReentrant,
			Err:  errors.ErrReentrantWrite,
		})
	}
}

func (c *sharedCore[T]) enqueueSet(value T) {
	c.checkReentrant()

	if max := sched.opts.MaxQueuedWritesPerVar; max > 0 && len(c.pendingSets) >= max {
		// Coalesce to the newest writes: drop the oldest queued Set.
		c.pendingSets[0].skipped = true
		c.pendingSets = c.pendingSets[1:]
	}

	w := &queuedWrite{}
	w.apply = func(tick uint64) bool {
		c.dropPending(w)
		c.cell.Write(value)
		c.commit(tick)
		return true
	}
	c.pendingSets = append(c.pendingSets, w)
	enqueue(w)
}

func (c *sharedCore[T]) dropPending(w *queuedWrite) {
	for i, p := range c.pendingSets {
		if p == w {
			c.pendingSets = append(c.pendingSets[:i], c.pendingSets[i+1:]...)
			return
		}
	}
}

func (c *sharedCore[T]) commit(tick uint64) {
	c.lastUpdate = tick
	if !c.hooks.empty() {
		c.hooks.notify(c.cell.Read())
	}
}

// Weak is a weak reference to a [Shared] variable.
type Weak[T any] struct {
	p weak.Pointer[sharedCore[T]]
}

// Upgrade returns the variable while it is still strongly referenced
// somewhere. Under the WeakSkip policy it always reports false.
func (w Weak[T]) Upgrade() (*Shared[T], bool) {
	if sched.opts.WeakUpgradeOnRead == WeakSkip {
		return nil, false
	}
	core := w.p.Value()
	if core == nil {
		return nil, false
	}
	return &Shared[T]{core: core}, true
}

// UpgradeAny implements [AnyWeak].
func (w Weak[T]) UpgradeAny() (AnyVar, bool) {
	v, ok := w.Upgrade()
	if !ok {
		return nil, false
	}
	return v, true
}

// Set writes through the weak reference. Writes to a collected target are
// silently ignored.
func (w Weak[T]) Set(value T) {
	if v, ok := w.Upgrade(); ok {
		_ = v.Set(value)
	}
}

// Get reads through the weak reference.
func (w Weak[T]) Get() (T, bool) {
	if v, ok := w.Upgrade(); ok {
		return v.Get(), true
	}
	var zero T
	return zero, false
}
