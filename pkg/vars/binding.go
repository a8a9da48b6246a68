package vars

import "github.com/go-drift/reactive/pkg/handle"

// binding is one installed sync rule. The scheduler runs every live
// binding after each write drain until no binding produces a new write,
// so bound vars converge within the tick that changed them.
type binding struct {
	w    handle.Weak
	step func() bool
}

// run reports whether the binding stays installed.
func (b *binding) run() bool {
	if b.w.IsDropped() {
		return false
	}
	return b.step()
}

func installBinding(step func() bool) handle.Handle {
	_, h := handle.New()
	sched.bindings = append(sched.bindings, &binding{w: h.Downgrade(), step: step})
	return h
}

func upgradeVar[T any](w AnyWeak) (Var[T], bool) {
	a, ok := w.UpgradeAny()
	if !ok {
		return nil, false
	}
	v, ok := a.(Var[T])
	return v, ok
}

// syncInto writes f(src) into dst unless dst already holds that value.
// The equality gate both suppresses no-op writes and breaks echo cycles
// in two-way bindings. Write failures (a read-only destination) keep the
// binding installed; Set reports them.
func syncInto[S, T any](src Var[S], dst Var[T], f func(S) T) {
	nv := f(src.Get())
	if deepEqual(nv, dst.Get()) {
		return
	}
	_ = dst.Set(nv)
}

// BindMap keeps dst equal to f(src). The destination is synced once at
// install, then after every tick in which src changed. The binding holds
// both vars weakly and uninstalls itself when either is collected or when
// the returned handle is dropped.
func BindMap[S, T any](src Var[S], dst Var[T], f func(S) T) handle.Handle {
	syncInto(src, dst, f)
	srcW, dstW := src.DowngradeAny(), dst.DowngradeAny()
	return installBinding(func() bool {
		s, ok := upgradeVar[S](srcW)
		if !ok {
			return false
		}
		d, ok := upgradeVar[T](dstW)
		if !ok {
			return false
		}
		if s.IsNew() {
			syncInto(s, d, f)
		}
		return true
	})
}

// Bind keeps dst equal to src.
func Bind[T any](src, dst Var[T]) handle.Handle {
	return BindMap(src, dst, func(v T) T { return v })
}

// BindBidi keeps a and b in sync through the mapping pair f and g. The
// initial sync runs a into b. Dropping the returned handle uninstalls
// both directions at once.
//
// f and g must be inverses of each other; a pair that never converges on
// a fixed point keeps the update loop rewriting both vars forever.
func BindBidi[S, T any](a Var[S], b Var[T], f func(S) T, g func(T) S) handle.Handle {
	syncInto(a, b, f)
	aw, bw := a.DowngradeAny(), b.DowngradeAny()
	return installBinding(func() bool {
		av, ok := upgradeVar[S](aw)
		if !ok {
			return false
		}
		bv, ok := upgradeVar[T](bw)
		if !ok {
			return false
		}
		if av.IsNew() {
			syncInto(av, bv, f)
		}
		if bv.IsNew() {
			syncInto(bv, av, g)
		}
		return true
	})
}

// BindTwoWay keeps two vars of the same type equal in both directions.
func BindTwoWay[T any](a, b Var[T]) handle.Handle {
	id := func(v T) T { return v }
	return BindBidi(a, b, id, id)
}
