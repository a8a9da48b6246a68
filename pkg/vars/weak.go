package vars

import "weak"

// weakOf is the weak reference used by derived and view var kinds: a
// runtime weak pointer to the concrete var struct. The target becomes
// collectable once nothing strongly references the derivation.
type weakOf[V any, PV interface {
	*V
	AnyVar
}] struct {
	p weak.Pointer[V]
}

func downgradeOf[V any, PV interface {
	*V
	AnyVar
}](v PV) AnyWeak {
	return weakOf[V, PV]{p: weak.Make((*V)(v))}
}

func (w weakOf[V, PV]) UpgradeAny() (AnyVar, bool) {
	if sched.opts.WeakUpgradeOnRead == WeakSkip {
		return nil, false
	}
	if v := w.p.Value(); v != nil {
		return PV(v), true
	}
	return nil, false
}
