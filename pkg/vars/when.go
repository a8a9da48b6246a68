package vars

import (
	"weak"

	"github.com/go-drift/reactive/pkg/handle"
)

// WhenArm pairs a boolean condition with the value presented while that
// condition is the first true one.
type WhenArm[T any] struct {
	Cond  Var[bool]
	Value Var[T]
}

// Arm builds a [WhenArm].
func Arm[T any](cond Var[bool], value Var[T]) WhenArm[T] {
	return WhenArm[T]{Cond: cond, Value: value}
}

// whenVar selects the first arm whose condition reads true, falling back
// to the default. Reads, writes, versioning and newness all follow the
// current selection.
type whenVar[T any] struct {
	id   ID
	def  Var[T]
	arms []WhenArm[T]

	// lastSel is the arm index of the current selection, -1 for default.
	// selTick records the tick on which the selection last changed.
	lastSel int
	selTick uint64

	hooks hookList[T]
}

// When returns a variable that reads as the value of the first arm whose
// condition is true, or def when no condition holds. Writes forward to the
// selected source. A condition flip changes the version even if the value
// read afterwards is equal to the one before.
func When[T any](def Var[T], arms ...WhenArm[T]) Var[T] {
	v := &whenVar[T]{id: nextID(), def: def, arms: arms}
	v.lastSel = v.selection()
	v.watchSources()
	return v
}

// selection returns the index of the first true condition, or -1.
func (v *whenVar[T]) selection() int {
	for i, arm := range v.arms {
		if arm.Cond.Get() {
			return i
		}
	}
	return -1
}

// selected returns the source the current selection reads from.
func (v *whenVar[T]) selected() Var[T] {
	if sel := v.selection(); sel >= 0 {
		return v.arms[sel].Value
	}
	return v.def
}

func (v *whenVar[T]) watchSources() {
	w := weak.Make(v)
	for _, arm := range v.arms {
		arm.Cond.Hook(func(bool) bool {
			wv := w.Value()
			if wv == nil {
				return false
			}
			wv.onCondChange()
			return true
		}).Perm()
	}
	hookArm := func(index int, src Var[T]) {
		src.Hook(func(T) bool {
			wv := w.Value()
			if wv == nil {
				return false
			}
			wv.onArmChange(index)
			return true
		}).Perm()
	}
	for i, arm := range v.arms {
		hookArm(i, arm.Value)
	}
	hookArm(-1, v.def)
}

// onCondChange reevaluates the selection after any condition committed.
func (v *whenVar[T]) onCondChange() {
	sel := v.selection()
	if sel == v.lastSel {
		return
	}
	v.lastSel = sel
	v.selTick = sched.tick
	if !v.hooks.empty() {
		v.hooks.notify(v.Get())
	}
}

// onArmChange forwards a source commit when that source is selected.
func (v *whenVar[T]) onArmChange(index int) {
	if v.selection() != index {
		return
	}
	v.lastSel = index
	if !v.hooks.empty() {
		v.hooks.notify(v.Get())
	}
}

func (v *whenVar[T]) VarID() ID      { return v.id }
func (v *whenVar[T]) Writable() bool { return v.selected().Writable() }

func (v *whenVar[T]) Get() T         { return v.selected().Get() }
func (v *whenVar[T]) GetAny() any    { return v.Get() }
func (v *whenVar[T]) With(f func(T)) { f(v.Get()) }

// Version combines every condition's version with the selected source's
// version, so a selection change is observable even when the value is not.
func (v *whenVar[T]) Version() uint64 {
	versions := make([]uint64, 0, len(v.arms)+1)
	for _, arm := range v.arms {
		versions = append(versions, arm.Cond.Version())
	}
	versions = append(versions, v.selected().Version())
	return combineVersions(versions...)
}

func (v *whenVar[T]) LastVersion() uint64 { return v.Version() }

func (v *whenVar[T]) IsNew() bool {
	if v.selTick != 0 && v.selTick == sched.tick {
		return true
	}
	return v.selected().IsNew()
}

func (v *whenVar[T]) Set(value T) error {
	return v.selected().Set(value)
}

func (v *whenVar[T]) SetAny(value any) error {
	t, ok := value.(T)
	if !ok {
		return typeMismatch("vars.When.SetAny", value)
	}
	return v.Set(t)
}

func (v *whenVar[T]) Hook(f func(T) bool) handle.Handle {
	return v.hooks.add(f)
}

func (v *whenVar[T]) HookAny(f func(any) bool) handle.Handle {
	return v.hooks.add(func(t T) bool { return f(t) })
}

func (v *whenVar[T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}
