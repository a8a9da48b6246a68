package vars

import (
	"weak"

	"github.com/go-drift/reactive/pkg/handle"
)

// mergeVar derives one value from N inputs. Its version is a hash-combine
// of the input versions, so it moves exactly when any input moves.
type mergeVar[T any] struct {
	id     ID
	inputs []AnyVar
	f      func(values []any) T

	cache        T
	cacheVersion uint64
	cacheValid   bool

	hooks hookList[T]
}

// MergeAny returns a read-only variable computing f over the current values
// of inputs. The derivation holds strong references to every input; the
// inputs observe the derivation weakly, so dropping all references to the
// merge var releases it and its input hooks.
//
// Use [Merge2] or [Merge3] for typed call sites.
func MergeAny[T any](f func(values []any) T, inputs ...AnyVar) Var[T] {
	m := &mergeVar[T]{id: nextID(), inputs: inputs, f: f}
	m.watchInputs()
	return m
}

// Merge2 merges two typed variables.
func Merge2[A, B, T any](a Var[A], b Var[B], f func(A, B) T) Var[T] {
	return MergeAny(func(values []any) T {
		return f(values[0].(A), values[1].(B))
	}, a, b)
}

// Merge3 merges three typed variables.
func Merge3[A, B, C, T any](a Var[A], b Var[B], c Var[C], f func(A, B, C) T) Var[T] {
	return MergeAny(func(values []any) T {
		return f(values[0].(A), values[1].(B), values[2].(C))
	}, a, b, c)
}

// watchInputs installs a hook on every input that re-notifies this var's
// own hooks. The input hooks hold the merge var weakly and unregister
// themselves once it is collected.
func (v *mergeVar[T]) watchInputs() {
	w := weak.Make(v)
	for _, in := range v.inputs {
		in.HookAny(func(any) bool {
			m := w.Value()
			if m == nil {
				return false
			}
			m.onInputChange()
			return true
		}).Perm()
	}
}

// onInputChange runs during an input's fan-out, after that input committed.
// A merge hook may therefore fire once per changed input within a tick; it
// always observes the latest merged value at call time.
func (v *mergeVar[T]) onInputChange() {
	if !v.hooks.empty() {
		v.hooks.notify(v.Get())
	}
}

func (v *mergeVar[T]) VarID() ID      { return v.id }
func (v *mergeVar[T]) Writable() bool { return false }

func (v *mergeVar[T]) Get() T {
	if cv := v.Version(); !v.cacheValid || v.cacheVersion != cv {
		values := make([]any, len(v.inputs))
		for i, in := range v.inputs {
			values[i] = in.GetAny()
		}
		v.cache = v.f(values)
		v.cacheVersion = cv
		v.cacheValid = true
	}
	return v.cache
}

func (v *mergeVar[T]) GetAny() any    { return v.Get() }
func (v *mergeVar[T]) With(f func(T)) { f(v.Get()) }

func (v *mergeVar[T]) Version() uint64 {
	versions := make([]uint64, len(v.inputs))
	for i, in := range v.inputs {
		versions[i] = in.Version()
	}
	return combineVersions(versions...)
}

func (v *mergeVar[T]) LastVersion() uint64 { return v.Version() }

func (v *mergeVar[T]) IsNew() bool {
	for _, in := range v.inputs {
		if in.IsNew() {
			return true
		}
	}
	return false
}

func (v *mergeVar[T]) Set(T) error {
	return readOnlyError("vars.Merge.Set")
}

func (v *mergeVar[T]) SetAny(any) error {
	return readOnlyError("vars.Merge.SetAny")
}

func (v *mergeVar[T]) Hook(f func(T) bool) handle.Handle {
	return v.hooks.add(f)
}

func (v *mergeVar[T]) HookAny(f func(any) bool) handle.Handle {
	return v.hooks.add(func(t T) bool { return f(t) })
}

func (v *mergeVar[T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}
