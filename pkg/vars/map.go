package vars

import "github.com/go-drift/reactive/pkg/handle"

// mapVar derives a value from a single source through a pure function.
// Its version is the source's version; the mapped value is cached and
// recomputed lazily when the source version moves.
type mapVar[S, T any] struct {
	id  ID
	src Var[S]
	f   func(S) T

	cache        T
	cacheVersion uint64
	cacheValid   bool
}

// Map returns a read-only variable whose value is f applied to src. The
// derivation holds a strong reference to src; f must be a total, pure
// function.
func Map[S, T any](src Var[S], f func(S) T) Var[T] {
	return &mapVar[S, T]{id: nextID(), src: src, f: f}
}

func (v *mapVar[S, T]) VarID() ID      { return v.id }
func (v *mapVar[S, T]) Writable() bool { return false }

func (v *mapVar[S, T]) Get() T {
	if sv := v.src.Version(); !v.cacheValid || v.cacheVersion != sv {
		v.cache = v.f(v.src.Get())
		v.cacheVersion = sv
		v.cacheValid = true
	}
	return v.cache
}

func (v *mapVar[S, T]) GetAny() any         { return v.Get() }
func (v *mapVar[S, T]) With(f func(T))      { f(v.Get()) }
func (v *mapVar[S, T]) Version() uint64     { return v.src.Version() }
func (v *mapVar[S, T]) LastVersion() uint64 { return v.src.LastVersion() }
func (v *mapVar[S, T]) IsNew() bool         { return v.src.IsNew() }

func (v *mapVar[S, T]) Set(T) error {
	return readOnlyError("vars.Map.Set")
}

func (v *mapVar[S, T]) SetAny(any) error {
	return readOnlyError("vars.Map.SetAny")
}

// Hook observes the source and delivers the mapped value.
func (v *mapVar[S, T]) Hook(f func(T) bool) handle.Handle {
	m := v
	return v.src.Hook(func(s S) bool {
		return f(m.f(s))
	})
}

func (v *mapVar[S, T]) HookAny(f func(any) bool) handle.Handle {
	return v.Hook(func(t T) bool { return f(t) })
}

func (v *mapVar[S, T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}

// mapBidiVar is a mapVar whose writes go back through a reverse function.
type mapBidiVar[S, T any] struct {
	mapVar[S, T]
	back func(T) S
}

// MapBidi returns a variable reading through f and writing through g: a
// write of x queues src.Set(g(x)), so after the tick the bidi var reads
// f(g(x)). The version follows the source.
func MapBidi[S, T any](src Var[S], f func(S) T, g func(T) S) Var[T] {
	return &mapBidiVar[S, T]{
		mapVar: mapVar[S, T]{id: nextID(), src: src, f: f},
		back:   g,
	}
}

func (v *mapBidiVar[S, T]) Writable() bool { return v.src.Writable() }

func (v *mapBidiVar[S, T]) Set(value T) error {
	if !v.src.Writable() {
		return readOnlyError("vars.MapBidi.Set")
	}
	return v.src.Set(v.back(value))
}

func (v *mapBidiVar[S, T]) SetAny(value any) error {
	t, ok := value.(T)
	if !ok {
		return typeMismatch("vars.MapBidi.SetAny", value)
	}
	return v.Set(t)
}

func (v *mapBidiVar[S, T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}
