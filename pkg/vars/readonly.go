package vars

import (
	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
)

// readOnlyVar forwards every read to its source and rejects writes. It
// shares the source's identity and version.
type readOnlyVar[T any] struct {
	src Var[T]
}

// ReadOnly wraps v in a read-only view. Vars that are already read-only
// are returned unchanged.
func ReadOnly[T any](v Var[T]) Var[T] {
	if !v.Writable() {
		return v
	}
	return &readOnlyVar[T]{src: v}
}

func (v *readOnlyVar[T]) VarID() ID           { return v.src.VarID() }
func (v *readOnlyVar[T]) Writable() bool      { return false }
func (v *readOnlyVar[T]) Get() T              { return v.src.Get() }
func (v *readOnlyVar[T]) GetAny() any         { return v.src.GetAny() }
func (v *readOnlyVar[T]) With(f func(T))      { v.src.With(f) }
func (v *readOnlyVar[T]) Version() uint64     { return v.src.Version() }
func (v *readOnlyVar[T]) LastVersion() uint64 { return v.src.LastVersion() }
func (v *readOnlyVar[T]) IsNew() bool         { return v.src.IsNew() }

func (v *readOnlyVar[T]) Set(T) error {
	return readOnlyError("vars.ReadOnly.Set")
}

func (v *readOnlyVar[T]) SetAny(any) error {
	return readOnlyError("vars.ReadOnly.SetAny")
}

func (v *readOnlyVar[T]) Hook(f func(T) bool) handle.Handle {
	return v.src.Hook(f)
}

func (v *readOnlyVar[T]) HookAny(f func(any) bool) handle.Handle {
	return v.src.HookAny(f)
}

func (v *readOnlyVar[T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}

// readOnlyError builds and debug-reports the rejected-write error. The
// report happens once per site; the error is always returned.
func readOnlyError(op string) error {
	err := &errors.VarError{Op: op, Kind: errors.KindReadOnly, Err: errors.ErrReadOnly}
	errors.ReportOnce(op, err)
	return err
}

// Const returns a read-only variable that always holds value at version 0.
// Handy for when-var arms and context defaults that never change.
func Const[T any](value T) Var[T] {
	return &constVar[T]{id: nextID(), value: value}
}

type constVar[T any] struct {
	id    ID
	value T
}

func (v *constVar[T]) VarID() ID           { return v.id }
func (v *constVar[T]) Writable() bool      { return false }
func (v *constVar[T]) Get() T              { return v.value }
func (v *constVar[T]) GetAny() any         { return v.value }
func (v *constVar[T]) With(f func(T))      { f(v.value) }
func (v *constVar[T]) Version() uint64     { return 0 }
func (v *constVar[T]) LastVersion() uint64 { return 0 }
func (v *constVar[T]) IsNew() bool         { return false }

func (v *constVar[T]) Set(T) error {
	return readOnlyError("vars.Const.Set")
}

func (v *constVar[T]) SetAny(any) error {
	return readOnlyError("vars.Const.SetAny")
}

// Hook on a constant never fires; the returned handle is already dropped.
func (v *constVar[T]) Hook(func(T) bool) handle.Handle {
	return handle.Dummy()
}

func (v *constVar[T]) HookAny(func(any) bool) handle.Handle {
	return handle.Dummy()
}

func (v *constVar[T]) DowngradeAny() AnyWeak {
	return constWeak[T]{v: v}
}

// constWeak keeps the constant alive; constants are value-like and never
// "die" while referenced, so the weak form is just a strong pointer.
type constWeak[T any] struct {
	v *constVar[T]
}

func (w constWeak[T]) UpgradeAny() (AnyVar, bool) {
	if sched.opts.WeakUpgradeOnRead == WeakSkip {
		return nil, false
	}
	return w.v, true
}
