package vars

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/go-drift/reactive/pkg/handle"
)

// ID uniquely identifies a variable instance. IDs are stable for the
// lifetime of the process and usable as map keys for per-var bookkeeping
// (the animation package uses them to replace running animations).
type ID uint64

var idCounter atomic.Uint64

func nextID() ID {
	return ID(idCounter.Add(1))
}

// AnyVar is the type-erased variable surface used by heterogeneous
// collections such as widget property bags and driver watch lists.
//
// All implementations in this package also implement [Var] for their value
// type; AnyVar exists so the update driver does not need to know T.
type AnyVar interface {
	// VarID returns the stable identity of this variable. Views that
	// share identity with their source (read-only wrappers) return the
	// source's ID.
	VarID() ID

	// Writable reports whether Set can currently succeed. For when-vars
	// this depends on the selected arm, for bidi maps on the source.
	Writable() bool

	// GetAny returns the current value.
	GetAny() any

	// Version returns the current version. Derived vars report a
	// version computed from their inputs' versions.
	Version() uint64

	// LastVersion returns the version as of the last completed commit,
	// which inside one update tick equals Version.
	LastVersion() uint64

	// IsNew reports whether the value changed during the current tick.
	IsNew() bool

	// SetAny queues a write. It fails with [errors.ErrReadOnly] on
	// non-writable vars and with a type error when value is not a T.
	SetAny(value any) error

	// HookAny registers an observer called after each accepted write.
	// The observer unregisters by returning false or by dropping the
	// returned handle.
	HookAny(f func(value any) bool) handle.Handle

	// DowngradeAny returns a weak reference that stops upgrading once
	// the variable is no longer strongly referenced.
	DowngradeAny() AnyWeak
}

// AnyWeak is a type-erased weak variable reference.
type AnyWeak interface {
	// UpgradeAny returns the variable while it is still alive. Under the
	// WeakSkip policy it always reports false.
	UpgradeAny() (AnyVar, bool)
}

// Var is a typed handle to a value cell or derivation.
type Var[T any] interface {
	AnyVar

	// Get returns the current value.
	Get() T

	// With calls f with the current value without copying it out first.
	With(f func(T))

	// Set queues a write, applied by the update driver at the start of
	// the next tick. Reads before the tick observe the pre-write value.
	Set(value T) error

	// Hook registers a typed observer; see [AnyVar.HookAny].
	Hook(f func(value T) bool) handle.Handle
}

// deepEqual is the equality used by SetIfNE and the binding engine's echo
// check. reflect.DeepEqual handles slices and maps the same way the widget
// diffing layer compares configurations.
func deepEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func typeMismatch(op string, value any) error {
	return fmt.Errorf("%s: value of type %T does not match the variable type", op, value)
}
