// Package errors provides structured error handling for the reactive core.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors returned by variable operations. Test with [Is].
var (
	// ErrReadOnly is returned when a write is attempted on a variable
	// that cannot accept writes (mapped, merged, read-only views, or a
	// when-var whose selected arm is read-only).
	ErrReadOnly = stderrors.New("variable is read-only")

	// ErrAlreadyResponded is returned by a second call to Respond on the
	// same responder.
	ErrAlreadyResponded = stderrors.New("response already sent")

	// ErrDeadWeak is reported when an operation targeted a weak reference
	// whose variable was collected. Writes through dead weak references
	// are silent no-ops; this sentinel only appears in reports.
	ErrDeadWeak = stderrors.New("weak reference target is gone")

	// ErrReentrantWrite is reported when a hook writes into the variable
	// it is observing during its own fan-out.
	ErrReentrantWrite = stderrors.New("reentrant write during hook fan-out")
)

// Is reports whether any error in err's chain matches target.
// Re-exported so callers do not need both this package and the standard one.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindReadOnly indicates a rejected write on a read-only variable.
	KindReadOnly
	// KindAlreadyResponded indicates a duplicate respond on a one-shot var.
	KindAlreadyResponded
	// KindDeadWeak indicates an operation on a collected weak target.
	KindDeadWeak
	// KindReentrant indicates a write queued during the target's own fan-out.
	KindReentrant
	// KindHookPanic indicates a recovered panic inside a hook callback.
	KindHookPanic
	// KindConfig indicates a configuration source failure.
	KindConfig
	// KindTask indicates a background task failure.
	KindTask
)

func (k ErrorKind) String() string {
	switch k {
	case KindReadOnly:
		return "read-only"
	case KindAlreadyResponded:
		return "already-responded"
	case KindDeadWeak:
		return "dead-weak"
	case KindReentrant:
		return "reentrant"
	case KindHookPanic:
		return "hook-panic"
	case KindConfig:
		return "config"
	case KindTask:
		return "task"
	default:
		return "unknown"
	}
}

// VarError represents a structured error in the reactive core.
type VarError struct {
	// Op is the operation that failed (e.g., "vars.Shared.Set").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *VarError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *VarError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "vars.hook").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// HookPanics aggregates panics recovered from multiple hooks during one
// fan-out. When exactly one hook panicked the original value is re-raised
// instead of this aggregate.
type HookPanics []*PanicError

func (p HookPanics) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d hooks panicked during fan-out:", len(p))
	for _, e := range p {
		sb.WriteString("\n\t")
		sb.WriteString(e.Error())
	}
	return sb.String()
}

// Rethrow panics with the aggregated failure. A single recovered panic is
// re-raised with its original value; multiple panics raise the aggregate.
func (p HookPanics) Rethrow() {
	switch len(p) {
	case 0:
	case 1:
		panic(p[0].Value)
	default:
		panic(p)
	}
}
