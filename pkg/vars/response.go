package vars

import (
	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
)

type respState[T any] struct {
	value T
	done  bool
}

type respCore[T any] struct {
	inner     *Shared[respState[T]]
	responded bool
}

// Responder delivers exactly one value into its paired [Response].
type Responder[T any] struct {
	core *respCore[T]
}

// Response is the read side of a single-shot delivery. Before the
// responder fires, Rsp reports no value; on the tick the value lands,
// IsNew is true.
type Response[T any] struct {
	core *respCore[T]
}

// NewResponse returns a linked responder/response pair.
func NewResponse[T any]() (Responder[T], Response[T]) {
	core := &respCore[T]{inner: New(respState[T]{})}
	return Responder[T]{core: core}, Response[T]{core: core}
}

// Respond queues the value for delivery on the next update. It fails
// immediately on a second call, even before the first delivery commits.
func (r Responder[T]) Respond(value T) error {
	if r.core == nil || r.core.responded {
		err := &errors.VarError{
			Op:   "vars.Responder.Respond",
			Kind: errors.KindAlreadyResponded,
			Err:  errors.ErrAlreadyResponded,
		}
		errors.Report(err)
		return err
	}
	r.core.responded = true
	return r.core.inner.Set(respState[T]{value: value, done: true})
}

// Responded reports whether Respond has been called, delivered or not.
func (r Responder[T]) Responded() bool {
	return r.core != nil && r.core.responded
}

// Rsp returns the delivered value, or false while none has landed.
func (r Response[T]) Rsp() (T, bool) {
	s := r.core.inner.Get()
	return s.value, s.done
}

// Done reports whether the value has been delivered.
func (r Response[T]) Done() bool {
	_, ok := r.Rsp()
	return ok
}

// IsNew is true exactly on the tick the response was delivered.
func (r Response[T]) IsNew() bool { return r.core.inner.IsNew() }

// Version is 0 before delivery and 1 after.
func (r Response[T]) Version() uint64 { return r.core.inner.Version() }

// Hook observes the delivery. The hook fires at most once with the
// delivered value; returning false afterwards releases it.
func (r Response[T]) Hook(f func(T) bool) handle.Handle {
	return r.core.inner.Hook(func(s respState[T]) bool {
		if !s.done {
			return true
		}
		return f(s.value)
	})
}
