// Package task integrates background work with the update tick. A task
// runs on its own goroutine; the UI side polls it once per tick and folds
// the completion into the variable system as an ordinary write.
package task

import (
	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
	"github.com/go-drift/reactive/pkg/updates"
	"github.com/go-drift/reactive/pkg/vars"
)

// Result pairs a task's value with its error.
type Result[T any] struct {
	Value T
	Err   error
}

// Task is one in-flight background computation.
type Task[T any] struct {
	done chan Result[T]
}

// Run starts f on a new goroutine. The result is buffered, so the worker
// never blocks on a UI side that stopped polling.
func Run[T any](f func() (T, error)) *Task[T] {
	t := &Task[T]{done: make(chan Result[T], 1)}
	go func() {
		defer func() {
			if r := recover(); r != nil {
				errors.ReportPanic(&errors.PanicError{
					Op:         "task.Run",
					Value:      r,
					StackTrace: errors.CaptureStack(),
				})
			}
		}()
		value, err := f()
		t.done <- Result[T]{Value: value, Err: err}
	}()
	return t
}

// Poll consumes the completion if one arrived. It reports true at most
// once per task.
func (t *Task[T]) Poll() (Result[T], bool) {
	select {
	case r := <-t.done:
		return r, true
	default:
		return Result[T]{}, false
	}
}

// Respond runs f in the background and delivers its result through a
// single-shot response variable. The driver polls the task once per tick;
// dropping the returned handle cancels by stopping the polling, without
// interrupting the worker goroutine.
func Respond[T any](d *updates.Driver, f func() (T, error)) (vars.Response[Result[T]], handle.Handle) {
	responder, response := vars.NewResponse[Result[T]]()
	t := Run(f)
	h := d.Retain(func() bool {
		res, ok := t.Poll()
		if !ok {
			return true
		}
		if res.Err != nil {
			errors.Report(&errors.VarError{
				Op:   "task.Respond",
				Kind: errors.KindTask,
				Err:  res.Err,
			})
		}
		_ = responder.Respond(res)
		return false
	})
	return response, h
}
