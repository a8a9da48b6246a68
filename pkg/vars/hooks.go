package vars

import (
	"time"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/handle"
)

// hookList is the observer registry owned by a variable. Entries pair the
// callback with a weak lifetime handle; the strong side is returned to the
// subscriber, so dropping it (or the observer returning false) removes the
// hook on the next fan-out. The list is compacted lazily during fan-out.
type hookList[T any] struct {
	entries []hookEntry[T]

	// pendingAdd holds hooks registered during fan-out; they join the
	// list after the fan-out completes and only observe later writes.
	pendingAdd []hookEntry[T]

	notifying bool
}

type hookEntry[T any] struct {
	cb   func(T) bool
	weak handle.Weak
}

func (h *hookList[T]) add(cb func(T) bool) handle.Handle {
	_, hd := handle.New()
	entry := hookEntry[T]{cb: cb, weak: hd.Downgrade()}
	if h.notifying {
		h.pendingAdd = append(h.pendingAdd, entry)
	} else {
		h.entries = append(h.entries, entry)
	}
	return hd
}

func (h *hookList[T]) empty() bool {
	return len(h.entries) == 0 && len(h.pendingAdd) == 0
}

// notify fans the new value out to every live hook. Panicking hooks are
// reported and force-dropped; the panic is re-raised after the fan-out
// completes (aggregated if more than one hook panicked).
func (h *hookList[T]) notify(value T) {
	if h.notifying {
		// A hook caused a synchronous re-notification of its own list;
		// the deferred write queue makes this unreachable, but guard
		// against it rather than corrupt the entries slice.
		return
	}
	h.notifying = true
	prevFanOut := sched.inFanOut
	sched.inFanOut = true

	var panics errors.HookPanics

	snapshot := h.entries
	alive := h.entries[:0]
	for _, entry := range snapshot {
		up, ok := entry.weak.Upgrade()
		if !ok {
			continue
		}
		keep, panicked := invokeHook(entry.cb, value, &panics)
		if !keep || panicked {
			up.ForceDrop()
		}
		up.Drop()
		if keep && !panicked {
			alive = append(alive, entry)
		}
	}
	h.entries = append(alive, h.pendingAdd...)
	h.pendingAdd = nil

	sched.inFanOut = prevFanOut
	h.notifying = false

	panics.Rethrow()
}

func invokeHook[T any](cb func(T) bool, value T, panics *errors.HookPanics) (keep, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			panicked = true
			p := &errors.PanicError{
				Op:         "vars.hook",
				Value:      r,
				StackTrace: errors.CaptureStack(),
				Timestamp:  time.Now(),
			}
			errors.ReportPanic(p)
			*panics = append(*panics, p)
		}
	}()
	keep = cb(value)
	return
}
