package vars

// The scheduler owns the pending write queue, the once-task queue, the
// binding list and the tick counter. There is exactly one per process,
// owned by the UI thread; writes from other goroutines must go through
// the updates driver's Dispatch.

// ReentrantPolicy controls what happens when a hook writes into the var it
// is observing during its own fan-out.
type ReentrantPolicy int

const (
	// ReentrantDefer queues the write for the next tick. This is the
	// default.
	ReentrantDefer ReentrantPolicy = iota
	// ReentrantPanic panics on reentrant writes. Useful in debug builds
	// to find accidental feedback loops.
	ReentrantPanic
)

// WeakUpgradePolicy controls whether reads through weak references attempt
// an upgrade.
type WeakUpgradePolicy int

const (
	// WeakUpgrade attempts the upgrade (default).
	WeakUpgrade WeakUpgradePolicy = iota
	// WeakSkip treats every weak reference as dead. Hosts use this to
	// cheaply silence weak read paths during teardown.
	WeakSkip
)

// Options tune the scheduler.
type Options struct {
	// MaxQueuedWritesPerVar caps how many plain Set writes may be queued
	// on one variable between ticks; older writes are coalesced away so
	// only the newest max writes apply. Modify writes are never dropped.
	// 0 means unbounded.
	MaxQueuedWritesPerVar int

	// ReentrantWrite selects the reentrant write policy.
	ReentrantWrite ReentrantPolicy

	// WeakUpgradeOnRead selects the weak upgrade policy.
	WeakUpgradeOnRead WeakUpgradePolicy
}

// DefaultOptions returns the default scheduler configuration.
func DefaultOptions() Options {
	return Options{}
}

type queuedWrite struct {
	// apply commits the write under the given tick id and reports
	// whether the value actually changed.
	apply func(tick uint64) bool

	// deferred marks writes queued during hook fan-out; they are held
	// until the next tick.
	deferred bool

	// skipped marks writes coalesced away by MaxQueuedWritesPerVar.
	skipped bool
}

type scheduler struct {
	tick     uint64
	pending  []*queuedWrite
	once     []func()
	bindings []*binding
	opts     Options
	wake     func()
	inFanOut bool
	inTick   bool
}

var sched = scheduler{opts: DefaultOptions()}

// CurrentUpdate returns the id of the current update tick. It increments
// once per [ApplyUpdates] call; 0 means no tick ran yet.
func CurrentUpdate() uint64 {
	return sched.tick
}

// Configure replaces the scheduler options. Call before the first tick or
// between ticks.
func Configure(opts Options) {
	sched.opts = opts
}

// CurrentOptions returns the active scheduler options.
func CurrentOptions() Options {
	return sched.opts
}

// SetWake registers the callback invoked when a write or once-task is
// queued while the driver is idle, so the host can schedule a tick. The
// callback must be safe to call from the UI thread at any point.
func SetWake(f func()) {
	sched.wake = f
}

// RunOnce queues a one-shot closure for the start of the next tick.
func RunOnce(f func()) {
	if f == nil {
		return
	}
	sched.once = append(sched.once, f)
	requestWake()
}

// HasPendingUpdates reports whether queued writes or once-tasks are
// waiting for the next tick. The update driver polls this before letting
// the host's frame loop sleep.
func HasPendingUpdates() bool {
	return len(sched.pending) > 0 || len(sched.once) > 0
}

func requestWake() {
	if sched.wake != nil && !sched.inTick {
		sched.wake()
	}
}

// enqueue adds a write to the pending queue. Writes issued during hook
// fan-out are deferred to the next tick.
func enqueue(w *queuedWrite) {
	w.deferred = sched.inFanOut
	sched.pending = append(sched.pending, w)
	requestWake()
}

// ApplyUpdates runs the variable half of one update tick: once-tasks,
// queued writes with hook fan-out, then the binding loop to convergence.
// It reports whether any variable changed, which the host uses to schedule
// downstream work.
//
// The updates driver calls this once per tick; tests may call it directly
// to step variables without a driver.
func ApplyUpdates() bool {
	sched.tick++
	sched.inTick = true
	defer func() {
		sched.inTick = false
		// Writes deferred during this tick become applicable next tick.
		for _, w := range sched.pending {
			w.deferred = false
		}
		// Their enqueue happened while the wake was suppressed, so re-arm
		// it here or a wake-driven host would never run the committing
		// tick.
		if HasPendingUpdates() {
			requestWake()
		}
	}()

	once := sched.once
	sched.once = nil
	for _, f := range once {
		f()
	}

	changed := drainPending()

	if changed && len(sched.bindings) > 0 {
		// Bindings propagate within the same tick: run them, drain any
		// writes they produced, and repeat until stable. The equality
		// check before each binding write stops echoes, so the loop
		// terminates for any pair of maps that are inverses; a bidi pair
		// whose maps never reach a fixed point will spin here.
		for {
			runBindings()
			if !hasApplicable() {
				break
			}
			drainPending()
		}
	}

	return changed
}

func drainPending() bool {
	changed := false
	for hasApplicable() {
		batch := sched.pending
		sched.pending = nil
		var keep []*queuedWrite
		for _, w := range batch {
			if w.skipped {
				continue
			}
			if w.deferred {
				keep = append(keep, w)
				continue
			}
			if w.apply(sched.tick) {
				changed = true
			}
		}
		// Writes queued while applying (all flagged deferred, from hook
		// fan-out) land after the ones already held back.
		sched.pending = append(keep, sched.pending...)
	}
	return changed
}

func hasApplicable() bool {
	for _, w := range sched.pending {
		if !w.skipped && !w.deferred {
			return true
		}
	}
	return false
}

func runBindings() {
	alive := sched.bindings[:0]
	for _, b := range sched.bindings {
		if b.run() {
			alive = append(alive, b)
		}
	}
	sched.bindings = alive
}
