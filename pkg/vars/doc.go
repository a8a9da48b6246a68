// Package vars implements typed, versioned, observable values and the
// update tick that commits writes to them.
//
// A [Var] holds a value of one type. Reads are immediate; writes are
// queued and commit when [ApplyUpdates] runs, so every reader within a
// tick sees one consistent snapshot. Each commit advances the var's
// version and notifies its hooks.
//
// Shared cells are created with [New]. Derived views are built with
// [Map], [MapBidi], [Merge2], [When], [NewExpr] and [ReadOnly]; they
// recompute lazily and report versions derived from their inputs.
// [Bind] and [BindBidi] keep two vars in sync through the same queue.
// [NewContextVar] and [Contextualize] resolve against the active
// [Scope] at read time. [NewResponse] is a single-shot delivery.
//
// Everything in this package belongs to one goroutine, conventionally
// the UI thread. Background goroutines hand values over through the
// updates driver's Dispatch, never by calling Set directly.
package vars
