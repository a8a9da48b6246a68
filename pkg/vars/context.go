package vars

import (
	"weak"

	"github.com/go-drift/reactive/pkg/handle"
)

// Scope is one frame of the context stack. Contextual variables bound in a
// scope shadow bindings of enclosing scopes while the scope is active.
// Scopes are compared by identity.
type Scope struct {
	name   string
	values map[any]any
}

// NewScope returns an empty named scope. The name is only for diagnostics.
func NewScope(name string) *Scope {
	return &Scope{name: name, values: map[any]any{}}
}

func (s *Scope) Name() string { return s.name }

// ctxStack is the dynamic scope stack. It is owned by the update thread
// like the rest of the package state, so no locking.
var ctxStack []*Scope

// CurrentScope returns the innermost active scope, or nil outside any.
func CurrentScope() *Scope {
	if len(ctxStack) == 0 {
		return nil
	}
	return ctxStack[len(ctxStack)-1]
}

// WithScope runs f with s pushed on the context stack.
func WithScope(s *Scope, f func()) {
	ctxStack = append(ctxStack, s)
	defer func() { ctxStack = ctxStack[:len(ctxStack)-1] }()
	f()
}

// ContextVar resolves to a different backing variable depending on the
// active scope. Unbound reads fall back to the construction default.
type ContextVar[T any] struct {
	core *ctxCore[T]
}

type ctxCore[T any] struct {
	def Var[T]
}

// NewContextVar returns a contextual variable with a constant default.
func NewContextVar[T any](def T) ContextVar[T] {
	return ContextVar[T]{core: &ctxCore[T]{def: Const(def)}}
}

// NewContextVarFrom returns a contextual variable whose default is itself
// a variable.
func NewContextVarFrom[T any](def Var[T]) ContextVar[T] {
	return ContextVar[T]{core: &ctxCore[T]{def: def}}
}

// BindContext binds cv to v inside s. The binding takes effect whenever s
// is on the stack, shadowing outer bindings of the same contextual var.
func BindContext[T any](s *Scope, cv ContextVar[T], v Var[T]) {
	s.values[cv.core] = v
}

// WithContextValue runs f with cv bound to v in a fresh anonymous scope.
func WithContextValue[T any](cv ContextVar[T], v Var[T], f func()) {
	s := NewScope("")
	BindContext(s, cv, v)
	WithScope(s, f)
}

// current walks the stack top-down for the nearest binding.
func (c ContextVar[T]) current() Var[T] {
	for i := len(ctxStack) - 1; i >= 0; i-- {
		if v, ok := ctxStack[i].values[c.core]; ok {
			return v.(Var[T])
		}
	}
	return c.core.def
}

func (c ContextVar[T]) VarID() ID       { return c.current().VarID() }
func (c ContextVar[T]) Writable() bool  { return c.current().Writable() }
func (c ContextVar[T]) Get() T          { return c.current().Get() }
func (c ContextVar[T]) GetAny() any     { return c.current().GetAny() }
func (c ContextVar[T]) With(f func(T))  { c.current().With(f) }
func (c ContextVar[T]) Version() uint64 { return c.current().Version() }

func (c ContextVar[T]) LastVersion() uint64 { return c.current().LastVersion() }
func (c ContextVar[T]) IsNew() bool         { return c.current().IsNew() }

func (c ContextVar[T]) Set(value T) error     { return c.current().Set(value) }
func (c ContextVar[T]) SetAny(value any) error { return c.current().SetAny(value) }

// Hook attaches to the variable resolved at call time. It does not follow
// later rebinding; hook inside the scope the observation belongs to.
func (c ContextVar[T]) Hook(f func(T) bool) handle.Handle {
	return c.current().Hook(f)
}

func (c ContextVar[T]) HookAny(f func(any) bool) handle.Handle {
	return c.current().HookAny(f)
}

func (c ContextVar[T]) DowngradeAny() AnyWeak {
	return c.current().DowngradeAny()
}

// contextualized defers construction of its backing variable until first
// read inside a scope, then reuses that instance for the scope's lifetime.
type contextualized[T any] struct {
	id      ID
	resolve func() Var[T]
	cache   map[weak.Pointer[Scope]]Var[T]
}

// Contextualize returns a variable that calls resolve on first access in
// each scope and caches the result per scope identity. The cache holds
// scopes weakly, so an entry dies with its scope. Accesses outside any
// scope share one resolution.
func Contextualize[T any](resolve func() Var[T]) Var[T] {
	return &contextualized[T]{
		id:      nextID(),
		resolve: resolve,
		cache:   map[weak.Pointer[Scope]]Var[T]{},
	}
}

func (v *contextualized[T]) actual() Var[T] {
	var key weak.Pointer[Scope]
	if s := CurrentScope(); s != nil {
		key = weak.Make(s)
	}
	if got, ok := v.cache[key]; ok {
		return got
	}
	v.evictDead()
	r := v.resolve()
	v.cache[key] = r
	return r
}

func (v *contextualized[T]) evictDead() {
	var zero weak.Pointer[Scope]
	for k := range v.cache {
		if k != zero && k.Value() == nil {
			delete(v.cache, k)
		}
	}
}

func (v *contextualized[T]) VarID() ID       { return v.id }
func (v *contextualized[T]) Writable() bool  { return v.actual().Writable() }
func (v *contextualized[T]) Get() T          { return v.actual().Get() }
func (v *contextualized[T]) GetAny() any     { return v.actual().GetAny() }
func (v *contextualized[T]) With(f func(T))  { v.actual().With(f) }
func (v *contextualized[T]) Version() uint64 { return v.actual().Version() }

func (v *contextualized[T]) LastVersion() uint64 { return v.actual().LastVersion() }
func (v *contextualized[T]) IsNew() bool         { return v.actual().IsNew() }

func (v *contextualized[T]) Set(value T) error      { return v.actual().Set(value) }
func (v *contextualized[T]) SetAny(value any) error { return v.actual().SetAny(value) }

func (v *contextualized[T]) Hook(f func(T) bool) handle.Handle {
	return v.actual().Hook(f)
}

func (v *contextualized[T]) HookAny(f func(any) bool) handle.Handle {
	return v.actual().HookAny(f)
}

func (v *contextualized[T]) DowngradeAny() AnyWeak {
	return downgradeOf(v)
}
