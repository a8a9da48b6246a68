package vars_test

import (
	"testing"

	"github.com/go-drift/reactive/pkg/vars"
)

// --- contextual var tests ---

func TestContextVarDefault(t *testing.T) {
	cv := vars.NewContextVar(14.0)

	if got := cv.Get(); got != 14.0 {
		t.Errorf("Get() = %v outside any scope, want the default", got)
	}
}

func TestContextVarResolvesNearestBinding(t *testing.T) {
	cv := vars.NewContextVar("default")

	outer := vars.NewScope("outer")
	vars.BindContext(outer, cv, vars.New("outer-value"))
	inner := vars.NewScope("inner")
	vars.BindContext(inner, cv, vars.New("inner-value"))

	vars.WithScope(outer, func() {
		if got := cv.Get(); got != "outer-value" {
			t.Errorf("Get() = %q in outer scope", got)
		}
		vars.WithScope(inner, func() {
			if got := cv.Get(); got != "inner-value" {
				t.Errorf("Get() = %q in inner scope", got)
			}
		})
		if got := cv.Get(); got != "outer-value" {
			t.Errorf("Get() = %q after inner scope popped", got)
		}
	})

	if got := cv.Get(); got != "default" {
		t.Errorf("Get() = %q after all scopes popped", got)
	}
}

func TestWithContextValue(t *testing.T) {
	cv := vars.NewContextVar(0)
	bound := vars.New(7)

	vars.WithContextValue(cv, vars.Var[int](bound), func() {
		if got := cv.Get(); got != 7 {
			t.Errorf("Get() = %d, want the bound value", got)
		}
		// Writes go to the bound variable.
		if err := cv.Set(8); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	})
	tick()

	if got := bound.Get(); got != 8 {
		t.Errorf("bound = %d after write through the contextual var, want 8", got)
	}
}

// --- contextualized var tests ---

func TestContextualizedCachesPerScope(t *testing.T) {
	resolves := 0
	v := vars.Contextualize(func() vars.Var[int] {
		resolves++
		return vars.New(resolves)
	})

	a := vars.NewScope("a")
	b := vars.NewScope("b")

	var inA1, inA2, inB int
	vars.WithScope(a, func() {
		inA1 = v.Get()
		inA2 = v.Get()
	})
	vars.WithScope(b, func() {
		inB = v.Get()
	})

	if resolves != 2 {
		t.Errorf("resolve ran %d times for two scopes, want 2", resolves)
	}
	if inA1 != inA2 {
		t.Error("two reads in one scope resolved different instances")
	}
	if inA1 == inB {
		t.Error("reads in different scopes shared one instance")
	}

	// Re-entering a scope reuses its cached resolution.
	vars.WithScope(a, func() {
		if got := v.Get(); got != inA1 {
			t.Errorf("Get() = %d re-entering scope a, want %d", got, inA1)
		}
	})
	if resolves != 2 {
		t.Errorf("resolve ran again on scope re-entry: %d", resolves)
	}
}

func TestContextualizedWritesReachResolved(t *testing.T) {
	backing := vars.New("start")
	v := vars.Contextualize(func() vars.Var[string] {
		return backing
	})

	s := vars.NewScope("s")
	vars.WithScope(s, func() {
		if err := v.Set("written"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
	})
	tick()

	if got := backing.Get(); got != "written" {
		t.Errorf("backing = %q, want written", got)
	}
}
