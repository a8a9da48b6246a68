package vars_test

import (
	"testing"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/vars"
)

func TestResponseDeliversOnce(t *testing.T) {
	responder, response := vars.NewResponse[string]()

	if _, ok := response.Rsp(); ok {
		t.Error("response has a value before respond")
	}
	if response.Version() != 0 {
		t.Error("response version nonzero before delivery")
	}

	if err := responder.Respond("done"); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !responder.Responded() {
		t.Error("Responded false right after Respond")
	}
	if _, ok := response.Rsp(); ok {
		t.Error("value visible before the delivery tick")
	}

	tick()

	got, ok := response.Rsp()
	if !ok || got != "done" {
		t.Errorf("Rsp() = %q, %v; want done, true", got, ok)
	}
	if !response.IsNew() {
		t.Error("IsNew false on the delivery tick")
	}
	if response.Version() != 1 {
		t.Errorf("Version() = %d after delivery, want 1", response.Version())
	}

	tick()
	if response.IsNew() {
		t.Error("IsNew still true after the delivery tick")
	}
}

func TestRespondTwiceFails(t *testing.T) {
	responder, _ := vars.NewResponse[int]()

	if err := responder.Respond(1); err != nil {
		t.Fatalf("first Respond failed: %v", err)
	}
	// The second call must fail immediately, before the first delivery
	// even commits.
	if err := responder.Respond(2); !errors.Is(err, errors.ErrAlreadyResponded) {
		t.Errorf("second Respond error = %v, want ErrAlreadyResponded", err)
	}
}

func TestResponseHookFiresOnDelivery(t *testing.T) {
	responder, response := vars.NewResponse[int]()

	got := 0
	response.Hook(func(n int) bool {
		got = n
		return false
	})

	responder.Respond(42)
	tick()

	if got != 42 {
		t.Errorf("hook saw %d, want 42", got)
	}
}
