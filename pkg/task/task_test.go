package task_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-drift/reactive/pkg/task"
	"github.com/go-drift/reactive/pkg/updates"
)

func waitDone(t *testing.T, tk *task.Task[int]) task.Result[int] {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r, ok := tk.Poll(); ok {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("task did not complete")
	return task.Result[int]{}
}

func TestRunDeliversResult(t *testing.T) {
	tk := task.Run(func() (int, error) { return 7, nil })

	r := waitDone(t, tk)
	if r.Err != nil || r.Value != 7 {
		t.Errorf("result = %+v, want value 7", r)
	}

	// A completion is consumed exactly once.
	if _, ok := tk.Poll(); ok {
		t.Error("second Poll reported done again")
	}
}

func TestRunDeliversError(t *testing.T) {
	wantErr := fmt.Errorf("backend unavailable")
	tk := task.Run(func() (int, error) { return 0, wantErr })

	r := waitDone(t, tk)
	if r.Err != wantErr {
		t.Errorf("Err = %v, want %v", r.Err, wantErr)
	}
}

func TestRespondDeliversThroughTicks(t *testing.T) {
	d := updates.New()

	started := make(chan struct{})
	release := make(chan struct{})
	response, h := task.Respond(d, func() (string, error) {
		close(started)
		<-release
		return "loaded", nil
	})
	defer h.Drop()

	<-started
	d.OnTick()
	if _, ok := response.Rsp(); ok {
		t.Fatal("response delivered before the worker finished")
	}

	close(release)
	deadline := time.Now().Add(5 * time.Second)
	for {
		d.OnTick()
		if r, ok := response.Rsp(); ok {
			if r.Err != nil || r.Value != "loaded" {
				t.Errorf("result = %+v, want loaded", r)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("response never delivered")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestRespondCancelStopsPolling(t *testing.T) {
	d := updates.New()

	release := make(chan struct{})
	response, h := task.Respond(d, func() (int, error) {
		<-release
		return 1, nil
	})

	h.Drop()
	close(release)
	time.Sleep(10 * time.Millisecond)

	d.OnTick()
	d.OnTick()
	if _, ok := response.Rsp(); ok {
		t.Error("cancelled task still delivered a response")
	}
}
