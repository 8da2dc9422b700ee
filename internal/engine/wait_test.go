package engine

import (
	"context"
	"testing"
	"time"

	"github.com/uiactl/uiactl/internal/dispatcher"
	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
	"github.com/uiactl/uiactl/internal/platform/platformtest"
)

func TestWaitFor_ImmediateMatch(t *testing.T) {
	f := newFixture(t, calculatorTree())

	res := f.eng.WaitFor(context.Background(), model.Query{
		Name: "Five", ControlTypes: []string{"Button"}, Window: calcHWND, Timeout: time.Second,
	})

	if !res.OK {
		t.Fatalf("wait failed: %s %s", res.Error, res.Message)
	}
	if res.Action != "wait_for" {
		t.Errorf("Action = %q", res.Action)
	}
	if res.Count != 1 {
		t.Errorf("Count = %d", res.Count)
	}
	if res.Diagnostics.ElapsedMS > 500 {
		t.Errorf("ElapsedMS = %d, want a fast return on immediate match", res.Diagnostics.ElapsedMS)
	}
}

func TestWaitFor_TimeoutConsumesFullBudget(t *testing.T) {
	f := newFixture(t, calculatorTree())

	start := time.Now()
	res := f.eng.WaitFor(context.Background(), model.Query{
		Name: "Seven", Window: calcHWND, Timeout: 100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	if res.OK || res.Error != model.ErrTimeout {
		t.Fatalf("Error = %s, want timeout", res.Error)
	}
	if elapsed < 95*time.Millisecond {
		t.Errorf("returned after %s, want the full 100ms budget consumed", elapsed)
	}
	if elapsed > 2*time.Second {
		t.Errorf("returned after %s, far past the deadline", elapsed)
	}
	if res.Count != 0 {
		t.Errorf("Count = %d, want 0 matches on timeout", res.Count)
	}
	if res.Suggestion == "" {
		t.Error("timeout must carry a suggestion")
	}
}

func TestWaitFor_ZeroTimeoutSingleAttempt(t *testing.T) {
	f := newFixture(t, calculatorTree())

	baseline := f.eng.Find(context.Background(), model.Query{Name: "Seven", Window: calcHWND})
	if !baseline.OK {
		t.Fatalf("baseline find failed: %+v", baseline)
	}

	res := f.eng.WaitFor(context.Background(), model.Query{Name: "Seven", Window: calcHWND})

	if res.OK || res.Error != model.ErrTimeout {
		t.Fatalf("Error = %s, want timeout", res.Error)
	}
	if res.Diagnostics.NodesScanned != baseline.Diagnostics.NodesScanned {
		t.Errorf("NodesScanned = %d, want exactly one poll (%d)",
			res.Diagnostics.NodesScanned, baseline.Diagnostics.NodesScanned)
	}
}

func TestWaitFor_ElementAppearsLater(t *testing.T) {
	root := calculatorTree()
	f := newFixture(t, root)

	// Grow the tree through the apartment worker so the mutation is
	// serialized with the polling reads.
	go func() {
		time.Sleep(30 * time.Millisecond)
		dispatcher.Submit(context.Background(), f.eng.disp, func() (struct{}, error) {
			seven := &platformtest.Node{
				TypeV: "Button", NameV: "Seven", Runtime: []int32{1, 11},
				BoundsV: [4]int{120, 400, 120, 80}, Pats: []string{platform.PatternInvoke},
			}
			root.Kids[0].Kids = append(root.Kids[0].Kids, seven)
			platformtest.Wire(root, calcHWND, calcPID)
			return struct{}{}, nil
		})
	}()

	res := f.eng.WaitFor(context.Background(), model.Query{
		Name: "Seven", Window: calcHWND, Timeout: 2 * time.Second,
	})

	if !res.OK {
		t.Fatalf("wait failed: %s %s", res.Error, res.Message)
	}
	if res.Count != 1 || res.Elements[0].Name != "Seven" {
		t.Errorf("matched %+v", res.Elements)
	}
}

func TestWaitFor_NonPollableErrorIsFinal(t *testing.T) {
	f := newFixture(t, calculatorTree())

	start := time.Now()
	res := f.eng.WaitFor(context.Background(), model.Query{
		Name: "Five", ParentID: "garbage", Window: calcHWND, Timeout: time.Second,
	})

	if res.OK || res.Error != model.ErrInvalidParameter {
		t.Fatalf("Error = %s, want invalid_parameter", res.Error)
	}
	if time.Since(start) > 500*time.Millisecond {
		t.Error("non-pollable failures must return immediately, not poll out the timeout")
	}
}

func TestWaitFor_PollsThroughMissingWindow(t *testing.T) {
	f := newFixture(t, calculatorTree())

	res := f.eng.WaitFor(context.Background(), model.Query{
		Name: "Five", Window: 0xdead, Timeout: 60 * time.Millisecond,
	})

	// A window that has not opened yet is a "not there yet" outcome: keep
	// polling and report timeout, not window_not_found.
	if res.OK || res.Error != model.ErrTimeout {
		t.Fatalf("Error = %s, want timeout", res.Error)
	}
}

func TestWaitFor_ContextCancel(t *testing.T) {
	f := newFixture(t, calculatorTree())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	res := f.eng.WaitFor(ctx, model.Query{Name: "Seven", Window: calcHWND, Timeout: 5 * time.Second})

	if res.OK {
		t.Fatal("cancelled wait must fail")
	}
	if time.Since(start) > time.Second {
		t.Error("cancellation must end the wait promptly")
	}
}
