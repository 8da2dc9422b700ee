package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
	"github.com/uiactl/uiactl/internal/platform/platformtest"
)

func TestPattern_InvokeByQuery(t *testing.T) {
	root := calculatorTree()
	f := newFixture(t, root)

	res := f.eng.Pattern(context.Background(), PatternRequest{
		Query: &model.Query{Name: "Five", ControlTypes: []string{"Button"}, Window: calcHWND},
		Op:    "invoke",
	})

	if !res.OK {
		t.Fatalf("invoke failed: %s %s", res.Error, res.Message)
	}
	five := root.Kids[0].Kids[0]
	if !five.Invoked {
		t.Error("Invoke never reached the element")
	}
	if res.Count != 1 || res.Elements[0].Name != "Five" {
		t.Errorf("result snapshot = %+v", res.Elements)
	}
}

func TestPattern_NotSupported(t *testing.T) {
	f := newFixture(t, calculatorTree())

	res := f.eng.Pattern(context.Background(), PatternRequest{
		Query: &model.Query{Name: "Five", ControlTypes: []string{"Button"}, Window: calcHWND},
		Op:    "toggle",
	})

	if res.OK {
		t.Fatal("toggle on an invoke-only button must fail")
	}
	if res.Error != model.ErrPatternNotSupported {
		t.Errorf("Error = %s, want pattern_not_supported", res.Error)
	}
	if !strings.Contains(res.Suggestion, "coordinate") {
		t.Errorf("Suggestion = %q, want the coordinate-input fallback", res.Suggestion)
	}
}

func TestPattern_SetValueByElementID(t *testing.T) {
	root := calculatorTree()
	f := newFixture(t, root)

	found := f.eng.Find(context.Background(), model.Query{Name: "Display", Window: calcHWND})
	if !found.OK || found.Count != 1 {
		t.Fatalf("find display failed: %+v", found)
	}

	res := f.eng.Pattern(context.Background(), PatternRequest{
		ElementID: found.Elements[0].ID,
		Op:        "set-value",
		Value:     "42",
	})
	if !res.OK {
		t.Fatalf("set-value failed: %s %s", res.Error, res.Message)
	}
	// The returned snapshot reflects post-action state.
	if res.Elements[0].Value != "42" {
		t.Errorf("snapshot value = %q, want the value just set", res.Elements[0].Value)
	}
	display := root.Kids[1]
	if len(display.SetVals) != 1 || display.SetVals[0] != "42" {
		t.Errorf("SetValue calls = %v", display.SetVals)
	}
}

func TestPattern_ScrollExhausted(t *testing.T) {
	root := calculatorTree()
	list := &platformtest.Node{
		TypeV: "List", NameV: "History", Runtime: []int32{1, 20},
		BoundsV: [4]int{100, 420, 380, 160},
		Pats:    []string{platform.PatternScroll},
		// Travel ends after two unit scrolls.
		ScrollBudget: 2,
	}
	root.Kids = append(root.Kids, list)
	platformtest.Wire(root, calcHWND, calcPID)
	f := newFixture(t, root)

	res := f.eng.Pattern(context.Background(), PatternRequest{
		Query:     &model.Query{Name: "History", Window: calcHWND},
		Op:        "scroll",
		Direction: "down",
		Amount:    5,
	})

	if res.OK || res.Error != model.ErrScrollExhausted {
		t.Fatalf("Error = %s, want scroll_exhausted", res.Error)
	}
	if !strings.Contains(res.Message, "2 of 5") {
		t.Errorf("Message = %q, want the step count", res.Message)
	}
	if res.Suggestion == "" {
		t.Error("missing suggestion")
	}
}

func TestPattern_ScrollWithinBudget(t *testing.T) {
	root := calculatorTree()
	list := &platformtest.Node{
		TypeV: "List", NameV: "History", Runtime: []int32{1, 20},
		Pats: []string{platform.PatternScroll}, ScrollBudget: 10,
	}
	root.Kids = append(root.Kids, list)
	platformtest.Wire(root, calcHWND, calcPID)
	f := newFixture(t, root)

	res := f.eng.Pattern(context.Background(), PatternRequest{
		Query:     &model.Query{Name: "History", Window: calcHWND},
		Op:        "scroll",
		Direction: "down",
		Amount:    3,
	})
	if !res.OK {
		t.Fatalf("scroll failed: %s %s", res.Error, res.Message)
	}
	if list.ScrollBudget != 7 {
		t.Errorf("performed %d steps, want 3", 10-list.ScrollBudget)
	}
}

func TestPattern_Validation(t *testing.T) {
	f := newFixture(t, calculatorTree())
	q := &model.Query{Name: "Five", Window: calcHWND}

	tests := []struct {
		name string
		req  PatternRequest
	}{
		{"unknownOp", PatternRequest{Query: q, Op: "levitate"}},
		{"noTarget", PatternRequest{Op: "invoke"}},
		{"bothTargets", PatternRequest{ElementID: "window:beef|runtime:1.5|path:0.0", Query: q, Op: "invoke"}},
		{"badScrollDirection", PatternRequest{Query: q, Op: "scroll", Direction: "sideways"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := f.eng.Pattern(context.Background(), tt.req)
			if res.OK || res.Error != model.ErrInvalidParameter {
				t.Fatalf("Error = %s, want invalid_parameter", res.Error)
			}
			if res.Diagnostics.NodesScanned != 0 {
				t.Errorf("NodesScanned = %d, want 0 (rejected before dispatch)", res.Diagnostics.NodesScanned)
			}
		})
	}
}

func TestPattern_AmbiguousQuery(t *testing.T) {
	f := newFixture(t, calculatorTree())

	res := f.eng.Pattern(context.Background(), PatternRequest{
		Query: &model.Query{NameContains: "Five", Window: calcHWND},
		Op:    "invoke",
	})
	if res.OK || res.Error != model.ErrMultipleMatches {
		t.Fatalf("Error = %s, want multiple_matches", res.Error)
	}
}

func TestPattern_StaleElementID(t *testing.T) {
	root := calculatorTree()
	f := newFixture(t, root)

	found := f.eng.Find(context.Background(), model.Query{Name: "Five", ControlTypes: []string{"Button"}, Window: calcHWND})
	if !found.OK {
		t.Fatalf("find failed: %+v", found)
	}
	root.Kids[0].Kids = root.Kids[0].Kids[1:]

	res := f.eng.Pattern(context.Background(), PatternRequest{ElementID: found.Elements[0].ID, Op: "invoke"})
	if res.OK || res.Error != model.ErrElementNotFound {
		t.Fatalf("Error = %s, want element_not_found", res.Error)
	}
	if res.Suggestion == "" {
		t.Error("missing suggestion")
	}
}
