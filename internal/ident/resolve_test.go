package ident

import (
	"testing"

	"github.com/uiactl/uiactl/internal/platform/platformtest"
)

// calcWindow builds a small fixed tree:
//
//	root (Window)
//	├── pane
//	│   ├── btn "Five"  runtime 1.5
//	│   └── btn "Six"   runtime 1.6
//	└── edit "Display"  runtime 1.9
func calcWindow() *platformtest.Node {
	root := &platformtest.Node{
		TypeV: "Window", NameV: "Calculator", Runtime: []int32{1, 1},
		Kids: []*platformtest.Node{
			{
				TypeV: "Pane", Runtime: []int32{1, 2},
				Kids: []*platformtest.Node{
					{TypeV: "Button", NameV: "Five", Runtime: []int32{1, 5}},
					{TypeV: "Button", NameV: "Six", Runtime: []int32{1, 6}},
				},
			},
			{TypeV: "Edit", NameV: "Display", Runtime: []int32{1, 9}},
		},
	}
	return platformtest.Wire(root, 0xbeef, 1234)
}

func calcAutomation(root *platformtest.Node) *platformtest.Automation {
	return &platformtest.Automation{Windows: map[uintptr]*platformtest.Node{0xbeef: root}}
}

func TestResolve_ByRuntimeID(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)

	h := Handle{Window: 0xbeef, RuntimeID: []int32{1, 5}, Path: []int{0, 0}}
	node, err := Resolve(auto, h)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node == nil || node.Name() != "Five" {
		t.Fatalf("Resolve() = %v, want button Five", node)
	}
}

func TestResolve_RuntimeIDSurvivesReorder(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)
	h := Handle{Window: 0xbeef, RuntimeID: []int32{1, 5}, Path: []int{0, 0}}

	// Insert a sibling before "Five" so the recorded path now points at the
	// wrong child. The runtime id must still win.
	pane := root.Kids[0]
	pane.Kids = append([]*platformtest.Node{{TypeV: "Button", NameV: "Zero", Runtime: []int32{1, 0}, Window: 0xbeef}}, pane.Kids...)

	node, err := Resolve(auto, h)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node == nil || node.Name() != "Five" {
		t.Fatalf("Resolve() after reorder = %v, want button Five", node)
	}
}

func TestResolve_PathFallbackWhenRuntimeIDAbsent(t *testing.T) {
	root := calcWindow()
	// Strip runtime ids to force the path walk.
	var strip func(n *platformtest.Node)
	strip = func(n *platformtest.Node) {
		n.Runtime = nil
		for _, k := range n.Kids {
			strip(k)
		}
	}
	strip(root)
	auto := calcAutomation(root)

	node, err := Resolve(auto, Handle{Window: 0xbeef, Path: []int{0, 1}})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node == nil || node.Name() != "Six" {
		t.Fatalf("Resolve() = %v, want button Six", node)
	}
}

func TestResolve_RemovedNodeIsNotFoundNeverWrong(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)
	h := Handle{Window: 0xbeef, RuntimeID: []int32{1, 5}, Path: []int{0, 0}}

	// Remove "Five". The path now lands on "Six", whose runtime id differs;
	// resolution must report not found rather than hand back "Six".
	pane := root.Kids[0]
	pane.Kids = pane.Kids[1:]

	node, err := Resolve(auto, h)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node != nil {
		t.Fatalf("Resolve() = %q, want nil for a removed element", node.Name())
	}
}

func TestResolve_RootHandle(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)

	node, err := Resolve(auto, Handle{Window: 0xbeef})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node == nil || node.Name() != "Calculator" {
		t.Fatalf("Resolve() = %v, want window root", node)
	}
}

func TestResolve_UnknownWindowIsNotFound(t *testing.T) {
	auto := calcAutomation(calcWindow())
	node, err := Resolve(auto, Handle{Window: 0xdead, Path: []int{0}})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node != nil {
		t.Fatal("Resolve() found a node under a nonexistent window")
	}
}

func TestResolve_PathIndexOutOfRange(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)
	node, err := Resolve(auto, Handle{Window: 0xbeef, Path: []int{9}})
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node != nil {
		t.Fatal("Resolve() should report not found for an out-of-range path")
	}
}

func TestFromNode_RoundTrip(t *testing.T) {
	root := calcWindow()
	auto := calcAutomation(root)

	five := root.Kids[0].Kids[0]
	h := FromNode(five, []int{0, 0})
	dec, derr := Decode(h.Encode())
	if derr != nil {
		t.Fatalf("Decode error: %v", derr)
	}
	node, err := Resolve(auto, dec)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if node == nil || node.Name() != "Five" {
		t.Fatalf("round trip = %v, want Five", node)
	}
}
