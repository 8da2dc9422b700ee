// Package platformtest provides in-memory implementations of the platform
// collaborator interfaces for tests. Trees are plain structs, so tests can
// mutate them between calls to simulate UI change and staleness.
package platformtest

import (
	"fmt"

	"github.com/uiactl/uiactl/internal/model"
	"github.com/uiactl/uiactl/internal/platform"
)

// Node is a scriptable platform.Node.
type Node struct {
	NameV    string
	TypeV    string
	AutoID   string
	Class    string
	BoundsV  [4]int
	Runtime  []int32
	Window   uintptr
	PID      int
	Disabled bool
	Off      bool

	Val       string
	HasVal    bool
	ToggleV   string
	HasToggle bool

	Pats []string
	Kids []*Node

	ChildErr  error
	ActionErr error

	// Recorded effects, inspected by tests.
	Invoked    bool
	Toggled    bool
	Selected   bool
	Expanded   *bool
	ScrolledIn bool
	SetVals    []string
	RangeVals  []float64
	Moves      [][4]int

	// ScrollBudget is how many Scroll calls still report movement before
	// the fake viewport hits the end of travel.
	ScrollBudget int
}

var _ platform.Node = (*Node)(nil)

func (n *Node) Name() string          { return n.NameV }
func (n *Node) ControlType() string   { return n.TypeV }
func (n *Node) AutomationID() string  { return n.AutoID }
func (n *Node) ClassName() string     { return n.Class }
func (n *Node) Bounds() [4]int        { return n.BoundsV }
func (n *Node) RuntimeID() []int32    { return n.Runtime }
func (n *Node) WindowHandle() uintptr { return n.Window }
func (n *Node) ProcessID() int        { return n.PID }
func (n *Node) Enabled() bool         { return !n.Disabled }
func (n *Node) Offscreen() bool       { return n.Off }

func (n *Node) Value() (string, bool)       { return n.Val, n.HasVal }
func (n *Node) ToggleState() (string, bool) { return n.ToggleV, n.HasToggle }
func (n *Node) Patterns() []string          { return n.Pats }

func (n *Node) Children() ([]platform.Node, error) {
	if n.ChildErr != nil {
		return nil, n.ChildErr
	}
	out := make([]platform.Node, len(n.Kids))
	for i, k := range n.Kids {
		out[i] = k
	}
	return out, nil
}

func (n *Node) Invoke() error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.Invoked = true
	return nil
}

func (n *Node) Toggle() error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.Toggled = true
	return nil
}

func (n *Node) SetValue(v string) error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.SetVals = append(n.SetVals, v)
	n.Val = v
	return nil
}

func (n *Node) Select() error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.Selected = true
	return nil
}

func (n *Node) ExpandCollapse(expand bool) error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.Expanded = &expand
	return nil
}

func (n *Node) ScrollIntoView() error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.ScrolledIn = true
	return nil
}

func (n *Node) SetRangeValue(v float64) error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.RangeVals = append(n.RangeVals, v)
	return nil
}

func (n *Node) MoveResize(x, y, w, h int) error {
	if n.ActionErr != nil {
		return n.ActionErr
	}
	n.Moves = append(n.Moves, [4]int{x, y, w, h})
	return nil
}

func (n *Node) Scroll(dx, dy int) (bool, error) {
	if n.ActionErr != nil {
		return false, n.ActionErr
	}
	if n.ScrollBudget <= 0 {
		return false, nil
	}
	n.ScrollBudget--
	return true, nil
}

// Wire stamps the owning window handle and a pid onto every node of a tree.
func Wire(root *Node, window uintptr, pid int) *Node {
	root.Window = window
	root.PID = pid
	for _, k := range root.Kids {
		Wire(k, window, pid)
	}
	return root
}

// Automation serves scripted window trees.
type Automation struct {
	Desktop *Node
	Windows map[uintptr]*Node
	InitErr error
	Inited  bool
}

var _ platform.Automation = (*Automation)(nil)

func (a *Automation) Init() error {
	if a.InitErr != nil {
		return a.InitErr
	}
	a.Inited = true
	return nil
}

func (a *Automation) Teardown() {}

func (a *Automation) Root() (platform.Node, error) {
	if a.Desktop == nil {
		return nil, fmt.Errorf("no desktop root configured")
	}
	return a.Desktop, nil
}

func (a *Automation) WindowRoot(handle uintptr) (platform.Node, error) {
	n, ok := a.Windows[handle]
	if !ok {
		return nil, nil
	}
	return n, nil
}

// Input records simulated input and reports a configurable receiver.
type Input struct {
	Receiver uintptr
	Err      error

	Clicks []ClickRecord
	Typed  []string
	Keys   []string
}

// ClickRecord is one simulated click.
type ClickRecord struct {
	Monitor   int
	Point     [2]int
	Button    platform.MouseButton
	Count     int
	Modifiers []string
}

var _ platform.Inputter = (*Input)(nil)

func (in *Input) Click(monitor int, point [2]int, button platform.MouseButton, count int, modifiers []string) (uintptr, error) {
	if in.Err != nil {
		return 0, in.Err
	}
	in.Clicks = append(in.Clicks, ClickRecord{monitor, point, button, count, modifiers})
	return in.Receiver, nil
}

func (in *Input) TypeText(text string, delayMS int) error {
	if in.Err != nil {
		return in.Err
	}
	in.Typed = append(in.Typed, text)
	return nil
}

func (in *Input) PressKey(name string, modifiers []string) error {
	if in.Err != nil {
		return in.Err
	}
	in.Keys = append(in.Keys, name)
	return nil
}

// Windows is a scriptable window manager.
type Windows struct {
	Known      map[uintptr]model.Window
	Front      uintptr
	ActivateTo uintptr // 0 means activation succeeds and moves Front
	Activated  []uintptr
}

var _ platform.WindowManager = (*Windows)(nil)

func (w *Windows) Lookup(handle uintptr) (model.Window, bool, error) {
	win, ok := w.Known[handle]
	return win, ok, nil
}

func (w *Windows) Foreground() (uintptr, error) { return w.Front, nil }

func (w *Windows) Activate(handle uintptr) error {
	w.Activated = append(w.Activated, handle)
	if w.ActivateTo != 0 {
		w.Front = w.ActivateTo
	} else {
		w.Front = handle
	}
	return nil
}

// Monitors serves a fixed topology.
type Monitors struct {
	List []model.Monitor
	Err  error
}

var _ platform.MonitorProvider = (*Monitors)(nil)

func (m *Monitors) Monitors() ([]model.Monitor, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.List, nil
}

// Elevation marks chosen pids as elevated.
type Elevation struct {
	ElevatedPIDs map[int]bool
}

var _ platform.ElevationChecker = (*Elevation)(nil)

func (e *Elevation) IsElevated(pid int) (bool, error) {
	return e.ElevatedPIDs[pid], nil
}
