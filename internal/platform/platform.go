package platform

import "github.com/uiactl/uiactl/internal/model"

// Automation is the OS accessibility backend. All methods must be called
// from the apartment dispatcher's worker; Init and Teardown run on that
// worker at startup and shutdown.
type Automation interface {
	// Init prepares the backend on the calling thread (COM apartment init
	// on Windows). A failure here is fatal at process startup.
	Init() error
	Teardown()

	// Root returns the desktop root element.
	Root() (Node, error)

	// WindowRoot returns the tree root for a top-level window handle, or
	// nil when no such window exists.
	WindowRoot(handle uintptr) (Node, error)
}

// Node is one live accessibility-tree node. Nodes are only valid for the
// duration of a single dispatched operation and must never be retained
// across dispatches; cross-call identity goes through encoded handles.
type Node interface {
	Name() string
	ControlType() string
	AutomationID() string
	ClassName() string
	Bounds() [4]int // virtual-screen [x, y, w, h]
	RuntimeID() []int32
	WindowHandle() uintptr
	ProcessID() int
	Enabled() bool
	Offscreen() bool

	// Value and ToggleState report (value, ok); ok is false when the node
	// does not expose the corresponding capability.
	Value() (string, bool)
	ToggleState() (string, bool)

	// Patterns lists the node's supported capability names.
	Patterns() []string

	Children() ([]Node, error)

	Invoke() error
	Toggle() error
	SetValue(value string) error
	Select() error
	ExpandCollapse(expand bool) error
	ScrollIntoView() error
	SetRangeValue(value float64) error
	MoveResize(x, y, w, h int) error

	// Scroll moves the node's scrollable content; moved is false when the
	// viewport is already at the end of travel in that direction.
	Scroll(dx, dy int) (moved bool, err error)
}

// Capability names a Node may report in Patterns(). These are the engine's
// vocabulary for backend control patterns.
const (
	PatternInvoke     = "invoke"
	PatternToggle     = "toggle"
	PatternValue      = "value"
	PatternSelect     = "select"
	PatternExpand     = "expand"
	PatternScrollItem = "scroll-into-view"
	PatternScroll     = "scroll"
	PatternRange      = "range"
	PatternTransform  = "transform"
)

// Inputter simulates pointer and keyboard input. Coordinates are monitor
// relative; receiver is the window that actually received the input, used
// to verify the intended target afterwards.
type Inputter interface {
	Click(monitor int, point [2]int, button MouseButton, count int, modifiers []string) (receiver uintptr, err error)
	TypeText(text string, delayMS int) error
	PressKey(name string, modifiers []string) error
}

// WindowManager looks up and activates top-level windows.
type WindowManager interface {
	Lookup(handle uintptr) (model.Window, bool, error)
	Foreground() (uintptr, error)
	Activate(handle uintptr) error
}

// MonitorProvider reports the current monitor topology. It is queried
// fresh on every coordinate mapping; topology may change between calls.
type MonitorProvider interface {
	Monitors() ([]model.Monitor, error)
}

// ElevationChecker reports whether a process runs at a higher integrity
// level than this one, in which case synthetic input would be silently
// discarded by the OS.
type ElevationChecker interface {
	IsElevated(pid int) (bool, error)
}
