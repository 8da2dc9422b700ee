//go:build windows

package winuia

import (
	"fmt"
	"strings"
	"time"
	"unsafe"

	"github.com/uiactl/uiactl/internal/platform"
	"golang.org/x/sys/windows"
)

var (
	procSendInput       = user32.NewProc("SendInput")
	procSetCursorPos    = user32.NewProc("SetCursorPos")
	procWindowFromPoint = user32.NewProc("WindowFromPoint")
	procGetAncestor     = user32.NewProc("GetAncestor")
)

const (
	inputMouse    = 0
	inputKeyboard = 1

	mouseLeftDown      = 0x0002
	mouseLeftUp        = 0x0004
	mouseRightDown     = 0x0008
	mouseRightUp       = 0x0010
	mouseMiddleDown    = 0x0020
	mouseMiddleUp      = 0x0040
	keyEventfKeyUp     = 0x0002
	keyEventfUnicode   = 0x0004
	keyEventfExtended  = 0x0001
	gaRoot             = 2
	clickSettleDelayMS = 20
)

type mouseInput struct {
	Type      uint32
	_         uint32
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type keyboardInput struct {
	Type      uint32
	_         uint32
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad to the size of the INPUT union
}

// Input synthesizes mouse and keyboard events via SendInput. Coordinates
// arrive monitor-relative and are mapped back to the virtual screen using
// the live topology.
type Input struct {
	Monitors platform.MonitorProvider
}

var _ platform.Inputter = (*Input)(nil)

// Click moves the cursor to the point and clicks. It returns the root
// window that was under the cursor, so callers can verify delivery.
func (in *Input) Click(monitor int, point [2]int, button platform.MouseButton, count int, modifiers []string) (uintptr, error) {
	x, y, err := in.toVirtual(monitor, point)
	if err != nil {
		return 0, err
	}

	if r, _, _ := procSetCursorPos.Call(uintptr(x), uintptr(y)); r == 0 {
		return 0, fmt.Errorf("SetCursorPos(%d, %d) failed", x, y)
	}
	time.Sleep(clickSettleDelayMS * time.Millisecond)

	receiver := rootWindowAt(x, y)

	down, up, err := buttonFlags(button)
	if err != nil {
		return 0, err
	}

	if err := in.holdModifiers(modifiers, false); err != nil {
		return receiver, err
	}
	defer in.holdModifiers(modifiers, true)

	for i := 0; i < count; i++ {
		if err := sendMouse(down); err != nil {
			return receiver, err
		}
		if err := sendMouse(up); err != nil {
			return receiver, err
		}
	}
	return receiver, nil
}

// TypeText sends each rune as a unicode keyboard event.
func (in *Input) TypeText(text string, delayMS int) error {
	for _, r := range text {
		for _, utf16unit := range windows.StringToUTF16(string(r)) {
			if utf16unit == 0 {
				continue
			}
			if err := sendKey(0, utf16unit, keyEventfUnicode); err != nil {
				return err
			}
			if err := sendKey(0, utf16unit, keyEventfUnicode|keyEventfKeyUp); err != nil {
				return err
			}
		}
		if delayMS > 0 {
			time.Sleep(time.Duration(delayMS) * time.Millisecond)
		}
	}
	return nil
}

// PressKey presses a named key with the given modifiers held.
func (in *Input) PressKey(name string, modifiers []string) error {
	vk, extended, err := virtualKey(name)
	if err != nil {
		return err
	}
	if err := in.holdModifiers(modifiers, false); err != nil {
		return err
	}
	defer in.holdModifiers(modifiers, true)

	var flags uint32
	if extended {
		flags = keyEventfExtended
	}
	if err := sendKey(vk, 0, flags); err != nil {
		return err
	}
	return sendKey(vk, 0, flags|keyEventfKeyUp)
}

// toVirtual converts a monitor-relative point to virtual-screen coordinates.
func (in *Input) toVirtual(monitor int, point [2]int) (int, int, error) {
	monitors, err := in.Monitors.Monitors()
	if err != nil {
		return 0, 0, err
	}
	if monitor < 0 || monitor >= len(monitors) {
		return 0, 0, fmt.Errorf("monitor %d out of range (%d monitors)", monitor, len(monitors))
	}
	b := monitors[monitor].Bounds
	return b[0] + point[0], b[1] + point[1], nil
}

// holdModifiers presses (or releases) the modifier keys in order.
func (in *Input) holdModifiers(modifiers []string, release bool) error {
	var flags uint32
	if release {
		flags = keyEventfKeyUp
	}
	for _, m := range modifiers {
		vk, ok := modifierKeys[strings.ToLower(m)]
		if !ok {
			return fmt.Errorf("unknown modifier %q", m)
		}
		if err := sendKey(vk, 0, flags); err != nil {
			return err
		}
	}
	return nil
}

func buttonFlags(button platform.MouseButton) (uint32, uint32, error) {
	switch button {
	case platform.MouseLeft:
		return mouseLeftDown, mouseLeftUp, nil
	case platform.MouseRight:
		return mouseRightDown, mouseRightUp, nil
	case platform.MouseMiddle:
		return mouseMiddleDown, mouseMiddleUp, nil
	default:
		return 0, 0, fmt.Errorf("unknown mouse button %d", button)
	}
}

func sendMouse(flags uint32) error {
	inp := mouseInput{Type: inputMouse, Flags: flags}
	sent, _, _ := procSendInput.Call(1, uintptr(unsafe.Pointer(&inp)), unsafe.Sizeof(inp))
	if sent != 1 {
		return fmt.Errorf("SendInput(mouse %#x) was blocked", flags)
	}
	return nil
}

func sendKey(vk uint16, scan uint16, flags uint32) error {
	inp := keyboardInput{Type: inputKeyboard, Vk: vk, Scan: scan, Flags: flags}
	sent, _, _ := procSendInput.Call(1, uintptr(unsafe.Pointer(&inp)), unsafe.Sizeof(inp))
	if sent != 1 {
		return fmt.Errorf("SendInput(key %#x) was blocked", vk)
	}
	return nil
}

func rootWindowAt(x, y int) uintptr {
	// POINT is passed by value; on 64-bit it packs into one register.
	pt := uintptr(uint32(x)) | uintptr(uint32(y))<<32
	hwnd, _, _ := procWindowFromPoint.Call(pt)
	if hwnd == 0 {
		return 0
	}
	root, _, _ := procGetAncestor.Call(hwnd, gaRoot)
	return root
}

var modifierKeys = map[string]uint16{
	"shift": 0x10, // VK_SHIFT
	"ctrl":  0x11, // VK_CONTROL
	"alt":   0x12, // VK_MENU
	"win":   0x5B, // VK_LWIN
}

// namedKeys maps key names to virtual-key codes. Extended keys need the
// extended flag or some applications misread them.
var namedKeys = map[string]struct {
	vk       uint16
	extended bool
}{
	"enter":     {0x0D, false},
	"tab":       {0x09, false},
	"escape":    {0x1B, false},
	"esc":       {0x1B, false},
	"space":     {0x20, false},
	"backspace": {0x08, false},
	"delete":    {0x2E, true},
	"insert":    {0x2D, true},
	"home":      {0x24, true},
	"end":       {0x23, true},
	"pageup":    {0x21, true},
	"pagedown":  {0x22, true},
	"up":        {0x26, true},
	"down":      {0x28, true},
	"left":      {0x25, true},
	"right":     {0x27, true},
}

// virtualKey resolves a key name: named keys, f1-f24, single letters and
// digits.
func virtualKey(name string) (uint16, bool, error) {
	lower := strings.ToLower(name)
	if k, ok := namedKeys[lower]; ok {
		return k.vk, k.extended, nil
	}
	if len(lower) >= 2 && lower[0] == 'f' {
		var n int
		if _, err := fmt.Sscanf(lower[1:], "%d", &n); err == nil && n >= 1 && n <= 24 {
			return uint16(0x70 + n - 1), false, nil
		}
	}
	if len(lower) == 1 {
		c := lower[0]
		if c >= 'a' && c <= 'z' {
			return uint16(c - 'a' + 'A'), false, nil
		}
		if c >= '0' && c <= '9' {
			return uint16(c), false, nil
		}
	}
	return 0, false, fmt.Errorf("unknown key %q", name)
}
