//go:build windows

package winuia

import (
	"fmt"
	"unsafe"

	"github.com/uiactl/uiactl/internal/model"
	"golang.org/x/sys/windows"
)

var (
	procGetWindowTextW             = user32.NewProc("GetWindowTextW")
	procGetClassNameW              = user32.NewProc("GetClassNameW")
	procGetWindowThreadProcessId   = user32.NewProc("GetWindowThreadProcessId")
	procGetWindowRect              = user32.NewProc("GetWindowRect")
	procGetForegroundWindow        = user32.NewProc("GetForegroundWindow")
	procSetForegroundWindow        = user32.NewProc("SetForegroundWindow")
	procShowWindow                 = user32.NewProc("ShowWindow")
	procIsIconic                   = user32.NewProc("IsIconic")
	procAllowSetForegroundWindowFn = user32.NewProc("AllowSetForegroundWindow")
)

const swRestore = 9

type winRect struct {
	Left, Top, Right, Bottom int32
}

// Windows manages top-level windows via user32.
type Windows struct{}

// Lookup reports the window's title, class, pid and bounds; ok is false
// when the handle no longer names a window.
func (Windows) Lookup(handle uintptr) (model.Window, bool, error) {
	if r, _, _ := procIsWindow.Call(handle); r == 0 {
		return model.Window{}, false, nil
	}

	var title [512]uint16
	procGetWindowTextW.Call(handle, uintptr(unsafe.Pointer(&title[0])), uintptr(len(title)))

	var class [256]uint16
	procGetClassNameW.Call(handle, uintptr(unsafe.Pointer(&class[0])), uintptr(len(class)))

	var pid uint32
	procGetWindowThreadProcessId.Call(handle, uintptr(unsafe.Pointer(&pid)))

	var rect winRect
	procGetWindowRect.Call(handle, uintptr(unsafe.Pointer(&rect)))

	fg, _, _ := procGetForegroundWindow.Call()

	return model.Window{
		Handle: handle,
		Title:  windows.UTF16ToString(title[:]),
		Class:  windows.UTF16ToString(class[:]),
		PID:    int(pid),
		Bounds: [4]int{
			int(rect.Left),
			int(rect.Top),
			int(rect.Right - rect.Left),
			int(rect.Bottom - rect.Top),
		},
		Focused: fg == handle,
	}, true, nil
}

// Foreground returns the handle of the currently focused window.
func (Windows) Foreground() (uintptr, error) {
	hwnd, _, _ := procGetForegroundWindow.Call()
	return hwnd, nil
}

// Activate restores a minimized window and brings it to the foreground.
// The OS may refuse foreground changes from a background process; callers
// verify the result through Foreground rather than relying on the return.
func (Windows) Activate(handle uintptr) error {
	if r, _, _ := procIsWindow.Call(handle); r == 0 {
		return fmt.Errorf("window %#x no longer exists", handle)
	}
	if r, _, _ := procIsIconic.Call(handle); r != 0 {
		procShowWindow.Call(handle, swRestore)
	}
	procAllowSetForegroundWindowFn.Call(uintptr(^uint32(0))) // ASFW_ANY
	procSetForegroundWindow.Call(handle)
	return nil
}
