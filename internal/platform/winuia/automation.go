//go:build windows

package winuia

import (
	"fmt"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/uiactl/uiactl/internal/platform"
	"golang.org/x/sys/windows"
)

var (
	user32       = windows.NewLazySystemDLL("user32.dll")
	procIsWindow = user32.NewProc("IsWindow")
)

// IUIAutomation vtable slots used here.
const (
	uiaGetRootElement       = 5
	uiaElementFromHandle    = 6
	uiaGetControlViewWalker = 14
)

// IUIAutomationTreeWalker vtable slots.
const (
	walkerGetFirstChild  = 4
	walkerGetNextSibling = 6
)

// Automation owns the UIA COM objects. All methods must run on the
// apartment thread that called Init.
type Automation struct {
	uia    comObject
	walker comObject
}

var _ platform.Automation = (*Automation)(nil)

// Init enters a single-threaded apartment on the calling thread and creates
// the UIA root objects.
func (a *Automation) Init() error {
	if err := ole.CoInitialize(0); err != nil {
		// S_FALSE means the thread already had an apartment; fine.
		if oleErr, ok := err.(*ole.OleError); !ok || oleErr.Code() != 1 {
			return fmt.Errorf("enter STA: %w", err)
		}
	}

	unk, err := ole.CreateInstance(clsidCUIAutomation, iidIUIAutomation)
	if err != nil {
		return fmt.Errorf("create UIA automation object: %w", err)
	}
	a.uia = comObject(uintptr(unsafe.Pointer(unk)))

	var walker comObject
	if err := a.uia.call(uiaGetControlViewWalker, uintptr(unsafe.Pointer(&walker))); err != nil {
		a.uia.Release()
		a.uia = 0
		return fmt.Errorf("get control view walker: %w", err)
	}
	a.walker = walker
	return nil
}

// Teardown releases the COM objects and leaves the apartment.
func (a *Automation) Teardown() {
	a.walker.Release()
	a.uia.Release()
	a.walker, a.uia = 0, 0
	ole.CoUninitialize()
}

// Root returns the desktop element.
func (a *Automation) Root() (platform.Node, error) {
	var el comObject
	if err := a.uia.call(uiaGetRootElement, uintptr(unsafe.Pointer(&el))); err != nil {
		return nil, fmt.Errorf("get desktop root: %w", err)
	}
	return a.newNode(el), nil
}

// WindowRoot returns the root element of the given top-level window, or nil
// when no such window exists anymore.
func (a *Automation) WindowRoot(handle uintptr) (platform.Node, error) {
	alive, _, _ := procIsWindow.Call(handle)
	if alive == 0 {
		return nil, nil
	}
	var el comObject
	if err := a.uia.call(uiaElementFromHandle, handle, uintptr(unsafe.Pointer(&el))); err != nil {
		// The window can die between the liveness check and the bind.
		return nil, nil
	}
	return a.newNode(el), nil
}
