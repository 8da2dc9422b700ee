//go:build windows

package winuia

import (
	"fmt"
	"sync"
	"syscall"
	"unsafe"

	"github.com/uiactl/uiactl/internal/model"
)

var (
	procEnumDisplayMonitors = user32.NewProc("EnumDisplayMonitors")
	procGetMonitorInfoW     = user32.NewProc("GetMonitorInfoW")
)

const monitorinfofPrimary = 1

type monitorInfo struct {
	Size    uint32
	Monitor winRect
	Work    winRect
	Flags   uint32
}

// enumCallback is created once; NewCallback slots are a finite process-wide
// resource. The output slice travels through the lParam argument.
var enumCallback = sync.OnceValue(func() uintptr {
	return syscall.NewCallback(func(hmon, hdc, rect, lparam uintptr) uintptr {
		out := (*[]model.Monitor)(unsafe.Pointer(lparam))
		mi := monitorInfo{Size: uint32(unsafe.Sizeof(monitorInfo{}))}
		if r, _, _ := procGetMonitorInfoW.Call(hmon, uintptr(unsafe.Pointer(&mi))); r != 0 {
			*out = append(*out, model.Monitor{
				Bounds: [4]int{
					int(mi.Monitor.Left),
					int(mi.Monitor.Top),
					int(mi.Monitor.Right - mi.Monitor.Left),
					int(mi.Monitor.Bottom - mi.Monitor.Top),
				},
				Primary: mi.Flags&monitorinfofPrimary != 0,
			})
		}
		return 1 // continue enumeration
	})
})

// Monitors enumerates the current display topology. Enumeration happens on
// every call; hotplugged or rearranged displays are picked up immediately.
type Monitors struct{}

func (Monitors) Monitors() ([]model.Monitor, error) {
	var out []model.Monitor
	r, _, _ := procEnumDisplayMonitors.Call(0, 0, enumCallback(), uintptr(unsafe.Pointer(&out)))
	if r == 0 {
		return nil, fmt.Errorf("EnumDisplayMonitors failed")
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no monitors reported")
	}
	return out, nil
}
