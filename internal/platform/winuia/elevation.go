//go:build windows

package winuia

import (
	"fmt"
	"sync"
	"unsafe"

	"golang.org/x/sys/windows"
)

// Elevation checks process integrity via the access token. Synthetic input
// sent to a higher-integrity process is silently dropped by the OS, so the
// engine refuses to click elevated targets unless it is itself elevated.
type Elevation struct {
	selfOnce sync.Once
	selfElev bool
	selfErr  error
}

// IsElevated reports true when pid runs elevated and this process does not.
func (e *Elevation) IsElevated(pid int) (bool, error) {
	e.selfOnce.Do(func() {
		e.selfElev, e.selfErr = processElevated(windows.CurrentProcess())
	})
	if e.selfErr != nil {
		return false, e.selfErr
	}
	if e.selfElev {
		return false, nil
	}

	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, uint32(pid))
	if err != nil {
		// Access denied usually means a protected or higher-integrity
		// process; treat it as elevated rather than failing the action
		// later with an inscrutable input drop.
		if err == windows.ERROR_ACCESS_DENIED {
			return true, nil
		}
		return false, fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(h)

	return processElevated(h)
}

func processElevated(process windows.Handle) (bool, error) {
	var token windows.Token
	if err := windows.OpenProcessToken(process, windows.TOKEN_QUERY, &token); err != nil {
		return false, fmt.Errorf("open process token: %w", err)
	}
	defer token.Close()

	var elevation uint32
	var returned uint32
	err := windows.GetTokenInformation(
		token,
		windows.TokenElevation,
		(*byte)(unsafe.Pointer(&elevation)),
		uint32(unsafe.Sizeof(elevation)),
		&returned,
	)
	if err != nil {
		return false, fmt.Errorf("query token elevation: %w", err)
	}
	return elevation != 0, nil
}
