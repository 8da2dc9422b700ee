//go:build windows

// Package winuia provides Windows platform support using UI Automation,
// SendInput and the user32 window APIs. COM interfaces are driven through
// raw vtable calls, so no CGo is required.
//
// All UI Automation calls must run on the engine's dispatcher thread; the
// COM apartment is initialized there by Automation.Init.
package winuia
