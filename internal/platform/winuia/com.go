//go:build windows

package winuia

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

var (
	clsidCUIAutomation = ole.NewGUID("{FF48DBA4-60EF-4201-AA87-54103EEF594E}")
	iidIUIAutomation   = ole.NewGUID("{30CBE57D-D9D0-452A-AB13-7AC5AC4825EE}")
)

// UIA property ids read through GetCurrentPropertyValue.
const (
	propBoundingRectangle = 30001
	propProcessID         = 30002
	propControlType       = 30003
	propName              = 30005
	propIsEnabled         = 30010
	propAutomationID      = 30011
	propClassName         = 30012
	propNativeWindow      = 30020
	propIsOffscreen       = 30022
	propValueValue        = 30045
	propToggleState       = 30086
)

// Pattern-availability property ids, probed to build the capability list.
const (
	propHasExpandCollapse = 30028
	propHasInvoke         = 30031
	propHasRangeValue     = 30033
	propHasScroll         = 30034
	propHasScrollItem     = 30035
	propHasSelectionItem  = 30036
	propHasToggle         = 30041
	propHasTransform      = 30042
	propHasValue          = 30043
)

// Pattern ids for GetCurrentPattern.
const (
	patternInvoke         = 10000
	patternValue          = 10002
	patternRangeValue     = 10003
	patternScroll         = 10004
	patternExpandCollapse = 10005
	patternSelectionItem  = 10010
	patternToggle         = 10015
	patternTransform      = 10016
	patternScrollItem     = 10017
)

// ScrollAmount enum values for IUIAutomationScrollPattern::Scroll.
const (
	scrollSmallDecrement = 1
	scrollNoAmount       = 2
	scrollSmallIncrement = 4
)

// controlTypeNames maps UIA control type ids to their canonical names.
var controlTypeNames = map[int32]string{
	50000: "Button", 50001: "Calendar", 50002: "CheckBox", 50003: "ComboBox",
	50004: "Edit", 50005: "Hyperlink", 50006: "Image", 50007: "ListItem",
	50008: "List", 50009: "Menu", 50010: "MenuBar", 50011: "MenuItem",
	50012: "ProgressBar", 50013: "RadioButton", 50014: "ScrollBar",
	50015: "Slider", 50016: "Spinner", 50017: "StatusBar", 50018: "Tab",
	50019: "TabItem", 50020: "Text", 50021: "ToolBar", 50022: "ToolTip",
	50023: "Tree", 50024: "TreeItem", 50025: "Custom", 50026: "Group",
	50027: "Thumb", 50028: "DataGrid", 50029: "DataItem", 50030: "Document",
	50031: "SplitButton", 50032: "Window", 50033: "Pane", 50034: "Header",
	50035: "HeaderItem", 50036: "Table", 50037: "TitleBar", 50038: "Separator",
}

// comObject is a raw COM interface pointer driven through vtable slots.
// go-ole only generates wrappers for IDispatch-based interfaces; UIA is
// plain IUnknown-derived, so calls go through SyscallN directly.
type comObject uintptr

func (o comObject) slot(i int) uintptr {
	vtbl := *(**[1024]uintptr)(unsafe.Pointer(o))
	return vtbl[i]
}

// call invokes vtable slot i with o as the receiver and returns the HRESULT
// as an error when it signals failure.
func (o comObject) call(i int, args ...uintptr) error {
	full := make([]uintptr, 0, len(args)+1)
	full = append(full, uintptr(o))
	full = append(full, args...)
	hr, _, _ := syscall.SyscallN(o.slot(i), full...)
	if int32(hr) < 0 {
		return fmt.Errorf("uia call (slot %d): %w", i, ole.NewError(hr))
	}
	return nil
}

// Release drops one COM reference. Safe on the zero object.
func (o comObject) Release() {
	if o != 0 {
		syscall.SyscallN(o.slot(2), uintptr(o))
	}
}
