//go:build windows

package winuia

import (
	"fmt"
	"math"
	"runtime"
	"unsafe"

	"github.com/go-ole/go-ole"
	"github.com/uiactl/uiactl/internal/platform"
)

// IUIAutomationElement vtable slots.
const (
	elemGetRuntimeID            = 4
	elemGetCurrentPropertyValue = 10
	elemGetCurrentPattern       = 16
)

// Pattern interface vtable slots. Each pattern interface starts its own
// methods at slot 3, after IUnknown.
const (
	invokeInvoke       = 3
	toggleToggle       = 3
	valueSetValue      = 3
	selItemSelect      = 3
	expandExpand       = 3
	expandCollapse     = 4
	scrollItemIntoView = 3
	scrollScroll       = 3
	scrollHorizPercent = 5
	scrollVertPercent  = 6
	rangeSetValue      = 3
	transformMove      = 3
	transformResize    = 4
)

// node wraps one IUIAutomationElement. It is only valid on the apartment
// thread and within the operation that produced it.
type node struct {
	a  *Automation
	el comObject
}

var _ platform.Node = (*node)(nil)

func (a *Automation) newNode(el comObject) *node {
	n := &node{a: a, el: el}
	// Elements are short-lived within one dispatched operation; the
	// finalizer reclaims the COM reference once the snapshot is taken.
	runtime.SetFinalizer(n, func(n *node) { n.el.Release() })
	return n
}

// property reads one UIA property into a VARIANT and returns its Go value.
func (n *node) property(id int32) (interface{}, error) {
	var v ole.VARIANT
	ole.VariantInit(&v)
	if err := n.el.call(elemGetCurrentPropertyValue, uintptr(id), uintptr(unsafe.Pointer(&v))); err != nil {
		return nil, err
	}
	defer v.Clear()
	return v.Value(), nil
}

func (n *node) stringProp(id int32) string {
	v, err := n.property(id)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (n *node) intProp(id int32) int32 {
	v, err := n.property(id)
	if err != nil {
		return 0
	}
	switch t := v.(type) {
	case int32:
		return t
	case int64:
		return int32(t)
	case int:
		return int32(t)
	default:
		return 0
	}
}

func (n *node) boolProp(id int32) bool {
	v, err := n.property(id)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func (n *node) Name() string         { return n.stringProp(propName) }
func (n *node) AutomationID() string { return n.stringProp(propAutomationID) }
func (n *node) ClassName() string    { return n.stringProp(propClassName) }
func (n *node) ProcessID() int       { return int(n.intProp(propProcessID)) }
func (n *node) Enabled() bool        { return n.boolProp(propIsEnabled) }
func (n *node) Offscreen() bool      { return n.boolProp(propIsOffscreen) }

func (n *node) ControlType() string {
	if name, ok := controlTypeNames[n.intProp(propControlType)]; ok {
		return name
	}
	return "Custom"
}

func (n *node) WindowHandle() uintptr {
	return uintptr(uint32(n.intProp(propNativeWindow)))
}

// Bounds reads the bounding rectangle as [x, y, width, height] in
// virtual-screen coordinates. UIA delivers it as a 4-double array.
func (n *node) Bounds() [4]int {
	var v ole.VARIANT
	ole.VariantInit(&v)
	if err := n.el.call(elemGetCurrentPropertyValue, uintptr(propBoundingRectangle), uintptr(unsafe.Pointer(&v))); err != nil {
		return [4]int{}
	}
	defer v.Clear()
	sac := v.ToArray()
	if sac == nil {
		return [4]int{}
	}
	vals := sac.ToValueArray()
	if len(vals) != 4 {
		return [4]int{}
	}
	var rect [4]int
	for i, raw := range vals {
		f, ok := raw.(float64)
		if !ok {
			return [4]int{}
		}
		rect[i] = int(f)
	}
	return rect
}

// RuntimeID returns the element's backend identity sequence.
func (n *node) RuntimeID() []int32 {
	var psa *ole.SafeArray
	if err := n.el.call(elemGetRuntimeID, uintptr(unsafe.Pointer(&psa))); err != nil || psa == nil {
		return nil
	}
	sac := ole.SafeArrayConversion{Array: psa}
	defer sac.Release()
	var out []int32
	for _, v := range sac.ToValueArray() {
		switch t := v.(type) {
		case int32:
			out = append(out, t)
		case int64:
			out = append(out, int32(t))
		}
	}
	return out
}

func (n *node) Value() (string, bool) {
	if !n.boolProp(propHasValue) {
		return "", false
	}
	return n.stringProp(propValueValue), true
}

func (n *node) ToggleState() (string, bool) {
	if !n.boolProp(propHasToggle) {
		return "", false
	}
	switch n.intProp(propToggleState) {
	case 0:
		return "off", true
	case 1:
		return "on", true
	default:
		return "indeterminate", true
	}
}

// Patterns lists the capability names the element advertises.
func (n *node) Patterns() []string {
	probes := []struct {
		prop int32
		name string
	}{
		{propHasInvoke, platform.PatternInvoke},
		{propHasToggle, platform.PatternToggle},
		{propHasValue, platform.PatternValue},
		{propHasSelectionItem, platform.PatternSelect},
		{propHasExpandCollapse, platform.PatternExpand},
		{propHasScrollItem, platform.PatternScrollItem},
		{propHasScroll, platform.PatternScroll},
		{propHasRangeValue, platform.PatternRange},
		{propHasTransform, platform.PatternTransform},
	}
	var out []string
	for _, p := range probes {
		if n.boolProp(p.prop) {
			out = append(out, p.name)
		}
	}
	return out
}

// Children walks the control view, which skips pure layout noise the way
// screen readers do.
func (n *node) Children() ([]platform.Node, error) {
	var out []platform.Node
	var child comObject
	if err := n.a.walker.call(walkerGetFirstChild, uintptr(n.el), uintptr(unsafe.Pointer(&child))); err != nil {
		return nil, fmt.Errorf("first child: %w", err)
	}
	for child != 0 {
		out = append(out, n.a.newNode(child))
		var next comObject
		if err := n.a.walker.call(walkerGetNextSibling, uintptr(child), uintptr(unsafe.Pointer(&next))); err != nil {
			return out, fmt.Errorf("next sibling: %w", err)
		}
		child = next
	}
	return out, nil
}

// pattern fetches a pattern interface; a zero object means the element does
// not implement it.
func (n *node) pattern(id int32) (comObject, error) {
	var p comObject
	if err := n.el.call(elemGetCurrentPattern, uintptr(id), uintptr(unsafe.Pointer(&p))); err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, fmt.Errorf("pattern %d not implemented", id)
	}
	return p, nil
}

func (n *node) Invoke() error {
	p, err := n.pattern(patternInvoke)
	if err != nil {
		return err
	}
	defer p.Release()
	return p.call(invokeInvoke)
}

func (n *node) Toggle() error {
	p, err := n.pattern(patternToggle)
	if err != nil {
		return err
	}
	defer p.Release()
	return p.call(toggleToggle)
}

func (n *node) SetValue(value string) error {
	p, err := n.pattern(patternValue)
	if err != nil {
		return err
	}
	defer p.Release()
	bstr := ole.SysAllocString(value)
	defer ole.SysFreeString(bstr)
	return p.call(valueSetValue, uintptr(unsafe.Pointer(bstr)))
}

func (n *node) Select() error {
	p, err := n.pattern(patternSelectionItem)
	if err != nil {
		return err
	}
	defer p.Release()
	return p.call(selItemSelect)
}

func (n *node) ExpandCollapse(expand bool) error {
	p, err := n.pattern(patternExpandCollapse)
	if err != nil {
		return err
	}
	defer p.Release()
	if expand {
		return p.call(expandExpand)
	}
	return p.call(expandCollapse)
}

func (n *node) ScrollIntoView() error {
	p, err := n.pattern(patternScrollItem)
	if err != nil {
		return err
	}
	defer p.Release()
	return p.call(scrollItemIntoView)
}

func (n *node) SetRangeValue(value float64) error {
	p, err := n.pattern(patternRangeValue)
	if err != nil {
		return err
	}
	defer p.Release()
	return p.call(rangeSetValue, uintptr(float64bits(value)))
}

func (n *node) MoveResize(x, y, w, h int) error {
	p, err := n.pattern(patternTransform)
	if err != nil {
		return err
	}
	defer p.Release()
	if err := p.call(transformMove, uintptr(float64bits(float64(x))), uintptr(float64bits(float64(y)))); err != nil {
		return err
	}
	return p.call(transformResize, uintptr(float64bits(float64(w))), uintptr(float64bits(float64(h))))
}

// Scroll performs one unit scroll and reports whether the viewport actually
// moved, read back from the scroll percentages.
func (n *node) Scroll(dx, dy int) (bool, error) {
	p, err := n.pattern(patternScroll)
	if err != nil {
		return false, err
	}
	defer p.Release()

	beforeH, beforeV := scrollPercents(p)
	if err := p.call(scrollScroll, uintptr(scrollAmount(dx)), uintptr(scrollAmount(dy))); err != nil {
		return false, err
	}
	afterH, afterV := scrollPercents(p)
	return beforeH != afterH || beforeV != afterV, nil
}

func scrollAmount(delta int) int {
	switch {
	case delta > 0:
		return scrollSmallIncrement
	case delta < 0:
		return scrollSmallDecrement
	default:
		return scrollNoAmount
	}
}

func scrollPercents(p comObject) (h, v float64) {
	p.call(scrollHorizPercent, uintptr(unsafe.Pointer(&h)))
	p.call(scrollVertPercent, uintptr(unsafe.Pointer(&v)))
	return h, v
}

// float64bits reinterprets a double for passing through a raw vtable call.
func float64bits(f float64) uint64 {
	return math.Float64bits(f)
}
