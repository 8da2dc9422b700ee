// Package ident encodes and resolves element identities. An identity is an
// opaque string a caller can hold across independent operations; it is
// re-resolved against the live tree on every use, so a vanished element
// surfaces as "not found" at next use rather than as a dangling reference.
package ident

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uiactl/uiactl/internal/model"
)

// Handle is the decoded form of an element identity: the owning window,
// the backend runtime-id sequence, and the child-index path from the
// window root. Runtime id is tried first at resolution; the path is the
// fallback for backends that recycle or omit runtime ids.
type Handle struct {
	Window    uintptr
	RuntimeID []int32
	Path      []int
}

const (
	windowField  = "window:"
	runtimeField = "runtime:"
	pathField    = "path:"
)

// Encode renders h as "window:<hex>|runtime:<d.d.d>|path:<d.d>".
func (h Handle) Encode() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s%x|%s", windowField, h.Window, runtimeField)
	for i, r := range h.RuntimeID {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.FormatInt(int64(r), 10))
	}
	b.WriteByte('|')
	b.WriteString(pathField)
	for i, p := range h.Path {
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(strconv.Itoa(p))
	}
	return b.String()
}

// Decode parses an encoded identity. Malformed input is rejected as
// invalid_parameter; this is distinct from a well-formed identity that no
// longer resolves, which is reported as not found at resolution time.
func Decode(id string) (Handle, *model.Error) {
	var h Handle
	parts := strings.Split(id, "|")
	if len(parts) != 3 {
		return h, model.E(model.ErrInvalidParameter, "malformed element id %q: expected window:|runtime:|path: fields", id)
	}
	if !strings.HasPrefix(parts[0], windowField) ||
		!strings.HasPrefix(parts[1], runtimeField) ||
		!strings.HasPrefix(parts[2], pathField) {
		return h, model.E(model.ErrInvalidParameter, "malformed element id %q: bad field order", id)
	}

	hwnd, err := strconv.ParseUint(strings.TrimPrefix(parts[0], windowField), 16, 64)
	if err != nil {
		return h, model.E(model.ErrInvalidParameter, "malformed element id %q: bad window handle", id)
	}
	h.Window = uintptr(hwnd)

	if s := strings.TrimPrefix(parts[1], runtimeField); s != "" {
		for _, seg := range strings.Split(s, ".") {
			v, err := strconv.ParseInt(seg, 10, 32)
			if err != nil {
				return h, model.E(model.ErrInvalidParameter, "malformed element id %q: bad runtime id segment %q", id, seg)
			}
			h.RuntimeID = append(h.RuntimeID, int32(v))
		}
	}

	if s := strings.TrimPrefix(parts[2], pathField); s != "" {
		for _, seg := range strings.Split(s, ".") {
			v, err := strconv.Atoi(seg)
			if err != nil || v < 0 {
				return h, model.E(model.ErrInvalidParameter, "malformed element id %q: bad path segment %q", id, seg)
			}
			h.Path = append(h.Path, v)
		}
	}
	return h, nil
}

// runtimeIDEqual treats empty sequences as never equal: an absent runtime
// id carries no identity.
func runtimeIDEqual(a, b []int32) bool {
	if len(a) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
