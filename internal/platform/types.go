package platform

import (
	"fmt"
	"strings"
)

// MouseButton represents a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ParseMouseButton converts a string flag value to MouseButton.
func ParseMouseButton(s string) (MouseButton, error) {
	switch strings.ToLower(s) {
	case "", "left":
		return MouseLeft, nil
	case "right":
		return MouseRight, nil
	case "middle":
		return MouseMiddle, nil
	default:
		return MouseLeft, fmt.Errorf("unknown mouse button: %q (expected left, right, or middle)", s)
	}
}

// knownModifiers are the modifier names accepted on click and key input.
var knownModifiers = map[string]bool{
	"shift": true,
	"ctrl":  true,
	"alt":   true,
	"win":   true,
}

// ParseModifiers validates and normalizes a comma-separated modifier list.
func ParseModifiers(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var mods []string
	for _, m := range strings.Split(s, ",") {
		m = strings.ToLower(strings.TrimSpace(m))
		if m == "" {
			continue
		}
		if !knownModifiers[m] {
			return nil, fmt.Errorf("unknown modifier %q (expected shift, ctrl, alt, or win)", m)
		}
		mods = append(mods, m)
	}
	return mods, nil
}
