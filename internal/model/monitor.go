package model

// Monitor is one display in the current topology, in virtual-screen
// coordinates. Topology is externally owned and queried fresh per call;
// it is never cached across operations.
type Monitor struct {
	Bounds  [4]int `yaml:"bounds"            json:"bounds"` // [x, y, w, h]
	Primary bool   `yaml:"primary,omitempty" json:"primary,omitempty"`
}

// Mapped is the coordinate mapper's output: the chosen monitor, the
// rectangle re-expressed relative to that monitor's origin, and a clickable
// point. The local rectangle is always clamped into the monitor's bounds,
// so the point is usable for synthetic pointer input as-is.
type Mapped struct {
	Monitor int    `yaml:"monitor" json:"monitor"`
	Rect    [4]int `yaml:"rect"    json:"rect"`
	Click   [2]int `yaml:"click"   json:"click"`
}

// MapRect maps a virtual-screen rectangle onto one monitor. Selection order:
// the monitor containing the rectangle's top-left corner, else the monitor
// with the largest intersection area, else the primary monitor with the
// rectangle clamped into its bounds.
func MapRect(rect [4]int, monitors []Monitor) Mapped {
	if len(monitors) == 0 {
		// Degenerate topology: treat the rectangle as its own monitor 0.
		return Mapped{Monitor: 0, Rect: [4]int{0, 0, rect[2], rect[3]}, Click: [2]int{rect[2] / 2, rect[3] / 2}}
	}

	idx := -1
	for i, m := range monitors {
		if containsPoint(m.Bounds, rect[0], rect[1]) {
			idx = i
			break
		}
	}
	if idx < 0 {
		best := 0
		for i, m := range monitors {
			if a := intersectArea(rect, m.Bounds); a > best {
				best = a
				idx = i
			}
		}
	}
	if idx < 0 {
		idx = primaryIndex(monitors)
	}

	m := monitors[idx].Bounds
	local := [4]int{rect[0] - m[0], rect[1] - m[1], rect[2], rect[3]}
	local = clampRect(local, m[2], m[3])

	return Mapped{
		Monitor: idx,
		Rect:    local,
		Click:   [2]int{local[0] + local[2]/2, local[1] + local[3]/2},
	}
}

func primaryIndex(monitors []Monitor) int {
	for i, m := range monitors {
		if m.Primary {
			return i
		}
	}
	return 0
}

func containsPoint(b [4]int, x, y int) bool {
	return x >= b[0] && x < b[0]+b[2] && y >= b[1] && y < b[1]+b[3]
}

func intersectArea(a, b [4]int) int {
	x1 := max(a[0], b[0])
	y1 := max(a[1], b[1])
	x2 := min(a[0]+a[2], b[0]+b[2])
	y2 := min(a[1]+a[3], b[1]+b[3])
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	return (x2 - x1) * (y2 - y1)
}

// clampRect forces a local rectangle to lie fully within a w×h monitor.
// Oversized rectangles are shrunk, negative origins pulled to zero.
func clampRect(r [4]int, w, h int) [4]int {
	if r[2] > w {
		r[2] = w
	}
	if r[3] > h {
		r[3] = h
	}
	if r[2] < 1 {
		r[2] = 1
	}
	if r[3] < 1 {
		r[3] = 1
	}
	if r[0] < 0 {
		r[0] = 0
	}
	if r[1] < 0 {
		r[1] = 0
	}
	if r[0]+r[2] > w {
		r[0] = w - r[2]
	}
	if r[1]+r[3] > h {
		r[1] = h - r[3]
	}
	return r
}
