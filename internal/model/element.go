package model

// Element is an immutable snapshot of one accessibility-tree node, captured
// at resolution time. The ID is a re-resolvable identity string, never a
// live backend reference; later calls re-resolve it from scratch.
type Element struct {
	ID           string    `yaml:"id"                      json:"id"`
	Name         string    `yaml:"name,omitempty"          json:"name,omitempty"`
	ControlType  string    `yaml:"type"                    json:"type"`
	AutomationID string    `yaml:"automation_id,omitempty" json:"automation_id,omitempty"`
	ClassName    string    `yaml:"class,omitempty"         json:"class,omitempty"`
	Bounds       [4]int    `yaml:"bounds"                  json:"bounds"` // virtual-screen [x, y, w, h]
	Monitor      int       `yaml:"monitor"                 json:"monitor"`
	MonitorRect  [4]int    `yaml:"monitor_rect"            json:"monitor_rect"` // relative to owning monitor origin
	Click        [2]int    `yaml:"click"                   json:"click"`        // monitor-relative clickable point
	Patterns     []string  `yaml:"patterns,omitempty"      json:"patterns,omitempty"`
	Enabled      bool      `yaml:"enabled"                 json:"enabled"`
	Offscreen    bool      `yaml:"offscreen,omitempty"     json:"offscreen,omitempty"`
	Value        string    `yaml:"value,omitempty"         json:"value,omitempty"`
	Toggle       string    `yaml:"toggle,omitempty"        json:"toggle,omitempty"`
	Children     []Element `yaml:"children,omitempty"      json:"children,omitempty"`
}

// CountElements returns the total node count of a tree, children included.
func CountElements(elements []Element) int {
	n := 0
	for i := range elements {
		n += 1 + CountElements(elements[i].Children)
	}
	return n
}

// Area returns the bounding-box area, the prominence measure used to rank
// ambiguous matches.
func (e Element) Area() int {
	w, h := e.Bounds[2], e.Bounds[3]
	if w < 0 || h < 0 {
		return 0
	}
	return w * h
}

// HasPattern reports whether the snapshot's capability set includes name.
func (e Element) HasPattern(name string) bool {
	for _, p := range e.Patterns {
		if p == name {
			return true
		}
	}
	return false
}

// Flatten converts a tree into a depth-first list without children, for
// compact find-style output.
func Flatten(elements []Element) []Element {
	var out []Element
	for _, el := range elements {
		children := el.Children
		el.Children = nil
		out = append(out, el)
		out = append(out, Flatten(children)...)
	}
	return out
}

// EqualStructure reports whether two trees have the same ids, ordering and
// shape. Used to verify that two reads of an unchanged UI agree.
func EqualStructure(a, b []Element) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].ControlType != b[i].ControlType {
			return false
		}
		if !EqualStructure(a[i].Children, b[i].Children) {
			return false
		}
	}
	return true
}
