package model

// Window describes a top-level application window.
type Window struct {
	Handle  uintptr `yaml:"handle"            json:"handle"`
	Title   string  `yaml:"title"             json:"title"`
	Class   string  `yaml:"class,omitempty"   json:"class,omitempty"`
	PID     int     `yaml:"pid"               json:"pid"`
	Bounds  [4]int  `yaml:"bounds"            json:"bounds"`
	Focused bool    `yaml:"focused,omitempty" json:"focused,omitempty"`
}
