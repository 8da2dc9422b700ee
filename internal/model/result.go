package model

// Diagnostics accompanies every Result: how long the operation took, how
// much of the tree was scanned, and anything worth flagging.
type Diagnostics struct {
	DurationMS   int64    `yaml:"duration_ms"            json:"duration_ms"`
	NodesScanned int      `yaml:"nodes_scanned"          json:"nodes_scanned"`
	ElapsedMS    int64    `yaml:"elapsed_ms,omitempty"   json:"elapsed_ms,omitempty"` // time spent waiting before a timeout
	Warnings     []string `yaml:"warnings,omitempty"     json:"warnings,omitempty"`
}

// Result is the uniform shape every engine operation produces, success or
// failure. Failures always carry an error kind and a non-empty suggestion.
type Result struct {
	OK          bool        `yaml:"ok"                    json:"ok"`
	Action      string      `yaml:"action"                json:"action"`
	Elements    []Element   `yaml:"elements,omitempty"    json:"elements,omitempty"`
	Tree        []Element   `yaml:"tree,omitempty"        json:"tree,omitempty"`
	Count       int         `yaml:"count"                 json:"count"`
	Text        string      `yaml:"text,omitempty"        json:"text,omitempty"`
	Error       ErrorKind   `yaml:"error,omitempty"       json:"error,omitempty"`
	Message     string      `yaml:"message,omitempty"     json:"message,omitempty"`
	Suggestion  string      `yaml:"suggestion,omitempty"  json:"suggestion,omitempty"`
	Diagnostics Diagnostics `yaml:"diagnostics"           json:"diagnostics"`
}
