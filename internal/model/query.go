package model

import (
	"regexp"
	"strings"
	"time"
)

// Query describes one search over the accessibility tree. Exactly one of
// the three name-match modes may be set; supplying more than one is an
// invalid_parameter, rejected before any backend work happens.
type Query struct {
	Name         string   `yaml:"name,omitempty"          json:"name,omitempty"`          // exact, case-insensitive
	NameContains string   `yaml:"name_contains,omitempty" json:"name_contains,omitempty"` // case-insensitive substring
	NameRegex    string   `yaml:"name_regex,omitempty"    json:"name_regex,omitempty"`    // regexp syntax
	ControlTypes []string `yaml:"control_types,omitempty" json:"control_types,omitempty"` // allow-list
	AutomationID string   `yaml:"automation_id,omitempty" json:"automation_id,omitempty"`
	ClassName    string   `yaml:"class,omitempty"         json:"class,omitempty"`

	// Scope. ParentID takes precedence over Window when both are set.
	ParentID string  `yaml:"parent_id,omitempty" json:"parent_id,omitempty"`
	Window   uintptr `yaml:"window,omitempty"    json:"window,omitempty"`

	// Depth bounds the traversal: 0 is root only, N includes N descendant
	// levels, negative values clamp to 0. DepthExact restricts matches to
	// nodes at exactly Depth.
	Depth      int  `yaml:"depth,omitempty"       json:"depth,omitempty"`
	DepthSet   bool `yaml:"-"                     json:"-"`
	DepthExact bool `yaml:"depth_exact,omitempty" json:"depth_exact,omitempty"`

	// FoundIndex is 1-based; 0 means the caller did not disambiguate, which
	// act operations treat as "must be unique". Prominent orders candidates
	// by bounding-box area, descending, before index selection.
	FoundIndex int  `yaml:"found_index,omitempty" json:"found_index,omitempty"`
	Prominent  bool `yaml:"prominent,omitempty"   json:"prominent,omitempty"`

	Timeout time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Compiled is a validated query ready for traversal.
type Compiled struct {
	Query
	regex *regexp.Regexp
	types map[string]bool
}

// Compile validates q and pre-compiles its matchers. All validation errors
// are invalid_parameter and cost zero scanned nodes.
func (q Query) Compile() (*Compiled, *Error) {
	modes := 0
	if q.Name != "" {
		modes++
	}
	if q.NameContains != "" {
		modes++
	}
	if q.NameRegex != "" {
		modes++
	}
	if modes > 1 {
		return nil, E(ErrInvalidParameter, "name, name_contains and name_regex are mutually exclusive")
	}
	if q.FoundIndex < 0 {
		return nil, E(ErrInvalidParameter, "found_index must be >= 1 (got %d)", q.FoundIndex)
	}
	if q.Timeout < 0 {
		return nil, E(ErrInvalidParameter, "timeout must not be negative")
	}

	c := &Compiled{Query: q}
	if q.NameRegex != "" {
		re, err := regexp.Compile(q.NameRegex)
		if err != nil {
			return nil, E(ErrInvalidParameter, "bad name_regex: %v", err)
		}
		c.regex = re
	}
	if len(q.ControlTypes) > 0 {
		norm, bad := NormalizeControlTypes(q.ControlTypes)
		if bad != "" {
			return nil, E(ErrInvalidParameter, "unknown control type %q", bad)
		}
		c.Query.ControlTypes = norm
		c.types = make(map[string]bool, len(norm))
		for _, t := range norm {
			c.types[t] = true
		}
	}
	if c.Depth < 0 {
		c.Query.Depth = 0
	}
	return c, nil
}

// EffectiveIndex is the 1-based index used to select among matches.
func (c *Compiled) EffectiveIndex() int {
	if c.FoundIndex == 0 {
		return 1
	}
	return c.FoundIndex
}

// Relaxed returns a copy of the query with exact name matching downgraded
// to contains matching. Used for the single automatic retry inside
// find-and-act operations.
func (c *Compiled) Relaxed() (*Compiled, bool) {
	if c.Name == "" {
		return c, false
	}
	q := c.Query
	q.NameContains = q.Name
	q.Name = ""
	relaxed, err := q.Compile()
	if err != nil {
		return c, false
	}
	return relaxed, true
}

// MatchName applies the configured name mode to a node name. An empty query
// (no mode set) matches everything.
func (c *Compiled) MatchName(name string) bool {
	switch {
	case c.Name != "":
		return strings.EqualFold(name, c.Name)
	case c.NameContains != "":
		return strings.Contains(strings.ToLower(name), strings.ToLower(c.NameContains))
	case c.regex != nil:
		return c.regex.MatchString(name)
	default:
		return true
	}
}

// MatchType reports whether t passes the control-type allow-list.
func (c *Compiled) MatchType(t string) bool {
	if len(c.types) == 0 {
		return true
	}
	return c.types[t]
}

// Describe summarizes the query criteria for messages and logs.
func (c *Compiled) Describe() string {
	var parts []string
	if c.Name != "" {
		parts = append(parts, "name="+c.Name)
	}
	if c.NameContains != "" {
		parts = append(parts, "name~="+c.NameContains)
	}
	if c.NameRegex != "" {
		parts = append(parts, "name/="+c.NameRegex)
	}
	if len(c.Query.ControlTypes) > 0 {
		parts = append(parts, "type="+strings.Join(c.Query.ControlTypes, ","))
	}
	if c.AutomationID != "" {
		parts = append(parts, "automation_id="+c.AutomationID)
	}
	if c.ClassName != "" {
		parts = append(parts, "class="+c.ClassName)
	}
	if len(parts) == 0 {
		return "(any element)"
	}
	return strings.Join(parts, " ")
}
