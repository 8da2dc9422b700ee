package model

import "testing"

func TestCompile_NameModesMutuallyExclusive(t *testing.T) {
	tests := []struct {
		name    string
		q       Query
		wantErr ErrorKind
	}{
		{"exact only", Query{Name: "Five"}, ""},
		{"contains only", Query{NameContains: "Fiv"}, ""},
		{"regex only", Query{NameRegex: "^F"}, ""},
		{"exact+regex", Query{Name: "Five", NameRegex: "^F"}, ErrInvalidParameter},
		{"exact+contains", Query{Name: "Five", NameContains: "Fiv"}, ErrInvalidParameter},
		{"all three", Query{Name: "a", NameContains: "b", NameRegex: "c"}, ErrInvalidParameter},
		{"bad regex", Query{NameRegex: "("}, ErrInvalidParameter},
		{"negative index", Query{FoundIndex: -1}, ErrInvalidParameter},
		{"unknown type", Query{ControlTypes: []string{"gizmo"}}, ErrInvalidParameter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.q.Compile()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Compile() unexpected error: %v", err)
				}
				return
			}
			if err == nil || err.Kind != tt.wantErr {
				t.Fatalf("Compile() error = %v, want kind %s", err, tt.wantErr)
			}
		})
	}
}

func TestCompile_NegativeDepthClampsToZero(t *testing.T) {
	c, err := Query{Depth: -3, DepthSet: true}.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	if c.Depth != 0 {
		t.Errorf("Depth = %d, want 0", c.Depth)
	}
}

func TestMatchName(t *testing.T) {
	tests := []struct {
		name string
		q    Query
		in   string
		want bool
	}{
		{"exact case-insensitive", Query{Name: "five"}, "Five", true},
		{"exact no substring", Query{Name: "Five"}, "Twenty Five", false},
		{"contains", Query{NameContains: "five"}, "Twenty Five", true},
		{"contains miss", Query{NameContains: "six"}, "Twenty Five", false},
		{"regex", Query{NameRegex: "^F.ve$"}, "Five", true},
		{"regex miss", Query{NameRegex: "^F.ve$"}, "Fives", false},
		{"no mode matches all", Query{}, "anything", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := tt.q.Compile()
			if err != nil {
				t.Fatalf("Compile() error: %v", err)
			}
			if got := c.MatchName(tt.in); got != tt.want {
				t.Errorf("MatchName(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestCompile_ControlTypeAliases(t *testing.T) {
	c, err := Query{ControlTypes: []string{"input", "link", "Button", "button"}}.Compile()
	if err != nil {
		t.Fatalf("Compile() error: %v", err)
	}
	want := []string{"Edit", "Hyperlink", "Button"}
	if len(c.ControlTypes) != len(want) {
		t.Fatalf("ControlTypes = %v, want %v", c.ControlTypes, want)
	}
	for i := range want {
		if c.ControlTypes[i] != want[i] {
			t.Errorf("ControlTypes[%d] = %q, want %q", i, c.ControlTypes[i], want[i])
		}
	}
	if !c.MatchType("Edit") || c.MatchType("Text") {
		t.Errorf("MatchType allow-list wrong: Edit=%v Text=%v", c.MatchType("Edit"), c.MatchType("Text"))
	}
}

func TestRelaxed(t *testing.T) {
	c, _ := Query{Name: "Submit", ControlTypes: []string{"button"}}.Compile()
	r, ok := c.Relaxed()
	if !ok {
		t.Fatal("Relaxed() should apply when an exact name is set")
	}
	if r.Name != "" || r.NameContains != "Submit" {
		t.Errorf("Relaxed() = name %q contains %q", r.Name, r.NameContains)
	}
	if !r.MatchName("Submit Form") {
		t.Error("relaxed query should substring-match")
	}

	c2, _ := Query{NameContains: "Submit"}.Compile()
	if _, ok := c2.Relaxed(); ok {
		t.Error("Relaxed() should not apply without an exact name")
	}
}
