package model

import (
	"reflect"
	"testing"
)

func TestNormalizeControlType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"button", "Button"},
		{"Button", "Button"},
		{"BUTTON", "Button"},
		{"checkbox", "CheckBox"},
		{"CheckBox", "CheckBox"}, // case folds before any lookup
		{" edit ", "Edit"},
		{"textbox", "Edit"},
		{"link", "Hyperlink"},
		{"radio", "RadioButton"},
		{"label", "Text"},
		{"bogus", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeControlType(tt.in); got != tt.want {
			t.Errorf("NormalizeControlType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeControlTypes(t *testing.T) {
	got, unknown := NormalizeControlTypes([]string{"button", "Button", "input", "edit"})
	if unknown != "" {
		t.Fatalf("unexpected unknown %q", unknown)
	}
	if want := []string{"Button", "Edit"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	_, unknown = NormalizeControlTypes([]string{"button", "widget"})
	if unknown != "widget" {
		t.Errorf("unknown = %q, want %q", unknown, "widget")
	}
}
