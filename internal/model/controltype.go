package model

import "strings"

// canonicalTypes is the set of control-type names the engine reports, in
// UI Automation naming. Queries are matched case-insensitively against
// these, with a few common aliases accepted.
var canonicalTypes = map[string]string{
	"button":      "Button",
	"calendar":    "Calendar",
	"checkbox":    "CheckBox",
	"combobox":    "ComboBox",
	"edit":        "Edit",
	"hyperlink":   "Hyperlink",
	"image":       "Image",
	"listitem":    "ListItem",
	"list":        "List",
	"menu":        "Menu",
	"menubar":     "MenuBar",
	"menuitem":    "MenuItem",
	"progressbar": "ProgressBar",
	"radiobutton": "RadioButton",
	"scrollbar":   "ScrollBar",
	"slider":      "Slider",
	"spinner":     "Spinner",
	"statusbar":   "StatusBar",
	"tab":         "Tab",
	"tabitem":     "TabItem",
	"text":        "Text",
	"toolbar":     "ToolBar",
	"tooltip":     "ToolTip",
	"tree":        "Tree",
	"treeitem":    "TreeItem",
	"custom":      "Custom",
	"group":       "Group",
	"thumb":       "Thumb",
	"datagrid":    "DataGrid",
	"dataitem":    "DataItem",
	"document":    "Document",
	"splitbutton": "SplitButton",
	"window":      "Window",
	"pane":        "Pane",
	"header":      "Header",
	"headeritem":  "HeaderItem",
	"table":       "Table",
	"titlebar":    "TitleBar",
	"separator":   "Separator",
}

// aliases accepted on input for the sake of agents that use web/ARIA-ish
// names instead of UIA names.
var typeAliases = map[string]string{
	"textbox": "edit",
	"input":   "edit",
	"link":    "hyperlink",
	"option":  "listitem",
	"radio":   "radiobutton",
	"label":   "text",
	"static":  "text",
}

// NormalizeControlType maps a user-supplied control-type name to its
// canonical form. Returns "" for unknown names.
func NormalizeControlType(s string) string {
	key := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := typeAliases[key]; ok {
		key = alias
	}
	return canonicalTypes[key]
}

// NormalizeControlTypes normalizes a list, dropping duplicates. The second
// return value names the first unknown entry, if any.
func NormalizeControlTypes(types []string) ([]string, string) {
	seen := make(map[string]bool, len(types))
	var out []string
	for _, t := range types {
		c := NormalizeControlType(t)
		if c == "" {
			return nil, t
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, ""
}
