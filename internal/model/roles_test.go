package model

import "testing"

func TestIsInteractive(t *testing.T) {
	tests := []struct {
		tag  string
		role string
		want bool
	}{
		{"button", "", true},
		{"a", "", true},
		{"input", "", true},
		{"select", "", true},
		{"textarea", "", true},
		{"BUTTON", "", true},
		{"div", "button", true},
		{"span", "link", true},
		{"li", "tab", true},
		{"li", "menuitem", true},
		{"div", "", false},
		{"div", "region", false},
		{"h1", "heading", false},
	}
	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.role, func(t *testing.T) {
			if got := IsInteractive(tt.tag, tt.role); got != tt.want {
				t.Errorf("IsInteractive(%q, %q) = %v, want %v", tt.tag, tt.role, got, tt.want)
			}
		})
	}
}

func TestIsFormControl(t *testing.T) {
	for _, tag := range []string{"input", "select", "textarea", "Input"} {
		if !IsFormControl(tag) {
			t.Errorf("IsFormControl(%q) = false, want true", tag)
		}
	}
	for _, tag := range []string{"button", "a", "div", ""} {
		if IsFormControl(tag) {
			t.Errorf("IsFormControl(%q) = true, want false", tag)
		}
	}
}
