package model

import "strings"

// InteractiveTags are HTML tags that accept user input by default.
var InteractiveTags = map[string]bool{
	"button":   true,
	"a":        true,
	"input":    true,
	"select":   true,
	"textarea": true,
}

// InteractiveRoles are ARIA roles that make an element interactive.
var InteractiveRoles = map[string]bool{
	"button":   true,
	"link":     true,
	"tab":      true,
	"menuitem": true,
}

// FormControlTags are tags whose accessible name may come from a
// <label for="..."> element instead of their own text.
var FormControlTags = map[string]bool{
	"input":    true,
	"select":   true,
	"textarea": true,
}

// IsInteractive reports whether an element with the given tag and role
// should expose an accessible name.
func IsInteractive(tag, role string) bool {
	return InteractiveTags[strings.ToLower(tag)] || InteractiveRoles[strings.ToLower(role)]
}

// IsFormControl reports whether tag is a labelable form control.
func IsFormControl(tag string) bool {
	return FormControlTags[strings.ToLower(tag)]
}
