package model

import "sort"

// AccessibilityRequirement is the accessibility contract for a single element.
// AriaLabel, AriaDescribedBy and AriaLabelledBy are presence-only: the value
// is documentation, the verifier only checks that the attribute is set.
type AccessibilityRequirement struct {
	Role            string `yaml:"role,omitempty"            json:"role,omitempty"`
	AriaLabel       string `yaml:"ariaLabel,omitempty"       json:"ariaLabel,omitempty"`
	AriaDescribedBy string `yaml:"ariaDescribedBy,omitempty" json:"ariaDescribedBy,omitempty"`
	AriaLabelledBy  string `yaml:"ariaLabelledBy,omitempty"  json:"ariaLabelledBy,omitempty"`
	TabIndex        *int   `yaml:"tabIndex,omitempty"        json:"tabIndex,omitempty"`
}

// IsZero reports whether the requirement specifies nothing.
func (a *AccessibilityRequirement) IsZero() bool {
	return a == nil || (a.Role == "" && a.AriaLabel == "" && a.AriaDescribedBy == "" &&
		a.AriaLabelledBy == "" && a.TabIndex == nil)
}

// ElementDefinition is a single expected UI element.
type ElementDefinition struct {
	TestID        string                    `yaml:"testId"                  json:"testId"`
	Required      bool                      `yaml:"required"                json:"required"`
	Description   string                    `yaml:"description"             json:"description"`
	Children      []ElementDefinition       `yaml:"children,omitempty"      json:"children,omitempty"`
	Accessibility *AccessibilityRequirement `yaml:"accessibility,omitempty" json:"accessibility,omitempty"`
}

// SectionDefinition is a named group of elements with its own container.
type SectionDefinition struct {
	Name        string              `yaml:"name"                  json:"name"`
	TestID      string              `yaml:"testId"                json:"testId"`
	Required    bool                `yaml:"required"              json:"required"`
	Description string              `yaml:"description,omitempty" json:"description,omitempty"`
	Elements    []ElementDefinition `yaml:"elements"              json:"elements"`
}

// ConditionalSection groups sections that only render under some condition.
// The condition is descriptive; callers decide when it holds.
type ConditionalSection struct {
	Condition string              `yaml:"condition" json:"condition"`
	Sections  []SectionDefinition `yaml:"sections"  json:"sections"`
}

// PageStructure is the expected structure of one routable page.
type PageStructure struct {
	Path                string               `yaml:"path"                          json:"path"`
	Name                string               `yaml:"name"                          json:"name"`
	Sections            []SectionDefinition  `yaml:"sections"                      json:"sections"`
	ConditionalSections []ConditionalSection `yaml:"conditionalSections,omitempty" json:"conditionalSections,omitempty"`
	WaitForSelector     string               `yaml:"waitForSelector,omitempty"     json:"waitForSelector,omitempty"`
	MaskSelectors       []string             `yaml:"maskSelectors,omitempty"       json:"maskSelectors,omitempty"`
}

// ComponentStates maps a state name (loading, error, empty, or any custom
// name) to the elements checked instead of the component's required set.
type ComponentStates map[string][]ElementDefinition

// Lookup returns the element set for state and whether the state is defined.
// A state mapped to a nil slice counts as undefined.
func (s ComponentStates) Lookup(state string) ([]ElementDefinition, bool) {
	if state == "" || s == nil {
		return nil, false
	}
	elements, ok := s[state]
	if !ok || elements == nil {
		return nil, false
	}
	return elements, true
}

// Names returns the defined state names in sorted order.
func (s ComponentStates) Names() []string {
	names := make([]string, 0, len(s))
	for name, elements := range s {
		if elements != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ComponentStructure is the expected structure of a reusable component.
type ComponentStructure struct {
	Name             string              `yaml:"name"                       json:"name"`
	TestID           string              `yaml:"testId"                     json:"testId"`
	RequiredElements []ElementDefinition `yaml:"requiredElements"           json:"requiredElements"`
	OptionalElements []ElementDefinition `yaml:"optionalElements,omitempty" json:"optionalElements,omitempty"`
	States           ComponentStates     `yaml:"states"                     json:"states"`
	Description      string              `yaml:"description,omitempty"      json:"description,omitempty"`
}
