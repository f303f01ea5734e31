package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestComponentStates_Lookup(t *testing.T) {
	states := ComponentStates{
		"loading": {{TestID: "spinner", Required: true}},
		"empty":   nil,
	}

	els, ok := states.Lookup("loading")
	if !ok || len(els) != 1 || els[0].TestID != "spinner" {
		t.Errorf("Lookup(loading) = %v, %v", els, ok)
	}
	if _, ok := states.Lookup("empty"); ok {
		t.Error("state mapped to nil should be undefined")
	}
	if _, ok := states.Lookup("error"); ok {
		t.Error("missing state should be undefined")
	}
	if _, ok := states.Lookup(""); ok {
		t.Error("empty state name should be undefined")
	}

	var nilStates ComponentStates
	if _, ok := nilStates.Lookup("loading"); ok {
		t.Error("nil map should have no states")
	}
}

func TestComponentStates_CustomState(t *testing.T) {
	states := ComponentStates{"offline": {{TestID: "offline-banner", Required: true}}}
	if _, ok := states.Lookup("offline"); !ok {
		t.Error("custom state names must be supported")
	}
}

func TestAccessibilityRequirement_IsZero(t *testing.T) {
	var nilReq *AccessibilityRequirement
	if !nilReq.IsZero() {
		t.Error("nil requirement should be zero")
	}
	if !(&AccessibilityRequirement{}).IsZero() {
		t.Error("empty requirement should be zero")
	}
	zero := 0
	if (&AccessibilityRequirement{TabIndex: &zero}).IsZero() {
		t.Error("tabIndex 0 is a real requirement")
	}
	if (&AccessibilityRequirement{Role: "button"}).IsZero() {
		t.Error("role requirement should not be zero")
	}
}

func TestElementDefinition_YAMLKeys(t *testing.T) {
	src := `
testId: kpi-card
required: true
description: KPI card
accessibility:
  role: region
  ariaLabel: Key metrics
  tabIndex: 0
children:
  - testId: kpi-card-value
    required: true
    description: value
`
	var def ElementDefinition
	if err := yaml.Unmarshal([]byte(src), &def); err != nil {
		t.Fatal(err)
	}
	if def.TestID != "kpi-card" || !def.Required {
		t.Errorf("unexpected definition: %+v", def)
	}
	if def.Accessibility == nil || def.Accessibility.TabIndex == nil || *def.Accessibility.TabIndex != 0 {
		t.Errorf("tabIndex not decoded: %+v", def.Accessibility)
	}
	if len(def.Children) != 1 || def.Children[0].TestID != "kpi-card-value" {
		t.Errorf("children not decoded: %+v", def.Children)
	}
}

func TestVerificationResult_JSONRoundTrip(t *testing.T) {
	tab := -1
	results := []VerificationResult{
		{
			Target:             "Dashboard",
			Passed:             false,
			MissingElements:    []string{"a"},
			UnexpectedElements: []string{},
			Details: []ElementDetail{
				{TestID: "a"},
				{
					TestID: "b", Found: true, Visible: true,
					AccessibilityIssues:   []string{"missing aria-label"},
					ExpectedAccessibility: &AccessibilityRequirement{AriaLabel: "x", TabIndex: &tab},
				},
			},
			SectionResults: []SectionResult{{
				Name: "Header", TestID: "header", Found: true, Passed: false,
				MissingElements: []string{"a"}, Details: []ElementDetail{{TestID: "a"}}, SuggestedFixes: []string{},
			}},
			SuggestedFixes:        []string{`Add data-testid="a" to title`},
			TimeoutFailure:        true,
			TimeoutClassification: TimeoutPartial,
			ElementsFound:         1,
		},
		{
			Target:             "KPICard",
			State:              "loading",
			Passed:             true,
			MissingElements:    []string{},
			UnexpectedElements: []string{},
			Details:            []ElementDetail{{TestID: "spinner", Found: true, Visible: true, Accessible: true}},
			SuggestedFixes:     []string{},
			ElementsFound:      1,
		},
	}

	for _, r := range results {
		data, err := json.Marshal(r)
		if err != nil {
			t.Fatal(err)
		}
		var decoded VerificationResult
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(r, decoded) {
			t.Errorf("round trip mismatch:\n got %+v\nwant %+v", decoded, r)
		}
	}
}

func TestVerificationResult_IsPage(t *testing.T) {
	if (VerificationResult{}).IsPage() {
		t.Error("nil section results should be a component result")
	}
	if !(VerificationResult{SectionResults: []SectionResult{}}).IsPage() {
		t.Error("empty non-nil section results should be a page result")
	}
}

func TestCountFound(t *testing.T) {
	details := []ElementDetail{{Found: true}, {Found: false}, {Found: true}}
	if got := CountFound(details); got != 2 {
		t.Errorf("CountFound = %d, want 2", got)
	}
	if got := CountFound(nil); got != 0 {
		t.Errorf("CountFound(nil) = %d, want 0", got)
	}
}

func TestComponentStates_Names(t *testing.T) {
	states := ComponentStates{
		"loading": {{TestID: "x-skeleton"}},
		"error":   {{TestID: "x-error"}},
		"stale":   nil,
		"empty":   {},
	}
	got := states.Names()
	want := []string{"empty", "error", "loading"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
	if n := ComponentStates(nil).Names(); len(n) != 0 {
		t.Errorf("nil states should have no names, got %v", n)
	}
}
