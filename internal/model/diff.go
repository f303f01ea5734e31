package model

import (
	"fmt"
	"strings"
)

// ChangeType represents the kind of change between two verification runs.
type ChangeType string

const (
	ChangeAdded   ChangeType = "added"   // element checked now but not before
	ChangeRemoved ChangeType = "removed" // element checked before but not now
	ChangeChanged ChangeType = "changed"
)

// ResultChange is a single element-level change between two results.
type ResultChange struct {
	Type    ChangeType           `yaml:"type"              json:"type"`
	TestID  string               `yaml:"testId"            json:"testId"`
	Detail  *ElementDetail       `yaml:"detail,omitempty"  json:"detail,omitempty"`
	Changes map[string][2]string `yaml:"changes,omitempty" json:"changes,omitempty"`
}

// DiffResults compares the element details of two verification results and
// returns what changed. Details are matched by test ID; for duplicated IDs
// the first detail wins.
func DiffResults(prev, curr VerificationResult) []ResultChange {
	prevMap := indexDetails(prev.Details)
	currMap := indexDetails(curr.Details)

	var changes []ResultChange
	seen := make(map[string]bool, len(curr.Details))

	for _, d := range curr.Details {
		if seen[d.TestID] {
			continue
		}
		seen[d.TestID] = true

		prevDetail, existed := prevMap[d.TestID]
		if !existed {
			dCopy := d
			changes = append(changes, ResultChange{Type: ChangeAdded, TestID: d.TestID, Detail: &dCopy})
			continue
		}
		if diffs := diffDetail(prevDetail, currMap[d.TestID]); len(diffs) > 0 {
			changes = append(changes, ResultChange{Type: ChangeChanged, TestID: d.TestID, Changes: diffs})
		}
	}

	for _, d := range prev.Details {
		if _, exists := currMap[d.TestID]; !exists && !seen[d.TestID] {
			seen[d.TestID] = true
			changes = append(changes, ResultChange{Type: ChangeRemoved, TestID: d.TestID})
		}
	}

	return changes
}

// Regressions returns the test IDs that were found in prev but are not found
// in curr.
func Regressions(changes []ResultChange) []string {
	var ids []string
	for _, c := range changes {
		if c.Type != ChangeChanged {
			continue
		}
		if f, ok := c.Changes["found"]; ok && f[0] == "true" && f[1] == "false" {
			ids = append(ids, c.TestID)
		}
	}
	return ids
}

func indexDetails(details []ElementDetail) map[string]ElementDetail {
	m := make(map[string]ElementDetail, len(details))
	for _, d := range details {
		if _, ok := m[d.TestID]; !ok {
			m[d.TestID] = d
		}
	}
	return m
}

func diffDetail(prev, curr ElementDetail) map[string][2]string {
	diffs := make(map[string][2]string)

	if prev.Found != curr.Found {
		diffs["found"] = [2]string{fmt.Sprintf("%v", prev.Found), fmt.Sprintf("%v", curr.Found)}
	}
	if prev.Visible != curr.Visible {
		diffs["visible"] = [2]string{fmt.Sprintf("%v", prev.Visible), fmt.Sprintf("%v", curr.Visible)}
	}
	if prev.Accessible != curr.Accessible {
		diffs["accessible"] = [2]string{fmt.Sprintf("%v", prev.Accessible), fmt.Sprintf("%v", curr.Accessible)}
	}
	prevIssues := strings.Join(prev.AccessibilityIssues, "; ")
	currIssues := strings.Join(curr.AccessibilityIssues, "; ")
	if prevIssues != currIssues {
		diffs["accessibilityIssues"] = [2]string{prevIssues, currIssues}
	}

	if len(diffs) == 0 {
		return nil
	}
	return diffs
}
