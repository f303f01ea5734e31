// Package report renders verification results for humans and classifies
// failures caused by wait timeouts.
package report

import (
	"fmt"
	"strings"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
)

// ClassifyTimeoutFailure reports whether a timed-out verification found
// nothing ("full") or at least one element ("partial").
func ClassifyTimeoutFailure(r model.VerificationResult) model.TimeoutClassification {
	if r.ElementsFound == 0 {
		return model.TimeoutFull
	}
	return model.TimeoutPartial
}

// FormatTimeoutFailure describes a timeout failure in one line.
func FormatTimeoutFailure(r model.VerificationResult) string {
	total := len(r.Details)
	switch ClassifyTimeoutFailure(r) {
	case model.TimeoutFull:
		return fmt.Sprintf("Full timeout: none of %d elements appeared before the wait expired", total)
	default:
		return fmt.Sprintf("Partial timeout: %d of %d elements appeared before the wait expired", r.ElementsFound, total)
	}
}

// Summary returns a one-line verdict for r.
func Summary(r model.VerificationResult) string {
	kind := "Component"
	if r.IsPage() {
		kind = "Page"
	}
	name := r.Target
	if r.State != "" {
		name = fmt.Sprintf("%s [%s]", name, r.State)
	}
	if name != "" {
		name = " " + name
	}
	verdict := "passed"
	if !r.Passed {
		verdict = "failed"
	}
	return fmt.Sprintf("%s%s %s: %d/%d elements found, %d missing",
		kind, name, verdict, r.ElementsFound, len(r.Details), len(r.MissingElements))
}

// FormatVerificationError renders r as a multi-line report: a header, each
// missing element with its suggested fix, then the per-section outcome for
// pages. Fixes not tied to a missing element are listed at the end.
func FormatVerificationError(r model.VerificationResult) string {
	var sb strings.Builder

	kind := "Component"
	if r.IsPage() {
		kind = "Page"
	}
	verdict := "failed"
	if r.Passed {
		verdict = "passed"
	}
	fmt.Fprintf(&sb, "%s structure verification %s", kind, verdict)
	if r.Target != "" {
		fmt.Fprintf(&sb, " for %s", r.Target)
	}
	if r.State != "" {
		fmt.Fprintf(&sb, " (state: %s)", r.State)
	}
	sb.WriteString("\n")

	if r.TimeoutFailure {
		sb.WriteString(FormatTimeoutFailure(r))
		sb.WriteString("\n")
	}

	used := make(map[int]bool)
	if len(r.MissingElements) == 0 {
		sb.WriteString("\nNo missing elements.\n")
	} else {
		fmt.Fprintf(&sb, "\nMissing elements (%d):\n", len(r.MissingElements))
		for _, id := range r.MissingElements {
			fmt.Fprintf(&sb, "  - %s\n", id)
			if i := findFix(r.SuggestedFixes, id, used); i >= 0 {
				used[i] = true
				fmt.Fprintf(&sb, "    Fix: %s\n", r.SuggestedFixes[i])
			}
		}
	}

	if r.IsPage() && len(r.SectionResults) > 0 {
		sb.WriteString("\nSections:\n")
		for _, s := range r.SectionResults {
			mark := "✓"
			if !s.Passed {
				mark = "✗"
			}
			fmt.Fprintf(&sb, "  %s %s", mark, s.Name)
			if !s.Found {
				sb.WriteString(" (container not found)")
			}
			sb.WriteString("\n")
			for _, id := range s.MissingElements {
				fmt.Fprintf(&sb, "      missing: %s\n", id)
			}
		}
	}

	var rest []string
	for i, fix := range r.SuggestedFixes {
		if !used[i] {
			rest = append(rest, fix)
		}
	}
	if len(rest) > 0 {
		sb.WriteString("\nOther suggested fixes:\n")
		for _, fix := range rest {
			fmt.Fprintf(&sb, "  - %s\n", fix)
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// findFix returns the index of the first unused fix naming id, preferring an
// exact attribute match over a bare substring.
func findFix(fixes []string, id string, used map[int]bool) int {
	quoted := `="` + id + `"`
	for i, fix := range fixes {
		if !used[i] && strings.Contains(fix, quoted) {
			return i
		}
	}
	for i, fix := range fixes {
		if !used[i] && strings.Contains(fix, id) {
			return i
		}
	}
	return -1
}
