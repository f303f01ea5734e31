package verify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
)

// attribute reads name from el, treating adapter errors as absence.
func attribute(ctx context.Context, el platform.Element, name string) (string, bool) {
	v, ok, err := el.Attribute(ctx, name)
	if err != nil {
		log.Debug().Err(err).Str("attribute", name).Msg("attribute read failed")
		return "", false
	}
	return v, ok
}

// accessibilityIssues checks each specified sub-requirement independently.
// ARIA label attributes are presence-only: empty counts as absent.
func accessibilityIssues(ctx context.Context, el platform.Element, req *model.AccessibilityRequirement) []string {
	if req.IsZero() {
		return nil
	}
	var issues []string

	if req.Role != "" {
		// An absent role never matches, not even a required role="none".
		actual, ok := attribute(ctx, el, "role")
		if !ok || actual == "" {
			issues = append(issues, fmt.Sprintf("Expected role=%q, found %q", req.Role, "none"))
		} else if actual != req.Role {
			issues = append(issues, fmt.Sprintf("Expected role=%q, found %q", req.Role, actual))
		}
	}
	presence := []struct {
		wanted string
		attr   string
	}{
		{req.AriaLabel, "aria-label"},
		{req.AriaDescribedBy, "aria-describedby"},
		{req.AriaLabelledBy, "aria-labelledby"},
	}
	for _, p := range presence {
		if p.wanted == "" {
			continue
		}
		if v, ok := attribute(ctx, el, p.attr); !ok || strings.TrimSpace(v) == "" {
			issues = append(issues, "Missing "+p.attr)
		}
	}
	if req.TabIndex != nil {
		actual := "undefined"
		match := false
		if raw, ok := attribute(ctx, el, "tabindex"); ok {
			actual = raw
			if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
				match = n == *req.TabIndex
			}
		}
		if !match {
			issues = append(issues, fmt.Sprintf("Expected tabindex=%d, found %s", *req.TabIndex, actual))
		}
	}
	return issues
}

// CheckAccessibility checks one element against req. An empty requirement
// always passes.
func (v *Verifier) CheckAccessibility(ctx context.Context, testID string, req *model.AccessibilityRequirement) model.AccessibilityCheck {
	if req.IsZero() {
		return model.AccessibilityCheck{Passed: true, Issues: []string{}}
	}
	matches, err := v.dom.FindByTestID(ctx, testID)
	if err != nil {
		log.Debug().Err(err).Str("testId", testID).Msg("element lookup failed")
	}
	if len(matches) == 0 {
		return model.AccessibilityCheck{Passed: false, Issues: []string{testID + " not found"}}
	}
	issues := accessibilityIssues(ctx, matches[0], req)
	if issues == nil {
		issues = []string{}
	}
	return model.AccessibilityCheck{Passed: len(issues) == 0, Issues: issues}
}

// VerifyInteractiveAccessibility checks that every interactive element among
// testIDs exposes an accessible name. Non-interactive elements are skipped.
func (v *Verifier) VerifyInteractiveAccessibility(ctx context.Context, testIDs []string) model.InteractiveResult {
	ids := dedupe(testIDs)
	issues := make([][]string, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			issues[i] = v.interactiveIssues(gctx, id)
			return nil
		})
	}
	_ = g.Wait()

	result := model.InteractiveResult{Violations: []model.InteractiveViolation{}}
	for i, id := range ids {
		if len(issues[i]) > 0 {
			result.Violations = append(result.Violations, model.InteractiveViolation{TestID: id, Issues: issues[i]})
		}
	}
	result.Passed = len(result.Violations) == 0
	return result
}

func (v *Verifier) interactiveIssues(ctx context.Context, testID string) []string {
	matches, err := v.dom.FindByTestID(ctx, testID)
	if err != nil {
		log.Debug().Err(err).Str("testId", testID).Msg("element lookup failed")
	}
	if len(matches) == 0 {
		return []string{"Element not found"}
	}
	el := matches[0]

	tag, err := el.TagName(ctx)
	if err != nil {
		log.Debug().Err(err).Str("testId", testID).Msg("tag read failed")
	}
	role, _ := attribute(ctx, el, "role")
	if !model.IsInteractive(tag, role) {
		return nil
	}

	if label, ok := attribute(ctx, el, "aria-label"); ok && strings.TrimSpace(label) != "" {
		return nil
	}
	if by, ok := attribute(ctx, el, "aria-labelledby"); ok && strings.TrimSpace(by) != "" {
		return nil
	}

	if model.IsFormControl(tag) {
		if id, ok := attribute(ctx, el, "id"); ok && id != "" {
			labelled, err := v.dom.HasLabelFor(ctx, id)
			if err != nil {
				log.Debug().Err(err).Str("testId", testID).Msg("label lookup failed")
			}
			if labelled {
				return nil
			}
		}
		return []string{fmt.Sprintf("Form control <%s> has no accessible name (needs aria-label, aria-labelledby or <label for>)", tag)}
	}

	text, err := el.Text(ctx)
	if err != nil {
		log.Debug().Err(err).Str("testId", testID).Msg("text read failed")
	}
	if strings.TrimSpace(text) != "" {
		return nil
	}
	name := tag
	if role != "" {
		name = fmt.Sprintf("%s role=%q", tag, role)
	}
	return []string{fmt.Sprintf("Interactive element <%s> has no accessible name (needs aria-label, aria-labelledby or text content)", name)}
}
