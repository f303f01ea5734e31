// Package verify checks rendered documents against structure manifests.
package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/platform"
	"github.com/Stefan/ppm-saas-sub008/internal/report"
)

// DefaultConcurrency bounds concurrent element inspections.
const DefaultConcurrency = 8

// Config tunes a Verifier.
type Config struct {
	Concurrency     int                  // Max concurrent element inspections (default 8)
	TestIDAttribute string               // Attribute named in suggested fixes (default data-testid)
	Waiter          platform.Waiter      // Nil skips the dynamic-content wait
	Wait            platform.WaitOptions // Wait budgets for page verification
}

// Verifier verifies structures against one document.
type Verifier struct {
	dom    platform.DOM
	config Config
}

// New returns a Verifier reading from dom.
func New(dom platform.DOM, config Config) *Verifier {
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	if config.TestIDAttribute == "" {
		config.TestIDAttribute = platform.DefaultTestIDAttribute
	}
	return &Verifier{dom: dom, config: config}
}

// VerifyElement verifies def and its children. Details come back flattened
// in pre-order along with the IDs of required elements that were not found.
func (v *Verifier) VerifyElement(ctx context.Context, def model.ElementDefinition) ([]model.ElementDetail, []string) {
	t := v.verifyElements(ctx, []model.ElementDefinition{def})
	return t.details, t.missing
}

// inspect checks the first node carrying def's test ID. Children are ignored.
func (v *Verifier) inspect(ctx context.Context, def model.ElementDefinition) model.ElementDetail {
	detail := model.ElementDetail{TestID: def.TestID}
	if !def.Accessibility.IsZero() {
		detail.ExpectedAccessibility = def.Accessibility.Clone()
	}

	matches, err := v.dom.FindByTestID(ctx, def.TestID)
	if err != nil {
		log.Debug().Err(err).Str("testId", def.TestID).Msg("element lookup failed")
	}
	if len(matches) == 0 {
		return detail
	}
	detail.Found = true

	el := matches[0]
	visible, err := el.Visible(ctx)
	if err != nil {
		log.Debug().Err(err).Str("testId", def.TestID).Msg("visibility check failed")
	}
	detail.Visible = err == nil && visible

	issues := accessibilityIssues(ctx, el, def.Accessibility)
	detail.Accessible = len(issues) == 0
	if len(issues) > 0 {
		detail.AccessibilityIssues = issues
	}
	return detail
}

// inspectAll verifies every definition in the flattened tree, bounded by the
// configured concurrency. Results keep manifest order.
func (v *Verifier) inspectAll(ctx context.Context, flat []model.FlatDefinition) []model.ElementDetail {
	details := make([]model.ElementDetail, len(flat))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.Concurrency)
	for i, f := range flat {
		g.Go(func() error {
			details[i] = v.inspect(gctx, f.ElementDefinition)
			return nil
		})
	}
	_ = g.Wait()
	return details
}

// tally accumulates details, missing IDs and fixes in manifest order.
type tally struct {
	attr    string
	missing []string
	details []model.ElementDetail
	fixes   []string
}

func newTally(attr string) *tally {
	return &tally{attr: attr, missing: []string{}, details: []model.ElementDetail{}, fixes: []string{}}
}

func (t *tally) add(def model.FlatDefinition, d model.ElementDetail) {
	t.details = append(t.details, d)
	subject := describe(def.ElementDefinition)
	switch {
	case def.Required && !d.Found:
		t.missing = append(t.missing, def.TestID)
		t.fixes = append(t.fixes, fmt.Sprintf(`Add %s="%s" to %s`, t.attr, def.TestID, subject))
	case def.Required && !d.Visible:
		t.fixes = append(t.fixes, fmt.Sprintf(`Make %s (%s="%s") visible: it is hidden with display:none or visibility:hidden`,
			subject, t.attr, def.TestID))
	}
	if d.Found && len(d.AccessibilityIssues) > 0 {
		t.fixes = append(t.fixes, fmt.Sprintf(`Fix accessibility of %s (%s="%s"): %s`,
			subject, t.attr, def.TestID, strings.Join(d.AccessibilityIssues, "; ")))
	}
}

func (t *tally) merge(o *tally) {
	t.missing = append(t.missing, o.missing...)
	t.details = append(t.details, o.details...)
	t.fixes = append(t.fixes, o.fixes...)
}

func describe(def model.ElementDefinition) string {
	if def.Description != "" {
		return def.Description
	}
	return "the " + def.TestID + " element"
}

// verifyElements checks a definition tree and tallies the outcome.
func (v *Verifier) verifyElements(ctx context.Context, defs []model.ElementDefinition) *tally {
	flat := model.FlattenDefinitions(defs)
	details := v.inspectAll(ctx, flat)
	t := newTally(v.config.TestIDAttribute)
	for i, f := range flat {
		t.add(f, details[i])
	}
	return t
}

// VerifySection checks a section's container and all of its elements.
// The container only contributes to MissingElements when the section is
// required.
func (v *Verifier) VerifySection(ctx context.Context, section model.SectionDefinition) model.SectionResult {
	result := model.SectionResult{Name: section.Name, TestID: section.TestID, Found: true}

	containerMissing := false
	if section.TestID != "" {
		matches, err := v.dom.FindByTestID(ctx, section.TestID)
		if err != nil {
			log.Debug().Err(err).Str("section", section.Name).Msg("section lookup failed")
		}
		result.Found = len(matches) > 0
		containerMissing = !result.Found && section.Required
	}

	t := v.verifyElements(ctx, section.Elements)
	if containerMissing {
		t.missing = append([]string{section.TestID}, t.missing...)
		t.fixes = append([]string{fmt.Sprintf(`Add %s="%s" to the %s section container`,
			v.config.TestIDAttribute, section.TestID, section.Name)}, t.fixes...)
	}

	result.MissingElements = t.missing
	result.Details = t.details
	result.SuggestedFixes = t.fixes
	result.Passed = len(t.missing) == 0
	return result
}

// verifySections checks the required sections and folds them into one
// page-shaped result.
func (v *Verifier) verifySections(ctx context.Context, target string, sections []model.SectionDefinition) model.VerificationResult {
	result := model.VerificationResult{
		Target:             target,
		UnexpectedElements: []string{},
		SectionResults:     []model.SectionResult{},
	}
	all := newTally(v.config.TestIDAttribute)
	for _, s := range sections {
		if !s.Required {
			continue
		}
		sr := v.VerifySection(ctx, s)
		result.SectionResults = append(result.SectionResults, sr)
		all.merge(&tally{missing: sr.MissingElements, details: sr.Details, fixes: sr.SuggestedFixes})
	}
	result.MissingElements = all.missing
	result.Details = all.details
	result.SuggestedFixes = all.fixes
	result.ElementsFound = model.CountFound(all.details)
	result.Passed = len(all.missing) == 0
	return result
}

// VerifyPageStructure waits for dynamic content, then verifies every
// required section of page. A failure after a timed-out wait is flagged and
// classified.
func (v *Verifier) VerifyPageStructure(ctx context.Context, page model.PageStructure) model.VerificationResult {
	var wait WaitReport
	if v.config.Waiter != nil {
		opts := v.config.Wait
		if page.WaitForSelector != "" {
			opts.Selector = page.WaitForSelector
		}
		wait = WaitForDynamicContent(ctx, v.config.Waiter, opts)
	}

	result := v.verifySections(ctx, page.Name, page.Sections)
	if wait.TimedOut() && !result.Passed {
		result.TimeoutFailure = true
		result.TimeoutClassification = report.ClassifyTimeoutFailure(result)
	}

	log.Debug().
		Str("page", page.Name).
		Bool("passed", result.Passed).
		Int("found", result.ElementsFound).
		Int("missing", len(result.MissingElements)).
		Msg("page verified")
	return result
}

// VerifyConditionalSections verifies the sections guarded by condition. An
// unknown condition yields a passing result with no sections.
func (v *Verifier) VerifyConditionalSections(ctx context.Context, page model.PageStructure, condition string) model.VerificationResult {
	var sections []model.SectionDefinition
	for _, cs := range page.ConditionalSections {
		if cs.Condition == condition {
			sections = append(sections, cs.Sections...)
		}
	}
	return v.verifySections(ctx, page.Name, sections)
}

// VerifyComponentStructure verifies a component. A defined state replaces
// the required elements entirely; an undefined state falls back to them.
func (v *Verifier) VerifyComponentStructure(ctx context.Context, component model.ComponentStructure, state string) model.VerificationResult {
	defs := component.RequiredElements
	result := model.VerificationResult{Target: component.Name, UnexpectedElements: []string{}}
	if stateDefs, ok := component.States.Lookup(state); ok {
		defs = stateDefs
		result.State = state
	} else if state != "" {
		log.Debug().Str("component", component.Name).Str("state", state).Msg("state not defined, using required elements")
	}

	t := v.verifyElements(ctx, defs)
	result.MissingElements = t.missing
	result.Details = t.details
	result.SuggestedFixes = t.fixes
	result.ElementsFound = model.CountFound(t.details)
	result.Passed = len(t.missing) == 0
	return result
}

// VerifyElementsExist checks plain presence of each test ID. Duplicates are
// checked once.
func (v *Verifier) VerifyElementsExist(ctx context.Context, testIDs []string) model.ExistenceResult {
	ids := dedupe(testIDs)
	found := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.config.Concurrency)
	for i, id := range ids {
		g.Go(func() error {
			matches, err := v.dom.FindByTestID(gctx, id)
			if err != nil {
				log.Debug().Err(err).Str("testId", id).Msg("element lookup failed")
			}
			found[i] = len(matches) > 0
			return nil
		})
	}
	_ = g.Wait()

	result := model.ExistenceResult{FoundElements: []string{}, MissingElements: []string{}}
	for i, id := range ids {
		if found[i] {
			result.FoundElements = append(result.FoundElements, id)
		} else {
			result.MissingElements = append(result.MissingElements, id)
		}
	}
	result.Passed = len(result.MissingElements) == 0
	return result
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
