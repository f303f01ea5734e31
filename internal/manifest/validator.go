// Package manifest validates, loads and serves structure manifests.
package manifest

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/testid"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single validation finding. Path locates the offending field,
// e.g. "sections[2].elements[0].testId"; it is empty for top-level issues.
type Issue struct {
	Path     string   `yaml:"path"     json:"path"`
	Message  string   `yaml:"message"  json:"message"`
	Severity Severity `yaml:"severity" json:"severity"`
}

func (i Issue) Error() string {
	if i.Path == "" {
		return i.Message
	}
	return fmt.Sprintf("%s: %s", i.Path, i.Message)
}

// ValidationResult contains all validation errors and warnings.
type ValidationResult struct {
	Valid    bool    `yaml:"valid"    json:"valid"`
	Errors   []Issue `yaml:"errors"   json:"errors"`
	Warnings []Issue `yaml:"warnings" json:"warnings"`
}

func newResult() ValidationResult {
	return ValidationResult{Valid: true, Errors: []Issue{}, Warnings: []Issue{}}
}

func (r *ValidationResult) addError(path, message string) {
	r.Errors = append(r.Errors, Issue{Path: path, Message: message, Severity: SeverityError})
	r.Valid = false
}

func (r *ValidationResult) addWarning(path, message string) {
	r.Warnings = append(r.Warnings, Issue{Path: path, Message: message, Severity: SeverityWarning})
}

// ErrorMessages returns all error messages as a slice.
func (r ValidationResult) ErrorMessages() []string {
	msgs := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// WarningMessages returns all warning messages as a slice.
func (r ValidationResult) WarningMessages() []string {
	msgs := make([]string, len(r.Warnings))
	for i, w := range r.Warnings {
		msgs[i] = w.Error()
	}
	return msgs
}

// Summary returns a human-readable summary.
func (r ValidationResult) Summary() string {
	if r.Valid && len(r.Warnings) == 0 {
		return "validation passed"
	}
	status := "failed"
	if r.Valid {
		status = "passed with warnings"
	}
	return fmt.Sprintf("validation %s: %d errors, %d warnings", status, len(r.Errors), len(r.Warnings))
}

// ValidatePageStructure checks the shape of a page manifest. v may be a
// model.PageStructure (or pointer to one) or a decoded YAML/JSON document.
// It never panics; malformed input yields Valid=false.
func ValidatePageStructure(v any) ValidationResult {
	r := newResult()
	doc, ok := toDocument(v)
	if !ok {
		r.addError("", "page structure must be an object")
		return r
	}

	requireString(doc, "path", "", &r)
	requireString(doc, "name", "", &r)

	sections, ok := asArray(doc["sections"])
	if !ok {
		r.addError("sections", "sections must be an array")
	}
	for i, s := range sections {
		validateSection(s, fmt.Sprintf("sections[%d]", i), &r)
	}

	if raw, present := doc["conditionalSections"]; present && raw != nil {
		groups, ok := asArray(raw)
		if !ok {
			r.addError("conditionalSections", "conditionalSections must be an array")
		}
		for i, g := range groups {
			validateConditional(g, fmt.Sprintf("conditionalSections[%d]", i), &r)
		}
	}

	switch sel := doc["waitForSelector"].(type) {
	case nil:
		r.addWarning("waitForSelector", "waitForSelector is recommended so verification waits for the page to render")
	case string:
		if strings.TrimSpace(sel) == "" {
			r.addWarning("waitForSelector", "waitForSelector is recommended so verification waits for the page to render")
		}
	default:
		r.addError("waitForSelector", "waitForSelector must be a string")
	}

	if raw, present := doc["maskSelectors"]; present && raw != nil {
		masks, ok := asArray(raw)
		if !ok {
			r.addError("maskSelectors", "maskSelectors must be an array")
		}
		for i, m := range masks {
			if _, ok := m.(string); !ok {
				r.addError(fmt.Sprintf("maskSelectors[%d]", i), "mask selector must be a string")
			}
		}
	}

	return r
}

// ValidateComponentStructure checks the shape of a component manifest.
func ValidateComponentStructure(v any) ValidationResult {
	r := newResult()
	doc, ok := toDocument(v)
	if !ok {
		r.addError("", "component structure must be an object")
		return r
	}

	requireString(doc, "name", "", &r)
	requireString(doc, "testId", "", &r)
	if id, ok := doc["testId"].(string); ok && id != "" && !testid.Valid(id) {
		r.addWarning("testId", fmt.Sprintf("testId %q is not kebab-case", id))
	}

	required, ok := asArray(doc["requiredElements"])
	if !ok {
		r.addError("requiredElements", "requiredElements must be an array")
	}
	for i, e := range required {
		validateElement(e, fmt.Sprintf("requiredElements[%d]", i), &r)
	}

	if raw, present := doc["optionalElements"]; present && raw != nil {
		optional, ok := asArray(raw)
		if !ok {
			r.addError("optionalElements", "optionalElements must be an array")
		}
		for i, e := range optional {
			validateElement(e, fmt.Sprintf("optionalElements[%d]", i), &r)
		}
	}

	states, ok := asObject(doc["states"])
	if !ok {
		r.addError("states", "states must be an object")
	}
	names := make([]string, 0, len(states))
	for name := range states {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		raw := states[name]
		if raw == nil {
			continue
		}
		path := "states." + name
		elements, ok := asArray(raw)
		if !ok {
			r.addError(path, "state elements must be an array")
			continue
		}
		for i, e := range elements {
			validateElement(e, fmt.Sprintf("%s[%d]", path, i), &r)
		}
	}

	if desc, _ := doc["description"].(string); strings.TrimSpace(desc) == "" {
		r.addWarning("description", "description is recommended for components")
	}

	return r
}

func validateConditional(v any, path string, r *ValidationResult) {
	obj, ok := asObject(v)
	if !ok {
		r.addError(path, "conditional section must be an object")
		return
	}
	requireString(obj, "condition", path, r)
	sections, ok := asArray(obj["sections"])
	if !ok {
		r.addError(joinPath(path, "sections"), "sections must be an array")
	}
	for i, s := range sections {
		validateSection(s, fmt.Sprintf("%s.sections[%d]", path, i), r)
	}
}

func validateSection(v any, path string, r *ValidationResult) {
	obj, ok := asObject(v)
	if !ok {
		r.addError(path, "section must be an object")
		return
	}
	requireString(obj, "name", path, r)
	requireString(obj, "testId", path, r)
	requireBool(obj, "required", path, r)
	warnNonCanonical(obj, path, r)

	elements, ok := asArray(obj["elements"])
	if !ok {
		r.addError(joinPath(path, "elements"), "elements must be an array")
	}
	for i, e := range elements {
		validateElement(e, fmt.Sprintf("%s.elements[%d]", path, i), r)
	}
}

func validateElement(v any, path string, r *ValidationResult) {
	obj, ok := asObject(v)
	if !ok {
		r.addError(path, "element must be an object")
		return
	}
	requireString(obj, "testId", path, r)
	requireBool(obj, "required", path, r)
	if _, ok := obj["description"].(string); !ok {
		r.addError(joinPath(path, "description"), "description must be a string")
	}
	warnNonCanonical(obj, path, r)

	if raw, present := obj["children"]; present && raw != nil {
		children, ok := asArray(raw)
		if !ok {
			r.addError(joinPath(path, "children"), "children must be an array")
		}
		for i, c := range children {
			validateElement(c, fmt.Sprintf("%s.children[%d]", path, i), r)
		}
	}

	if raw, present := obj["accessibility"]; present && raw != nil {
		validateAccessibility(raw, joinPath(path, "accessibility"), r)
	}
}

func validateAccessibility(v any, path string, r *ValidationResult) {
	obj, ok := asObject(v)
	if !ok {
		r.addError(path, "accessibility must be an object")
		return
	}
	for _, key := range []string{"role", "ariaLabel", "ariaDescribedBy", "ariaLabelledBy"} {
		if raw, present := obj[key]; present && raw != nil {
			if _, ok := raw.(string); !ok {
				r.addError(joinPath(path, key), key+" must be a string")
			}
		}
	}
	if raw, present := obj["tabIndex"]; present && raw != nil {
		if _, ok := asInt(raw); !ok {
			r.addError(joinPath(path, "tabIndex"), "tabIndex must be an integer")
		}
	}
}

func requireString(obj map[string]any, key, path string, r *ValidationResult) {
	s, ok := obj[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		r.addError(joinPath(path, key), key+" must be a non-empty string")
	}
}

func requireBool(obj map[string]any, key, path string, r *ValidationResult) {
	if _, ok := obj[key].(bool); !ok {
		r.addError(joinPath(path, key), key+" must be a boolean")
	}
}

func warnNonCanonical(obj map[string]any, path string, r *ValidationResult) {
	if id, ok := obj["testId"].(string); ok && strings.TrimSpace(id) != "" && !testid.Valid(id) {
		r.addWarning(joinPath(path, "testId"), fmt.Sprintf("testId %q is not kebab-case", id))
	}
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func asObject(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func asArray(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// toDocument turns typed manifests into the generic document form so that
// typed and decoded manifests go through the same checks.
func toDocument(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case model.PageStructure:
		return pageDocument(t), true
	case *model.PageStructure:
		if t == nil {
			return nil, false
		}
		return pageDocument(*t), true
	case model.ComponentStructure:
		return componentDocument(t), true
	case *model.ComponentStructure:
		if t == nil {
			return nil, false
		}
		return componentDocument(*t), true
	default:
		return asObject(v)
	}
}

func pageDocument(p model.PageStructure) map[string]any {
	doc := map[string]any{
		"path":     p.Path,
		"name":     p.Name,
		"sections": sectionDocuments(p.Sections),
	}
	if p.ConditionalSections != nil {
		groups := make([]any, len(p.ConditionalSections))
		for i, cs := range p.ConditionalSections {
			groups[i] = map[string]any{"condition": cs.Condition, "sections": sectionDocuments(cs.Sections)}
		}
		doc["conditionalSections"] = groups
	}
	if p.WaitForSelector != "" {
		doc["waitForSelector"] = p.WaitForSelector
	}
	if p.MaskSelectors != nil {
		masks := make([]any, len(p.MaskSelectors))
		for i, m := range p.MaskSelectors {
			masks[i] = m
		}
		doc["maskSelectors"] = masks
	}
	return doc
}

func componentDocument(c model.ComponentStructure) map[string]any {
	states := make(map[string]any, len(c.States))
	for name, els := range c.States {
		if els == nil {
			states[name] = nil
			continue
		}
		states[name] = elementDocuments(els)
	}
	doc := map[string]any{
		"name":             c.Name,
		"testId":           c.TestID,
		"requiredElements": elementDocuments(c.RequiredElements),
		"states":           states,
	}
	if c.OptionalElements != nil {
		doc["optionalElements"] = elementDocuments(c.OptionalElements)
	}
	if c.Description != "" {
		doc["description"] = c.Description
	}
	return doc
}

func sectionDocuments(sections []model.SectionDefinition) []any {
	out := make([]any, len(sections))
	for i, s := range sections {
		out[i] = map[string]any{
			"name":        s.Name,
			"testId":      s.TestID,
			"required":    s.Required,
			"description": s.Description,
			"elements":    elementDocuments(s.Elements),
		}
	}
	return out
}

func elementDocuments(els []model.ElementDefinition) []any {
	out := make([]any, len(els))
	for i, e := range els {
		doc := map[string]any{
			"testId":      e.TestID,
			"required":    e.Required,
			"description": e.Description,
		}
		if e.Children != nil {
			doc["children"] = elementDocuments(e.Children)
		}
		if a := e.Accessibility; a != nil {
			acc := map[string]any{}
			if a.Role != "" {
				acc["role"] = a.Role
			}
			if a.AriaLabel != "" {
				acc["ariaLabel"] = a.AriaLabel
			}
			if a.AriaDescribedBy != "" {
				acc["ariaDescribedBy"] = a.AriaDescribedBy
			}
			if a.AriaLabelledBy != "" {
				acc["ariaLabelledBy"] = a.AriaLabelledBy
			}
			if a.TabIndex != nil {
				acc["tabIndex"] = *a.TabIndex
			}
			doc["accessibility"] = acc
		}
		out[i] = doc
	}
	return out
}
