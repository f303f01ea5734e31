package model

// TimeoutClassification categorises a verification failure caused by a
// DOM-readiness wait running out of time.
type TimeoutClassification string

const (
	// TimeoutFull means nothing was found at all.
	TimeoutFull TimeoutClassification = "full"
	// TimeoutPartial means at least one element was found. This includes the
	// case where every element was found.
	TimeoutPartial TimeoutClassification = "partial"
)

// ElementDetail is the verification outcome for one element.
type ElementDetail struct {
	TestID                string                    `yaml:"testId"                          json:"testId"`
	Found                 bool                      `yaml:"found"                           json:"found"`
	Visible               bool                      `yaml:"visible"                         json:"visible"`
	Accessible            bool                      `yaml:"accessible"                      json:"accessible"`
	AccessibilityIssues   []string                  `yaml:"accessibilityIssues,omitempty"   json:"accessibilityIssues,omitempty"`
	ExpectedAccessibility *AccessibilityRequirement `yaml:"expectedAccessibility,omitempty" json:"expectedAccessibility,omitempty"`
}

// SectionResult is the outcome for one page section.
type SectionResult struct {
	Name            string          `yaml:"name"            json:"name"`
	TestID          string          `yaml:"testId"          json:"testId"`
	Found           bool            `yaml:"found"           json:"found"`
	Passed          bool            `yaml:"passed"          json:"passed"`
	MissingElements []string        `yaml:"missingElements" json:"missingElements"`
	Details         []ElementDetail `yaml:"details"         json:"details"`
	SuggestedFixes  []string        `yaml:"suggestedFixes"  json:"suggestedFixes"`
}

// VerificationResult is the aggregate outcome of verifying a page or a
// component. Page results always carry a non-nil SectionResults slice;
// component results leave it nil, and YAML omits it when empty. Results are
// built once per call and never mutated afterwards.
type VerificationResult struct {
	Target                string                `yaml:"target,omitempty"                json:"target,omitempty"`
	State                 string                `yaml:"state,omitempty"                 json:"state,omitempty"`
	Passed                bool                  `yaml:"passed"                          json:"passed"`
	MissingElements       []string              `yaml:"missingElements"                 json:"missingElements"`
	UnexpectedElements    []string              `yaml:"unexpectedElements"              json:"unexpectedElements"`
	Details               []ElementDetail       `yaml:"details"                         json:"details"`
	SectionResults        []SectionResult       `yaml:"sectionResults,omitempty"        json:"sectionResults"`
	SuggestedFixes        []string              `yaml:"suggestedFixes"                  json:"suggestedFixes"`
	TimeoutFailure        bool                  `yaml:"timeoutFailure,omitempty"        json:"timeoutFailure,omitempty"`
	TimeoutClassification TimeoutClassification `yaml:"timeoutClassification,omitempty" json:"timeoutClassification,omitempty"`
	ElementsFound         int                   `yaml:"elementsFound"                   json:"elementsFound"`
}

// IsPage reports whether r came from page verification.
func (r VerificationResult) IsPage() bool {
	return r.SectionResults != nil
}

// CountFound returns the number of details whose element was found.
func CountFound(details []ElementDetail) int {
	n := 0
	for _, d := range details {
		if d.Found {
			n++
		}
	}
	return n
}

// ExistenceResult is the outcome of a plain presence check over test IDs.
type ExistenceResult struct {
	Passed          bool     `yaml:"passed"          json:"passed"`
	FoundElements   []string `yaml:"foundElements"   json:"foundElements"`
	MissingElements []string `yaml:"missingElements" json:"missingElements"`
}

// AccessibilityCheck is the outcome of checking one element's accessibility.
type AccessibilityCheck struct {
	Passed bool     `yaml:"passed" json:"passed"`
	Issues []string `yaml:"issues" json:"issues"`
}

// InteractiveViolation lists accessible-name problems for one element.
type InteractiveViolation struct {
	TestID string   `yaml:"testId" json:"testId"`
	Issues []string `yaml:"issues" json:"issues"`
}

// InteractiveResult is the outcome of an interactive accessibility sweep.
type InteractiveResult struct {
	Passed     bool                   `yaml:"passed"     json:"passed"`
	Violations []InteractiveViolation `yaml:"violations" json:"violations"`
}
