package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Stefan/ppm-saas-sub008/internal/manifest"
	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"github.com/Stefan/ppm-saas-sub008/internal/visual"
)

// Format represents the output format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// OutputFormat is the current output format, set by the root command's --format flag.
var OutputFormat Format = FormatYAML

// PrettyOutput enables pretty-printing for JSON output.
var PrettyOutput bool

// Out is where Print writes. Tests swap it.
var Out io.Writer = os.Stdout

// Verification kinds.
const (
	KindPage      = "page"
	KindComponent = "component"
)

// VerifyResult is the top-level output of the `verify` command.
type VerifyResult struct {
	ID          string                   `yaml:"id"                    json:"id"`
	Kind        string                   `yaml:"kind"                  json:"kind"`
	Source      string                   `yaml:"source"                json:"source"`
	TS          int64                    `yaml:"ts"                    json:"ts"`
	Summary     string                   `yaml:"summary"               json:"summary"`
	Result      model.VerificationResult `yaml:"result"                json:"result"`
	Changes     []model.ResultChange     `yaml:"changes,omitempty"     json:"changes,omitempty"`
	Regressions []string                 `yaml:"regressions,omitempty" json:"regressions,omitempty"`
}

// ValidateResult is the top-level output of the `validate` command. Issues
// holds load errors that prevented a registry from being built; Results is
// then empty.
type ValidateResult struct {
	Valid   bool                                 `yaml:"valid"            json:"valid"`
	Source  string                               `yaml:"source"           json:"source"`
	Issues  []manifest.Issue                     `yaml:"issues,omitempty" json:"issues,omitempty"`
	Results map[string]manifest.ValidationResult `yaml:"results"          json:"results"`
}

// CheckResult is the top-level output of the `check` command.
type CheckResult struct {
	Source      string                   `yaml:"source"                json:"source"`
	Passed      bool                     `yaml:"passed"                json:"passed"`
	Existence   model.ExistenceResult    `yaml:"existence"             json:"existence"`
	Interactive *model.InteractiveResult `yaml:"interactive,omitempty" json:"interactive,omitempty"`
}

// PageEntry summarizes a page structure for listings.
type PageEntry struct {
	Name                string   `yaml:"name"                          json:"name"`
	Path                string   `yaml:"path"                          json:"path"`
	Sections            []string `yaml:"sections"                      json:"sections"`
	ConditionalSections []string `yaml:"conditionalSections,omitempty" json:"conditionalSections,omitempty"`
}

// ComponentEntry summarizes a component structure for listings.
type ComponentEntry struct {
	Name   string   `yaml:"name"             json:"name"`
	TestID string   `yaml:"testId"           json:"testId"`
	States []string `yaml:"states,omitempty" json:"states,omitempty"`
}

// StructureList is the output of the `list` command and the
// list_structures tool.
type StructureList struct {
	Pages      []PageEntry      `yaml:"pages"      json:"pages"`
	Components []ComponentEntry `yaml:"components" json:"components"`
}

// ListStructures summarizes every structure in r, sorted by name.
func ListStructures(r *manifest.Registry) StructureList {
	list := StructureList{Pages: []PageEntry{}, Components: []ComponentEntry{}}
	for _, name := range r.PageNames() {
		page, err := r.Page(name)
		if err != nil {
			continue
		}
		entry := PageEntry{Name: page.Name, Path: page.Path, Sections: []string{}}
		for _, sec := range page.Sections {
			entry.Sections = append(entry.Sections, sec.Name)
		}
		for _, cs := range page.ConditionalSections {
			entry.ConditionalSections = append(entry.ConditionalSections, cs.Condition)
		}
		list.Pages = append(list.Pages, entry)
	}
	for _, name := range r.ComponentNames() {
		c, err := r.Component(name)
		if err != nil {
			continue
		}
		list.Components = append(list.Components, ComponentEntry{Name: c.Name, TestID: c.TestID, States: c.States.Names()})
	}
	return list
}

// CompareResult is the top-level output of the `compare` and `snapshot` commands.
type CompareResult struct {
	Baseline   string            `yaml:"baseline"   json:"baseline"`
	Actual     string            `yaml:"actual"     json:"actual"`
	Thresholds visual.Thresholds `yaml:"thresholds" json:"thresholds"`
	Comparison visual.Comparison `yaml:"comparison" json:"comparison"`
}

// Print serializes v to Out in the current output format.
func Print(v interface{}) error {
	return Fprint(Out, v)
}

// Fprint serializes v to w in the current output format.
func Fprint(w io.Writer, v interface{}) error {
	switch OutputFormat {
	case FormatJSON:
		return WriteJSON(w, v, PrettyOutput)
	case FormatYAML:
		return WriteYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format: %s", OutputFormat)
	}
}

// WriteJSON serializes v as JSON. If pretty is true, uses indentation;
// otherwise single-line.
func WriteJSON(w io.Writer, v interface{}, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("json encode: %w", err)
	}
	return nil
}

// WriteYAML serializes v as YAML.
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("yaml encode: %w", err)
	}
	return enc.Close()
}

// SaveFile writes v to path, choosing JSON for .json files and YAML
// otherwise.
func SaveFile(path string, v interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if isJSON(path) {
		err = WriteJSON(f, v, true)
	} else {
		err = WriteYAML(f, v)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadVerifyResult reads a VerifyResult saved by SaveFile.
func LoadVerifyResult(path string) (*VerifyResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var r VerifyResult
	if isJSON(path) {
		err = json.Unmarshal(data, &r)
	} else {
		err = yaml.Unmarshal(data, &r)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	// YAML writes nil slices as [], so the envelope kind decides the shape.
	switch r.Kind {
	case KindComponent:
		r.Result.SectionResults = nil
	case KindPage:
		if r.Result.SectionResults == nil {
			r.Result.SectionResults = []model.SectionResult{}
		}
	}
	return &r, nil
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}
