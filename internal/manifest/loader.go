package manifest

import (
	"fmt"
	"os"
	"strings"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a manifest file.
type File struct {
	Pages      []model.PageStructure      `yaml:"pages"      json:"pages"`
	Components []model.ComponentStructure `yaml:"components" json:"components"`
}

// LoadError reports every validation error found while loading a manifest.
type LoadError struct {
	Source string
	Issues []Issue
}

func (e *LoadError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		msgs[i] = is.Error()
	}
	return fmt.Sprintf("invalid manifest %s: %d errors: %s", e.Source, len(e.Issues), strings.Join(msgs, "; "))
}

// Load reads a YAML manifest file and builds a registry from it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes parses YAML manifest data. Every page and component is
// validated in its decoded form first so that shape errors are reported with
// their location instead of as a decoding failure.
func LoadBytes(source string, data []byte) (*Registry, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", source, err)
	}

	issues := ValidateDocument(raw)
	if len(issues) > 0 {
		return nil, &LoadError{Source: source, Issues: issues}
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode manifest %s: %w", source, err)
	}
	return NewRegistry(f.Pages, f.Components)
}

// ValidateDocument validates a decoded manifest document and returns its
// errors with paths prefixed by "pages[i]" or "components[i]".
func ValidateDocument(raw map[string]any) []Issue {
	var issues []Issue
	if raw == nil {
		return []Issue{{Message: "manifest is empty", Severity: SeverityError}}
	}
	for _, key := range []string{"pages", "components"} {
		v, present := raw[key]
		if !present || v == nil {
			continue
		}
		items, ok := asArray(v)
		if !ok {
			issues = append(issues, Issue{Path: key, Message: key + " must be an array", Severity: SeverityError})
			continue
		}
		for i, item := range items {
			var res ValidationResult
			if key == "pages" {
				res = ValidatePageStructure(item)
			} else {
				res = ValidateComponentStructure(item)
			}
			prefix := fmt.Sprintf("%s[%d]", key, i)
			for _, is := range res.Errors {
				is.Path = joinPath(prefix, is.Path)
				issues = append(issues, is)
			}
		}
	}
	return issues
}
