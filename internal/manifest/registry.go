package manifest

import (
	"errors"
	"fmt"
	"sort"

	"github.com/Stefan/ppm-saas-sub008/internal/model"
)

var (
	// ErrUnknownPage is returned when a page name is not in the registry.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownComponent is returned when a component name is not in the registry.
	ErrUnknownComponent = errors.New("unknown component")
)

// Registry holds page and component manifests keyed by name. It is built
// once and never modified, so it is safe for concurrent readers. Values are
// copied on the way in and on the way out.
type Registry struct {
	pages      map[string]model.PageStructure
	components map[string]model.ComponentStructure
	pageNames  []string
	compNames  []string
}

// NewRegistry builds a registry. Duplicate or empty names are rejected.
func NewRegistry(pages []model.PageStructure, components []model.ComponentStructure) (*Registry, error) {
	r := &Registry{
		pages:      make(map[string]model.PageStructure, len(pages)),
		components: make(map[string]model.ComponentStructure, len(components)),
	}
	for _, p := range pages {
		if p.Name == "" {
			return nil, fmt.Errorf("page with path %q has no name", p.Path)
		}
		if _, dup := r.pages[p.Name]; dup {
			return nil, fmt.Errorf("duplicate page %q", p.Name)
		}
		r.pages[p.Name] = p.Clone()
		r.pageNames = append(r.pageNames, p.Name)
	}
	for _, c := range components {
		if c.Name == "" {
			return nil, fmt.Errorf("component with testId %q has no name", c.TestID)
		}
		if _, dup := r.components[c.Name]; dup {
			return nil, fmt.Errorf("duplicate component %q", c.Name)
		}
		r.components[c.Name] = c.Clone()
		r.compNames = append(r.compNames, c.Name)
	}
	sort.Strings(r.pageNames)
	sort.Strings(r.compNames)
	return r, nil
}

// Page returns the named page structure.
func (r *Registry) Page(name string) (model.PageStructure, error) {
	p, ok := r.pages[name]
	if !ok {
		return model.PageStructure{}, fmt.Errorf("%w: %q", ErrUnknownPage, name)
	}
	return p.Clone(), nil
}

// Component returns the named component structure.
func (r *Registry) Component(name string) (model.ComponentStructure, error) {
	c, ok := r.components[name]
	if !ok {
		return model.ComponentStructure{}, fmt.Errorf("%w: %q", ErrUnknownComponent, name)
	}
	return c.Clone(), nil
}

// PageNames returns the sorted page names.
func (r *Registry) PageNames() []string {
	return append([]string(nil), r.pageNames...)
}

// ComponentNames returns the sorted component names.
func (r *Registry) ComponentNames() []string {
	return append([]string(nil), r.compNames...)
}

// ValidateAll validates every manifest in the registry, keyed by
// "page:<name>" or "component:<name>".
func (r *Registry) ValidateAll() map[string]ValidationResult {
	out := make(map[string]ValidationResult, len(r.pages)+len(r.components))
	for name, p := range r.pages {
		out["page:"+name] = ValidatePageStructure(p)
	}
	for name, c := range r.components {
		out["component:"+name] = ValidateComponentStructure(c)
	}
	return out
}
