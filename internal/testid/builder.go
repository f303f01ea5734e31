package testid

// Builder produces test IDs scoped to one component.
type Builder struct {
	name string
}

// NewBuilder returns a Builder for the named component.
func NewBuilder(name string) Builder {
	return Builder{name: name}
}

// Root returns the component's own test ID.
func (b Builder) Root() string {
	return Generate(b.name, "", "")
}

// Element returns the test ID of an element inside the component.
func (b Builder) Element(name string) string {
	return Generate(b.Root(), name, "")
}

// Variant returns the test ID of an element variant inside the component.
func (b Builder) Variant(element, variant string) string {
	return Generate(b.Root(), element, variant)
}
