package model

// Clone returns a deep copy of the requirement.
func (a *AccessibilityRequirement) Clone() *AccessibilityRequirement {
	if a == nil {
		return nil
	}
	c := *a
	if a.TabIndex != nil {
		v := *a.TabIndex
		c.TabIndex = &v
	}
	return &c
}

// Clone returns a deep copy of the definition and its children.
func (e ElementDefinition) Clone() ElementDefinition {
	c := e
	c.Accessibility = e.Accessibility.Clone()
	c.Children = cloneElements(e.Children)
	return c
}

// Clone returns a deep copy of the section.
func (s SectionDefinition) Clone() SectionDefinition {
	c := s
	c.Elements = cloneElements(s.Elements)
	return c
}

// Clone returns a deep copy of the page structure.
func (p PageStructure) Clone() PageStructure {
	c := p
	c.Sections = cloneSections(p.Sections)
	if p.ConditionalSections != nil {
		c.ConditionalSections = make([]ConditionalSection, len(p.ConditionalSections))
		for i, cs := range p.ConditionalSections {
			c.ConditionalSections[i] = ConditionalSection{Condition: cs.Condition, Sections: cloneSections(cs.Sections)}
		}
	}
	if p.MaskSelectors != nil {
		c.MaskSelectors = append([]string(nil), p.MaskSelectors...)
	}
	return c
}

// Clone returns a deep copy of the component structure.
func (s ComponentStructure) Clone() ComponentStructure {
	c := s
	c.RequiredElements = cloneElements(s.RequiredElements)
	c.OptionalElements = cloneElements(s.OptionalElements)
	if s.States != nil {
		c.States = make(ComponentStates, len(s.States))
		for name, els := range s.States {
			c.States[name] = cloneElements(els)
		}
	}
	return c
}

func cloneElements(els []ElementDefinition) []ElementDefinition {
	if els == nil {
		return nil
	}
	out := make([]ElementDefinition, len(els))
	for i, e := range els {
		out[i] = e.Clone()
	}
	return out
}

func cloneSections(sections []SectionDefinition) []SectionDefinition {
	if sections == nil {
		return nil
	}
	out := make([]SectionDefinition, len(sections))
	for i, s := range sections {
		out[i] = s.Clone()
	}
	return out
}
