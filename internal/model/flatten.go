package model

// FlatDefinition is an element definition with a path breadcrumb instead of
// children.
type FlatDefinition struct {
	ElementDefinition
	Path  string
	Depth int
}

// FlattenDefinitions converts a tree of element definitions into a flat list
// in pre-order: each parent precedes its children. Path joins the test IDs of
// the ancestors and the element itself with " > ".
func FlattenDefinitions(defs []ElementDefinition) []FlatDefinition {
	var result []FlatDefinition
	for _, def := range defs {
		flattenRecursive(def, "", 0, &result)
	}
	return result
}

func flattenRecursive(def ElementDefinition, parentPath string, depth int, result *[]FlatDefinition) {
	currentPath := def.TestID
	if parentPath != "" {
		currentPath = parentPath + " > " + def.TestID
	}

	flat := FlatDefinition{ElementDefinition: def, Path: currentPath, Depth: depth}
	flat.Children = nil
	*result = append(*result, flat)

	for _, child := range def.Children {
		flattenRecursive(child, currentPath, depth+1, result)
	}
}

// CollectTestIDs returns every test ID in defs, children included, in
// pre-order.
func CollectTestIDs(defs []ElementDefinition) []string {
	flat := FlattenDefinitions(defs)
	ids := make([]string, 0, len(flat))
	for _, f := range flat {
		ids = append(ids, f.TestID)
	}
	return ids
}
