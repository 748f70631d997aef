package transit

// computeDefaults proposes identity rules for fields present on both sides
// that no explicit rule covers. rules are the explicit rules already
// oriented source first. A field counts as covered when it is the root of
// any explicit source or destination path, so a rename never also writes
// the original name.
//
// Nested structs and slices need no special handling here: the engine maps
// a defaulted nested field through the registry for its element types.
func computeDefaults(cm *ClassMap, rules []Rule, src, dst *TypeDescriptor) []Rule {
	covered := make(map[string]bool, 2*len(rules))
	for _, r := range rules {
		covered[splitRoot(r.Source)] = true
		covered[splitRoot(r.Dest)] = true
	}

	var defaults []Rule
	for _, field := range dst.Fields {
		if covered[field.Name] || cm.excluded(field.Name) || !src.Has(field.Name) {
			continue
		}
		defaults = append(defaults, Rule{Source: field.Name, Dest: field.Name})
	}
	return defaults
}

// shadowedDefault returns the first explicit rule that writes a destination
// field which would otherwise have been filled from a same-named source
// field. Strict factories reject such class maps.
func shadowedDefault(rules []Rule, src *TypeDescriptor) (Rule, bool) {
	for _, r := range rules {
		root := splitRoot(r.Dest)
		if src.Has(root) && splitRoot(r.Source) != root {
			return r, true
		}
	}
	return Rule{}, false
}
