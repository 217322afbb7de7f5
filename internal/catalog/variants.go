package catalog

import "sort"

// ExtractVariantSchema normalizes the raw axes declared on a variant
// set: values are sorted lexicographically and de-duplicated so schema
// display and comparison are deterministic, and axes with no name or no
// values are dropped.
func ExtractVariantSchema(axes map[string][]string) map[string][]string {
	if len(axes) == 0 {
		return nil
	}

	out := make(map[string][]string, len(axes))
	for axis, values := range axes {
		if axis == "" {
			continue
		}
		seen := make(map[string]bool, len(values))
		var cleaned []string
		for _, v := range values {
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			cleaned = append(cleaned, v)
		}
		if len(cleaned) == 0 {
			continue
		}
		sort.Strings(cleaned)
		out[axis] = cleaned
	}

	if len(out) == 0 {
		return nil
	}
	return out
}
