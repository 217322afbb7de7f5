package render

import (
	"sort"
	"strings"
)

// ValidateVariants reduces the requested selectors to the subset the
// live schema accepts, recording a warning for every rejection. An
// empty valid subset is not an error: the instance simply keeps its
// structural default variant. Variant application is best-effort and
// never blocks node creation.
func ValidateVariants(requested map[string]string, schema map[string][]string, rep *Report) map[string]string {
	if len(requested) == 0 {
		return nil
	}

	valid := make(map[string]string)

	axes := make([]string, 0, len(requested))
	for axis := range requested {
		axes = append(axes, axis)
	}
	sort.Strings(axes)

	for _, axis := range axes {
		value := requested[axis]

		allowed, known := schema[axis]
		if !known {
			rep.warnf(WarnVariant, "unknown variant property %q (requested %s=%s)", axis, axis, value)
			continue
		}

		if !containsValue(allowed, value) {
			rep.warnf(WarnVariant, "invalid value %q for variant %q (allowed: %s)",
				value, axis, strings.Join(allowed, ", "))
			continue
		}

		valid[axis] = value
	}

	if len(valid) == 0 {
		return nil
	}
	return valid
}

func containsValue(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
