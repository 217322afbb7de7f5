package render

import (
	"fmt"
	"sort"
	"strings"

	"layoutsmith/internal/logging"
)

// displayPropertyKeys always route to displayProperties, regardless of
// any overlap with variant-axis names. "type" and "size" are the
// classic ambiguous keys; this list wins only for the spellings below.
var displayPropertyKeys = map[string]bool{
	"text":            true,
	"title":           true,
	"label":           true,
	"subtitle":        true,
	"description":     true,
	"content":         true,
	"value":           true,
	"placeholder":     true,
	"caption":         true,
	"heading":         true,
	"headline":        true,
	"supporting-text": true,
	"trailing-text":   true,
	"name":            true,
	"width":           true,
	"height":          true,
}

// variantAxisKeys are common variant-axis names; matching is
// case-insensitive and the key is re-cased with a leading capital,
// since variant schemas conventionally capitalize axis names.
var variantAxisKeys = map[string]bool{
	"condition": true,
	"leading":   true,
	"trailing":  true,
	"state":     true,
	"style":     true,
	"size":      true,
	"type":      true,
	"emphasis":  true,
	"variant":   true,
}

// SeparateProperties splits a flat property bag into display properties
// and variant selectors. Rules apply in order: an embedded "variants"
// object is merged verbatim into the selectors; textual/layout keys stay
// display properties; known variant-axis names move to selectors with a
// leading capital; everything else defaults to display.
func SeparateProperties(bag map[string]any, componentID string) (map[string]any, map[string]string) {
	display := make(map[string]any)
	selectors := make(map[string]string)

	// Deterministic iteration keeps logs and warnings stable.
	keys := make([]string, 0, len(bag))
	for k := range bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := bag[key]
		lower := strings.ToLower(key)

		if lower == "variants" {
			nested, ok := value.(map[string]any)
			if !ok {
				logging.RenderDebug("component %s: variants is %T, not an object; ignoring", componentID, value)
				continue
			}
			for axis, v := range nested {
				selectors[axis] = stringify(v)
			}
			continue
		}

		switch {
		case displayPropertyKeys[lower]:
			display[key] = value
		case variantAxisKeys[lower]:
			selectors[capitalize(key)] = stringify(value)
		default:
			display[key] = value
		}
	}

	logging.RenderDebug("component %s: %d display properties, %d variant selectors",
		componentID, len(display), len(selectors))
	return display, selectors
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		// JSON numbers arrive as float64; keep integers undecorated.
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
