package catalog

import (
	"regexp"
	"strings"
)

// typePattern pairs a semantic type with the name pattern that selects it.
type typePattern struct {
	Type    string
	Pattern *regexp.Regexp
}

// priorityPatterns are checked first, in this exact order. Ordering is a
// contract: several patterns overlap (e.g. "modal-header" vs "modal",
// "radio-button" vs "button") and the more specific type must win.
// Keep these as slices - iteration order over a map would silently break
// classification determinism.
var priorityPatterns = []typePattern{
	{"radio-button", regexp.MustCompile(`radio`)},
	{"checkbox", regexp.MustCompile(`check[-_ ]?box`)},
	{"icon-button", regexp.MustCompile(`icon[-_ ]?button`)},
	{"fab", regexp.MustCompile(`\bfab\b|floating[-_ ]?action`)},
	{"text-input", regexp.MustCompile(`text[-_ ]?(input|field|box|area)|input[-_ ]?field`)},
	{"list-item", regexp.MustCompile(`list[-_ ]?(item|row)|\bcell\b`)},
	{"app-bar", regexp.MustCompile(`app[-_ ]?bar|top[-_ ]?bar|tool[-_ ]?bar`)},
	{"navigation-bar", regexp.MustCompile(`nav(igation)?[-_ ]?(bar|rail|drawer)|bottom[-_ ]?nav`)},
	{"tab-bar", regexp.MustCompile(`tab[-_ ]?bar`)},
	{"search-bar", regexp.MustCompile(`search`)},
	{"modal-header", regexp.MustCompile(`(modal|dialog)[-_ ]?(header|title)`)},
	{"snackbar", regexp.MustCompile(`snack[-_ ]?bar|toast`)},
	{"progress", regexp.MustCompile(`progress|spinner|loader|loading`)},
	{"dropdown", regexp.MustCompile(`drop[-_ ]?down|\bselect\b|picker`)},
}

// standardPatterns are checked after the priority set, in declaration order.
var standardPatterns = []typePattern{
	{"button", regexp.MustCompile(`button|\bbtn\b|\bcta\b`)},
	{"input", regexp.MustCompile(`\binput\b|\bfield\b`)},
	{"switch", regexp.MustCompile(`switch|toggle`)},
	{"slider", regexp.MustCompile(`slider|\brange\b`)},
	{"chip", regexp.MustCompile(`chip|\btag\b|\bpill\b`)},
	{"card", regexp.MustCompile(`card|\btile\b`)},
	{"badge", regexp.MustCompile(`badge`)},
	{"avatar", regexp.MustCompile(`avatar|profile[-_ ]?(pic|photo|image)`)},
	{"modal", regexp.MustCompile(`modal|dialog|popup|\bsheet\b`)},
	{"tooltip", regexp.MustCompile(`tooltip|\bhint\b`)},
	{"header", regexp.MustCompile(`header|heading|\bhero\b`)},
	{"footer", regexp.MustCompile(`footer`)},
	{"menu", regexp.MustCompile(`menu`)},
	{"tab", regexp.MustCompile(`\btab\b`)},
	{"list", regexp.MustCompile(`\blist\b`)},
	{"table", regexp.MustCompile(`table|data[-_ ]?grid`)},
	{"banner", regexp.MustCompile(`banner`)},
	{"stepper", regexp.MustCompile(`stepper`)},
	{"divider", regexp.MustCompile(`divider|separator`)},
	{"icon", regexp.MustCompile(`icon`)},
	{"label", regexp.MustCompile(`label|caption`)},
	{"image", regexp.MustCompile(`image|photo|thumbnail`)},
	{"link", regexp.MustCompile(`\blink\b`)},
}

// ClassifyName infers the semantic type of a component from its name.
// Pure and deterministic: the same name always yields the same
// (type, confidence) pair.
func ClassifyName(name string) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(name))

	for _, tp := range priorityPatterns {
		if tp.Pattern.MatchString(lower) {
			return tp.Type, CalculateConfidence(lower, tp.Type)
		}
	}
	for _, tp := range standardPatterns {
		if tp.Pattern.MatchString(lower) {
			return tp.Type, CalculateConfidence(lower, tp.Type)
		}
	}

	return TypeUnknown, CalculateConfidence(lower, TypeUnknown)
}

// CalculateConfidence scores how strongly a name supports a type.
// The tiers are fixed: exact equality 0.95, type contained as a
// substring 0.9, shared delimited token 0.85, any weaker match 0.7.
// The unknown type is always 0.1 regardless of name.
func CalculateConfidence(name, componentType string) float64 {
	if componentType == TypeUnknown {
		return 0.1
	}

	lower := strings.ToLower(name)
	switch {
	case lower == componentType:
		return 0.95
	case strings.Contains(lower, componentType):
		return 0.9
	case tokenOverlap(lower, componentType):
		return 0.85
	default:
		return 0.7
	}
}

// tokenOverlap reports whether any delimited token of the type appears
// as a delimited token of the name ("list-item" vs "item-row").
func tokenOverlap(name, componentType string) bool {
	nameTokens := splitTokens(name)
	for _, tt := range splitTokens(componentType) {
		for _, nt := range nameTokens {
			if tt == nt {
				return true
			}
		}
	}
	return false
}

func splitTokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '/' || r == '.'
	})
}

// KnownTypes returns every type the classifier can produce, priority
// entries first. Useful for UI pickers and prompt construction.
func KnownTypes() []string {
	seen := make(map[string]bool)
	var out []string
	for _, tp := range priorityPatterns {
		if !seen[tp.Type] {
			seen[tp.Type] = true
			out = append(out, tp.Type)
		}
	}
	for _, tp := range standardPatterns {
		if !seen[tp.Type] {
			seen[tp.Type] = true
			out = append(out, tp.Type)
		}
	}
	return out
}
