package render

import (
	"context"
	"sort"
	"strings"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/host"
	"layoutsmith/internal/logging"
)

// textSlot pairs a live text leaf with its hierarchy classification.
type textSlot struct {
	node  host.TextNode
	class string
}

// bindStrategy is one matching tier: returns the chosen slot or nil.
// Strategies are tried in a fixed order and the first hit wins, so each
// tier stays independently testable.
type bindStrategy struct {
	name string
	fn   func(key string, slots []textSlot) *textSlot
}

var bindStrategies = []bindStrategy{
	{"exact-name", matchExactName},
	{"semantic-class", matchSemanticClass},
	{"partial-name", matchPartialName},
	{"legacy-keyword", matchLegacyKeyword},
	{"positional", matchPositional},
}

// keyClassifications maps normalized property keys to the ordered text
// hierarchy classes they should bind to.
var keyClassifications = map[string][]string{
	"headline":       {catalog.ClassPrimary},
	"title":          {catalog.ClassPrimary},
	"heading":        {catalog.ClassPrimary},
	"text":           {catalog.ClassPrimary},
	"label":          {catalog.ClassPrimary},
	"supportingtext": {catalog.ClassSecondary, catalog.ClassPrimary},
	"subtitle":       {catalog.ClassSecondary},
	"description":    {catalog.ClassSecondary},
	"body":           {catalog.ClassSecondary},
	"trailingtext":   {catalog.ClassTertiary},
	"caption":        {catalog.ClassTertiary},
	"meta":           {catalog.ClassTertiary},
}

// legacyKeywords is the compatibility table for catalogs scanned before
// text hierarchy metadata existed: property key to candidate substrings
// searched for in leaf names.
var legacyKeywords = map[string][]string{
	"text":        {"label", "text", "title", "headline"},
	"title":       {"title", "heading", "headline", "header"},
	"subtitle":    {"subtitle", "subhead", "secondary"},
	"description": {"description", "body", "supporting"},
	"placeholder": {"placeholder", "hint"},
	"value":       {"value", "text", "label"},
	"caption":     {"caption", "meta", "timestamp"},
}

// BindText assigns string-valued display properties onto the text
// leaves of an instantiated component. Non-string values are skipped.
// Every property resolves independently: a miss or a font failure drops
// that one property and never aborts the rest.
func BindText(ctx context.Context, h host.Host, inst host.InstanceNode, rec *catalog.ComponentRecord, display map[string]any, rep *Report) {
	slots := collectSlots(h, inst, rec)
	if len(slots) == 0 {
		if len(display) > 0 {
			rep.warnf(WarnTextBinding, "component %q has no text leaves for %d text properties", inst.Name(), len(display))
		}
		return
	}

	keys := make([]string, 0, len(display))
	for k := range display {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value, ok := display[key].(string)
		if !ok {
			continue
		}

		slot, strategyName := findSlot(key, slots)
		if slot == nil {
			rep.warnf(WarnTextBinding, "no text leaf in %q matches property %q", inst.Name(), key)
			continue
		}

		applySlot(ctx, h, inst, slot, key, value, strategyName, rep)
	}
}

func findSlot(key string, slots []textSlot) (*textSlot, string) {
	for _, s := range bindStrategies {
		if slot := s.fn(key, slots); slot != nil {
			return slot, s.name
		}
	}
	return nil, ""
}

func applySlot(ctx context.Context, h host.Host, inst host.InstanceNode, slot *textSlot, key, value, strategyName string, rep *Report) {
	// Layout JSON can activate optional slots by addressing them.
	if !slot.node.Visible() {
		slot.node.SetVisible(true)
		logging.BindDebug("activated hidden text leaf %q in %q", slot.node.Name(), inst.Name())
	}

	if err := h.LoadFont(ctx, slot.node.Font()); err != nil {
		rep.warnf(WarnFontLoad, "skipping property %q on %q: %v", key, inst.Name(), err)
		return
	}
	if err := slot.node.SetCharacters(value); err != nil {
		rep.warnf(WarnFontLoad, "skipping property %q on %q: %v", key, inst.Name(), err)
		return
	}

	logging.BindDebug("bound %q to leaf %q in %q via %s", key, slot.node.Name(), inst.Name(), strategyName)
}

// collectSlots gathers the instance's text leaves in document order.
// Classifications come from the scanned catalog record when the leaf
// name is still recognizable, otherwise from position.
func collectSlots(h host.Host, inst host.InstanceNode, rec *catalog.ComponentRecord) []textSlot {
	leaves := h.TraverseAll(inst, func(n host.Node) bool {
		return n.Kind() == host.KindText
	})

	recorded := make(map[string]string)
	if rec != nil {
		for _, s := range rec.TextSlots {
			recorded[normalizeName(s.Name)] = s.Classification
		}
	}

	slots := make([]textSlot, 0, len(leaves))
	for i, n := range leaves {
		text, ok := n.(host.TextNode)
		if !ok {
			continue
		}
		class, found := recorded[normalizeName(n.Name())]
		if !found {
			class = positionalClass(i, len(leaves))
		}
		slots = append(slots, textSlot{node: text, class: class})
	}
	return slots
}

func positionalClass(index, total int) string {
	switch index {
	case 0:
		return catalog.ClassPrimary
	case 1:
		return catalog.ClassSecondary
	default:
		return catalog.ClassTertiary
	}
}

// =============================================================================
// STRATEGIES
// =============================================================================

// matchExactName: normalized equality between property key and leaf name.
func matchExactName(key string, slots []textSlot) *textSlot {
	want := normalizeName(key)
	for i := range slots {
		if normalizeName(slots[i].node.Name()) == want {
			return &slots[i]
		}
	}
	return nil
}

// matchSemanticClass: recognized keys bind to leaves by recorded
// hierarchy classification, trying each class in order.
func matchSemanticClass(key string, slots []textSlot) *textSlot {
	classes, ok := keyClassifications[normalizeName(key)]
	if !ok {
		return nil
	}
	for _, class := range classes {
		for i := range slots {
			if slots[i].class == class {
				return &slots[i]
			}
		}
	}
	return nil
}

// matchPartialName: substring containment in either direction.
func matchPartialName(key string, slots []textSlot) *textSlot {
	want := normalizeName(key)
	if len(want) < 3 {
		return nil
	}
	for i := range slots {
		name := normalizeName(slots[i].node.Name())
		if len(name) >= 3 && (strings.Contains(name, want) || strings.Contains(want, name)) {
			return &slots[i]
		}
	}
	return nil
}

// matchLegacyKeyword: the static keyword table for older catalogs.
func matchLegacyKeyword(key string, slots []textSlot) *textSlot {
	keywords, ok := legacyKeywords[strings.ToLower(key)]
	if !ok {
		return nil
	}
	for _, kw := range keywords {
		for i := range slots {
			if strings.Contains(strings.ToLower(slots[i].node.Name()), kw) {
				return &slots[i]
			}
		}
	}
	return nil
}

// matchPositional: last-resort binding by property key semantics.
// Headline-like keys take the first leaf, trailing-like keys the last,
// supporting-like keys the second (or first when there is no second).
func matchPositional(key string, slots []textSlot) *textSlot {
	lower := strings.ToLower(key)
	switch {
	case containsAny(lower, "headline", "title", "primary", "text", "label", "heading"):
		return &slots[0]
	case containsAny(lower, "trailing", "tertiary"):
		return &slots[len(slots)-1]
	case containsAny(lower, "supporting", "secondary", "subtitle", "description"):
		if len(slots) > 1 {
			return &slots[1]
		}
		return &slots[0]
	}
	return nil
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// normalizeName lowercases and strips spaces, hyphens and underscores
// so "Supporting text" matches "supporting-text".
func normalizeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(s))
}
