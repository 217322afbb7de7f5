package catalog

import (
	"strings"

	"layoutsmith/internal/host"
	"layoutsmith/internal/logging"
)

// Text hierarchy classifications.
const (
	ClassPrimary   = "primary"
	ClassSecondary = "secondary"
	ClassTertiary  = "tertiary"
)

// FindTextSlots walks a component master's full subtree and returns its
// text leaves in document order, each tagged with a hierarchy
// classification. Unreadable character content is logged and skipped; a
// bad leaf never fails the scan - the name alone is still a usable hint.
func FindTextSlots(h host.Host, root host.Node) []TextSlot {
	leaves := h.TraverseAll(root, func(n host.Node) bool {
		return n.Kind() == host.KindText
	})
	if len(leaves) == 0 {
		return nil
	}

	slots := make([]TextSlot, 0, len(leaves))
	for i, n := range leaves {
		text, ok := n.(host.TextNode)
		if !ok {
			continue
		}
		if _, err := text.Characters(); err != nil {
			logging.ScanDebug("text leaf %q in %q: characters unreadable (%v), keeping name only",
				n.Name(), root.Name(), err)
		}
		slots = append(slots, TextSlot{
			Name:           n.Name(),
			Classification: classifySlot(n.Name(), i, len(leaves)),
		})
	}
	return slots
}

// classifySlot infers a leaf's place in the text hierarchy, preferring
// name hints over position.
func classifySlot(name string, index, total int) string {
	lower := strings.ToLower(name)

	switch {
	case containsAny(lower, "title", "headline", "heading", "header", "primary", "label"):
		return ClassPrimary
	case containsAny(lower, "subtitle", "supporting", "secondary", "body", "description", "subhead"):
		return ClassSecondary
	case containsAny(lower, "trailing", "tertiary", "meta", "caption", "timestamp"):
		return ClassTertiary
	}

	// Positional fallback: first leaf is primary, second secondary,
	// anything after that tertiary.
	switch index {
	case 0:
		return ClassPrimary
	case 1:
		return ClassSecondary
	default:
		return ClassTertiary
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
