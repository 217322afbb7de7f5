package render

import (
	"errors"
	"regexp"
	"strings"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/layout"
	"layoutsmith/internal/logging"
	"layoutsmith/internal/resolve"
)

// hostIDPattern is the shape of a real host-assigned identifier.
var hostIDPattern = regexp.MustCompile(`^\d+:\d+$`)

// needsResolution reports whether a component id is absent or a
// placeholder sentinel asking to be resolved.
func needsResolution(id string) bool {
	if strings.TrimSpace(id) == "" {
		return true
	}
	lower := strings.ToLower(id)
	if strings.Contains(lower, "_id") || strings.Contains(lower, "placeholder") {
		return true
	}
	return !hostIDPattern.MatchString(id)
}

// ResolveComponentIDs is the pre-render pass: it walks the tree in
// document order and replaces every placeholder or missing component id
// with a concrete catalog id via the semantic resolver, mutating the
// tree in place.
//
// A single failed resolution is fatal for the whole pass. It runs
// strictly before rendering, so a failure here guarantees zero document
// mutation: the renderer would otherwise be forced to silently drop
// content the caller explicitly asked for.
func ResolveComponentIDs(doc *layout.Document, cat *catalog.Catalog) error {
	timer := logging.StartTimer(logging.CategoryResolve, "ResolveComponentIDs")
	defer timer.Stop()

	return doc.WalkComponents(func(path string, ref *layout.ComponentRef) error {
		if !needsResolution(ref.ComponentID) {
			return nil
		}

		rec, err := resolve.Resolve(ref.Type, cat)
		if err != nil {
			resErr := &ResolutionError{RequestedType: ref.Type, Path: path}
			var nf *resolve.NotFoundError
			if errors.As(err, &nf) {
				resErr.Suggestions = nf.Suggestions
			}
			return resErr
		}

		logging.Resolve("Resolved %q at %s: %q -> %s", ref.Type, path, ref.ComponentID, rec.ID)
		ref.ComponentID = rec.ID
		return nil
	})
}
