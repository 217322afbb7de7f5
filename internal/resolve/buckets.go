package resolve

import "strings"

// semanticBucket is one canonical abstract role with its curated naming
// synonyms. Buckets are an ordered slice: when a request overlaps more
// than one bucket, the earlier bucket wins.
type semanticBucket struct {
	Bucket   string
	Synonyms []string
}

// semanticBuckets is the static synonym table for tier-2 matching.
// The synonyms are lowercase; requests and record names are lowercased
// before comparison.
var semanticBuckets = []semanticBucket{
	{"text-input", []string{"text-input", "textinput", "textfield", "text-field", "input", "field", "textbox", "text-box", "textarea", "form-field", "search-field"}},
	{"button", []string{"button", "btn", "cta", "action-button", "primary-button", "secondary-button", "submit"}},
	{"checkbox", []string{"checkbox", "check-box", "check", "tick"}},
	{"radio-button", []string{"radio-button", "radio", "radiobutton", "option-button"}},
	{"switch", []string{"switch", "toggle", "toggle-switch"}},
	{"slider", []string{"slider", "range", "range-slider"}},
	{"dropdown", []string{"dropdown", "drop-down", "select", "picker", "combobox", "combo-box"}},
	{"list-item", []string{"list-item", "listitem", "list-row", "row", "cell", "item"}},
	{"card", []string{"card", "tile", "panel"}},
	{"chip", []string{"chip", "tag", "pill", "token"}},
	{"header", []string{"header", "app-bar", "appbar", "top-bar", "topbar", "toolbar", "title-bar", "heading", "hero"}},
	{"navigation-bar", []string{"navigation-bar", "navbar", "nav-bar", "nav", "bottom-nav", "navigation", "nav-rail", "drawer"}},
	{"tab-bar", []string{"tab-bar", "tabbar", "tabs", "tab"}},
	{"modal", []string{"modal", "dialog", "popup", "sheet", "bottom-sheet", "overlay"}},
	{"snackbar", []string{"snackbar", "snack-bar", "toast", "notification"}},
	{"badge", []string{"badge", "indicator", "counter"}},
	{"avatar", []string{"avatar", "profile-picture", "profile-photo", "user-image"}},
	{"search-bar", []string{"search-bar", "searchbar", "search", "search-input"}},
	{"progress", []string{"progress", "progress-bar", "spinner", "loader", "loading-indicator"}},
	{"divider", []string{"divider", "separator", "rule"}},
	{"icon", []string{"icon", "glyph", "symbol"}},
	{"footer", []string{"footer", "bottom-bar"}},
	{"fab", []string{"fab", "floating-action-button", "floating-button"}},
	{"banner", []string{"banner", "hero-banner", "promo"}},
	{"tooltip", []string{"tooltip", "hint", "popover"}},
	{"menu", []string{"menu", "context-menu", "menu-item"}},
	{"stepper", []string{"stepper", "steps", "wizard"}},
	{"table", []string{"table", "data-table", "grid", "data-grid"}},
	{"image", []string{"image", "picture", "photo", "thumbnail", "media"}},
	{"label", []string{"label", "caption", "text-label"}},
}

// bucketFor returns the first bucket whose synonym list overlaps the
// request: a synonym equal to, contained in, or containing the request.
func bucketFor(request string) *semanticBucket {
	for i := range semanticBuckets {
		b := &semanticBuckets[i]
		for _, syn := range b.Synonyms {
			if synonymMatches(request, syn) {
				return b
			}
		}
	}
	return nil
}

func synonymMatches(request, synonym string) bool {
	if request == synonym {
		return true
	}
	// Containment both ways, but only for strings long enough to be
	// meaningful - "nav" inside "canvas" must not match.
	if len(synonym) >= 4 && strings.Contains(request, synonym) {
		return true
	}
	if len(request) >= 4 && strings.Contains(synonym, request) {
		return true
	}
	return false
}
