package resolve

import (
	"errors"
	"testing"

	"layoutsmith/internal/catalog"
)

func catalogOf(records ...*catalog.ComponentRecord) *catalog.Catalog {
	cat := catalog.NewCatalog("doc")
	for _, rec := range records {
		cat.Add(rec)
	}
	return cat
}

func TestResolveExactBySuggestedType(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "10:1", Name: "Primary Action", SuggestedType: "button", Confidence: 0.7},
		&catalog.ComponentRecord{ID: "10:2", Name: "Card", SuggestedType: "card", Confidence: 0.95},
	)

	rec, err := Resolve("button", cat)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.ID != "10:1" {
		t.Errorf("resolved %s, want 10:1", rec.ID)
	}
}

func TestResolveExactByName(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "10:5", Name: "Hero Banner", SuggestedType: "banner", Confidence: 0.9},
	)

	rec, err := Resolve("Hero Banner", cat)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.ID != "10:5" {
		t.Errorf("resolved %s, want 10:5", rec.ID)
	}
}

// "textfield" and "input" share no characters-in-common worth an exact
// or substring hit on the record; only the synonym bucket connects them.
func TestResolveSemanticTier(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "5:1", Name: "TextField/Email", SuggestedType: "input", Confidence: 0.9},
		&catalog.ComponentRecord{ID: "5:2", Name: "Button", SuggestedType: "button", Confidence: 0.95},
	)

	rec, err := Resolve("textfield", cat)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.ID != "5:1" {
		t.Errorf("resolved %s, want 5:1", rec.ID)
	}
}

// The semantic score is weighted by the record's own classification
// confidence; a weak record must not be returned as a confident match.
func TestResolveSemanticFloor(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "5:1", Name: "Zork", SuggestedType: "input", Confidence: 0.2},
	)

	_, err := Resolve("textfield", cat)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestResolveFuzzyTier(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "10:2", Name: "Button", SuggestedType: "button", Confidence: 0.95},
	)

	rec, err := Resolve("buton", cat)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.ID != "10:2" {
		t.Errorf("resolved %s, want 10:2", rec.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "10:2", Name: "Button", SuggestedType: "button", Confidence: 0.95},
	)

	_, err := Resolve("carousel", cat)
	if err == nil {
		t.Fatal("Resolve of unmatched type should fail")
	}

	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("error is %T, want *NotFoundError", err)
	}
	if nf.Requested != "carousel" {
		t.Errorf("Requested = %q", nf.Requested)
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("NotFoundError should unwrap to ErrNotFound")
	}
}

func TestResolveEmptyRequestAndCatalog(t *testing.T) {
	cat := catalogOf(&catalog.ComponentRecord{ID: "10:1", Name: "Button", SuggestedType: "button", Confidence: 0.95})

	if _, err := Resolve("", cat); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty request: got %v, want ErrNotFound", err)
	}
	if _, err := Resolve("button", catalogOf()); !errors.Is(err, ErrNotFound) {
		t.Errorf("empty catalog: got %v, want ErrNotFound", err)
	}
}

func TestSuggestions(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "1", Name: "Button", SuggestedType: "button", Confidence: 0.95},
		&catalog.ComponentRecord{ID: "2", Name: "Badge", SuggestedType: "badge", Confidence: 0.95},
		&catalog.ComponentRecord{ID: "3", Name: "Banner", SuggestedType: "banner", Confidence: 0.95},
		&catalog.ComponentRecord{ID: "4", Name: "Card", SuggestedType: "card", Confidence: 0.95},
	)

	got := Suggestions("buton", cat, 3)
	if len(got) == 0 || len(got) > 3 {
		t.Fatalf("got %d suggestions, want 1..3", len(got))
	}
	if got[0] != "Button" {
		t.Errorf("closest suggestion = %q, want Button", got[0])
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	cat := catalogOf(
		&catalog.ComponentRecord{ID: "10:2", Name: "Button", SuggestedType: "button", Confidence: 0.95},
	)

	rec, err := Resolve("  BUTTON  ", cat)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if rec.ID != "10:2" {
		t.Errorf("resolved %s, want 10:2", rec.ID)
	}
}
