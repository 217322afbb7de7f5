package render

import (
	"context"
	"testing"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/host"
)

// bindFixture builds a host with one component master, instantiates it,
// and returns everything a binding test needs.
func bindFixture(t *testing.T, leaves ...string) (*host.MemoryHost, host.InstanceNode, *catalog.ComponentRecord) {
	t.Helper()
	h := host.NewMemoryHost("doc")
	comp := h.AddComponent(h.CurrentPage(), "10:1", "List Item", leaves...)

	rec := &catalog.ComponentRecord{
		ID: "10:1", Name: "List Item", SuggestedType: "list-item", Confidence: 0.85,
		TextSlots: catalog.FindTextSlots(h, comp),
	}

	inst, err := h.Instantiate("10:1")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}
	return h, inst, rec
}

func leafCharacters(t *testing.T, h *host.MemoryHost, inst host.InstanceNode, name string) string {
	t.Helper()
	for _, n := range h.TraverseAll(inst, func(n host.Node) bool {
		return n.Kind() == host.KindText && n.Name() == name
	}) {
		text, err := n.(host.TextNode).Characters()
		if err != nil {
			t.Fatalf("Characters(%s) failed: %v", name, err)
		}
		return text
	}
	t.Fatalf("no leaf named %q", name)
	return ""
}

func TestBindTextExactName(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline", "Supporting text")
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{
		"supporting-text": "World",
	}, rep)

	if got := leafCharacters(t, h, inst, "Supporting text"); got != "World" {
		t.Errorf("supporting leaf = %q, want World", got)
	}
	if got := leafCharacters(t, h, inst, "Headline"); got != "" {
		t.Errorf("headline leaf = %q, want untouched", got)
	}
	if rep.HasWarnings() {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}
}

func TestBindTextSemanticClass(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline", "Supporting text")
	rep := NewReport()

	// "title" names no leaf, but classifies as primary and must land on
	// the primary-classified leaf.
	BindText(context.Background(), h, inst, rec, map[string]any{"title": "Hello"}, rep)

	if got := leafCharacters(t, h, inst, "Headline"); got != "Hello" {
		t.Errorf("headline leaf = %q, want Hello", got)
	}
}

func TestBindTextIdempotent(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline", "Supporting text")
	props := map[string]any{
		"title":           "Hello",
		"supporting-text": "World",
	}

	BindText(context.Background(), h, inst, rec, props, NewReport())
	first := []string{
		leafCharacters(t, h, inst, "Headline"),
		leafCharacters(t, h, inst, "Supporting text"),
	}

	rep := NewReport()
	BindText(context.Background(), h, inst, rec, props, rep)

	second := []string{
		leafCharacters(t, h, inst, "Headline"),
		leafCharacters(t, h, inst, "Supporting text"),
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("leaf %d changed on re-bind: %q then %q", i, first[i], second[i])
		}
	}
	if rep.HasWarnings() {
		t.Errorf("re-bind produced warnings: %v", rep.Warnings)
	}
}

func TestBindTextPositionalFallback(t *testing.T) {
	// Leaf names carry no hints; classification is positional and the
	// trailing-like key must land on the last leaf.
	h, inst, rec := bindFixture(t, "Alpha", "Beta")
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{"trailing-text": "9:41"}, rep)

	if got := leafCharacters(t, h, inst, "Beta"); got != "9:41" {
		t.Errorf("last leaf = %q, want 9:41", got)
	}
}

func TestBindTextActivatesHiddenSlot(t *testing.T) {
	h := host.NewMemoryHost("doc")
	comp := h.AddComponent(h.CurrentPage(), "10:1", "List Item", "Headline", "Trailing text")
	h.HideTextLeaf(comp, "Trailing text")
	rec := &catalog.ComponentRecord{ID: "10:1", TextSlots: catalog.FindTextSlots(h, comp)}

	inst, err := h.Instantiate("10:1")
	if err != nil {
		t.Fatalf("Instantiate failed: %v", err)
	}

	rep := NewReport()
	BindText(context.Background(), h, inst, rec, map[string]any{"trailing-text": "Now"}, rep)

	leaves := h.TraverseAll(inst, func(n host.Node) bool {
		return n.Kind() == host.KindText && n.Name() == "Trailing text"
	})
	if len(leaves) != 1 {
		t.Fatalf("got %d trailing leaves", len(leaves))
	}
	if !leaves[0].Visible() {
		t.Error("addressed hidden slot should become visible")
	}
	if got := leafCharacters(t, h, inst, "Trailing text"); got != "Now" {
		t.Errorf("trailing leaf = %q, want Now", got)
	}
}

func TestBindTextFontFailureIsLocal(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline")
	h.FailFonts["Inter"] = true
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{"headline": "Hello"}, rep)

	if got := leafCharacters(t, h, inst, "Headline"); got != "" {
		t.Errorf("leaf = %q, want untouched after font failure", got)
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != WarnFontLoad {
		t.Errorf("warnings = %v, want one font-load warning", rep.Warnings)
	}
}

func TestBindTextNonStringSkipped(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline")
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{"headline": 42.0}, rep)

	if got := leafCharacters(t, h, inst, "Headline"); got != "" {
		t.Errorf("leaf = %q, non-string values must not bind", got)
	}
	if rep.HasWarnings() {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}
}

func TestBindTextNoLeaves(t *testing.T) {
	h, inst, rec := bindFixture(t)
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{"text": "Hi"}, rep)

	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != WarnTextBinding {
		t.Errorf("warnings = %v, want one text-binding warning", rep.Warnings)
	}
}

func TestBindTextUnmatchableKey(t *testing.T) {
	h, inst, rec := bindFixture(t, "Headline")
	rep := NewReport()

	BindText(context.Background(), h, inst, rec, map[string]any{"zzz": "Hi"}, rep)

	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != WarnTextBinding {
		t.Errorf("warnings = %v, want one text-binding warning", rep.Warnings)
	}
	if got := leafCharacters(t, h, inst, "Headline"); got != "" {
		t.Errorf("leaf = %q, want untouched", got)
	}
}

// Binding without a catalog record still works off leaf names and
// positions; pre-metadata catalogs degrade, not break.
func TestBindTextNilRecord(t *testing.T) {
	h, inst, _ := bindFixture(t, "Label")
	rep := NewReport()

	BindText(context.Background(), h, inst, nil, map[string]any{"label": "Save"}, rep)

	if got := leafCharacters(t, h, inst, "Label"); got != "Save" {
		t.Errorf("leaf = %q, want Save", got)
	}
}
