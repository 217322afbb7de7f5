package layout

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const loginJSON = `{
  "layoutContainer": {
    "name": "Login",
    "layoutMode": "VERTICAL",
    "width": 360,
    "itemSpacing": 20,
    "paddingTop": 24,
    "paddingBottom": 24
  },
  "items": [
    {"type": "header", "componentNodeId": "10:1", "properties": {"title": "Welcome back"}},
    {"type": "native-text", "properties": {"text": "Enter your details", "fontSize": 12}},
    {
      "type": "layoutContainer",
      "name": "Fields",
      "layoutMode": "VERTICAL",
      "width": "fill",
      "itemSpacing": 8,
      "items": [
        {"type": "button", "componentNodeId": "10:2", "properties": {"label": "Sign in", "variants": {"State": "disabled"}}}
      ]
    },
    {"type": "native-rectangle", "properties": {"width": 320, "height": 2, "fill": "#EEEEEE"}}
  ]
}`

func TestParseDocument(t *testing.T) {
	doc, err := ParseDocument([]byte(loginJSON))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	root := doc.Root
	if root.Name != "Login" || root.LayoutMode != "VERTICAL" {
		t.Errorf("root = %q/%s", root.Name, root.LayoutMode)
	}
	if root.Width == nil || *root.Width != 360 {
		t.Errorf("root width = %v, want 360", root.Width)
	}
	if root.ItemSpacing != 20 || root.Padding.Top != 24 || root.Padding.Left != 0 {
		t.Errorf("root spacing/padding = %v/%v", root.ItemSpacing, root.Padding)
	}
	if len(root.Items) != 4 {
		t.Fatalf("got %d items, want 4", len(root.Items))
	}

	header := root.Items[0]
	if header.Kind != KindComponent || header.Component.Type != "header" || header.Component.ComponentID != "10:1" {
		t.Errorf("item 0 = %+v", header)
	}
	if header.Component.Properties["title"] != "Welcome back" {
		t.Errorf("item 0 properties = %v", header.Component.Properties)
	}

	text := root.Items[1]
	if text.Kind != KindText || text.Text.Text != "Enter your details" || text.Text.FontSize != 12 {
		t.Errorf("item 1 = %+v", text.Text)
	}

	fields := root.Items[2]
	if fields.Kind != KindContainer || !fields.Container.FillWidth || fields.Container.Width != nil {
		t.Errorf("item 2 = %+v", fields.Container)
	}
	if len(fields.Container.Items) != 1 || fields.Container.Items[0].Component.Type != "button" {
		t.Errorf("nested items = %+v", fields.Container.Items)
	}

	rect := root.Items[3]
	if rect.Kind != KindRectangle || rect.Shape.Width != 320 || rect.Shape.Fill != "#EEEEEE" {
		t.Errorf("item 3 = %+v", rect.Shape)
	}
}

func TestParseDocumentDefaults(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"layoutContainer": {"name": "Bare"},
		"items": [
			{"type": "native-text", "properties": {"text": "Hi"}},
			{"type": "native-circle", "properties": {}}
		]
	}`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	if doc.Root.LayoutMode != "NONE" {
		t.Errorf("missing layoutMode should default to NONE, got %s", doc.Root.LayoutMode)
	}
	if doc.Root.Width != nil || doc.Root.FillWidth {
		t.Error("missing width should mean auto")
	}
	if doc.Root.Items[0].Text.FontSize != 14 {
		t.Errorf("default fontSize = %v, want 14", doc.Root.Items[0].Text.FontSize)
	}
	circle := doc.Root.Items[1]
	if circle.Kind != KindCircle || circle.Shape.Width != 100 || circle.Shape.Height != 100 {
		t.Errorf("circle defaults = %+v", circle.Shape)
	}
}

func TestParseDocumentComponentWithoutProperties(t *testing.T) {
	doc, err := ParseDocument([]byte(`{
		"layoutContainer": {"name": "X"},
		"items": [{"type": "avatar"}]
	}`))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	ref := doc.Root.Items[0].Component
	if ref.Type != "avatar" || ref.ComponentID != "" || ref.Properties == nil {
		t.Errorf("component ref = %+v", ref)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantPath string
	}{
		{
			"not json",
			`{nope`,
			"not valid JSON",
		},
		{
			"missing layoutContainer",
			`{"items": []}`,
			"layoutContainer",
		},
		{
			"invalid layoutMode",
			`{"layoutContainer": {"layoutMode": "DIAGONAL"}}`,
			"layoutContainer",
		},
		{
			"bad width",
			`{"layoutContainer": {"width": "wide"}}`,
			`number or "fill"`,
		},
		{
			"negative width",
			`{"layoutContainer": {"width": -10}}`,
			"width must be positive",
		},
		{
			"negative itemSpacing",
			`{"layoutContainer": {"itemSpacing": -1}}`,
			"itemSpacing",
		},
		{
			"item missing type",
			`{"layoutContainer": {}, "items": [{"type": "native-text"}, {"properties": {}}]}`,
			"items[1]",
		},
		{
			"nested error carries path",
			`{"layoutContainer": {}, "items": [
				{"type": "layoutContainer", "items": [
					{"type": "native-text"},
					{"type": "native-text", "properties": {"fontSize": -2}}
				]}
			]}`,
			"items[0].items[1]",
		},
		{
			"zero shape dimension",
			`{"layoutContainer": {}, "items": [{"type": "native-rectangle", "properties": {"width": 0}}]}`,
			"items[0]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.json))
			if err == nil {
				t.Fatal("ParseDocument should fail")
			}
			if !strings.Contains(err.Error(), tt.wantPath) {
				t.Errorf("error %q does not mention %q", err, tt.wantPath)
			}
		})
	}
}

// Encoding a parsed tree and parsing it again must reproduce the tree;
// this is what lets success responses echo resolved JSON to the UI.
func TestEncodeDocumentRoundtrip(t *testing.T) {
	doc, err := ParseDocument([]byte(loginJSON))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	encoded, err := EncodeDocument(doc)
	if err != nil {
		t.Fatalf("EncodeDocument failed: %v", err)
	}
	reparsed, err := ParseDocument(encoded)
	if err != nil {
		t.Fatalf("re-parse failed: %v\nencoded: %s", err, encoded)
	}

	if diff := cmp.Diff(doc, reparsed); diff != "" {
		t.Errorf("roundtrip mismatch (-original +reparsed):\n%s", diff)
	}
}

func TestWalkComponents(t *testing.T) {
	doc, err := ParseDocument([]byte(loginJSON))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}

	var visited []string
	err = doc.WalkComponents(func(path string, ref *ComponentRef) error {
		visited = append(visited, path+":"+ref.Type)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkComponents failed: %v", err)
	}

	want := []string{"items[0]:header", "items[2].items[0]:button"}
	if diff := cmp.Diff(want, visited); diff != "" {
		t.Errorf("visit order mismatch (-want +got):\n%s", diff)
	}
}
