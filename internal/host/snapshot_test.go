package host

import (
	"strings"
	"testing"
)

const snapshotJSON = `{
  "fingerprint": "doc-42",
  "pages": [
    {
      "name": "Components",
      "current": true,
      "components": [
        {"id": "10:1", "name": "Header", "textLeaves": ["Title"], "hiddenLeaves": ["Subtitle"]}
      ],
      "componentSets": [
        {"id": "10:2", "name": "Button", "axes": {"State": ["enabled", "disabled"]}, "textLeaves": ["Label"]}
      ]
    },
    {"name": "Archive", "components": [{"id": "20:1", "name": "Old Card"}]}
  ]
}`

func TestLoadSnapshot(t *testing.T) {
	h, err := LoadSnapshot([]byte(snapshotJSON))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if h.DocumentFingerprint() != "doc-42" {
		t.Errorf("fingerprint = %s", h.DocumentFingerprint())
	}
	if len(h.Pages()) != 2 {
		t.Fatalf("got %d pages", len(h.Pages()))
	}
	if h.CurrentPage().Name() != "Components" {
		t.Errorf("current page = %s", h.CurrentPage().Name())
	}

	header := h.Dereference("10:1")
	if header == nil || header.Kind() != KindComponent {
		t.Fatalf("header = %v", header)
	}
	set := h.Dereference("10:2")
	if set == nil || set.Kind() != KindComponentSet {
		t.Fatalf("button set = %v", set)
	}
	if axes := set.(ComponentSetNode).VariantAxes(); len(axes["State"]) != 2 {
		t.Errorf("axes = %v", axes)
	}
	if old := h.Dereference("20:1"); old == nil {
		t.Error("archive page component missing")
	}
}

func TestLoadSnapshotHiddenLeaves(t *testing.T) {
	h, err := LoadSnapshot([]byte(snapshotJSON))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	header := h.Dereference("10:1")
	var title, subtitle Node
	for _, child := range header.Children() {
		switch child.Name() {
		case "Title":
			title = child
		case "Subtitle":
			subtitle = child
		}
	}
	if title == nil || !title.Visible() {
		t.Errorf("Title leaf = %v", title)
	}
	if subtitle == nil || subtitle.Visible() {
		t.Error("Subtitle leaf should start hidden")
	}
}

func TestLoadSnapshotErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"not json", "garbage", "parse"},
		{"missing fingerprint", `{"pages": []}`, "fingerprint"},
		{"component without id", `{"fingerprint": "x", "pages": [{"name": "P", "components": [{"name": "A"}]}]}`, "id and name"},
		{"set without name", `{"fingerprint": "x", "pages": [{"name": "P", "componentSets": [{"id": "1:1"}]}]}`, "id and name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSnapshot([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestLoadSnapshotNoPagesKeepsStarterPage(t *testing.T) {
	h, err := LoadSnapshot([]byte(`{"fingerprint": "bare"}`))
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if len(h.Pages()) != 1 {
		t.Errorf("got %d pages, want the implicit starter page", len(h.Pages()))
	}
}
