package render

import (
	"context"
	"strings"
	"testing"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/host"
	"layoutsmith/internal/layout"
)

// loginHost models the document of the canonical login scenario: a
// header component and a button variant set.
func loginHost(t *testing.T) (*host.MemoryHost, *catalog.Catalog) {
	t.Helper()
	h := host.NewMemoryHost("fileA")
	page := h.CurrentPage()
	h.AddComponent(page, "10:1", "Header", "Title")
	h.AddComponentSet(page, "10:2", "Button",
		map[string][]string{"State": {"enabled", "disabled"}}, "Label")

	cat, err := catalog.NewScanner(h).Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	return h, cat
}

func parseLayout(t *testing.T, src string) *layout.Document {
	t.Helper()
	doc, err := layout.ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("ParseDocument failed: %v", err)
	}
	return doc
}

const loginLayout = `{
	"layoutContainer": {"name": "Login", "layoutMode": "VERTICAL", "width": 360, "itemSpacing": 20},
	"items": [
		{"type": "header", "componentNodeId": "10:1", "properties": {"title": "Welcome back"}},
		{"type": "button", "componentNodeId": "10:2", "properties": {"label": "Sign in", "variants": {"State": "disabled"}}}
	]
}`

func TestRenderToPageLoginScenario(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, loginLayout)
	if err := ResolveComponentIDs(doc, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	frame, rep, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	if frame.Name() != "Login" {
		t.Errorf("frame name = %q", frame.Name())
	}
	if frame.Parent() == nil || frame.Parent().ID() != h.CurrentPage().ID() {
		t.Error("frame should hang off the current page")
	}

	f := frame.(interface {
		LayoutModeValue() host.LayoutMode
		ItemSpacing() float64
		WidthMode() string
		Width() float64
	})
	if f.LayoutModeValue() != host.LayoutVertical {
		t.Errorf("layout mode = %s", f.LayoutModeValue())
	}
	if f.ItemSpacing() != 20 {
		t.Errorf("item spacing = %v", f.ItemSpacing())
	}
	if f.WidthMode() != "fixed" || f.Width() != 360 {
		t.Errorf("width = %s/%v, want fixed/360", f.WidthMode(), f.Width())
	}

	children := frame.Children()
	if len(children) != 2 {
		t.Fatalf("got %d children, want 2", len(children))
	}

	headerInst, ok := children[0].(host.InstanceNode)
	if !ok {
		t.Fatalf("child 0 is %s, want instance", children[0].Kind())
	}
	if got := leafCharacters(t, h, headerInst, "Title"); got != "Welcome back" {
		t.Errorf("title leaf = %q", got)
	}

	buttonInst, ok := children[1].(host.InstanceNode)
	if !ok {
		t.Fatalf("child 1 is %s, want instance", children[1].Kind())
	}
	if got := buttonInst.CurrentVariants()["State"]; got != "disabled" {
		t.Errorf("button State = %q, want disabled", got)
	}
	if got := leafCharacters(t, h, buttonInst, "Label"); got != "Sign in" {
		t.Errorf("label leaf = %q", got)
	}
	// No explicit width in a vertical parent: instances stretch.
	if mode := buttonInst.(interface{ WidthMode() string }).WidthMode(); mode != "fill" {
		t.Errorf("button width mode = %q, want fill", mode)
	}

	if rep.NodesCreated != 3 || rep.InstancesCreated != 2 {
		t.Errorf("report = %+v", rep)
	}
	if rep.HasWarnings() {
		t.Errorf("unexpected warnings: %v", rep.Warnings)
	}

	if h.Selection() == nil || h.Selection().ID() != frame.ID() {
		t.Error("rendered frame should be selected")
	}
	if len(h.Notifications) == 0 || h.Notifications[len(h.Notifications)-1].IsError {
		t.Errorf("notifications = %v", h.Notifications)
	}
}

// A failed resolution happens strictly before rendering: the document
// must be completely untouched.
func TestResolutionFailureCreatesNothing(t *testing.T) {
	h := host.NewMemoryHost("fileA")
	cat, err := catalog.NewScanner(h).Scan(context.Background(), nil)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	doc := parseLayout(t, `{
		"layoutContainer": {"name": "X"},
		"items": [{"type": "button", "componentNodeId": "button_id"}]
	}`)

	if err := ResolveComponentIDs(doc, cat); err == nil {
		t.Fatal("resolution against an empty catalog should fail")
	}

	if h.CreatedFrames != 0 || h.CreatedInstances != 0 {
		t.Errorf("document mutated: %d frames, %d instances", h.CreatedFrames, h.CreatedInstances)
	}
}

func TestRenderInvalidVariantKeepsDefault(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, `{
		"layoutContainer": {"name": "X", "layoutMode": "VERTICAL"},
		"items": [{"type": "button", "componentNodeId": "10:2", "properties": {"variants": {"State": "hovered"}}}]
	}`)
	if err := ResolveComponentIDs(doc, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	frame, rep, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	inst := frame.Children()[0].(host.InstanceNode)
	if len(inst.CurrentVariants()) != 0 {
		t.Errorf("variants = %v, want structural default kept", inst.CurrentVariants())
	}
	if len(rep.Warnings) != 1 || rep.Warnings[0].Kind != WarnVariant {
		t.Errorf("warnings = %v", rep.Warnings)
	}
}

// A component deleted between scan and render degrades to a warning;
// the remaining siblings still render.
func TestRenderMissingReferenceSkipsItem(t *testing.T) {
	h, cat := loginHost(t)
	h.RemoveNode("10:1")

	doc := parseLayout(t, loginLayout)
	if err := ResolveComponentIDs(doc, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	frame, rep, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	if len(frame.Children()) != 1 {
		t.Fatalf("got %d children, want just the button", len(frame.Children()))
	}
	if rep.ItemsSkipped != 1 {
		t.Errorf("ItemsSkipped = %d", rep.ItemsSkipped)
	}
	found := false
	for _, w := range rep.Warnings {
		if w.Kind == WarnMissingReference && strings.Contains(w.Message, "10:1") {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %v, want a missing-reference warning for 10:1", rep.Warnings)
	}
}

func TestRenderNativePrimitives(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, `{
		"layoutContainer": {"name": "Shapes", "layoutMode": "VERTICAL"},
		"items": [
			{"type": "native-text", "properties": {"text": "Hi", "fontSize": 18}},
			{"type": "native-rectangle", "properties": {"width": 40, "height": 4, "fill": "#FF0000"}},
			{"type": "native-circle", "properties": {"width": 12, "height": 12}}
		]
	}`)

	frame, rep, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	children := frame.Children()
	if len(children) != 3 {
		t.Fatalf("got %d children, want 3", len(children))
	}
	if children[0].Kind() != host.KindText {
		t.Errorf("child 0 = %s", children[0].Kind())
	}
	if text, _ := children[0].(host.TextNode).Characters(); text != "Hi" {
		t.Errorf("text = %q", text)
	}
	if children[1].Kind() != host.KindRectangle || children[2].Kind() != host.KindEllipse {
		t.Errorf("shapes = %s, %s", children[1].Kind(), children[2].Kind())
	}
	if rep.NodesCreated != 4 {
		t.Errorf("NodesCreated = %d, want 4", rep.NodesCreated)
	}
}

func TestRenderNestedContainers(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, `{
		"layoutContainer": {"name": "Outer", "layoutMode": "VERTICAL"},
		"items": [
			{"type": "layoutContainer", "name": "Inner", "layoutMode": "HORIZONTAL", "itemSpacing": 4, "items": [
				{"type": "native-text", "properties": {"text": "a"}}
			]}
		]
	}`)

	frame, _, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	inner := frame.Children()[0]
	if inner.Name() != "Inner" || inner.Kind() != host.KindFrame {
		t.Errorf("inner = %s %q", inner.Kind(), inner.Name())
	}
	mode := inner.(interface{ LayoutModeValue() host.LayoutMode }).LayoutModeValue()
	if mode != host.LayoutHorizontal {
		t.Errorf("inner layout mode = %s", mode)
	}
	if len(inner.Children()) != 1 {
		t.Errorf("inner children = %d", len(inner.Children()))
	}
}

func TestModifyInPlace(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, loginLayout)
	if err := ResolveComponentIDs(doc, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	frame, _, err := New(h, cat).RenderToPage(context.Background(), doc)
	if err != nil {
		t.Fatalf("RenderToPage failed: %v", err)
	}

	replacement := parseLayout(t, `{
		"layoutContainer": {"name": "Login v2", "layoutMode": "VERTICAL"},
		"items": [{"type": "header", "componentNodeId": "10:1", "properties": {"title": "Back again"}}]
	}`)
	if err := ResolveComponentIDs(replacement, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	rep, err := New(h, cat).ModifyInPlace(context.Background(), frame, replacement)
	if err != nil {
		t.Fatalf("ModifyInPlace failed: %v", err)
	}

	if frame.Name() != "Login v2" {
		t.Errorf("frame name = %q", frame.Name())
	}
	if len(frame.Children()) != 1 {
		t.Fatalf("got %d children, want old children replaced by 1", len(frame.Children()))
	}
	if rep.InstancesCreated != 1 {
		t.Errorf("report = %+v", rep)
	}
}

func TestRenderCancelledContext(t *testing.T) {
	h, cat := loginHost(t)
	doc := parseLayout(t, loginLayout)
	if err := ResolveComponentIDs(doc, cat); err != nil {
		t.Fatalf("resolution failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := New(h, cat).RenderToPage(ctx, doc); err == nil {
		t.Fatal("render with cancelled context should fail")
	}
	// Failure path still notifies.
	if len(h.Notifications) == 0 || !h.Notifications[len(h.Notifications)-1].IsError {
		t.Errorf("notifications = %v", h.Notifications)
	}
}
