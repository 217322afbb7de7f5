package host

import (
	"context"
	"fmt"
)

// MemoryHost is an in-memory Host used by the dry-run CLI mode and by
// tests. It models just enough of a design document to exercise the
// scanner and renderer: pages, components, variant sets with text
// leaves, instantiation by deep copy, and a font registry with
// injectable failures. Not safe for concurrent use; the document is
// single-writer.
type MemoryHost struct {
	fingerprint string
	pages       []*memNode
	nodes       map[string]*memNode
	nextID      int
	pagesLoaded bool

	// FailFonts lists font families whose load always fails.
	FailFonts map[string]bool
	// UnreadableText lists text node names whose characters cannot be read.
	UnreadableText map[string]bool

	loadedFonts   map[FontDescriptor]bool
	selection     Node
	Notifications []Notification

	// Counters for assertions on mutation ordering.
	CreatedFrames    int
	CreatedInstances int
}

// Notification is one user-visible message emitted through Notify.
type Notification struct {
	Message string
	IsError bool
}

// memNode backs every node kind; the Kind field decides which interface
// views are valid.
type memNode struct {
	h        *MemoryHost
	id       string
	name     string
	kind     Kind
	parent   *memNode
	children []*memNode
	visible  bool

	// text
	characters string
	font       FontDescriptor
	fontSize   float64
	fontWeight string
	alignment  string

	// shape
	width, height float64
	fill          string
	cornerRadius  float64

	// frame / sizing
	layoutMode  LayoutMode
	padding     Padding
	itemSpacing float64
	widthMode   string // "fixed", "auto", "fill"

	// component set
	variantAxes    map[string][]string
	defaultVariant *memNode

	// instance
	masterID string
	variants map[string]string
}

// NewMemoryHost creates an empty in-memory document with one page.
func NewMemoryHost(fingerprint string) *MemoryHost {
	h := &MemoryHost{
		fingerprint:    fingerprint,
		nodes:          make(map[string]*memNode),
		FailFonts:      make(map[string]bool),
		UnreadableText: make(map[string]bool),
		loadedFonts:    make(map[FontDescriptor]bool),
	}
	h.AddPage("Page 1", true)
	return h
}

func (h *MemoryHost) allocID() string {
	h.nextID++
	return fmt.Sprintf("%d:%d", h.nextID/100+1, h.nextID%100)
}

func (h *MemoryHost) newNode(kind Kind, name string) *memNode {
	n := &memNode{h: h, id: h.allocID(), name: name, kind: kind, visible: true, widthMode: "auto"}
	h.nodes[n.id] = n
	return n
}

// register inserts a node under a caller-chosen id, replacing the
// generated one. Fixture ids mimic host-shaped "major:minor" ids.
func (h *MemoryHost) register(n *memNode, id string) *memNode {
	delete(h.nodes, n.id)
	n.id = id
	h.nodes[id] = n
	return n
}

// =============================================================================
// FIXTURE BUILDERS
// =============================================================================

// AddPage appends a page; current selects it as the current page.
func (h *MemoryHost) AddPage(name string, current bool) Node {
	p := h.newNode(KindPage, name)
	if current {
		h.pages = append([]*memNode{p}, h.pages...)
	} else {
		h.pages = append(h.pages, p)
	}
	return p
}

// AddComponent places a standalone component master with the given text
// leaf names on the page. The id must be host-shaped ("10:2").
func (h *MemoryHost) AddComponent(page Node, id, name string, textLeaves ...string) ComponentNode {
	c := h.register(h.newNode(KindComponent, name), id)
	h.attach(page.(*memNode), c)
	for _, leaf := range textLeaves {
		t := h.newNode(KindText, leaf)
		t.font = FontDescriptor{Family: "Inter", Style: "Regular"}
		h.attach(c, t)
	}
	return c
}

// AddComponentSet places a variant set with the declared axes. A single
// default variant master is created carrying the given text leaves.
func (h *MemoryHost) AddComponentSet(page Node, id, name string, axes map[string][]string, textLeaves ...string) ComponentSetNode {
	s := h.register(h.newNode(KindComponentSet, name), id)
	s.variantAxes = axes
	h.attach(page.(*memNode), s)

	v := h.newNode(KindComponent, name+" / default")
	h.attach(s, v)
	s.defaultVariant = v
	for _, leaf := range textLeaves {
		t := h.newNode(KindText, leaf)
		t.font = FontDescriptor{Family: "Inter", Style: "Regular"}
		h.attach(v, t)
	}
	return s
}

// HideTextLeaf marks the named text leaf under root as hidden, modeling
// optional slots that layout JSON can activate.
func (h *MemoryHost) HideTextLeaf(root Node, name string) {
	for _, n := range h.TraverseAll(root, func(n Node) bool {
		return n.Kind() == KindText && n.Name() == name
	}) {
		n.(*memNode).visible = false
	}
}

func (h *MemoryHost) attach(parent, child *memNode) {
	child.parent = parent
	parent.children = append(parent.children, child)
}

// =============================================================================
// HOST INTERFACE
// =============================================================================

func (h *MemoryHost) DocumentFingerprint() string { return h.fingerprint }

func (h *MemoryHost) LoadAllPages(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.pagesLoaded = true
	return nil
}

func (h *MemoryHost) Pages() []Node {
	out := make([]Node, len(h.pages))
	for i, p := range h.pages {
		out[i] = p
	}
	return out
}

func (h *MemoryHost) CurrentPage() Node { return h.pages[0] }

func (h *MemoryHost) CreateFrame() FrameNode {
	h.CreatedFrames++
	f := h.newNode(KindFrame, "Frame")
	f.layoutMode = LayoutNone
	return f
}

func (h *MemoryHost) CreateText() TextNode {
	t := h.newNode(KindText, "Text")
	t.font = FontDescriptor{Family: "Inter", Style: "Regular"}
	return t
}

func (h *MemoryHost) CreateShape(kind ShapeKind) ShapeNode {
	if kind == ShapeCircle {
		return h.newNode(KindEllipse, "Ellipse")
	}
	return h.newNode(KindRectangle, "Rectangle")
}

func (h *MemoryHost) Instantiate(masterID string) (InstanceNode, error) {
	master, ok := h.nodes[masterID]
	if !ok {
		return nil, fmt.Errorf("no node with id %s", masterID)
	}
	if master.kind != KindComponent {
		return nil, fmt.Errorf("node %s is %s, not a component", masterID, master.kind)
	}
	h.CreatedInstances++
	inst := h.newNode(KindInstance, master.name)
	inst.masterID = masterID
	inst.variants = make(map[string]string)
	for _, child := range master.children {
		h.attach(inst, h.clone(child))
	}
	return inst, nil
}

func (h *MemoryHost) clone(n *memNode) *memNode {
	c := h.newNode(n.kind, n.name)
	c.visible = n.visible
	c.characters = n.characters
	c.font = n.font
	c.fontSize = n.fontSize
	c.fontWeight = n.fontWeight
	c.alignment = n.alignment
	c.width, c.height = n.width, n.height
	c.fill = n.fill
	c.cornerRadius = n.cornerRadius
	for _, child := range n.children {
		h.attach(c, h.clone(child))
	}
	return c
}

func (h *MemoryHost) AppendChild(parent, child Node) {
	h.attach(parent.(*memNode), child.(*memNode))
}

func (h *MemoryHost) Dereference(id string) Node {
	n, ok := h.nodes[id]
	if !ok {
		return nil
	}
	return n
}

// RemoveNode drops a node from the document, severing dereference.
// Fixture-only: models components deleted between scan and render.
func (h *MemoryHost) RemoveNode(id string) {
	delete(h.nodes, id)
}

func (h *MemoryHost) LoadFont(ctx context.Context, font FontDescriptor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.FailFonts[font.Family] {
		return fmt.Errorf("font %s %s unavailable", font.Family, font.Style)
	}
	h.loadedFonts[font] = true
	return nil
}

func (h *MemoryHost) TraverseAll(root Node, predicate func(Node) bool) []Node {
	var out []Node
	var walk func(n *memNode)
	walk = func(n *memNode) {
		if predicate(n) {
			out = append(out, n)
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, c := range root.(*memNode).children {
		walk(c)
	}
	return out
}

func (h *MemoryHost) SetSelectionAndFocus(node Node) { h.selection = node }

// Selection returns the node last focused through SetSelectionAndFocus.
func (h *MemoryHost) Selection() Node { return h.selection }

func (h *MemoryHost) Notify(message string, isError bool) {
	h.Notifications = append(h.Notifications, Notification{Message: message, IsError: isError})
}

// =============================================================================
// NODE INTERFACE VIEWS
// =============================================================================

func (n *memNode) ID() string { return n.id }
func (n *memNode) Name() string { return n.name }
func (n *memNode) SetName(name string) { n.name = name }
func (n *memNode) Kind() Kind { return n.kind }
func (n *memNode) Visible() bool { return n.visible }
func (n *memNode) SetVisible(v bool) { n.visible = v }

func (n *memNode) Parent() Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *memNode) Children() []Node {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

// Sizeable
func (n *memNode) SetFixedWidth(w float64) { n.widthMode = "fixed"; n.width = w }
func (n *memNode) SetAutoWidth() { n.widthMode = "auto" }
func (n *memNode) SetFillWidth() { n.widthMode = "fill" }

// WidthMode exposes the sizing decision for assertions.
func (n *memNode) WidthMode() string { return n.widthMode }

// Width exposes the pinned width for assertions.
func (n *memNode) Width() float64 { return n.width }

// FrameNode
func (n *memNode) SetLayoutMode(m LayoutMode) { n.layoutMode = m }
func (n *memNode) SetPadding(p Padding) { n.padding = p }
func (n *memNode) SetItemSpacing(s float64) { n.itemSpacing = s }
func (n *memNode) RemoveChildren() { n.children = nil }

// LayoutModeValue exposes the configured axis for assertions.
func (n *memNode) LayoutModeValue() LayoutMode { return n.layoutMode }

// ItemSpacing exposes the configured spacing for assertions.
func (n *memNode) ItemSpacing() float64 { return n.itemSpacing }

// PaddingValue exposes the configured padding for assertions.
func (n *memNode) PaddingValue() Padding { return n.padding }

// TextNode
func (n *memNode) Characters() (string, error) {
	if n.h.UnreadableText[n.name] {
		return "", fmt.Errorf("characters of %q unreadable: font not loaded", n.name)
	}
	return n.characters, nil
}

func (n *memNode) SetCharacters(text string) error {
	if !n.h.loadedFonts[n.font] {
		return fmt.Errorf("font %s %s not loaded", n.font.Family, n.font.Style)
	}
	n.characters = text
	return nil
}

func (n *memNode) Font() FontDescriptor { return n.font }
func (n *memNode) SetFontSize(s float64) { n.fontSize = s }
func (n *memNode) SetFontWeight(w string) { n.fontWeight = w }
func (n *memNode) SetAlignment(a string) { n.alignment = a }

// ShapeNode
func (n *memNode) Resize(w, h float64) { n.width, n.height = w, h }
func (n *memNode) SetFill(hex string) { n.fill = hex }
func (n *memNode) SetCornerRadius(r float64) { n.cornerRadius = r }

// Fill exposes the shape fill for assertions.
func (n *memNode) Fill() string { return n.fill }

// ComponentSetNode
func (n *memNode) VariantAxes() map[string][]string { return n.variantAxes }

func (n *memNode) DefaultVariant() ComponentNode {
	if n.defaultVariant == nil {
		return nil
	}
	return n.defaultVariant
}

// InstanceNode
func (n *memNode) MasterID() string { return n.masterID }

func (n *memNode) SetVariants(selectors map[string]string) error {
	if n.variants == nil {
		n.variants = make(map[string]string)
	}
	for k, v := range selectors {
		n.variants[k] = v
	}
	return nil
}

func (n *memNode) CurrentVariants() map[string]string { return n.variants }
