// Package host defines the capability interface through which layoutsmith
// touches the design document. The engine never talks to a scene graph
// directly; everything goes through Host so the document implementation
// (live plugin bridge, in-memory fixture) is swappable.
package host

import "context"

// Kind identifies a node's scene-graph type.
type Kind string

const (
	KindPage         Kind = "PAGE"
	KindFrame        Kind = "FRAME"
	KindText         Kind = "TEXT"
	KindRectangle    Kind = "RECTANGLE"
	KindEllipse      Kind = "ELLIPSE"
	KindComponent    Kind = "COMPONENT"
	KindComponentSet Kind = "COMPONENT_SET"
	KindInstance     Kind = "INSTANCE"
)

// LayoutMode is the auto-layout axis of a frame.
type LayoutMode string

const (
	LayoutHorizontal LayoutMode = "HORIZONTAL"
	LayoutVertical   LayoutMode = "VERTICAL"
	LayoutNone       LayoutMode = "NONE"
)

// ShapeKind selects the primitive shape to create.
type ShapeKind string

const (
	ShapeRectangle ShapeKind = "rectangle"
	ShapeCircle    ShapeKind = "circle"
)

// FontDescriptor names a font resource that must be loaded before any
// character mutation on a text node.
type FontDescriptor struct {
	Family string
	Style  string
}

// Padding is the inner padding of an auto-layout frame.
type Padding struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Node is the minimal surface shared by every scene-graph node.
type Node interface {
	ID() string
	Name() string
	SetName(name string)
	Kind() Kind
	Parent() Node
	Children() []Node
	Visible() bool
	SetVisible(visible bool)
}

// Sizeable is implemented by nodes whose width can be pinned, hugged,
// or stretched to fill the parent axis.
type Sizeable interface {
	SetFixedWidth(width float64)
	SetAutoWidth()
	SetFillWidth()
}

// FrameNode is an auto-layout container.
type FrameNode interface {
	Node
	Sizeable
	SetLayoutMode(mode LayoutMode)
	SetPadding(p Padding)
	SetItemSpacing(spacing float64)
	RemoveChildren()
}

// TextNode is a text leaf. Characters may be unreadable when the backing
// font resource is unavailable; that is an error, not a panic.
type TextNode interface {
	Node
	Characters() (string, error)
	SetCharacters(text string) error
	Font() FontDescriptor
	SetFontSize(size float64)
	SetFontWeight(weight string)
	SetAlignment(alignment string)
}

// ShapeNode is a primitive rectangle or circle.
type ShapeNode interface {
	Node
	Resize(width, height float64)
	SetFill(hex string)
	SetCornerRadius(radius float64)
}

// ComponentNode is an instantiable component master.
type ComponentNode interface {
	Node
}

// ComponentSetNode groups variant components under named axes.
type ComponentSetNode interface {
	Node
	// VariantAxes returns the declared axis names with their raw allowed
	// values, exactly as authored (unsorted, possibly duplicated).
	VariantAxes() map[string][]string
	// DefaultVariant returns the designated default variant master,
	// or nil for a degenerate empty set.
	DefaultVariant() ComponentNode
}

// InstanceNode is a placed copy of a component master.
type InstanceNode interface {
	Node
	Sizeable
	MasterID() string
	SetVariants(selectors map[string]string) error
	CurrentVariants() map[string]string
}

// Host is the document capability consumed by the scanner and renderer.
// All mutating calls are single-writer; suspension points are page load,
// font load and nothing else.
type Host interface {
	// DocumentFingerprint identifies the open document so persisted
	// catalogs are never reused across documents.
	DocumentFingerprint() string

	// LoadAllPages makes every page traversable. Suspending.
	LoadAllPages(ctx context.Context) error
	Pages() []Node
	CurrentPage() Node

	CreateFrame() FrameNode
	CreateText() TextNode
	CreateShape(kind ShapeKind) ShapeNode

	// Instantiate creates an instance of the component with the given id.
	// The id must dereference to a KindComponent node.
	Instantiate(masterID string) (InstanceNode, error)

	AppendChild(parent, child Node)

	// Dereference returns the live node for an id, or nil when it no
	// longer exists in the document.
	Dereference(id string) Node

	// LoadFont must succeed before SetCharacters on a text node using
	// that font. Suspending.
	LoadFont(ctx context.Context, font FontDescriptor) error

	// TraverseAll walks the full subtree under root depth-first and
	// returns every node matching the predicate, in document order.
	TraverseAll(root Node, predicate func(Node) bool) []Node

	SetSelectionAndFocus(node Node)

	// Notify surfaces a user-visible message in the host UI.
	Notify(message string, isError bool)
}
