// Package layout defines the typed layout tree and the JSON boundary
// parser that produces it. Input JSON - authored or AI-generated - is
// validated once here; downstream consumers (the resolution pass and
// the renderer) operate on the typed tree and never re-validate.
package layout

// ItemKind tags the closed union of layout items.
type ItemKind string

const (
	KindContainer ItemKind = "layoutContainer"
	KindText      ItemKind = "native-text"
	KindRectangle ItemKind = "native-rectangle"
	KindCircle    ItemKind = "native-circle"
	KindComponent ItemKind = "component"
)

// Document is a parsed top-level layout: the root container and its items.
type Document struct {
	Root Container
}

// Container is an auto-layout frame description.
type Container struct {
	Name        string
	LayoutMode  string // HORIZONTAL, VERTICAL, NONE
	Width       *float64
	FillWidth   bool // width was the sentinel "fill"
	Padding     Insets
	ItemSpacing float64
	Items       []*Item
}

// Insets is per-edge padding.
type Insets struct {
	Top    float64
	Bottom float64
	Left   float64
	Right  float64
}

// Item is one child in a container: exactly one of the pointer fields
// is set, selected by Kind.
type Item struct {
	Kind      ItemKind
	Container *Container
	Text      *NativeText
	Shape     *NativeShape
	Component *ComponentRef
}

// NativeText describes a native text primitive.
type NativeText struct {
	Text       string
	FontSize   float64
	FontWeight string
	Alignment  string
}

// NativeShape describes a native rectangle or circle primitive.
type NativeShape struct {
	Width        float64
	Height       float64
	Fill         string
	CornerRadius float64
}

// ComponentRef references a design-system component by abstract type
// and, once resolved, by concrete id. Properties is the raw flat bag
// (possibly with an embedded "variants" object); splitting it is the
// renderer's job because it depends on the live variant schema.
type ComponentRef struct {
	Type        string
	ComponentID string
	Properties  map[string]any
}

// WalkComponents visits every component reference depth-first in
// document order, recursing into nested containers as it meets them.
// The visitor may mutate the reference in place; a visitor error stops
// the walk immediately.
func (d *Document) WalkComponents(visit func(path string, ref *ComponentRef) error) error {
	return walkContainer("items", &d.Root, visit)
}

func walkContainer(path string, c *Container, visit func(string, *ComponentRef) error) error {
	for i, item := range c.Items {
		itemPath := childPath(path, i)
		switch item.Kind {
		case KindContainer:
			if err := walkContainer(itemPath+".items", item.Container, visit); err != nil {
				return err
			}
		case KindComponent:
			if err := visit(itemPath, item.Component); err != nil {
				return err
			}
		}
	}
	return nil
}
