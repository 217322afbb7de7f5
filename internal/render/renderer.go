package render

import (
	"context"
	"fmt"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/host"
	"layoutsmith/internal/layout"
	"layoutsmith/internal/logging"
)

// Renderer materializes a typed layout tree into document nodes.
// The tree walk is strictly sequential and depth-first; sibling order
// is creation order, which is also the final visual order.
type Renderer struct {
	host    host.Host
	catalog *catalog.Catalog
}

// New creates a renderer bound to one host and one catalog snapshot.
// Resolution happens before rendering, so a rescan during a render does
// not affect ids already resolved.
func New(h host.Host, cat *catalog.Catalog) *Renderer {
	return &Renderer{host: h, catalog: cat}
}

// RenderToPage creates a fresh top-level frame on the current page,
// renders the document into it, then focuses it and notifies the user.
// Every component reference must already carry a resolved id (see
// ResolveComponentIDs); references that dereference to nothing are
// skipped with a warning, not fatal.
func (r *Renderer) RenderToPage(ctx context.Context, doc *layout.Document) (host.FrameNode, *Report, error) {
	timer := logging.StartTimer(logging.CategoryRender, "RenderToPage")
	defer timer.Stop()

	rep := NewReport()

	frame := r.host.CreateFrame()
	rep.NodesCreated++
	r.host.AppendChild(r.host.CurrentPage(), frame)

	if err := r.renderContainer(ctx, frame, &doc.Root, rep); err != nil {
		r.host.Notify(fmt.Sprintf("Generation failed: %v", err), true)
		return nil, rep, err
	}

	r.host.SetSelectionAndFocus(frame)
	r.host.Notify(fmt.Sprintf("Created %q: %s", frameName(&doc.Root), rep.Summary()), false)
	logging.Render("Rendered %q: %s", frameName(&doc.Root), rep.Summary())
	return frame, rep, nil
}

// ModifyInPlace clears an existing frame and re-renders the document
// into it, for edit-in-place flows.
//
// Failure policy: children are deleted before re-population, so an
// error mid-render leaves the frame partially populated. We accept the
// partial state rather than attempting snapshot-and-restore - the host
// API has no cheap subtree clone - but the caller is always notified,
// so the partial frame is never mistaken for a successful render.
func (r *Renderer) ModifyInPlace(ctx context.Context, frame host.FrameNode, doc *layout.Document) (*Report, error) {
	timer := logging.StartTimer(logging.CategoryRender, "ModifyInPlace")
	defer timer.Stop()

	rep := NewReport()
	frame.RemoveChildren()

	if err := r.renderContainer(ctx, frame, &doc.Root, rep); err != nil {
		r.host.Notify(fmt.Sprintf("Modification failed: %v", err), true)
		return rep, err
	}

	r.host.Notify(fmt.Sprintf("Updated %q: %s", frame.Name(), rep.Summary()), false)
	logging.Render("Modified %q in place: %s", frame.Name(), rep.Summary())
	return rep, nil
}

// renderContainer configures the target frame and dispatches its items
// in document order. The target is rendered into directly - recursive
// calls never wrap a container in a redundant frame.
func (r *Renderer) renderContainer(ctx context.Context, frame host.FrameNode, c *layout.Container, rep *Report) error {
	frame.SetName(frameName(c))
	frame.SetLayoutMode(host.LayoutMode(c.LayoutMode))

	if c.LayoutMode != string(host.LayoutNone) {
		frame.SetPadding(host.Padding{
			Top:    c.Padding.Top,
			Bottom: c.Padding.Bottom,
			Left:   c.Padding.Left,
			Right:  c.Padding.Right,
		})
		frame.SetItemSpacing(c.ItemSpacing)
	}

	switch {
	case c.Width != nil:
		frame.SetFixedWidth(*c.Width)
	case c.FillWidth:
		frame.SetFillWidth()
	default:
		frame.SetAutoWidth()
	}

	for i, item := range c.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.renderItem(ctx, frame, c, item, i, rep); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) renderItem(ctx context.Context, parent host.FrameNode, parentDesc *layout.Container, item *layout.Item, index int, rep *Report) error {
	switch item.Kind {
	case layout.KindContainer:
		child := r.host.CreateFrame()
		rep.NodesCreated++
		r.host.AppendChild(parent, child)
		return r.renderContainer(ctx, child, item.Container, rep)

	case layout.KindText:
		return r.renderNativeText(ctx, parent, item.Text, rep)

	case layout.KindRectangle, layout.KindCircle:
		r.renderNativeShape(parent, item.Kind, item.Shape, rep)
		return nil

	case layout.KindComponent:
		r.renderComponent(ctx, parent, parentDesc, item.Component, index, rep)
		return nil

	default:
		// Unreachable for trees built by layout.ParseDocument.
		rep.ItemsSkipped++
		rep.warnf(WarnMissingReference, "item %d has unknown kind %q, skipped", index, item.Kind)
		return nil
	}
}

func (r *Renderer) renderNativeText(ctx context.Context, parent host.FrameNode, t *layout.NativeText, rep *Report) error {
	node := r.host.CreateText()
	rep.NodesCreated++
	r.host.AppendChild(parent, node)

	node.SetFontSize(t.FontSize)
	if t.FontWeight != "" {
		node.SetFontWeight(t.FontWeight)
	}
	if t.Alignment != "" {
		node.SetAlignment(t.Alignment)
	}

	if err := r.host.LoadFont(ctx, node.Font()); err != nil {
		rep.warnf(WarnFontLoad, "native text %q kept empty: %v", t.Text, err)
		return nil
	}
	if err := node.SetCharacters(t.Text); err != nil {
		rep.warnf(WarnFontLoad, "native text %q kept empty: %v", t.Text, err)
	}
	return nil
}

func (r *Renderer) renderNativeShape(parent host.FrameNode, kind layout.ItemKind, s *layout.NativeShape, rep *Report) {
	shapeKind := host.ShapeRectangle
	if kind == layout.KindCircle {
		shapeKind = host.ShapeCircle
	}

	node := r.host.CreateShape(shapeKind)
	rep.NodesCreated++
	r.host.AppendChild(parent, node)

	node.Resize(s.Width, s.Height)
	if s.Fill != "" {
		node.SetFill(s.Fill)
	}
	if s.CornerRadius > 0 && shapeKind == host.ShapeRectangle {
		node.SetCornerRadius(s.CornerRadius)
	}
}

// renderComponent instantiates one resolved component reference and
// runs property separation, variant validation and text binding against
// it. Every failure here is local: the item is skipped with a warning
// and rendering continues with the remaining siblings.
func (r *Renderer) renderComponent(ctx context.Context, parent host.FrameNode, parentDesc *layout.Container, ref *layout.ComponentRef, index int, rep *Report) {
	node := r.host.Dereference(ref.ComponentID)
	if node == nil {
		rep.ItemsSkipped++
		rep.warnf(WarnMissingReference, "component %q (id %s) no longer exists in the document, skipped", ref.Type, ref.ComponentID)
		return
	}

	// A variant set is instantiated through its designated default.
	var schema map[string][]string
	master := node
	if set, ok := node.(host.ComponentSetNode); ok {
		schema = catalog.ExtractVariantSchema(set.VariantAxes())
		dv := set.DefaultVariant()
		if dv == nil {
			rep.ItemsSkipped++
			rep.warnf(WarnMissingReference, "variant set %q (id %s) has no default variant, skipped", ref.Type, ref.ComponentID)
			return
		}
		master = dv
	}

	if master.Kind() != host.KindComponent {
		rep.ItemsSkipped++
		rep.warnf(WarnMissingReference, "node %s is %s, not an instantiable component, skipped", ref.ComponentID, master.Kind())
		return
	}

	inst, err := r.host.Instantiate(master.ID())
	if err != nil {
		rep.ItemsSkipped++
		rep.warnf(WarnMissingReference, "could not instantiate %q (id %s): %v", ref.Type, ref.ComponentID, err)
		return
	}
	rep.NodesCreated++
	rep.InstancesCreated++
	r.host.AppendChild(parent, inst)

	display, selectors := SeparateProperties(ref.Properties, ref.ComponentID)

	if valid := ValidateVariants(selectors, schema, rep); valid != nil {
		if err := inst.SetVariants(valid); err != nil {
			rep.warnf(WarnVariant, "could not apply variants to %q: %v", inst.Name(), err)
		}
	}

	if name, ok := display["name"].(string); ok && name != "" {
		inst.SetName(name)
	}
	delete(display, "name")

	r.sizeInstance(inst, parentDesc, display)

	BindText(ctx, r.host, inst, r.catalog.Get(ref.ComponentID), display, rep)
}

// sizeInstance applies explicit width when given, otherwise stretches
// the instance across a vertical parent so list-like layouts fill their
// column.
func (r *Renderer) sizeInstance(inst host.InstanceNode, parentDesc *layout.Container, display map[string]any) {
	if w, ok := display["width"].(float64); ok && w > 0 {
		inst.SetFixedWidth(w)
		delete(display, "width")
		return
	}
	delete(display, "width")
	delete(display, "height")

	if parentDesc.LayoutMode == string(host.LayoutVertical) {
		inst.SetFillWidth()
	}
}

func frameName(c *layout.Container) string {
	if c.Name != "" {
		return c.Name
	}
	return "Generated Layout"
}
