package layout

import "encoding/json"

// EncodeDocument serializes a typed tree back to the wire schema, e.g.
// to echo a resolved tree (concrete component ids filled in) to the UI.
func EncodeDocument(d *Document) ([]byte, error) {
	return json.MarshalIndent(map[string]any{
		"layoutContainer": encodeContainerFields(&d.Root),
		"items":           encodeItems(d.Root.Items),
	}, "", "  ")
}

func encodeContainerFields(c *Container) map[string]any {
	out := map[string]any{
		"name":       c.Name,
		"layoutMode": c.LayoutMode,
	}
	switch {
	case c.Width != nil:
		out["width"] = *c.Width
	case c.FillWidth:
		out["width"] = "fill"
	}
	if c.Padding != (Insets{}) {
		out["paddingTop"] = c.Padding.Top
		out["paddingBottom"] = c.Padding.Bottom
		out["paddingLeft"] = c.Padding.Left
		out["paddingRight"] = c.Padding.Right
	}
	if c.ItemSpacing != 0 {
		out["itemSpacing"] = c.ItemSpacing
	}
	return out
}

func encodeItems(items []*Item) []map[string]any {
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		out = append(out, encodeItem(item))
	}
	return out
}

func encodeItem(item *Item) map[string]any {
	switch item.Kind {
	case KindContainer:
		m := encodeContainerFields(item.Container)
		m["type"] = string(KindContainer)
		m["items"] = encodeItems(item.Container.Items)
		return m

	case KindText:
		props := map[string]any{"text": item.Text.Text, "fontSize": item.Text.FontSize}
		if item.Text.FontWeight != "" {
			props["fontWeight"] = item.Text.FontWeight
		}
		if item.Text.Alignment != "" {
			props["alignment"] = item.Text.Alignment
		}
		return map[string]any{"type": string(KindText), "properties": props}

	case KindRectangle, KindCircle:
		props := map[string]any{"width": item.Shape.Width, "height": item.Shape.Height}
		if item.Shape.Fill != "" {
			props["fill"] = item.Shape.Fill
		}
		if item.Shape.CornerRadius > 0 {
			props["cornerRadius"] = item.Shape.CornerRadius
		}
		return map[string]any{"type": string(item.Kind), "properties": props}

	default:
		m := map[string]any{"type": item.Component.Type}
		if item.Component.ComponentID != "" {
			m["componentNodeId"] = item.Component.ComponentID
		}
		if len(item.Component.Properties) > 0 {
			m["properties"] = item.Component.Properties
		}
		return m
	}
}
