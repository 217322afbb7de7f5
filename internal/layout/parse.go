package layout

import (
	"encoding/json"
	"fmt"
	"strings"
)

// rawDocument mirrors the wire schema at the top level.
type rawDocument struct {
	LayoutContainer *rawContainer     `json:"layoutContainer"`
	Items           []json.RawMessage `json:"items"`
}

// rawContainer mirrors the wire schema of a container description.
type rawContainer struct {
	Name          string          `json:"name"`
	LayoutMode    string          `json:"layoutMode"`
	Width         json.RawMessage `json:"width"`
	PaddingTop    float64         `json:"paddingTop"`
	PaddingBottom float64         `json:"paddingBottom"`
	PaddingLeft   float64         `json:"paddingLeft"`
	PaddingRight  float64         `json:"paddingRight"`
	ItemSpacing   float64         `json:"itemSpacing"`
}

// rawItem is the common envelope of every item; only its type tag is
// inspected before dispatching to the kind-specific shape.
type rawItem struct {
	Type            string            `json:"type"`
	Name            string            `json:"name"`
	LayoutMode      string            `json:"layoutMode"`
	Width           json.RawMessage   `json:"width"`
	PaddingTop      float64           `json:"paddingTop"`
	PaddingBottom   float64           `json:"paddingBottom"`
	PaddingLeft     float64           `json:"paddingLeft"`
	PaddingRight    float64           `json:"paddingRight"`
	ItemSpacing     float64           `json:"itemSpacing"`
	Items           []json.RawMessage `json:"items"`
	ComponentNodeID string            `json:"componentNodeId"`
	Properties      map[string]any    `json:"properties"`
}

// ParseDocument validates layout JSON and produces the typed tree.
// Errors carry the item index path (e.g. "items[2].items[0]") so the
// author of the JSON - human or model - can find the offending node.
func ParseDocument(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("layout JSON is not valid JSON: %w", err)
	}
	if raw.LayoutContainer == nil {
		return nil, fmt.Errorf("layout JSON missing required layoutContainer")
	}

	root, err := parseContainerFields(raw.LayoutContainer, "layoutContainer")
	if err != nil {
		return nil, err
	}

	items, err := parseItems(raw.Items, "items")
	if err != nil {
		return nil, err
	}
	root.Items = items

	return &Document{Root: *root}, nil
}

func parseContainerFields(raw *rawContainer, path string) (*Container, error) {
	mode := strings.ToUpper(strings.TrimSpace(raw.LayoutMode))
	switch mode {
	case "HORIZONTAL", "VERTICAL", "NONE":
	case "":
		mode = "NONE"
	default:
		return nil, fmt.Errorf("%s: invalid layoutMode %q (want HORIZONTAL, VERTICAL or NONE)", path, raw.LayoutMode)
	}

	c := &Container{
		Name:       raw.Name,
		LayoutMode: mode,
		Padding: Insets{
			Top:    raw.PaddingTop,
			Bottom: raw.PaddingBottom,
			Left:   raw.PaddingLeft,
			Right:  raw.PaddingRight,
		},
		ItemSpacing: raw.ItemSpacing,
	}

	if err := parseWidth(raw.Width, c, path); err != nil {
		return nil, err
	}
	if c.ItemSpacing < 0 {
		return nil, fmt.Errorf("%s: itemSpacing must not be negative", path)
	}
	return c, nil
}

// parseWidth accepts a number (fixed width), the string "fill"
// (stretch to parent), or nothing (auto width).
func parseWidth(raw json.RawMessage, c *Container, path string) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		if num <= 0 {
			return fmt.Errorf("%s: width must be positive, got %v", path, num)
		}
		c.Width = &num
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil && strings.EqualFold(s, "fill") {
		c.FillWidth = true
		return nil
	}
	return fmt.Errorf("%s: width must be a number or \"fill\"", path)
}

func parseItems(raws []json.RawMessage, path string) ([]*Item, error) {
	items := make([]*Item, 0, len(raws))
	for i, rawMsg := range raws {
		item, err := parseItem(rawMsg, childPath(path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(data json.RawMessage, path string) (*Item, error) {
	var raw rawItem
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(raw.Type) == "" {
		return nil, fmt.Errorf("%s: item missing type", path)
	}

	switch raw.Type {
	case string(KindContainer):
		c, err := parseContainerFields(&rawContainer{
			Name:          raw.Name,
			LayoutMode:    raw.LayoutMode,
			Width:         raw.Width,
			PaddingTop:    raw.PaddingTop,
			PaddingBottom: raw.PaddingBottom,
			PaddingLeft:   raw.PaddingLeft,
			PaddingRight:  raw.PaddingRight,
			ItemSpacing:   raw.ItemSpacing,
		}, path)
		if err != nil {
			return nil, err
		}
		children, err := parseItems(raw.Items, path+".items")
		if err != nil {
			return nil, err
		}
		c.Items = children
		return &Item{Kind: KindContainer, Container: c}, nil

	case string(KindText):
		return parseNativeText(raw.Properties, path)

	case string(KindRectangle), string(KindCircle):
		shape, err := parseNativeShape(raw.Properties, path)
		if err != nil {
			return nil, err
		}
		kind := KindRectangle
		if raw.Type == string(KindCircle) {
			kind = KindCircle
		}
		return &Item{Kind: kind, Shape: shape}, nil

	default:
		// Anything else is a design-system component reference whose
		// abstract type is the tag itself.
		props := raw.Properties
		if props == nil {
			props = map[string]any{}
		}
		return &Item{Kind: KindComponent, Component: &ComponentRef{
			Type:        raw.Type,
			ComponentID: raw.ComponentNodeID,
			Properties:  props,
		}}, nil
	}
}

func parseNativeText(props map[string]any, path string) (*Item, error) {
	text := &NativeText{FontSize: 14}
	if v, ok := props["text"].(string); ok {
		text.Text = v
	}
	if v, ok := numericProp(props, "fontSize"); ok {
		if v <= 0 {
			return nil, fmt.Errorf("%s: fontSize must be positive", path)
		}
		text.FontSize = v
	}
	if v, ok := props["fontWeight"].(string); ok {
		text.FontWeight = v
	}
	if v, ok := props["alignment"].(string); ok {
		text.Alignment = v
	}
	return &Item{Kind: KindText, Text: text}, nil
}

func parseNativeShape(props map[string]any, path string) (*NativeShape, error) {
	shape := &NativeShape{Width: 100, Height: 100}
	if v, ok := numericProp(props, "width"); ok {
		shape.Width = v
	}
	if v, ok := numericProp(props, "height"); ok {
		shape.Height = v
	}
	if shape.Width <= 0 || shape.Height <= 0 {
		return nil, fmt.Errorf("%s: shape dimensions must be positive", path)
	}
	if v, ok := props["fill"].(string); ok {
		shape.Fill = v
	}
	if v, ok := numericProp(props, "cornerRadius"); ok {
		shape.CornerRadius = v
	}
	return shape, nil
}

func numericProp(props map[string]any, key string) (float64, bool) {
	switch v := props[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

func childPath(base string, index int) string {
	return fmt.Sprintf("%s[%d]", base, index)
}
