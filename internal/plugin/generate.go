package plugin

import (
	"context"
	"fmt"
	"strings"

	"layoutsmith/internal/catalog"
	"layoutsmith/internal/logging"
	"layoutsmith/internal/provider"
)

// completionOptions are the generation defaults for layout JSON; low
// temperature keeps the output close to the schema.
var completionOptions = provider.Options{
	Temperature: 0.2,
	MaxTokens:   8192,
}

// GenerateLayoutJSON asks the completion backend for layout JSON
// satisfying the user's request against the scanned catalog.
func GenerateLayoutJSON(ctx context.Context, p provider.CompletionProvider, cat *catalog.Catalog, request string) ([]byte, error) {
	prompt := buildPrompt(cat, request)
	logging.Provider("Requesting layout for %q against %d catalog records", request, cat.Len())

	raw, err := p.Complete(ctx, prompt, completionOptions)
	if err != nil {
		return nil, err
	}

	cleaned := extractJSON(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("completion contained no JSON document")
	}
	return []byte(cleaned), nil
}

// buildPrompt assembles the catalog listing plus the output contract.
// Kept deliberately small; UX copy and richer templates live in the UI
// layer.
func buildPrompt(cat *catalog.Catalog, request string) string {
	var b strings.Builder

	b.WriteString("You generate UI layout JSON for a design tool plugin.\n\n")
	b.WriteString("Available components:\n")
	for _, rec := range cat.Records {
		fmt.Fprintf(&b, "- type=%q id=%q name=%q", rec.SuggestedType, rec.ID, rec.Name)
		if len(rec.VariantGroups) > 0 {
			fmt.Fprintf(&b, " variants=%v", rec.VariantGroups)
		}
		b.WriteString("\n")
	}

	b.WriteString(`
Output a single JSON object, no prose, shaped as:
{"layoutContainer": {"name": string, "layoutMode": "HORIZONTAL"|"VERTICAL"|"NONE", "width"?: number, "paddingTop"?: number, "paddingBottom"?: number, "paddingLeft"?: number, "paddingRight"?: number, "itemSpacing"?: number}, "items": [...]}
Each item is one of:
- {"type": "layoutContainer", ...same container fields, "items": [...]}
- {"type": "native-text"|"native-rectangle"|"native-circle", "properties": {...}}
- {"type": <component type from the list above>, "componentNodeId": <its id>, "properties": {..., "variants"?: {AxisName: value}}}
Use only component ids from the list. Use variant axis names and values exactly as declared.

Request: `)
	b.WriteString(request)
	return b.String()
}

// extractJSON strips markdown fences and any surrounding prose,
// returning the outermost JSON object.
func extractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}
