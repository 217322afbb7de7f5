package host

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a JSON description of a document used to build a
// MemoryHost outside a live plugin session (dry runs, CLI, tests).
type Snapshot struct {
	Fingerprint string         `json:"fingerprint"`
	Pages       []SnapshotPage `json:"pages"`
}

// SnapshotPage describes one page and the component masters on it.
type SnapshotPage struct {
	Name          string                 `json:"name"`
	Current       bool                   `json:"current"`
	Components    []SnapshotComponent    `json:"components,omitempty"`
	ComponentSets []SnapshotComponentSet `json:"componentSets,omitempty"`
}

// SnapshotComponent is a standalone component master.
type SnapshotComponent struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	TextLeaves []string `json:"textLeaves,omitempty"`
	// HiddenLeaves names text leaves that start out invisible.
	HiddenLeaves []string `json:"hiddenLeaves,omitempty"`
}

// SnapshotComponentSet is a variant set with its declared axes.
type SnapshotComponentSet struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Axes         map[string][]string `json:"axes"`
	TextLeaves   []string            `json:"textLeaves,omitempty"`
	HiddenLeaves []string            `json:"hiddenLeaves,omitempty"`
}

// LoadSnapshot builds a MemoryHost from snapshot JSON.
func LoadSnapshot(data []byte) (*MemoryHost, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse document snapshot: %w", err)
	}
	if snap.Fingerprint == "" {
		return nil, fmt.Errorf("document snapshot missing fingerprint")
	}

	h := NewMemoryHost(snap.Fingerprint)
	if len(snap.Pages) > 0 {
		// Replace the implicit starter page with the declared set.
		h.pages = nil
	}

	for _, sp := range snap.Pages {
		page := h.AddPage(sp.Name, sp.Current)
		for _, sc := range sp.Components {
			if sc.ID == "" || sc.Name == "" {
				return nil, fmt.Errorf("component on page %q needs id and name", sp.Name)
			}
			leaves := append(append([]string{}, sc.TextLeaves...), sc.HiddenLeaves...)
			node := h.AddComponent(page, sc.ID, sc.Name, leaves...)
			for _, hidden := range sc.HiddenLeaves {
				h.HideTextLeaf(node, hidden)
			}
		}
		for _, ss := range sp.ComponentSets {
			if ss.ID == "" || ss.Name == "" {
				return nil, fmt.Errorf("component set on page %q needs id and name", sp.Name)
			}
			leaves := append(append([]string{}, ss.TextLeaves...), ss.HiddenLeaves...)
			set := h.AddComponentSet(page, ss.ID, ss.Name, ss.Axes, leaves...)
			for _, hidden := range ss.HiddenLeaves {
				h.HideTextLeaf(set, hidden)
			}
		}
	}

	return h, nil
}
