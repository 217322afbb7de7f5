package catalog

import (
	"context"
	"fmt"

	"layoutsmith/internal/host"
	"layoutsmith/internal/logging"
)

// Progress is an observational callback reporting scan advancement.
// It is never a cancellation point.
type Progress func(current, total int, status string)

// Scanner discovers and classifies the component library of a document.
type Scanner struct {
	host host.Host
}

// NewScanner creates a scanner against the given document host.
func NewScanner(h host.Host) *Scanner {
	return &Scanner{host: h}
}

// Scan walks every page and produces a fresh Catalog. The result
// replaces any previous catalog wholesale; records are ordered by page
// then document order within the page.
func (s *Scanner) Scan(ctx context.Context, progress Progress) (*Catalog, error) {
	timer := logging.StartTimer(logging.CategoryScan, "Scan")
	defer timer.Stop()

	if err := s.host.LoadAllPages(ctx); err != nil {
		return nil, fmt.Errorf("failed to load document pages: %w", err)
	}

	cat := NewCatalog(s.host.DocumentFingerprint())
	currentID := s.host.CurrentPage().ID()

	// First pass counts masters so progress has a stable total.
	type found struct {
		node host.Node
		page host.Node
	}
	var masters []found
	for _, page := range s.host.Pages() {
		for _, n := range s.host.TraverseAll(page, isComponentMaster) {
			// Variants inside a set are reported through the set itself.
			if parent := n.Parent(); parent != nil && parent.Kind() == host.KindComponentSet {
				continue
			}
			masters = append(masters, found{node: n, page: page})
		}
	}

	logging.Scan("Scanning %d component masters across %d pages", len(masters), len(s.host.Pages()))

	for i, f := range masters {
		if progress != nil {
			progress(i+1, len(masters), fmt.Sprintf("Scanning %s", f.node.Name()))
		}
		cat.Add(s.buildRecord(f.node, f.page, currentID))
	}

	logging.Scan("Scan complete: %d records for document %s", cat.Len(), cat.Fingerprint)
	return cat, nil
}

func isComponentMaster(n host.Node) bool {
	return n.Kind() == host.KindComponent || n.Kind() == host.KindComponentSet
}

func (s *Scanner) buildRecord(n, page host.Node, currentPageID string) *ComponentRecord {
	suggested, confidence := ClassifyName(n.Name())

	rec := &ComponentRecord{
		ID:            n.ID(),
		Name:          n.Name(),
		SuggestedType: suggested,
		Confidence:    confidence,
		Page: PageContext{
			PageName:      page.Name(),
			PageID:        page.ID(),
			IsCurrentPage: page.ID() == currentPageID,
		},
	}

	// Text slots come from the default rendering: the set's designated
	// default variant, or the component itself.
	slotRoot := n
	if set, ok := n.(host.ComponentSetNode); ok {
		rec.VariantGroups = ExtractVariantSchema(set.VariantAxes())
		if dv := set.DefaultVariant(); dv != nil {
			slotRoot = dv
		}
	}
	rec.TextSlots = FindTextSlots(s.host, slotRoot)

	logging.CatalogDebug("Classified %q as %s (confidence %.2f, %d text slots)",
		rec.Name, rec.SuggestedType, rec.Confidence, len(rec.TextSlots))
	return rec
}
