// Package catalog holds the scanned component library: classification of
// component names into semantic types, variant schemas, text slot metadata,
// and the Catalog value the resolver and renderer consume.
package catalog

import (
	"encoding/json"
	"fmt"
	"time"
)

// TypeUnknown is the classification for names no pattern matches.
const TypeUnknown = "unknown"

// PageContext records where a component was found. Provenance only,
// never identity.
type PageContext struct {
	PageName      string `json:"pageName"`
	PageID        string `json:"pageId"`
	IsCurrentPage bool   `json:"isCurrentPage"`
}

// TextSlot is one named text leaf discovered inside a component's
// default rendering, with its inferred hierarchy classification
// (primary, secondary, tertiary).
type TextSlot struct {
	Name           string `json:"name"`
	Classification string `json:"classification"`
}

// ComponentRecord is one classified design-system component.
type ComponentRecord struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	SuggestedType string  `json:"suggestedType"`
	Confidence    float64 `json:"confidence"`
	IsVerified    bool    `json:"isVerified"`

	// VariantGroups is present only for variant sets: axis name to
	// sorted, de-duplicated allowed values.
	VariantGroups map[string][]string `json:"variantGroups,omitempty"`

	// TextSlots are hints from scan time; a slot can disappear or be
	// renamed between scan and use.
	TextSlots []TextSlot `json:"textSlots,omitempty"`

	Page PageContext `json:"pageContext"`
}

// Verify overrides the inferred type with a user correction, pinning
// full confidence.
func (r *ComponentRecord) Verify(newType string) {
	r.SuggestedType = newType
	r.Confidence = 1.0
	r.IsVerified = true
}

// Catalog is the ordered result of one scan, tagged with the
// fingerprint of the document it was scanned from.
type Catalog struct {
	Records     []*ComponentRecord `json:"records"`
	Fingerprint string             `json:"documentFingerprint"`
	ScannedAt   time.Time          `json:"scannedAt"`

	byID map[string]*ComponentRecord
}

// NewCatalog creates an empty catalog for the given document.
func NewCatalog(fingerprint string) *Catalog {
	return &Catalog{
		Fingerprint: fingerprint,
		ScannedAt:   time.Now().UTC(),
		byID:        make(map[string]*ComponentRecord),
	}
}

// Add appends a record, keeping scan order. Later records with a
// duplicate id replace the earlier entry in the index but not in order.
func (c *Catalog) Add(r *ComponentRecord) {
	if c.byID == nil {
		c.byID = make(map[string]*ComponentRecord)
	}
	c.Records = append(c.Records, r)
	c.byID[r.ID] = r
}

// Get returns the record for an id, or nil.
func (c *Catalog) Get(id string) *ComponentRecord {
	if c == nil {
		return nil
	}
	if c.byID == nil {
		c.reindex()
	}
	return c.byID[id]
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Records)
}

// UpdateType applies a manual type correction to one record.
func (c *Catalog) UpdateType(id, newType string) error {
	rec := c.Get(id)
	if rec == nil {
		return fmt.Errorf("no component with id %s in catalog", id)
	}
	rec.Verify(newType)
	return nil
}

func (c *Catalog) reindex() {
	c.byID = make(map[string]*ComponentRecord, len(c.Records))
	for _, r := range c.Records {
		c.byID[r.ID] = r
	}
}

// Marshal serializes the catalog for persistence.
func (c *Catalog) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// Unmarshal restores a catalog from its persisted form.
func Unmarshal(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c.reindex()
	return &c, nil
}

// CountByType returns record counts per suggested type, for summaries.
func (c *Catalog) CountByType() map[string]int {
	out := make(map[string]int)
	for _, r := range c.Records {
		out[r.SuggestedType]++
	}
	return out
}
