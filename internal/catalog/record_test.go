package catalog

import "testing"

func TestVerifyPinsConfidence(t *testing.T) {
	rec := &ComponentRecord{ID: "10:1", Name: "Odd Name", SuggestedType: TypeUnknown, Confidence: 0.1}
	rec.Verify("button")

	if rec.SuggestedType != "button" || rec.Confidence != 1.0 || !rec.IsVerified {
		t.Errorf("after Verify: %+v", rec)
	}
}

func TestUpdateType(t *testing.T) {
	cat := NewCatalog("doc")
	cat.Add(&ComponentRecord{ID: "10:1", Name: "Widget", SuggestedType: TypeUnknown, Confidence: 0.1})

	if err := cat.UpdateType("10:1", "card"); err != nil {
		t.Fatalf("UpdateType failed: %v", err)
	}
	rec := cat.Get("10:1")
	if rec.SuggestedType != "card" || !rec.IsVerified {
		t.Errorf("record not corrected: %+v", rec)
	}

	if err := cat.UpdateType("99:9", "card"); err == nil {
		t.Error("UpdateType on unknown id should fail")
	}
}

func TestCatalogNilSafety(t *testing.T) {
	var cat *Catalog
	if cat.Get("10:1") != nil {
		t.Error("Get on nil catalog should return nil")
	}
	if cat.Len() != 0 {
		t.Error("Len on nil catalog should be 0")
	}
}

func TestMarshalRoundtrip(t *testing.T) {
	cat := NewCatalog("fileA")
	cat.Add(&ComponentRecord{
		ID: "10:2", Name: "Button", SuggestedType: "button", Confidence: 0.95,
		VariantGroups: map[string][]string{"State": {"disabled", "enabled"}},
		TextSlots:     []TextSlot{{Name: "Label", Classification: ClassPrimary}},
	})
	cat.Add(&ComponentRecord{ID: "10:1", Name: "Header", SuggestedType: "header", Confidence: 0.95})

	data, err := cat.Marshal()
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if restored.Fingerprint != "fileA" || restored.Len() != 2 {
		t.Fatalf("restored catalog: fingerprint %q, %d records", restored.Fingerprint, restored.Len())
	}
	// Scan order survives, and the id index is rebuilt.
	if restored.Records[0].ID != "10:2" || restored.Records[1].ID != "10:1" {
		t.Errorf("record order lost: %s, %s", restored.Records[0].ID, restored.Records[1].ID)
	}
	if rec := restored.Get("10:2"); rec == nil || rec.VariantGroups["State"][0] != "disabled" {
		t.Errorf("restored record lookup broken: %+v", rec)
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	if _, err := Unmarshal([]byte("{not json")); err == nil {
		t.Error("Unmarshal of corrupt payload should fail")
	}
}

func TestCountByType(t *testing.T) {
	cat := NewCatalog("doc")
	cat.Add(&ComponentRecord{ID: "1:1", SuggestedType: "button"})
	cat.Add(&ComponentRecord{ID: "1:2", SuggestedType: "button"})
	cat.Add(&ComponentRecord{ID: "1:3", SuggestedType: "card"})

	counts := cat.CountByType()
	if counts["button"] != 2 || counts["card"] != 1 {
		t.Errorf("CountByType = %v", counts)
	}
}
