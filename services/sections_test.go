package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func threeItemDocument() []LineItem {
	a, b, c := siteItem(), siteItem(), siteItem()
	a.Description, b.Description, c.Description = "Clearing", "Excavation", "Roof sheets"
	c.Section = "Roofing"
	return []LineItem{a, b, c}
}

func TestRenameSection(t *testing.T) {
	items := threeItemDocument()
	got := RenameSection(items, "General", "Foundation Works")

	want := []string{"Foundation Works", "Foundation Works", "Roofing"}
	var sections []string
	for _, item := range got {
		sections = append(sections, item.Section)
	}
	if diff := cmp.Diff(want, sections); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}
	if items[0].Section != "General" {
		t.Error("RenameSection modified its input")
	}
}

func TestRenameSection_BlankTargetIsNoop(t *testing.T) {
	items := threeItemDocument()
	got := RenameSection(items, "General", "   ")
	if diff := cmp.Diff(items, got, decimalEqual); diff != "" {
		t.Errorf("items changed (-want +got):\n%s", diff)
	}
}

func TestSections_FirstAppearanceOrder(t *testing.T) {
	items := threeItemDocument()
	items[0].Section = "Roofing"
	items[1].Section = ""

	want := []string{"Roofing", DefaultSection}
	if diff := cmp.Diff(want, Sections(items)); diff != "" {
		t.Errorf("Sections mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeSections(t *testing.T) {
	items := threeItemDocument()
	items[1].LaborPercentage = dec("10")

	perItem := SummarizeSections(items, LaborModePerItem, nil)
	if len(perItem) != 2 {
		t.Fatalf("got %d summaries, want 2", len(perItem))
	}
	general := perItem[0]
	if general.Name != DefaultSection || general.Items != 2 {
		t.Errorf("general = %+v", general)
	}
	if !general.Subtotal.Equal(dec("1700")) {
		t.Errorf("general subtotal = %s, want 1700", general.Subtotal)
	}
	// 310.25 + 85
	if !general.Labor.Equal(dec("395.25")) {
		t.Errorf("per-item labor = %s, want 395.25", general.Labor)
	}

	flat := SummarizeSections(items, LaborModeFlat, nil)
	// 1700 x 36.5%
	if !flat[0].Labor.Equal(dec("620.5")) {
		t.Errorf("flat labor = %s, want 620.5", flat[0].Labor)
	}
}
