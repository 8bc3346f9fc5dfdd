package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Sections returns the distinct section names in first-appearance order.
func Sections(items []LineItem) []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range items {
		name := NormalizeSection(item.Section)
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}

// RenameSection returns a copy of items where every item in section from is
// moved to section to. Items in other sections are untouched. A blank target
// leaves the items as they are.
func RenameSection(items []LineItem, from, to string) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)

	if strings.TrimSpace(to) == "" {
		return out
	}
	src, dst := NormalizeSection(from), NormalizeSection(to)
	for i := range out {
		if NormalizeSection(out[i].Section) == src {
			out[i].Section = dst
		}
	}
	return out
}

// SectionGroup is one section and its items in document order.
type SectionGroup struct {
	Name  string
	Items []LineItem
}

// GroupBySection splits items by section, keeping first-appearance order.
func GroupBySection(items []LineItem) []SectionGroup {
	index := make(map[string]int)
	var groups []SectionGroup
	for _, item := range items {
		name := NormalizeSection(item.Section)
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, SectionGroup{Name: name})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}

// LaborMode selects how a section's labor charge is computed.
type LaborMode string

const (
	// LaborModePerItem sums each item's own labor charge.
	LaborModePerItem LaborMode = "per_item"
	// LaborModeFlat applies one percentage to the section subtotal.
	LaborModeFlat LaborMode = "flat"
)

// SectionSummary carries the per-section amounts shown under each group.
type SectionSummary struct {
	Name     string
	Items    int
	Subtotal decimal.Decimal
	Labor    decimal.Decimal
}

// SummarizeSections computes subtotal and labor for every section. flatRate is
// only used in LaborModeFlat; nil means DefaultLaborPercentage.
func SummarizeSections(items []LineItem, mode LaborMode, flatRate *decimal.Decimal) []SectionSummary {
	var out []SectionSummary
	for _, g := range GroupBySection(items) {
		s := SectionSummary{
			Name:     g.Name,
			Items:    len(g.Items),
			Subtotal: SectionSubtotal(items, g.Name),
		}
		if mode == LaborModeFlat {
			s.Labor = SectionLaborFlat(items, g.Name, flatRate)
		} else {
			s.Labor = SectionLaborPerItem(items, g.Name)
		}
		out = append(out, s)
	}
	return out
}
