package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

type seedItem struct {
	section         string
	description     string
	quantity        float64
	unitCost        float64
	laborPercentage float64
}

// starterTemplate is priced so its stored totals match what the cost engine
// computes: 64,250 materials at 36.5% labor and 16% VAT, labor excluded.
var starterTemplate = struct {
	number        string
	title         string
	notes         string
	taxRate       float64
	subtotal      float64
	laborSubtotal float64
	taxAmount     float64
	totalAmount   float64
	items         []seedItem
}{
	number:        "TPL-2026-001",
	title:         "Boundary wall - starter",
	notes:         "Prices exclude transport beyond 20 km.",
	taxRate:       16,
	subtotal:      64250,
	laborSubtotal: 23451.25,
	taxAmount:     10280,
	totalAmount:   74530,
	items: []seedItem{
		{"General", "Site preparation and setting out", 1, 850, 36.5},
		{"Foundation Works", "Trench excavation (m³)", 12, 450, 36.5},
		{"Foundation Works", "Concrete class 20 (m³)", 4, 14500, 36.5},
	},
}

// Seed inserts a demo client and a starter template. It is safe to call on
// every startup because it returns early if any template already exists.
func Seed(app core.App) error {
	templatesCol, err := app.FindCollectionByNameOrId("templates")
	if err != nil {
		return fmt.Errorf("seed: could not find templates collection: %w", err)
	}
	existing, err := app.FindRecordsByFilter(templatesCol, "1=1", "", 1, 0, nil)
	if err != nil {
		return fmt.Errorf("seed: could not query templates: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: templates collection is empty – inserting seed data …")

	clientsCol, err := app.FindCollectionByNameOrId("clients")
	if err != nil {
		return fmt.Errorf("seed: could not find clients collection: %w", err)
	}
	itemsCol, err := app.FindCollectionByNameOrId("template_items")
	if err != nil {
		return fmt.Errorf("seed: could not find template_items collection: %w", err)
	}

	return app.RunInTransaction(func(txApp core.App) error {
		client := core.NewRecord(clientsCol)
		client.Set("name", "Jane Wanjiru")
		client.Set("company", "Wanjiru Holdings")
		client.Set("email", "jane@example.com")
		client.Set("phone", "+254 712 345678")
		client.Set("address", "Ngong Road, Nairobi")
		if err := txApp.Save(client); err != nil {
			return fmt.Errorf("seed: save client: %w", err)
		}

		tpl := core.NewRecord(templatesCol)
		tpl.Set("number", starterTemplate.number)
		tpl.Set("title", starterTemplate.title)
		tpl.Set("client", client.Id)
		tpl.Set("status", "draft")
		tpl.Set("notes", starterTemplate.notes)
		tpl.Set("tax_rate", starterTemplate.taxRate)
		tpl.Set("discount_amount", 0)
		tpl.Set("include_labor_in_subtotal", false)
		tpl.Set("tax_mode", "exclusive")
		tpl.Set("subtotal", starterTemplate.subtotal)
		tpl.Set("labor_subtotal", starterTemplate.laborSubtotal)
		tpl.Set("tax_amount", starterTemplate.taxAmount)
		tpl.Set("total_amount", starterTemplate.totalAmount)
		if err := txApp.Save(tpl); err != nil {
			return fmt.Errorf("seed: save template: %w", err)
		}

		for i, it := range starterTemplate.items {
			r := core.NewRecord(itemsCol)
			r.Set("document", tpl.Id)
			r.Set("sort_order", i+1)
			r.Set("row_key", fmt.Sprintf("seed-%d", i+1))
			r.Set("description", it.description)
			r.Set("section", it.section)
			r.Set("quantity", it.quantity)
			r.Set("unit_cost", it.unitCost)
			r.Set("labor_percentage", it.laborPercentage)
			if err := txApp.Save(r); err != nil {
				return fmt.Errorf("seed: save template item %d: %w", i+1, err)
			}
		}

		log.Printf("seed: created template %s with %d items\n", starterTemplate.number, len(starterTemplate.items))
		return nil
	})
}
