package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// documentCollections maps each cost document collection to its items
// collection. Invoices, quotes and templates share one shape.
var documentCollections = []struct {
	documents string
	items     string
}{
	{"invoices", "invoice_items"},
	{"quotes", "quote_items"},
	{"templates", "template_items"},
}

// Setup programmatically creates/ensures the clients, company_settings and
// the invoice, quote and template collections (with their item tables) exist.
func Setup(app core.App) {
	clients := ensureCollection(app, "clients", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "company", Required: false})
		c.Fields.Add(&core.EmailField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_pin", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "company_settings", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "company_name", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency_symbol", Required: false})
		c.Fields.Add(&core.TextField{Name: "currency_word", Required: false})
		c.Fields.Add(&core.TextField{Name: "phone", Required: false})
		c.Fields.Add(&core.TextField{Name: "email", Required: false})
		c.Fields.Add(&core.TextField{Name: "address", Required: false})
		c.Fields.Add(&core.TextField{Name: "tax_pin", Required: false})
		// Zero is a legitimate rate, so none of the numbers are required.
		c.Fields.Add(&core.NumberField{Name: "default_tax_rate", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_labor_percentage", Required: false})
		c.Fields.Add(&core.BoolField{Name: "include_labor_in_subtotal"})
		c.Fields.Add(&core.SelectField{
			Name:      "tax_mode",
			Required:  false,
			Values:    []string{"exclusive", "inclusive"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	for _, dc := range documentCollections {
		docs := ensureCollection(app, dc.documents, func(c *core.Collection) {
			addDocumentFields(c, clients.Id)
		})
		ensureCollection(app, dc.items, func(c *core.Collection) {
			addItemFields(c, docs.Id)
		})
	}
}

func addDocumentFields(c *core.Collection, clientsID string) {
	c.Fields.Add(&core.TextField{Name: "number", Required: true})
	c.Fields.Add(&core.TextField{Name: "title", Required: false})
	c.Fields.Add(&core.RelationField{
		Name:         "client",
		Required:     false,
		CollectionId: clientsID,
		MaxSelect:    1,
	})
	c.Fields.Add(&core.SelectField{
		Name:      "status",
		Required:  true,
		Values:    []string{"draft", "sent", "accepted", "paid", "cancelled"},
		MaxSelect: 1,
	})
	c.Fields.Add(&core.TextField{Name: "issue_date", Required: false})
	c.Fields.Add(&core.TextField{Name: "due_date", Required: false})
	c.Fields.Add(&core.TextField{Name: "notes", Required: false})
	c.Fields.Add(&core.NumberField{Name: "tax_rate", Required: false})
	c.Fields.Add(&core.NumberField{Name: "discount_amount", Required: false})
	c.Fields.Add(&core.BoolField{Name: "include_labor_in_subtotal"})
	// Empty on documents written before the mode was stored; MigrateTaxMode backfills it.
	c.Fields.Add(&core.SelectField{
		Name:      "tax_mode",
		Required:  false,
		Values:    []string{"exclusive", "inclusive"},
		MaxSelect: 1,
	})
	c.Fields.Add(&core.NumberField{Name: "subtotal", Required: false})
	c.Fields.Add(&core.NumberField{Name: "labor_subtotal", Required: false})
	c.Fields.Add(&core.NumberField{Name: "tax_amount", Required: false})
	c.Fields.Add(&core.NumberField{Name: "total_amount", Required: false})
	c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
	c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
}

func addItemFields(c *core.Collection, documentsID string) {
	c.Fields.Add(&core.RelationField{
		Name:          "document",
		Required:      true,
		CollectionId:  documentsID,
		CascadeDelete: true,
		MaxSelect:     1,
	})
	c.Fields.Add(&core.NumberField{Name: "sort_order", Required: false})
	c.Fields.Add(&core.TextField{Name: "row_key", Required: false})
	c.Fields.Add(&core.TextField{Name: "description", Required: false})
	c.Fields.Add(&core.TextField{Name: "section", Required: false})
	c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
	c.Fields.Add(&core.NumberField{Name: "unit_cost", Required: false})
	c.Fields.Add(&core.NumberField{Name: "labor_percentage", Required: false})
	c.Fields.Add(&core.NumberField{Name: "labor_charge", Required: false})
	c.Fields.Add(&core.BoolField{Name: "labor_charge_set"})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app core.App, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
