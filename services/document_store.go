package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

var ErrDocumentNotFound = errors.New("document not found")

// StoredDocument is a document as read back from the record store, with the
// totals that were persisted when it was last saved.
type StoredDocument struct {
	Document CostDocument
	Snapshot Snapshot
	Created  string
	Updated  string
}

// Issued reports whether the document has left draft. Once issued, the
// persisted snapshot is the amount of record.
func (s StoredDocument) Issued() bool {
	return s.Document.Status != "" && s.Document.Status != "draft"
}

// DisplayTotals returns the totals to show for the document together with
// the totals its items compute today. A draft shows the computed totals; an
// issued document shows its snapshot and keeps computed for drift reporting.
func (s StoredDocument) DisplayTotals() (display, computed DocumentTotals) {
	computed = ComputeTotals(s.Document)
	if !s.Issued() {
		return computed, computed
	}
	return s.snapshotTotals(), computed
}

// snapshotTotals expands the snapshot back into totals. The material
// subtotal is not persisted and is derived from the stored subtotal.
func (s StoredDocument) snapshotTotals() DocumentTotals {
	snap := s.Snapshot
	material := snap.Subtotal
	if snap.TaxMode == TaxInclusive {
		material = material.Add(snap.TaxAmount)
	}
	if s.Document.IncludeLaborInSubtotal {
		material = material.Sub(snap.LaborSubtotal)
	}
	return DocumentTotals{
		MaterialSubtotal:  material,
		LaborSubtotal:     snap.LaborSubtotal,
		EffectiveSubtotal: snap.Subtotal,
		TaxAmount:         snap.TaxAmount,
		DiscountAmount:    snap.DiscountAmount,
		GrandTotal:        snap.GrandTotal,
		TaxMode:           snap.TaxMode,
	}
}

// DocumentSummary is one row of a document list.
type DocumentSummary struct {
	ID          string          `json:"id"`
	Kind        DocumentKind    `json:"kind"`
	Number      string          `json:"number"`
	Title       string          `json:"title"`
	ClientID    string          `json:"client_id"`
	Status      string          `json:"status"`
	IssueDate   string          `json:"issue_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	TaxMode     TaxMode         `json:"tax_mode"`
	Created     string          `json:"created"`
}

// LoadDocument reads a document and its items, ordered by sort_order.
func LoadDocument(app core.App, kind DocumentKind, id string) (StoredDocument, error) {
	rec, err := app.FindRecordById(kind.Collection(), id)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("%w: %s %s", ErrDocumentNotFound, kind, id)
	}

	itemRecords, err := app.FindRecordsByFilter(
		kind.ItemsCollection(),
		"document = {:documentId}",
		"sort_order",
		0, 0,
		map[string]any{"documentId": id},
	)
	if err != nil {
		return StoredDocument{}, fmt.Errorf("load items of %s %s: %w", kind, id, err)
	}

	doc := documentFromRecord(kind, rec)
	for _, ir := range itemRecords {
		doc.Items = append(doc.Items, itemFromRecord(ir))
	}

	return StoredDocument{
		Document: doc,
		Snapshot: snapshotFromRecord(rec),
		Created:  rec.GetString("created"),
		Updated:  rec.GetString("updated"),
	}, nil
}

// SaveDocument validates doc, computes its totals and writes the document and
// its items in one transaction. Items missing from doc.Items are deleted. A
// document without a number gets the next one for its kind. The returned
// document carries the record ids assigned on create.
func SaveDocument(app core.App, doc CostDocument) (CostDocument, error) {
	if problems := ValidateDocument(doc); len(problems) > 0 {
		return doc, &ValidationError{Problems: problems}
	}

	doc.TaxMode = ParseTaxMode(string(doc.TaxMode))
	snap := SnapshotOf(ComputeTotals(doc))

	err := app.RunInTransaction(func(txApp core.App) error {
		rec, err := findOrNewDocumentRecord(txApp, doc)
		if err != nil {
			return err
		}

		if doc.Number == "" {
			number, err := GenerateDocumentNumber(txApp, doc.Kind, time.Now())
			if err != nil {
				return err
			}
			doc.Number = number
		}

		applyDocumentToRecord(rec, doc)
		applySnapshotToRecord(rec, snap)
		if err := txApp.Save(rec); err != nil {
			return fmt.Errorf("save %s: %w", doc.Kind, err)
		}
		doc.ID = rec.Id

		items, err := saveItems(txApp, doc)
		if err != nil {
			return err
		}
		doc.Items = items
		return nil
	})
	if err != nil {
		return doc, err
	}

	return doc, nil
}

// DeleteDocument removes a document and its items in one transaction.
func DeleteDocument(app core.App, kind DocumentKind, id string) error {
	return app.RunInTransaction(func(txApp core.App) error {
		rec, err := txApp.FindRecordById(kind.Collection(), id)
		if err != nil {
			return fmt.Errorf("%w: %s %s", ErrDocumentNotFound, kind, id)
		}

		items, err := txApp.FindRecordsByFilter(
			kind.ItemsCollection(),
			"document = {:documentId}",
			"", 0, 0,
			map[string]any{"documentId": id},
		)
		if err != nil {
			return fmt.Errorf("load items of %s %s: %w", kind, id, err)
		}
		for _, item := range items {
			if err := txApp.Delete(item); err != nil {
				return fmt.Errorf("delete item %s: %w", item.Id, err)
			}
		}

		if err := txApp.Delete(rec); err != nil {
			return fmt.Errorf("delete %s %s: %w", kind, id, err)
		}
		return nil
	})
}

// ListDocuments returns summaries of every document of kind, newest first.
func ListDocuments(app core.App, kind DocumentKind) ([]DocumentSummary, error) {
	records, err := app.FindRecordsByFilter(kind.Collection(), "1=1", "-created", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}

	out := make([]DocumentSummary, 0, len(records))
	for _, rec := range records {
		out = append(out, DocumentSummary{
			ID:          rec.Id,
			Kind:        kind,
			Number:      rec.GetString("number"),
			Title:       rec.GetString("title"),
			ClientID:    rec.GetString("client"),
			Status:      rec.GetString("status"),
			IssueDate:   rec.GetString("issue_date"),
			TotalAmount: decimal.NewFromFloat(rec.GetFloat("total_amount")),
			TaxMode:     ParseTaxMode(rec.GetString("tax_mode")),
			Created:     rec.GetString("created"),
		})
	}
	return out, nil
}

// InstantiateDocument creates and saves a new document of kind from an
// existing one, e.g. a quote from a template or an invoice from a quote.
func InstantiateDocument(app core.App, srcKind DocumentKind, srcID string, kind DocumentKind) (CostDocument, error) {
	src, err := LoadDocument(app, srcKind, srcID)
	if err != nil {
		return CostDocument{}, err
	}
	return SaveDocument(app, CopyDocument(src.Document, kind))
}

func findOrNewDocumentRecord(app core.App, doc CostDocument) (*core.Record, error) {
	if doc.ID != "" {
		rec, err := app.FindRecordById(doc.Kind.Collection(), doc.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s", ErrDocumentNotFound, doc.Kind, doc.ID)
		}
		return rec, nil
	}

	col, err := app.FindCollectionByNameOrId(doc.Kind.Collection())
	if err != nil {
		return nil, fmt.Errorf("find %s collection: %w", doc.Kind.Collection(), err)
	}
	return core.NewRecord(col), nil
}

// saveItems upserts doc.Items by record id and removes stored items that are
// no longer part of the document.
func saveItems(app core.App, doc CostDocument) ([]LineItem, error) {
	col, err := app.FindCollectionByNameOrId(doc.Kind.ItemsCollection())
	if err != nil {
		return nil, fmt.Errorf("find %s collection: %w", doc.Kind.ItemsCollection(), err)
	}

	existing, err := app.FindRecordsByFilter(
		col,
		"document = {:documentId}",
		"", 0, 0,
		map[string]any{"documentId": doc.ID},
	)
	if err != nil {
		return nil, fmt.Errorf("load items of %s %s: %w", doc.Kind, doc.ID, err)
	}
	byID := make(map[string]*core.Record, len(existing))
	for _, rec := range existing {
		byID[rec.Id] = rec
	}

	items := Renumber(append([]LineItem(nil), doc.Items...))
	for i, item := range items {
		rec, ok := byID[item.ID]
		if ok {
			delete(byID, item.ID)
		} else {
			rec = core.NewRecord(col)
			rec.Set("document", doc.ID)
		}
		applyItemToRecord(rec, item)
		if err := app.Save(rec); err != nil {
			return nil, fmt.Errorf("save item %d: %w", i+1, err)
		}
		items[i].ID = rec.Id
	}

	for _, stale := range byID {
		if err := app.Delete(stale); err != nil {
			return nil, fmt.Errorf("delete item %s: %w", stale.Id, err)
		}
	}
	return items, nil
}

func documentFromRecord(kind DocumentKind, rec *core.Record) CostDocument {
	return CostDocument{
		ID:                     rec.Id,
		Kind:                   kind,
		Number:                 rec.GetString("number"),
		Title:                  rec.GetString("title"),
		ClientID:               rec.GetString("client"),
		Status:                 rec.GetString("status"),
		IssueDate:              rec.GetString("issue_date"),
		DueDate:                rec.GetString("due_date"),
		Notes:                  rec.GetString("notes"),
		TaxRate:                decimal.NewFromFloat(rec.GetFloat("tax_rate")),
		DiscountAmount:         decimal.NewFromFloat(rec.GetFloat("discount_amount")),
		IncludeLaborInSubtotal: rec.GetBool("include_labor_in_subtotal"),
		TaxMode:                ParseTaxMode(rec.GetString("tax_mode")),
	}
}

func applyDocumentToRecord(rec *core.Record, doc CostDocument) {
	status := doc.Status
	if status == "" {
		status = "draft"
	}
	rec.Set("number", doc.Number)
	rec.Set("title", doc.Title)
	rec.Set("client", doc.ClientID)
	rec.Set("status", status)
	rec.Set("issue_date", doc.IssueDate)
	rec.Set("due_date", doc.DueDate)
	rec.Set("notes", doc.Notes)
	rec.Set("tax_rate", doc.TaxRate.InexactFloat64())
	rec.Set("discount_amount", Round2(doc.DiscountAmount).InexactFloat64())
	rec.Set("include_labor_in_subtotal", doc.IncludeLaborInSubtotal)
}

func snapshotFromRecord(rec *core.Record) Snapshot {
	return Snapshot{
		Subtotal:       decimal.NewFromFloat(rec.GetFloat("subtotal")),
		LaborSubtotal:  decimal.NewFromFloat(rec.GetFloat("labor_subtotal")),
		TaxAmount:      decimal.NewFromFloat(rec.GetFloat("tax_amount")),
		DiscountAmount: decimal.NewFromFloat(rec.GetFloat("discount_amount")),
		GrandTotal:     decimal.NewFromFloat(rec.GetFloat("total_amount")),
		TaxMode:        ParseTaxMode(rec.GetString("tax_mode")),
	}
}

func applySnapshotToRecord(rec *core.Record, s Snapshot) {
	rec.Set("subtotal", s.Subtotal.InexactFloat64())
	rec.Set("labor_subtotal", s.LaborSubtotal.InexactFloat64())
	rec.Set("tax_amount", s.TaxAmount.InexactFloat64())
	rec.Set("discount_amount", s.DiscountAmount.InexactFloat64())
	rec.Set("total_amount", s.GrandTotal.InexactFloat64())
	rec.Set("tax_mode", string(s.TaxMode))
}

func itemFromRecord(rec *core.Record) LineItem {
	item := LineItem{
		ID:              rec.Id,
		Key:             rec.GetString("row_key"),
		SortOrder:       rec.GetInt("sort_order"),
		Description:     rec.GetString("description"),
		Section:         NormalizeSection(rec.GetString("section")),
		Quantity:        decimal.NewFromFloat(rec.GetFloat("quantity")),
		UnitCost:        decimal.NewFromFloat(rec.GetFloat("unit_cost")),
		LaborPercentage: decimal.NewFromFloat(rec.GetFloat("labor_percentage")),
	}
	if item.Key == "" {
		item.Key = rec.Id
	}
	if rec.GetBool("labor_charge_set") {
		item.LaborCharge = decimal.NewNullDecimal(decimal.NewFromFloat(rec.GetFloat("labor_charge")))
	}
	return item
}

func applyItemToRecord(rec *core.Record, item LineItem) {
	rec.Set("sort_order", item.SortOrder)
	rec.Set("row_key", item.Key)
	rec.Set("description", item.Description)
	rec.Set("section", NormalizeSection(item.Section))
	rec.Set("quantity", item.Quantity.InexactFloat64())
	rec.Set("unit_cost", item.UnitCost.InexactFloat64())
	rec.Set("labor_percentage", item.LaborPercentage.InexactFloat64())
	rec.Set("labor_charge_set", item.LaborCharge.Valid)
	if item.LaborCharge.Valid {
		rec.Set("labor_charge", item.LaborCharge.Decimal.InexactFloat64())
	} else {
		rec.Set("labor_charge", 0)
	}
}
