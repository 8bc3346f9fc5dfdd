package services

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// TotalsDrift is one document whose stored totals no longer match what the
// cost engine computes from its items today.
type TotalsDrift struct {
	Kind     DocumentKind
	ID       string
	Number   string
	Stored   Snapshot
	Computed Snapshot
	Fields   []string
}

// AuditStoredTotals recomputes every document of kind and reports the ones
// whose persisted snapshot differs. With fix set, the snapshot is rewritten
// to the computed values; line items are left untouched.
func AuditStoredTotals(app core.App, kind DocumentKind, fix bool) ([]TotalsDrift, error) {
	records, err := app.FindRecordsByFilter(kind.Collection(), "1=1", "created", 0, 0, nil)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind.Collection(), err)
	}

	var drifts []TotalsDrift
	for _, rec := range records {
		stored, err := LoadDocument(app, kind, rec.Id)
		if err != nil {
			return drifts, err
		}

		computed := SnapshotOf(ComputeTotals(stored.Document))
		fields := stored.Snapshot.Diff(computed)
		if len(fields) == 0 {
			continue
		}

		drifts = append(drifts, TotalsDrift{
			Kind:     kind,
			ID:       rec.Id,
			Number:   stored.Document.Number,
			Stored:   stored.Snapshot,
			Computed: computed,
			Fields:   fields,
		})

		if fix {
			applySnapshotToRecord(rec, computed)
			if err := app.Save(rec); err != nil {
				return drifts, fmt.Errorf("rewrite totals of %s %s: %w", kind, rec.Id, err)
			}
			app.Logger().Info("Rewrote stored totals", "kind", kind, "document", rec.Id, "fields", fields)
		}
	}
	return drifts, nil
}
