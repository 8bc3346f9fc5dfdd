package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase/core"
)

// MigrateTaxMode marks every document saved before tax_mode existed as
// tax-exclusive, which is how all of them were computed.
// Safe to call on every startup -- returns early if nothing to migrate.
func MigrateTaxMode(app core.App) error {
	for _, dc := range documentCollections {
		col, err := app.FindCollectionByNameOrId(dc.documents)
		if err != nil {
			return fmt.Errorf("migrate: could not find %s collection: %w", dc.documents, err)
		}

		legacy, err := app.FindRecordsByFilter(col, "tax_mode = ''", "", 0, 0, nil)
		if err != nil {
			return fmt.Errorf("migrate: could not query %s without tax mode: %w", dc.documents, err)
		}
		if len(legacy) == 0 {
			continue
		}

		log.Printf("migrate: found %d %s without a tax mode -- marking exclusive...\n", len(legacy), dc.documents)

		for _, rec := range legacy {
			rec.Set("tax_mode", "exclusive")
			if err := app.Save(rec); err != nil {
				log.Printf("migrate: failed to set tax mode on %s %s: %v\n", dc.documents, rec.Id, err)
				continue
			}
		}
	}
	return nil
}
