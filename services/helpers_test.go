package services

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pocketbase/pocketbase"
	"github.com/shopspring/decimal"

	"backoffice/testhelpers"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// dec parses a decimal literal and panics on bad input.
func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decimalEqual lets cmp compare decimals by value (1.50 == 1.5).
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func newStoreTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()
	return testhelpers.NewTestApp(t)
}

// siteItem is the "Site prep" item: 1 x 850 at 36.5% labor.
func siteItem() LineItem {
	item := NewLineItem(dec("36.5"))
	item.Description = "Site prep"
	item.Quantity = dec("1")
	item.UnitCost = dec("850")
	return item
}

// sampleDocument is a single-item document at 16% VAT with no discount.
func sampleDocument(kind DocumentKind) CostDocument {
	return CostDocument{
		Kind:           kind,
		Status:         "draft",
		Title:          "Perimeter wall",
		Items:          []LineItem{siteItem()},
		TaxRate:        dec("16"),
		DiscountAmount: decimal.Zero,
		TaxMode:        TaxExclusive,
	}
}
