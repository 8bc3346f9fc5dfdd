package services

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrLastItem     = errors.New("a document must keep at least one line item")
	ErrItemNotFound = errors.New("line item not found")
)

// AddItem appends a default row and returns the new list.
func AddItem(items []LineItem, laborPercentage decimal.Decimal) []LineItem {
	out := append(append([]LineItem(nil), items...), NewLineItem(laborPercentage))
	return Renumber(out)
}

// RemoveItem drops the row with the given key. The last remaining row cannot
// be removed.
func RemoveItem(items []LineItem, key string) ([]LineItem, error) {
	idx := -1
	for i, item := range items {
		if item.Key == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return items, ErrItemNotFound
	}
	if len(items) <= 1 {
		return items, ErrLastItem
	}

	out := make([]LineItem, 0, len(items)-1)
	out = append(out, items[:idx]...)
	out = append(out, items[idx+1:]...)
	return Renumber(out), nil
}

// Renumber assigns sort orders 1..n in slice order.
func Renumber(items []LineItem) []LineItem {
	for i := range items {
		items[i].SortOrder = i + 1
	}
	return items
}
