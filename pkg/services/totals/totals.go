// Package totals sums line item amounts per recovery category.
package totals

import "github.com/de-tools/costseg/pkg/models/domain"

type CategoryTotal struct {
	Category string
	Amount   float64
}

// Totals holds per-category subtotals in first-seen order and the grand total.
type Totals struct {
	Categories []CategoryTotal
	Grand      float64
}

// Category returns the subtotal for a category and whether it was seen.
func (t Totals) Category(name string) (float64, bool) {
	for _, c := range t.Categories {
		if c.Category == name {
			return c.Amount, true
		}
	}
	return 0, false
}

// Compute walks items once. No rounding is applied.
func Compute(items []domain.LineItem) Totals {
	result := Totals{Categories: []CategoryTotal{}}
	index := make(map[string]int, len(items))

	for _, item := range items {
		amount := item.EffectiveTotal()
		result.Grand += amount

		i, ok := index[item.Category]
		if !ok {
			i = len(result.Categories)
			index[item.Category] = i
			result.Categories = append(result.Categories, CategoryTotal{Category: item.Category})
		}
		result.Categories[i].Amount += amount
	}

	return result
}
