package domain

import "errors"

var ErrLineItemNotFound = errors.New("line item not found")

const (
	DefaultLineItemCategory    = "5-year"
	DefaultLineItemDescription = "New Item"
)

// Override is an optional manual total. The zero value is absent.
type Override struct {
	value float64
	set   bool
}

func OverrideOf(v float64) Override {
	return Override{value: v, set: true}
}

func NoOverride() Override {
	return Override{}
}

func (o Override) Get() (float64, bool) {
	return o.value, o.set
}

func (o Override) IsSet() bool {
	return o.set
}

type LineItem struct {
	ID            string
	Category      string // recovery period, e.g. "5-year"
	Description   string
	Qty           float64
	UnitCost      float64
	TotalOverride Override
}

func NewLineItem(id string) LineItem {
	return LineItem{
		ID:          id,
		Category:    DefaultLineItemCategory,
		Description: DefaultLineItemDescription,
		Qty:         1,
		UnitCost:    0,
	}
}

// EffectiveTotal is the override when one is set, qty * unitCost otherwise.
func (li LineItem) EffectiveTotal() float64 {
	if v, ok := li.TotalOverride.Get(); ok {
		return v
	}
	return li.Qty * li.UnitCost
}

// LineItemUpdate names the mutable line item attributes. Nil pointers leave the
// attribute untouched.
type LineItemUpdate struct {
	Category      *string
	Description   *string
	Qty           *float64
	UnitCost      *float64
	TotalOverride *Override
}

func (u LineItemUpdate) apply(item *LineItem) {
	if u.Category != nil {
		item.Category = *u.Category
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Qty != nil {
		item.Qty = *u.Qty
	}
	if u.UnitCost != nil {
		item.UnitCost = *u.UnitCost
	}
	if u.TotalOverride != nil {
		item.TotalOverride = *u.TotalOverride
	}
}
