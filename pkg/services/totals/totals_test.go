package totals

import (
	"math"
	"testing"

	"github.com/de-tools/costseg/pkg/models/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	tests := []struct {
		name       string
		items      []domain.LineItem
		categories []CategoryTotal
		grand      float64
	}{
		{
			name:       "empty",
			items:      nil,
			categories: []CategoryTotal{},
			grand:      0,
		},
		{
			name: "override applied and categories in first-seen order",
			items: []domain.LineItem{
				{Category: "5-year", Qty: 1200, UnitCost: 8},
				{Category: "5-year", Qty: 1, UnitCost: 12500},
				{Category: "39-year", Qty: 1, UnitCost: 325000, TotalOverride: domain.OverrideOf(5000)},
			},
			categories: []CategoryTotal{
				{Category: "5-year", Amount: 22100},
				{Category: "39-year", Amount: 5000},
			},
			grand: 27100,
		},
		{
			name: "interleaved categories keep first appearance",
			items: []domain.LineItem{
				{Category: "15-year", Qty: 1, UnitCost: 18000},
				{Category: "5-year", Qty: 2, UnitCost: 50},
				{Category: "15-year", Qty: 1, UnitCost: 2000},
			},
			categories: []CategoryTotal{
				{Category: "15-year", Amount: 20000},
				{Category: "5-year", Amount: 100},
			},
			grand: 20100,
		},
		{
			name: "negative values are not validated",
			items: []domain.LineItem{
				{Category: "5-year", Qty: -1, UnitCost: 100},
				{Category: "5-year", Qty: 3, UnitCost: 100},
			},
			categories: []CategoryTotal{{Category: "5-year", Amount: 200}},
			grand:      200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.items)
			assert.Equal(t, tt.categories, got.Categories)
			assert.Equal(t, tt.grand, got.Grand)
		})
	}
}

func TestCompute_GrandEqualsSums(t *testing.T) {
	items := []domain.LineItem{
		{Category: "5-year", Qty: 1200, UnitCost: 8},
		{Category: "15-year", Qty: 1, UnitCost: 18000},
		{Category: "39-year", Qty: 1, UnitCost: 325000},
		{Category: "5-year", Qty: 7, UnitCost: 3, TotalOverride: domain.OverrideOf(11)},
		{Category: "7-year", Qty: 0, UnitCost: 999},
	}

	got := Compute(items)

	var itemSum, categorySum float64
	for _, item := range items {
		itemSum += item.EffectiveTotal()
	}
	for _, c := range got.Categories {
		categorySum += c.Amount
	}
	assert.Equal(t, itemSum, got.Grand)
	assert.Equal(t, categorySum, got.Grand)
}

func TestCompute_Deterministic(t *testing.T) {
	items := []domain.LineItem{
		{Category: "b", Qty: 1, UnitCost: 1},
		{Category: "a", Qty: 2, UnitCost: 2},
	}
	assert.Equal(t, Compute(items), Compute(items))
}

func TestCompute_NaNPropagates(t *testing.T) {
	got := Compute([]domain.LineItem{{Category: "5-year", Qty: math.NaN(), UnitCost: 1}})
	assert.True(t, math.IsNaN(got.Grand))
	amount, ok := got.Category("5-year")
	assert.True(t, ok)
	assert.True(t, math.IsNaN(amount))
}

func TestTotals_CategoryMissing(t *testing.T) {
	_, ok := Compute(nil).Category("5-year")
	assert.False(t, ok)
}
