package catalog

import (
	"testing"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCombos() []model.Combo {
	return []model.Combo{
		{
			ID: 300, RestaurantID: 1, Name: "Lunch Set", BasePrice: 12000, IsActive: true,
			Groups: []model.ComboGroup{
				{ID: 2, ComboID: 300, Name: "Drink", MaxSelect: 1, DisplayOrder: 2},
				{ID: 1, ComboID: 300, Name: "Main", MaxSelect: 1, DisplayOrder: 1, Items: []model.ComboGroupItem{
					{ID: 11, ComboGroupID: 1, ProductID: 2, PriceDelta: 500, DisplayOrder: 2},
					{ID: 10, ComboGroupID: 1, ProductID: 1, DisplayOrder: 1},
				}},
			},
		},
		{ID: 301, RestaurantID: 1, Name: "Retired Set", BasePrice: 9000, IsActive: false},
	}
}

func TestComboOverrideResolver_Restaurant(t *testing.T) {
	resolver := NewComboOverrideResolver(NewTaxResolver(TaxIndex{}, DefaultTaxRate))

	combos := resolver.Restaurant(testCombos())
	require.Len(t, combos, 1)

	c := combos[0]
	assert.Equal(t, uint(300), c.ID)
	assert.Nil(t, c.BranchComboID)
	assert.Equal(t, 12840.0, c.PriceWithTax)
	require.Len(t, c.Groups, 2)
	assert.Equal(t, "Main", c.Groups[0].Name)
	assert.Equal(t, uint(10), c.Groups[0].Items[0].ID)
	assert.NotNil(t, c.Groups[1].Items)
}

func TestComboOverrideResolver_OptIn(t *testing.T) {
	resolver := NewComboOverrideResolver(NewTaxResolver(TaxIndex{}, DefaultTaxRate))
	rows := IndexBranchCombos([]BranchComboOverride{
		{ID: 1, BranchID: 10, ComboID: 300},
		{ID: 2, BranchID: 10, ComboID: 301, BasePrice: ratePtr(1)},
	})

	atBranch := resolver.Resolve(testCombos(), rows[10], 10)
	require.Len(t, atBranch, 1)
	assert.Equal(t, uint(300), atBranch[0].ID)
	assert.Equal(t, 12000.0, atBranch[0].BasePrice)
	assert.True(t, atBranch[0].IsAvailable)
	assert.True(t, atBranch[0].IsVisible)
	require.NotNil(t, atBranch[0].BranchComboID)
	assert.Equal(t, uint(1), *atBranch[0].BranchComboID)

	other := resolver.Resolve(testCombos(), rows[20], 20)
	assert.NotNil(t, other)
	assert.Empty(t, other)
}

func TestComboOverrideResolver_PriceAndTaxOverride(t *testing.T) {
	idx := BuildTaxIndex(nil, nil, nil, []model.TaxAssignment{branchProductTax(1, 10, 300, 10)}, testNow)
	resolver := NewComboOverrideResolver(NewTaxResolver(idx, DefaultTaxRate))
	rows := IndexBranchCombos([]BranchComboOverride{
		{ID: 4, BranchID: 10, ComboID: 300, BasePrice: ratePtr(10000), IsVisible: boolPtr(false)},
		{ID: 2, BranchID: 10, ComboID: 300, BasePrice: ratePtr(5)},
	})

	combos := resolver.Resolve(testCombos(), rows[10], 10)
	require.Len(t, combos, 1)

	c := combos[0]
	assert.Equal(t, 12000.0, c.ComboBasePrice)
	assert.Equal(t, 10000.0, c.BasePrice)
	assert.Equal(t, 10.0, c.TaxRate)
	assert.Equal(t, 11000.0, c.PriceWithTax)
	assert.False(t, c.IsVisible)
}
