package catalog

import (
	"testing"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeOptionOverride_CanonicalColumns(t *testing.T) {
	o, ok := NormalizeOptionOverride(RawRow{
		"id":                   int64(7),
		"branch_id":            int64(10),
		"branch_product_id":    nil,
		"target_type":          "item",
		"target_id":            int64(51),
		"is_active":            true,
		"is_available":         nil,
		"price_delta_override": 250.0,
		"min_select":           int64(1),
	})
	require.True(t, ok)

	assert.Equal(t, uint(7), o.ID)
	assert.Equal(t, uint(10), *o.BranchID)
	assert.Nil(t, o.BranchProductID)
	assert.Equal(t, model.OverrideTargetItem, o.TargetType)
	assert.Equal(t, uint(51), o.TargetID)
	assert.True(t, *o.IsActive)
	assert.Nil(t, o.IsAvailable)
	assert.Equal(t, 250.0, *o.PriceDelta)
	assert.Equal(t, 1, *o.MinSelect)
}

func TestNormalizeOptionOverride_Aliases(t *testing.T) {
	o, ok := NormalizeOptionOverride(RawRow{
		"store_id":       "3",
		"option_item_id": 9,
		"extra_price":    "250.5",
		"enabled":        "no",
		"in_stock":       []byte("1"),
		"sort_order":     "4",
	})
	require.True(t, ok)

	assert.Equal(t, uint(3), *o.BranchID)
	assert.Equal(t, model.OverrideTargetItem, o.TargetType)
	assert.Equal(t, uint(9), o.TargetID)
	assert.Equal(t, 250.5, *o.PriceDelta)
	assert.False(t, *o.IsActive)
	assert.True(t, *o.IsAvailable)
	assert.Equal(t, 4, *o.DisplayOrder)
}

func TestNormalizeOptionOverride_CamelCaseKeys(t *testing.T) {
	o, ok := NormalizeOptionOverride(RawRow{
		"branchProductId":    uint(44),
		"targetType":         "group",
		"targetId":           uint(50),
		"priceDeltaOverride": "100",
		"isRequired":         "yes",
	})
	require.True(t, ok)

	assert.Nil(t, o.BranchID)
	assert.Equal(t, uint(44), *o.BranchProductID)
	assert.Equal(t, model.OverrideTargetGroup, o.TargetType)
	assert.Equal(t, uint(50), o.TargetID)
	assert.Equal(t, 100.0, *o.PriceDelta)
	assert.True(t, *o.IsRequired)
}

func TestNormalizeOptionOverride_LegacyGroupColumn(t *testing.T) {
	o, ok := NormalizeOptionOverride(RawRow{"branch_id": 1, "option_group_id": 50, "active": 0})
	require.True(t, ok)

	assert.Equal(t, model.OverrideTargetGroup, o.TargetType)
	assert.Equal(t, uint(50), o.TargetID)
	assert.False(t, *o.IsActive)
}

func TestNormalizeOptionOverride_Rejects(t *testing.T) {
	tests := []struct {
		name string
		row  RawRow
	}{
		{"no target", RawRow{"branch_id": 1, "is_active": false}},
		{"no scope", RawRow{"target_type": "item", "target_id": 5}},
		{"unknown target type", RawRow{"branch_id": 1, "target_type": "widget", "target_id": 5}},
		{"zero target id", RawRow{"branch_id": 1, "target_type": "item", "target_id": 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := NormalizeOptionOverride(tt.row)
			assert.False(t, ok)
		})
	}
}

func TestNormalizeOptionOverrides_DropsUnusableRows(t *testing.T) {
	rows := []RawRow{
		{"branch_id": 1, "item_id": 5},
		{"is_active": true},
		{"branch_product_id": 2, "group_id": 6},
	}

	out := NormalizeOptionOverrides(rows)
	assert.Len(t, out, 2)
}

func TestNormalizeBranchCombo(t *testing.T) {
	bc, ok := NormalizeBranchCombo(RawRow{
		"id":           int64(3),
		"branch_id":    int64(10),
		"set_id":       "300",
		"price":        "11000",
		"is_available": "f",
	})
	require.True(t, ok)

	assert.Equal(t, uint(3), bc.ID)
	assert.Equal(t, uint(10), bc.BranchID)
	assert.Equal(t, uint(300), bc.ComboID)
	assert.Equal(t, 11000.0, *bc.BasePrice)
	assert.False(t, *bc.IsAvailable)
	assert.Nil(t, bc.IsVisible)

	_, ok = NormalizeBranchCombo(RawRow{"branch_id": 10})
	assert.False(t, ok)
}

func TestTriBool(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want *bool
	}{
		{"nil", nil, nil},
		{"true", true, boolPtr(true)},
		{"false", false, boolPtr(false)},
		{"one", 1, boolPtr(true)},
		{"zero", int64(0), boolPtr(false)},
		{"two", 2, nil},
		{"string yes", " Yes ", boolPtr(true)},
		{"string t", "t", boolPtr(true)},
		{"string n", "N", boolPtr(false)},
		{"empty string", "", nil},
		{"garbage", "maybe", nil},
		{"bytes", []byte("false"), boolPtr(false)},
		{"nil pointer", (*bool)(nil), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TriBool(tt.in))
		})
	}
}

func TestNullableFloat(t *testing.T) {
	assert.Nil(t, NullableFloat(nil))
	assert.Nil(t, NullableFloat(""))
	assert.Nil(t, NullableFloat("abc"))
	assert.Nil(t, NullableFloat("NaN"))
	assert.Equal(t, 1.5, *NullableFloat("1.5"))
	assert.Equal(t, 3.0, *NullableFloat(int32(3)))
}

func TestNormalizeOptionOverride_CollidingSpellingsAreStable(t *testing.T) {
	row := RawRow{
		"branch_id":            1,
		"item_id":              5,
		"price_delta_override": 1000,
		"priceDeltaOverride":   2000,
		"PriceDeltaOverride":   3000,
		"isActive":             false,
		"is_active":            true,
	}

	for i := 0; i < 200; i++ {
		o, ok := NormalizeOptionOverride(row)
		require.True(t, ok)
		require.Equal(t, 1000.0, *o.PriceDelta)
		require.True(t, *o.IsActive)
	}

	// a nil snake_case column does not hide a set camelCase one
	o, ok := NormalizeOptionOverride(RawRow{
		"branch_id":            1,
		"item_id":              5,
		"price_delta_override": nil,
		"priceDeltaOverride":   2000,
	})
	require.True(t, ok)
	assert.Equal(t, 2000.0, *o.PriceDelta)
}

func TestNullableInt_OutOfRange(t *testing.T) {
	assert.Equal(t, 7, *NullableInt("7.9"))
	assert.Equal(t, -3, *NullableInt(int64(-3)))
	assert.Nil(t, NullableInt(1e12))
	assert.Nil(t, NullableInt(-1e12))
	assert.Nil(t, NullableInt(uint64(1)<<40))
}

func TestNullableID_OutOfRange(t *testing.T) {
	assert.Equal(t, uint(42), *nullableID("42"))
	assert.Nil(t, nullableID(0.5))
	assert.Nil(t, nullableID(-1))
	assert.Nil(t, nullableID(1e20))
}
