package catalog

import (
	"math"
	"testing"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
)

func ratePtr(v float64) *float64 { return &v }
func uintPtr(v uint) *uint        { return &v }
func intPtr(v int) *int           { return &v }
func boolPtr(v bool) *bool        { return &v }

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func restaurantTax(id uint, rate float64) model.TaxAssignment {
	return model.TaxAssignment{ID: id, Scope: model.TaxScopeRestaurant, RestaurantID: uintPtr(1), RatePercent: ratePtr(rate), IsDefault: true, IsActive: true}
}

func branchTax(id, branchID uint, rate float64) model.TaxAssignment {
	return model.TaxAssignment{ID: id, Scope: model.TaxScopeBranch, BranchID: uintPtr(branchID), RatePercent: ratePtr(rate), IsActive: true}
}

func branchProductTax(id, branchID, productID uint, rate float64) model.TaxAssignment {
	return model.TaxAssignment{ID: id, Scope: model.TaxScopeBranchProduct, BranchID: uintPtr(branchID), ProductID: uintPtr(productID), RatePercent: ratePtr(rate), IsActive: true}
}

func TestTaxResolver_Precedence(t *testing.T) {
	restaurant := []model.TaxAssignment{restaurantTax(1, 7)}
	branch := []model.TaxAssignment{branchTax(2, 10, 10)}
	branchProduct := []model.TaxAssignment{branchProductTax(3, 10, 100, 5)}

	tests := []struct {
		name          string
		restaurant    []model.TaxAssignment
		branch        []model.TaxAssignment
		branchProduct []model.TaxAssignment
		want          float64
	}{
		{"branch product wins", restaurant, branch, branchProduct, 5},
		{"branch when no branch product", restaurant, branch, nil, 10},
		{"restaurant when no branch", restaurant, nil, nil, 7},
		{"fallback when nothing", nil, nil, nil, DefaultTaxRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx := BuildTaxIndex(tt.restaurant, tt.branch, nil, tt.branchProduct, testNow)
			resolver := NewTaxResolver(idx, DefaultTaxRate)
			assert.Equal(t, tt.want, resolver.Resolve(10, 100))
		})
	}
}

func TestTaxResolver_NullRateFallsThrough(t *testing.T) {
	bp := branchProductTax(1, 10, 100, 0)
	bp.RatePercent = nil

	idx := BuildTaxIndex(nil, []model.TaxAssignment{branchTax(2, 10, 10)}, nil, []model.TaxAssignment{bp}, testNow)
	resolver := NewTaxResolver(idx, DefaultTaxRate)

	assert.Equal(t, 10.0, resolver.Resolve(10, 100))
}

func TestTaxResolver_PriorityOrdering(t *testing.T) {
	low := branchProductTax(1, 10, 100, 5)
	high := branchProductTax(2, 10, 100, 8)
	high.Priority = intPtr(1)

	idx := BuildTaxIndex(nil, nil, nil, []model.TaxAssignment{low, high}, testNow)
	resolver := NewTaxResolver(idx, DefaultTaxRate)

	assert.Equal(t, 8.0, resolver.Resolve(10, 100))
}

func TestTaxResolver_TiesBreakByID(t *testing.T) {
	second := branchProductTax(9, 10, 100, 6)
	first := branchProductTax(4, 10, 100, 3)

	idx := BuildTaxIndex(nil, nil, nil, []model.TaxAssignment{second, first}, testNow)
	resolver := NewTaxResolver(idx, DefaultTaxRate)

	assert.Equal(t, 3.0, resolver.Resolve(10, 100))
}

func TestTaxResolver_BranchDefaultPreferred(t *testing.T) {
	first := branchTax(1, 10, 12)
	first.Priority = intPtr(1)
	def := branchTax(2, 10, 9)
	def.IsDefault = true

	idx := BuildTaxIndex(nil, []model.TaxAssignment{first, def}, nil, nil, testNow)
	resolver := NewTaxResolver(idx, DefaultTaxRate)

	assert.Equal(t, 9.0, resolver.Resolve(10, 100))
}

func TestTaxResolver_ActiveWindow(t *testing.T) {
	expired := branchTax(1, 10, 10)
	expired.ActiveTo = &testNow

	future := branchTax(2, 10, 11)
	later := testNow.Add(time.Hour)
	future.ActiveFrom = &later

	inactive := branchTax(3, 10, 12)
	inactive.IsActive = false

	current := branchTax(4, 10, 13)
	current.ActiveFrom = &testNow

	idx := BuildTaxIndex(nil, []model.TaxAssignment{expired, future, inactive}, nil, nil, testNow)
	assert.Equal(t, DefaultTaxRate, NewTaxResolver(idx, DefaultTaxRate).Resolve(10, 100))

	idx = BuildTaxIndex(nil, []model.TaxAssignment{expired, future, inactive, current}, nil, nil, testNow)
	assert.Equal(t, 13.0, NewTaxResolver(idx, DefaultTaxRate).Resolve(10, 100))
}

func TestTaxResolver_ResolveProduct(t *testing.T) {
	product := model.TaxAssignment{ID: 1, Scope: model.TaxScopeProduct, ProductID: uintPtr(100), RatePercent: ratePtr(3), IsActive: true}
	idx := BuildTaxIndex([]model.TaxAssignment{restaurantTax(2, 8)}, nil, []model.TaxAssignment{product}, nil, testNow)
	resolver := NewTaxResolver(idx, DefaultTaxRate)

	assert.Equal(t, 3.0, resolver.ResolveProduct(100))
	assert.Equal(t, 8.0, resolver.ResolveProduct(200))
	// product scope does not take part in the branch chain
	assert.Equal(t, 8.0, resolver.Resolve(10, 100))
}

func TestTaxResolver_InvalidFallback(t *testing.T) {
	for _, fallback := range []float64{-1, math.NaN(), math.Inf(1)} {
		resolver := NewTaxResolver(TaxIndex{}, fallback)
		assert.Equal(t, DefaultTaxRate, resolver.RestaurantRate())
	}
}

func TestPrepareTaxAssignments_DoesNotMutateInput(t *testing.T) {
	rows := []model.TaxAssignment{branchTax(5, 10, 1), branchTax(2, 10, 2)}

	sorted := PrepareTaxAssignments(rows, model.TaxScopeBranch, testNow)

	assert.Equal(t, uint(2), sorted[0].ID)
	assert.Equal(t, uint(5), rows[0].ID)
}

func TestPriceWithTax(t *testing.T) {
	tests := []struct {
		name string
		base float64
		rate float64
		want float64
	}{
		{"standard rate", 100000, 7, 107000},
		{"half rounds up", 99999, 8.5, 108498.92},
		{"zero rate", 5000, 0, 5000},
		{"non finite base", math.NaN(), 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriceWithTax(tt.base, tt.rate))
		})
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.01, Round2(0.005))
	assert.Equal(t, 0.02, Round2(0.015))
	assert.Equal(t, 0.13, Round2(0.125))
	assert.Equal(t, 1.23, Round2(1.234))
}
