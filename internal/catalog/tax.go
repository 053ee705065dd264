package catalog

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the global fallback rate in percent.
const DefaultTaxRate = 7.0

// Default priorities per scope, used when an assignment has no priority of its
// own. Lower values are tried first.
const (
	PriorityBranchProduct = 10
	PriorityProduct       = 40
	PriorityBranch        = 50
	PriorityRestaurant    = 100
)

// DefaultPriority returns the priority an assignment of the given scope gets
// when it carries none.
func DefaultPriority(scope model.TaxScope) int {
	switch scope {
	case model.TaxScopeBranchProduct:
		return PriorityBranchProduct
	case model.TaxScopeProduct:
		return PriorityProduct
	case model.TaxScopeBranch:
		return PriorityBranch
	default:
		return PriorityRestaurant
	}
}

// BranchProductKey is the index key for branch-product scoped lists.
func BranchProductKey(branchID, productID uint) string {
	return fmt.Sprintf("%d:%d", branchID, productID)
}

// TaxIndex holds active assignments per scope, each list sorted by priority.
type TaxIndex struct {
	Restaurant    []model.TaxAssignment
	Product       map[uint][]model.TaxAssignment
	Branch        map[uint][]model.TaxAssignment
	BranchProduct map[string][]model.TaxAssignment
}

// BuildTaxIndex filters each scope's rows down to the ones active at now,
// orders them by effective priority (ties by ID) and indexes them by target.
// Rows whose target columns are missing are skipped.
func BuildTaxIndex(restaurant, branch, product, branchProduct []model.TaxAssignment, now time.Time) TaxIndex {
	idx := TaxIndex{
		Restaurant:    PrepareTaxAssignments(restaurant, model.TaxScopeRestaurant, now),
		Product:       make(map[uint][]model.TaxAssignment),
		Branch:        make(map[uint][]model.TaxAssignment),
		BranchProduct: make(map[string][]model.TaxAssignment),
	}

	for _, ta := range PrepareTaxAssignments(branch, model.TaxScopeBranch, now) {
		if ta.BranchID == nil {
			continue
		}
		idx.Branch[*ta.BranchID] = append(idx.Branch[*ta.BranchID], ta)
	}
	for _, ta := range PrepareTaxAssignments(product, model.TaxScopeProduct, now) {
		if ta.ProductID == nil {
			continue
		}
		idx.Product[*ta.ProductID] = append(idx.Product[*ta.ProductID], ta)
	}
	for _, ta := range PrepareTaxAssignments(branchProduct, model.TaxScopeBranchProduct, now) {
		if ta.BranchID == nil || ta.ProductID == nil {
			continue
		}
		key := BranchProductKey(*ta.BranchID, *ta.ProductID)
		idx.BranchProduct[key] = append(idx.BranchProduct[key], ta)
	}
	return idx
}

// PrepareTaxAssignments returns a sorted copy of the rows of the given scope
// that are active at now. The input is left untouched.
func PrepareTaxAssignments(rows []model.TaxAssignment, scope model.TaxScope, now time.Time) []model.TaxAssignment {
	out := make([]model.TaxAssignment, 0, len(rows))
	for _, ta := range rows {
		if ta.Scope != "" && ta.Scope != scope {
			continue
		}
		if !isTaxActive(ta, now) {
			continue
		}
		out = append(out, ta)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := taxPriority(out[i], scope), taxPriority(out[j], scope)
		if pi != pj {
			return pi < pj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func isTaxActive(ta model.TaxAssignment, now time.Time) bool {
	if !ta.IsActive {
		return false
	}
	if ta.ActiveFrom != nil && now.Before(*ta.ActiveFrom) {
		return false
	}
	if ta.ActiveTo != nil && !now.Before(*ta.ActiveTo) {
		return false
	}
	return true
}

func taxPriority(ta model.TaxAssignment, scope model.TaxScope) int {
	if ta.Priority != nil {
		return *ta.Priority
	}
	return DefaultPriority(scope)
}

// TaxResolver answers the effective rate for a (branch, product) pair. It
// never fails: when nothing applies it returns the fallback rate.
type TaxResolver struct {
	idx      TaxIndex
	fallback float64
}

// NewTaxResolver builds a resolver over idx. A fallback that is negative or
// not finite is replaced by DefaultTaxRate.
func NewTaxResolver(idx TaxIndex, fallback float64) *TaxResolver {
	if _, ok := validRate(&fallback); !ok {
		fallback = DefaultTaxRate
	}
	return &TaxResolver{idx: idx, fallback: fallback}
}

// Resolve returns the rate for productID (or a combo ID) at branchID:
// branch-product list first non-null rate, then the branch list's default or
// first non-null rate, then the restaurant default, then the fallback.
func (r *TaxResolver) Resolve(branchID, productID uint) float64 {
	if list, ok := r.idx.BranchProduct[BranchProductKey(branchID, productID)]; ok {
		if rate, ok := firstRate(list); ok {
			return rate
		}
	}
	if list, ok := r.idx.Branch[branchID]; ok {
		if rate, ok := defaultRate(list); ok {
			return rate
		}
	}
	return r.RestaurantRate()
}

// ResolveProduct returns the rate for the restaurant-level view of a product,
// where no branch is involved: product scope, then the restaurant default.
func (r *TaxResolver) ResolveProduct(productID uint) float64 {
	if list, ok := r.idx.Product[productID]; ok {
		if rate, ok := firstRate(list); ok {
			return rate
		}
	}
	return r.RestaurantRate()
}

// RestaurantRate returns the restaurant default rate, or the fallback.
func (r *TaxResolver) RestaurantRate() float64 {
	if rate, ok := defaultRate(r.idx.Restaurant); ok {
		return rate
	}
	return r.fallback
}

func firstRate(list []model.TaxAssignment) (float64, bool) {
	for _, ta := range list {
		if rate, ok := validRate(ta.RatePercent); ok {
			return rate, true
		}
	}
	return 0, false
}

func defaultRate(list []model.TaxAssignment) (float64, bool) {
	for _, ta := range list {
		if !ta.IsDefault {
			continue
		}
		if rate, ok := validRate(ta.RatePercent); ok {
			return rate, true
		}
	}
	return firstRate(list)
}

func validRate(rate *float64) (float64, bool) {
	if rate == nil || math.IsNaN(*rate) || math.IsInf(*rate, 0) || *rate < 0 {
		return 0, false
	}
	return *rate, true
}

var hundred = decimal.NewFromInt(100)

// PriceWithTax returns base * (1 + rate/100) rounded to 2 places.
func PriceWithTax(base, rate float64) float64 {
	base, rate = SafeAmount(base), SafeAmount(rate)
	factor := decimal.NewFromInt(1).Add(decimal.NewFromFloat(rate).Div(hundred))
	return decimal.NewFromFloat(base).Mul(factor).Round(2).InexactFloat64()
}

// Round2 rounds half away from zero to 2 decimal places, which is half-up for
// the non-negative amounts a menu carries. The decimal is built from the
// shortest representation of v, so 0.015 rounds to 0.02.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(SafeAmount(v)).Round(2).InexactFloat64()
}
