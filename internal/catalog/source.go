package catalog

import (
	"context"

	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// ProductFilter narrows the products fetched for a restaurant. It is applied
// by the Source, not by the engine.
type ProductFilter struct {
	Search     string
	CategoryID *uint
}

// Source fetches the flat row collections the assembler works on. Every list
// method returns rows as stored; the assembler does the joining.
//
// GetRestaurant returns (nil, nil) when the restaurant does not exist.
// ListTaxAssignments interprets ids by scope: restaurant IDs, branch IDs,
// product IDs, and product IDs again for the branch_product scope.
// ListBranchOptionOverrides returns overrides keyed by any of branchIDs, plus
// those keyed by a branch-product of any of productIDs.
type Source interface {
	GetRestaurant(ctx context.Context, id uint) (*model.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	ListBranches(ctx context.Context, restaurantID uint) ([]model.Branch, error)
	ListCategories(ctx context.Context, restaurantID uint) ([]model.Category, error)
	ListProducts(ctx context.Context, restaurantID uint, filter ProductFilter) ([]model.Product, error)
	ListBranchAssignments(ctx context.Context, productIDs []uint) ([]model.BranchProduct, error)
	ListTaxAssignments(ctx context.Context, scope model.TaxScope, ids []uint) ([]model.TaxAssignment, error)
	ListOptionGroups(ctx context.Context, productIDs []uint) ([]model.ProductOptionGroup, error)
	ListBranchOptionOverrides(ctx context.Context, branchIDs, productIDs []uint) ([]RawRow, error)
	ListCombos(ctx context.Context, restaurantID uint) ([]model.Combo, error)
	ListBranchCombos(ctx context.Context, branchIDs []uint) ([]RawRow, error)
}
