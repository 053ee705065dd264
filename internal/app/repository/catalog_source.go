package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hash/fnv"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/internal/catalog"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogSource serves the catalog assembler from the gorm repositories.
type CatalogSource struct {
	db          *gorm.DB
	restaurants RestaurantRepository
	branches    BranchRepository
	categories  CategoryRepository
	products    ProductRepository
	taxes       TaxRepository
	options     ProductOptionRepository
	combos      ComboRepository
}

func NewCatalogSource(db *gorm.DB) *CatalogSource {
	return &CatalogSource{
		db:          db,
		restaurants: NewRestaurantRepository(db),
		branches:    NewBranchRepository(db),
		categories:  NewCategoryRepository(db),
		products:    NewProductRepository(db),
		taxes:       NewTaxRepository(db),
		options:     NewProductOptionRepository(db),
		combos:      NewComboRepository(db),
	}
}

var _ catalog.Source = (*CatalogSource)(nil)

// GetRestaurant returns nil without error for unknown and inactive
// restaurants.
func (s *CatalogSource) GetRestaurant(ctx context.Context, id uint) (*model.Restaurant, error) {
	restaurant, err := s.restaurants.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !restaurant.IsActive {
		return nil, nil
	}
	return restaurant, nil
}

func (s *CatalogSource) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	return s.restaurants.FindActive(ctx)
}

func (s *CatalogSource) ListBranches(ctx context.Context, restaurantID uint) ([]model.Branch, error) {
	return s.branches.FindByRestaurant(ctx, restaurantID)
}

func (s *CatalogSource) ListCategories(ctx context.Context, restaurantID uint) ([]model.Category, error) {
	return s.categories.FindByRestaurant(ctx, restaurantID)
}

func (s *CatalogSource) ListProducts(ctx context.Context, restaurantID uint, filter catalog.ProductFilter) ([]model.Product, error) {
	return s.products.FindWithFilter(ctx, ProductFilter{
		RestaurantID: restaurantID,
		CategoryID:   filter.CategoryID,
		Search:       filter.Search,
	})
}

func (s *CatalogSource) ListBranchAssignments(ctx context.Context, productIDs []uint) ([]model.BranchProduct, error) {
	return s.products.FindBranchAssignments(ctx, productIDs)
}

func (s *CatalogSource) ListTaxAssignments(ctx context.Context, scope model.TaxScope, ids []uint) ([]model.TaxAssignment, error) {
	return s.taxes.FindByScope(ctx, scope, ids)
}

func (s *CatalogSource) ListOptionGroups(ctx context.Context, productIDs []uint) ([]model.ProductOptionGroup, error) {
	return s.options.FindLinksByProductIDs(ctx, productIDs)
}

func (s *CatalogSource) ListBranchOptionOverrides(ctx context.Context, branchIDs, productIDs []uint) ([]catalog.RawRow, error) {
	return s.options.FindOverrideRows(ctx, branchIDs, productIDs)
}

func (s *CatalogSource) ListCombos(ctx context.Context, restaurantID uint) ([]model.Combo, error) {
	return s.combos.FindByRestaurant(ctx, restaurantID)
}

func (s *CatalogSource) ListBranchCombos(ctx context.Context, branchIDs []uint) ([]catalog.RawRow, error) {
	return s.combos.FindBranchComboRows(ctx, branchIDs)
}

const catalogVersionSQL = `
SELECT COUNT(*) AS row_count, MAX(updated_at) AS last_updated FROM (
	SELECT updated_at FROM restaurants WHERE id = @rid
	UNION ALL SELECT updated_at FROM branches WHERE restaurant_id = @rid AND deleted_at IS NULL
	UNION ALL SELECT updated_at FROM categories WHERE restaurant_id = @rid AND deleted_at IS NULL
	UNION ALL SELECT cb.updated_at FROM category_branches cb JOIN categories c ON c.id = cb.category_id WHERE c.restaurant_id = @rid
	UNION ALL SELECT updated_at FROM products WHERE restaurant_id = @rid AND deleted_at IS NULL
	UNION ALL SELECT bp.updated_at FROM branch_products bp JOIN products p ON p.id = bp.product_id WHERE p.restaurant_id = @rid
	UNION ALL SELECT updated_at FROM option_groups WHERE restaurant_id = @rid AND deleted_at IS NULL
	UNION ALL SELECT oi.updated_at FROM option_items oi JOIN option_groups g ON g.id = oi.group_id WHERE g.restaurant_id = @rid AND oi.deleted_at IS NULL
	UNION ALL SELECT pog.updated_at FROM product_option_groups pog JOIN products p ON p.id = pog.product_id WHERE p.restaurant_id = @rid
	UNION ALL SELECT o.updated_at FROM branch_option_overrides o JOIN branches b ON b.id = o.branch_id WHERE b.restaurant_id = @rid
	UNION ALL SELECT o.updated_at FROM branch_option_overrides o JOIN branch_products bp ON bp.id = o.branch_product_id JOIN products p ON p.id = bp.product_id WHERE p.restaurant_id = @rid
	UNION ALL SELECT updated_at FROM combos WHERE restaurant_id = @rid AND deleted_at IS NULL
	UNION ALL SELECT cg.updated_at FROM combo_groups cg JOIN combos c ON c.id = cg.combo_id WHERE c.restaurant_id = @rid
	UNION ALL SELECT ci.updated_at FROM combo_group_items ci JOIN combo_groups cg ON cg.id = ci.combo_group_id JOIN combos c ON c.id = cg.combo_id WHERE c.restaurant_id = @rid
	UNION ALL SELECT bc.updated_at FROM branch_combos bc JOIN combos c ON c.id = bc.combo_id WHERE c.restaurant_id = @rid
	UNION ALL SELECT t.updated_at FROM tax_assignments t WHERE t.restaurant_id = @rid
		OR t.branch_id IN (SELECT id FROM branches WHERE restaurant_id = @rid)
		OR t.product_id IN (SELECT id FROM products WHERE restaurant_id = @rid)
) stamps`

type catalogVersionRow struct {
	RowCount    int64
	LastUpdated sql.NullString
}

// Version fingerprints every row a restaurant's catalog is built from. It
// changes whenever a row is added, removed or updated.
func (s *CatalogSource) Version(ctx context.Context, restaurantID uint) (string, error) {
	var row catalogVersionRow
	if err := s.db.WithContext(ctx).
		Raw(catalogVersionSQL, map[string]interface{}{"rid": restaurantID}).
		Scan(&row).Error; err != nil {
		logger.Error("Failed to compute catalog version", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return "", err
	}

	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s", row.RowCount, row.LastUpdated.String)
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
