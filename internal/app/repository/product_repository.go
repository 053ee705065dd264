package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductFilter struct {
	RestaurantID uint
	CategoryID   *uint
	Search       string
}

type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(ctx context.Context, id uint) (*model.Product, error)
	FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, error)
	FindByName(ctx context.Context, restaurantID uint, name string) (*model.Product, error)
	AssignToBranch(assignment *model.BranchProduct) error
	FindBranchAssignments(ctx context.Context, productIDs []uint) ([]model.BranchProduct, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"restaurant_id": product.RestaurantID,
		"category_id":   product.CategoryID,
		"name":          product.Name,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"restaurant_id": product.RestaurantID,
			"name":          product.Name,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id":    product.ID,
		"restaurant_id": product.RestaurantID,
	})
	return nil
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return &product, nil
}

// likeEscaper는 검색어의 LIKE 와일드카드를 문자 그대로 매칭하도록 escape한다
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *productRepository) FindWithFilter(ctx context.Context, filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products with filter", map[string]interface{}{
		"restaurant_id": filter.RestaurantID,
		"category_id":   filter.CategoryID,
		"search":        filter.Search,
	})

	query := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("products.restaurant_id = ?", filter.RestaurantID)

	if filter.CategoryID != nil {
		query = query.Where("products.category_id = ?", *filter.CategoryID)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := fmt.Sprintf("%%%s%%", likeEscaper.Replace(strings.ToLower(search)))
		query = query.Where(`(LOWER(products.name) LIKE ? ESCAPE '\' OR LOWER(products.description) LIKE ? ESCAPE '\')`, like, like)
	}

	var products []model.Product
	if err := query.Order("products.display_order ASC, products.id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products with filter", err, map[string]interface{}{
			"restaurant_id": filter.RestaurantID,
			"search":        filter.Search,
		})
		return nil, err
	}

	logger.Debug("Products found with filter", map[string]interface{}{
		"restaurant_id": filter.RestaurantID,
		"count":         len(products),
	})
	return products, nil
}

func (r *productRepository) FindByName(ctx context.Context, restaurantID uint, name string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) AssignToBranch(assignment *model.BranchProduct) error {
	logger.Debug("Assigning product to branch", map[string]interface{}{
		"branch_id":  assignment.BranchID,
		"product_id": assignment.ProductID,
		"price_mode": assignment.PriceMode,
	})

	if err := r.db.Create(assignment).Error; err != nil {
		logger.Error("Failed to assign product to branch", err, map[string]interface{}{
			"branch_id":  assignment.BranchID,
			"product_id": assignment.ProductID,
		})
		return err
	}
	return nil
}

func (r *productRepository) FindBranchAssignments(ctx context.Context, productIDs []uint) ([]model.BranchProduct, error) {
	logger.Debug("Finding branch assignments", map[string]interface{}{
		"product_count": len(productIDs),
	})

	var assignments []model.BranchProduct
	if len(productIDs) == 0 {
		return assignments, nil
	}

	if err := r.db.WithContext(ctx).
		Where("product_id IN ?", productIDs).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		logger.Error("Failed to find branch assignments", err, map[string]interface{}{
			"product_count": len(productIDs),
		})
		return nil, err
	}

	logger.Debug("Branch assignments found", map[string]interface{}{
		"count": len(assignments),
	})
	return assignments, nil
}
