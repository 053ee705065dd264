package repository

import (
	"context"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductOptionRepository interface {
	CreateGroup(group *model.OptionGroup) error
	LinkProduct(link *model.ProductOptionGroup) error
	CreateOverride(override *model.BranchOptionOverride) error
	FindLinksByProductIDs(ctx context.Context, productIDs []uint) ([]model.ProductOptionGroup, error)
	FindOverrideRows(ctx context.Context, branchIDs, productIDs []uint) ([]map[string]interface{}, error)
}

type productOptionRepository struct {
	db *gorm.DB
}

func NewProductOptionRepository(db *gorm.DB) ProductOptionRepository {
	return &productOptionRepository{db: db}
}

// CreateGroup creates an option group together with its items.
func (r *productOptionRepository) CreateGroup(group *model.OptionGroup) error {
	logger.Debug("Creating option group", map[string]interface{}{
		"restaurant_id": group.RestaurantID,
		"name":          group.Name,
		"items":         len(group.Items),
	})

	if err := r.db.Create(group).Error; err != nil {
		logger.Error("Failed to create option group", err, map[string]interface{}{
			"restaurant_id": group.RestaurantID,
			"name":          group.Name,
		})
		return err
	}

	logger.Debug("Option group created", map[string]interface{}{
		"group_id": group.ID,
	})
	return nil
}

func (r *productOptionRepository) LinkProduct(link *model.ProductOptionGroup) error {
	if err := r.db.Omit("Group").Create(link).Error; err != nil {
		logger.Error("Failed to link option group to product", err, map[string]interface{}{
			"product_id": link.ProductID,
			"group_id":   link.GroupID,
		})
		return err
	}
	return nil
}

func (r *productOptionRepository) CreateOverride(override *model.BranchOptionOverride) error {
	logger.Debug("Creating option override", map[string]interface{}{
		"branch_id":         override.BranchID,
		"branch_product_id": override.BranchProductID,
		"target_type":       override.TargetType,
		"target_id":         override.TargetID,
	})

	if err := r.db.Create(override).Error; err != nil {
		logger.Error("Failed to create option override", err, map[string]interface{}{
			"target_type": override.TargetType,
			"target_id":   override.TargetID,
		})
		return err
	}
	return nil
}

// FindLinksByProductIDs returns the product-group links with each group and
// its items loaded, in link order.
func (r *productOptionRepository) FindLinksByProductIDs(ctx context.Context, productIDs []uint) ([]model.ProductOptionGroup, error) {
	logger.Debug("Finding option groups by products", map[string]interface{}{
		"product_count": len(productIDs),
	})

	var links []model.ProductOptionGroup
	if len(productIDs) == 0 {
		return links, nil
	}

	if err := r.db.WithContext(ctx).
		Preload("Group").
		Preload("Group.Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC, id ASC")
		}).
		Where("product_id IN ?", productIDs).
		Order("id ASC").
		Find(&links).Error; err != nil {
		logger.Error("Failed to find option groups by products", err, map[string]interface{}{
			"product_count": len(productIDs),
		})
		return nil, err
	}

	logger.Debug("Option groups found", map[string]interface{}{
		"count": len(links),
	})
	return links, nil
}

// FindOverrideRows reads override rows as column maps: rows keyed by one of
// branchIDs, and rows keyed by a branch_product of one of productIDs.
func (r *productOptionRepository) FindOverrideRows(ctx context.Context, branchIDs, productIDs []uint) ([]map[string]interface{}, error) {
	logger.Debug("Finding option override rows", map[string]interface{}{
		"branch_count":  len(branchIDs),
		"product_count": len(productIDs),
	})

	rows := []map[string]interface{}{}
	if len(branchIDs) == 0 && len(productIDs) == 0 {
		return rows, nil
	}

	query := r.db.WithContext(ctx).Model(&model.BranchOptionOverride{})
	switch {
	case len(branchIDs) > 0 && len(productIDs) > 0:
		branchProducts := r.db.Model(&model.BranchProduct{}).Select("id").Where("product_id IN ?", productIDs)
		query = query.Where("branch_id IN ? OR branch_product_id IN (?)", branchIDs, branchProducts)
	case len(branchIDs) > 0:
		query = query.Where("branch_id IN ?", branchIDs)
	default:
		branchProducts := r.db.Model(&model.BranchProduct{}).Select("id").Where("product_id IN ?", productIDs)
		query = query.Where("branch_product_id IN (?)", branchProducts)
	}

	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		logger.Error("Failed to find option override rows", err, map[string]interface{}{
			"branch_count":  len(branchIDs),
			"product_count": len(productIDs),
		})
		return nil, err
	}

	logger.Debug("Option override rows found", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}
