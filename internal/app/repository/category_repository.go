package repository

import (
	"context"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type CategoryRepository interface {
	Create(category *model.Category) error
	LinkBranch(link *model.CategoryBranch) error
	FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Category, error)
	FindByName(ctx context.Context, restaurantID uint, name string) (*model.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(category *model.Category) error {
	logger.Debug("Creating category in database", map[string]interface{}{
		"restaurant_id": category.RestaurantID,
		"name":          category.Name,
	})

	if err := r.db.Create(category).Error; err != nil {
		logger.Error("Failed to create category in database", err, map[string]interface{}{
			"restaurant_id": category.RestaurantID,
			"name":          category.Name,
		})
		return err
	}
	return nil
}

func (r *categoryRepository) LinkBranch(link *model.CategoryBranch) error {
	if err := r.db.Create(link).Error; err != nil {
		logger.Error("Failed to link category to branch", err, map[string]interface{}{
			"category_id": link.CategoryID,
			"branch_id":   link.BranchID,
		})
		return err
	}
	return nil
}

// FindByRestaurant returns categories with their per-branch settings loaded.
func (r *categoryRepository) FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Category, error) {
	logger.Debug("Finding categories by restaurant", map[string]interface{}{
		"restaurant_id": restaurantID,
	})

	var categories []model.Category
	if err := r.db.WithContext(ctx).
		Preload("Branches").
		Where("restaurant_id = ?", restaurantID).
		Order("display_order ASC, id ASC").
		Find(&categories).Error; err != nil {
		logger.Error("Failed to find categories by restaurant", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Debug("Categories found", map[string]interface{}{
		"restaurant_id": restaurantID,
		"count":         len(categories),
	})
	return categories, nil
}

func (r *categoryRepository) FindByName(ctx context.Context, restaurantID uint, name string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).
		Preload("Branches").
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		First(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}
