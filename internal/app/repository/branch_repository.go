package repository

import (
	"context"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type BranchRepository interface {
	Create(branch *model.Branch) error
	FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Branch, error)
	FindByName(ctx context.Context, restaurantID uint, name string) (*model.Branch, error)
}

type branchRepository struct {
	db *gorm.DB
}

func NewBranchRepository(db *gorm.DB) BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(branch *model.Branch) error {
	logger.Debug("Creating branch in database", map[string]interface{}{
		"restaurant_id": branch.RestaurantID,
		"name":          branch.Name,
	})

	if err := r.db.Create(branch).Error; err != nil {
		logger.Error("Failed to create branch in database", err, map[string]interface{}{
			"restaurant_id": branch.RestaurantID,
			"name":          branch.Name,
		})
		return err
	}

	logger.Debug("Branch created in database", map[string]interface{}{
		"branch_id": branch.ID,
	})
	return nil
}

// FindByRestaurant returns the active branches of a restaurant.
func (r *branchRepository) FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Branch, error) {
	logger.Debug("Finding branches by restaurant", map[string]interface{}{
		"restaurant_id": restaurantID,
	})

	var branches []model.Branch
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND is_active = ?", restaurantID, true).
		Order("display_order ASC, id ASC").
		Find(&branches).Error; err != nil {
		logger.Error("Failed to find branches by restaurant", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Debug("Branches found", map[string]interface{}{
		"restaurant_id": restaurantID,
		"count":         len(branches),
	})
	return branches, nil
}

func (r *branchRepository) FindByName(ctx context.Context, restaurantID uint, name string) (*model.Branch, error) {
	var branch model.Branch
	if err := r.db.WithContext(ctx).
		Where("restaurant_id = ? AND name = ?", restaurantID, name).
		First(&branch).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}
