package repository

import (
	"context"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type ComboRepository interface {
	Create(combo *model.Combo) error
	AssignToBranch(branchCombo *model.BranchCombo) error
	FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Combo, error)
	FindBranchComboRows(ctx context.Context, branchIDs []uint) ([]map[string]interface{}, error)
}

type comboRepository struct {
	db *gorm.DB
}

func NewComboRepository(db *gorm.DB) ComboRepository {
	return &comboRepository{db: db}
}

// Create creates a combo with its groups and group items.
func (r *comboRepository) Create(combo *model.Combo) error {
	logger.Debug("Creating combo in database", map[string]interface{}{
		"restaurant_id": combo.RestaurantID,
		"name":          combo.Name,
	})

	if err := r.db.Create(combo).Error; err != nil {
		logger.Error("Failed to create combo in database", err, map[string]interface{}{
			"restaurant_id": combo.RestaurantID,
			"name":          combo.Name,
		})
		return err
	}
	return nil
}

func (r *comboRepository) AssignToBranch(branchCombo *model.BranchCombo) error {
	if err := r.db.Create(branchCombo).Error; err != nil {
		logger.Error("Failed to assign combo to branch", err, map[string]interface{}{
			"branch_id": branchCombo.BranchID,
			"combo_id":  branchCombo.ComboID,
		})
		return err
	}
	return nil
}

func (r *comboRepository) FindByRestaurant(ctx context.Context, restaurantID uint) ([]model.Combo, error) {
	logger.Debug("Finding combos by restaurant", map[string]interface{}{
		"restaurant_id": restaurantID,
	})

	var combos []model.Combo
	if err := r.db.WithContext(ctx).
		Preload("Groups").
		Preload("Groups.Items").
		Where("restaurant_id = ?", restaurantID).
		Order("display_order ASC, id ASC").
		Find(&combos).Error; err != nil {
		logger.Error("Failed to find combos by restaurant", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return nil, err
	}

	logger.Debug("Combos found", map[string]interface{}{
		"restaurant_id": restaurantID,
		"count":         len(combos),
	})
	return combos, nil
}

// FindBranchComboRows reads branch_combos rows as column maps.
func (r *comboRepository) FindBranchComboRows(ctx context.Context, branchIDs []uint) ([]map[string]interface{}, error) {
	rows := []map[string]interface{}{}
	if len(branchIDs) == 0 {
		return rows, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&model.BranchCombo{}).
		Where("branch_id IN ?", branchIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		logger.Error("Failed to find branch combo rows", err, map[string]interface{}{
			"branch_count": len(branchIDs),
		})
		return nil, err
	}

	logger.Debug("Branch combo rows found", map[string]interface{}{
		"count": len(rows),
	})
	return rows, nil
}
