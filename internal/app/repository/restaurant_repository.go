package repository

import (
	"context"
	"errors"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type RestaurantRepository interface {
	Create(restaurant *model.Restaurant) error
	FindByID(ctx context.Context, id uint) (*model.Restaurant, error)
	FindByName(ctx context.Context, name string) (*model.Restaurant, error)
	FindActive(ctx context.Context) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

func (r *restaurantRepository) Create(restaurant *model.Restaurant) error {
	logger.Debug("Creating restaurant in database", map[string]interface{}{
		"name": restaurant.Name,
	})

	if err := r.db.Create(restaurant).Error; err != nil {
		logger.Error("Failed to create restaurant in database", err, map[string]interface{}{
			"name": restaurant.Name,
		})
		return err
	}

	logger.Debug("Restaurant created in database", map[string]interface{}{
		"restaurant_id": restaurant.ID,
		"slug":          restaurant.Slug,
	})
	return nil
}

func (r *restaurantRepository) FindByID(ctx context.Context, id uint) (*model.Restaurant, error) {
	logger.Debug("Finding restaurant by ID", map[string]interface{}{
		"restaurant_id": id,
	})

	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).First(&restaurant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Debug("Restaurant not found", map[string]interface{}{
				"restaurant_id": id,
			})
		} else {
			logger.Error("Failed to find restaurant by ID", err, map[string]interface{}{
				"restaurant_id": id,
			})
		}
		return nil, err
	}

	return &restaurant, nil
}

func (r *restaurantRepository) FindByName(ctx context.Context, name string) (*model.Restaurant, error) {
	var restaurant model.Restaurant
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&restaurant).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Error("Failed to find restaurant by name", err, map[string]interface{}{
				"name": name,
			})
		}
		return nil, err
	}
	return &restaurant, nil
}

func (r *restaurantRepository) FindActive(ctx context.Context) ([]model.Restaurant, error) {
	logger.Debug("Finding active restaurants")

	var restaurants []model.Restaurant
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id ASC").
		Find(&restaurants).Error; err != nil {
		logger.Error("Failed to find active restaurants", err)
		return nil, err
	}

	logger.Debug("Active restaurants found", map[string]interface{}{
		"count": len(restaurants),
	})
	return restaurants, nil
}
