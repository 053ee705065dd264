package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
)

type RestaurantLister interface {
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
}

// SnapshotPublisher stores a JSON document under key and returns its URL.
type SnapshotPublisher interface {
	PutJSON(ctx context.Context, key string, value interface{}) (string, error)
}

type WarmResult struct {
	Restaurants int `json:"restaurants"`
	Published   int `json:"published"`
	Failed      int `json:"failed"`
}

type CatalogWarmService interface {
	WarmAll(ctx context.Context) (WarmResult, error)
}

type catalogWarmService struct {
	catalogs    CatalogService
	restaurants RestaurantLister
	publisher   SnapshotPublisher
	prefix      string
}

// NewCatalogWarmService builds a warmer that loads every active restaurant's
// catalog through catalogs. With a nil publisher no snapshots are written.
func NewCatalogWarmService(catalogs CatalogService, restaurants RestaurantLister, publisher SnapshotPublisher, prefix string) CatalogWarmService {
	return &catalogWarmService{
		catalogs:    catalogs,
		restaurants: restaurants,
		publisher:   publisher,
		prefix:      strings.Trim(prefix, "/"),
	}
}

// WarmAll assembles restaurants one at a time. A failing restaurant is
// counted and skipped; only a failure to list restaurants is returned.
func (s *catalogWarmService) WarmAll(ctx context.Context) (WarmResult, error) {
	var result WarmResult

	restaurants, err := s.restaurants.ListRestaurants(ctx)
	if err != nil {
		logger.Error("Failed to list restaurants for catalog warm-up", err)
		return result, err
	}
	result.Restaurants = len(restaurants)

	for _, r := range restaurants {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		cat, err := s.catalogs.GetCatalog(ctx, CatalogQuery{RestaurantID: r.ID})
		if err != nil {
			result.Failed++
			logger.Error("Failed to warm restaurant catalog", err, map[string]interface{}{
				"restaurant_id": r.ID,
			})
			continue
		}

		if s.publisher == nil {
			continue
		}
		url, err := s.publisher.PutJSON(ctx, SnapshotKey(s.prefix, r.ID), cat)
		if err != nil {
			result.Failed++
			logger.Error("Failed to publish catalog snapshot", err, map[string]interface{}{
				"restaurant_id": r.ID,
			})
			continue
		}
		result.Published++
		logger.Debug("Catalog snapshot published", map[string]interface{}{
			"restaurant_id": r.ID,
			"url":           url,
		})
	}

	logger.Info("Catalog warm-up finished", map[string]interface{}{
		"restaurants": result.Restaurants,
		"published":   result.Published,
		"failed":      result.Failed,
	})
	return result, nil
}

// SnapshotKey is the object key of a restaurant's published catalog.
func SnapshotKey(prefix string, restaurantID uint) string {
	if prefix == "" {
		return fmt.Sprintf("%d/catalog.json", restaurantID)
	}
	return fmt.Sprintf("%s/%d/catalog.json", prefix, restaurantID)
}
