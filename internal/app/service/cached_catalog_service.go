package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/url"
	"strconv"
	"time"

	"github.com/ikkim/foodhub-backend/internal/catalog"
	"github.com/ikkim/foodhub-backend/pkg/logger"
)

// CatalogCache stores assembled catalogs as JSON.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// CatalogVersioner fingerprints the rows a restaurant's catalog is built from.
type CatalogVersioner interface {
	Version(ctx context.Context, restaurantID uint) (string, error)
}

// CachedCatalogService serves catalogs from a cache keyed by the restaurant's
// data version, so edits show up without explicit invalidation. Cache
// failures fall through to the wrapped service.
type CachedCatalogService struct {
	next     CatalogService
	cache    CatalogCache
	versions CatalogVersioner
	ttl      time.Duration
}

func NewCachedCatalogService(next CatalogService, cache CatalogCache, versions CatalogVersioner, ttl time.Duration) *CachedCatalogService {
	return &CachedCatalogService{
		next:     next,
		cache:    cache,
		versions: versions,
		ttl:      ttl,
	}
}

var _ CatalogService = (*CachedCatalogService)(nil)

func (s *CachedCatalogService) GetCatalog(ctx context.Context, query CatalogQuery) (*catalog.Catalog, error) {
	version, err := s.versions.Version(ctx, query.RestaurantID)
	if err != nil {
		logger.Warn("Catalog version unavailable, bypassing cache", map[string]interface{}{
			"restaurant_id": query.RestaurantID,
			"error":         err.Error(),
		})
		return s.next.GetCatalog(ctx, query)
	}

	key := CatalogCacheKey(query, version)
	var cached catalog.Catalog
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warn("Catalog cache read failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	if hit {
		logger.Debug("Catalog cache hit", map[string]interface{}{
			"key": key,
		})
		return &cached, nil
	}

	cat, err := s.next.GetCatalog(ctx, query)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, cat, s.ttl); err != nil {
		logger.Warn("Catalog cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
	return cat, nil
}

func (s *CachedCatalogService) ListCatalogs(ctx context.Context, search string) ([]catalog.Catalog, error) {
	return s.next.ListCatalogs(ctx, search)
}

func (s *CachedCatalogService) QuotePrice(ctx context.Context, restaurantID, branchID, productID uint) (*PriceQuote, error) {
	return quotePrice(ctx, s, restaurantID, branchID, productID)
}

// InvalidateCache drops every cached document of the restaurant.
func (s *CachedCatalogService) InvalidateCache(ctx context.Context, restaurantID uint) (int, error) {
	pattern := fmt.Sprintf("catalog:%d:*", restaurantID)
	deleted, err := s.cache.DeleteByPattern(ctx, pattern)
	if err != nil {
		logger.Error("Failed to invalidate catalog cache", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		return 0, err
	}

	logger.Info("Catalog cache invalidated", map[string]interface{}{
		"restaurant_id": restaurantID,
		"deleted":       deleted,
	})
	return deleted, nil
}

// CatalogCacheKey is catalog:{restaurant}:{branch|all}:{version}:{filter hash}.
func CatalogCacheKey(query CatalogQuery, version string) string {
	branch := "all"
	if query.BranchID != nil {
		branch = fmt.Sprintf("%d", *query.BranchID)
	}

	// 검색어는 escape하고 category 슬롯은 항상 기록한다
	filter := url.Values{"search": {query.Search}, "category": {"-"}}
	if query.CategoryID != nil {
		filter.Set("category", strconv.FormatUint(uint64(*query.CategoryID), 10))
	}
	h := fnv.New64a()
	h.Write([]byte(filter.Encode()))
	return fmt.Sprintf("catalog:%d:%s:%s:%016x", query.RestaurantID, branch, version, h.Sum64())
}
