package service

import (
	"context"
	"errors"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/internal/catalog"
	"github.com/ikkim/foodhub-backend/pkg/logger"
)

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrBranchNotFound     = errors.New("branch not found")
	ErrProductNotFound    = errors.New("product not found")
)

type CatalogQuery struct {
	RestaurantID uint
	BranchID     *uint
	Search       string
	CategoryID   *uint
}

// PriceQuote is the taxed price of one product at one branch.
type PriceQuote struct {
	RestaurantID    uint            `json:"restaurant_id"`
	BranchID        uint            `json:"branch_id"`
	ProductID       uint            `json:"product_id"`
	BranchProductID *uint           `json:"branch_product_id"`
	Name            string          `json:"name"`
	PriceMode       model.PriceMode `json:"price_mode"`
	BasePrice       float64         `json:"base_price"`
	TaxRate         float64         `json:"tax_rate"`
	PriceWithTax    float64         `json:"price_with_tax"`
	IsAvailable     bool            `json:"is_available"`
}

type CatalogService interface {
	GetCatalog(ctx context.Context, query CatalogQuery) (*catalog.Catalog, error)
	ListCatalogs(ctx context.Context, search string) ([]catalog.Catalog, error)
	QuotePrice(ctx context.Context, restaurantID, branchID, productID uint) (*PriceQuote, error)
	InvalidateCache(ctx context.Context, restaurantID uint) (int, error)
}

type catalogService struct {
	assembler *catalog.Assembler
}

func NewCatalogService(assembler *catalog.Assembler) CatalogService {
	return &catalogService{assembler: assembler}
}

func (s *catalogService) GetCatalog(ctx context.Context, query CatalogQuery) (*catalog.Catalog, error) {
	cat, err := s.assembler.Assemble(ctx, catalog.Request{
		RestaurantID: query.RestaurantID,
		BranchID:     query.BranchID,
		Search:       query.Search,
		CategoryID:   query.CategoryID,
	})
	if err != nil {
		logger.Error("Failed to assemble catalog", err, map[string]interface{}{
			"restaurant_id": query.RestaurantID,
			"branch_id":     query.BranchID,
		})
		return nil, err
	}
	if cat == nil {
		logger.Warn("Catalog requested for unknown restaurant", map[string]interface{}{
			"restaurant_id": query.RestaurantID,
		})
		return nil, ErrRestaurantNotFound
	}
	if query.BranchID != nil && len(cat.Branches) == 0 {
		logger.Warn("Catalog requested for unknown branch", map[string]interface{}{
			"restaurant_id": query.RestaurantID,
			"branch_id":     *query.BranchID,
		})
		return nil, ErrBranchNotFound
	}

	logger.Info("Catalog assembled", map[string]interface{}{
		"restaurant_id": query.RestaurantID,
		"branches":      len(cat.Branches),
		"products":      len(cat.Products),
		"combos":        len(cat.Combos),
	})
	return cat, nil
}

func (s *catalogService) ListCatalogs(ctx context.Context, search string) ([]catalog.Catalog, error) {
	catalogs, err := s.assembler.AssembleAll(ctx, catalog.ListRequest{Search: search})
	if err != nil {
		logger.Error("Failed to assemble catalog listing", err, map[string]interface{}{
			"search": search,
		})
		return nil, err
	}

	logger.Info("Catalog listing assembled", map[string]interface{}{
		"restaurants": len(catalogs),
	})
	return catalogs, nil
}

func (s *catalogService) QuotePrice(ctx context.Context, restaurantID, branchID, productID uint) (*PriceQuote, error) {
	return quotePrice(ctx, s, restaurantID, branchID, productID)
}

// InvalidateCache is a no-op without a cache in front of the service.
func (s *catalogService) InvalidateCache(ctx context.Context, restaurantID uint) (int, error) {
	return 0, nil
}

// quotePrice resolves the quote from the branch catalog served by svc, so a
// cached service quotes from its cache.
func quotePrice(ctx context.Context, svc CatalogService, restaurantID, branchID, productID uint) (*PriceQuote, error) {
	cat, err := svc.GetCatalog(ctx, CatalogQuery{RestaurantID: restaurantID, BranchID: &branchID})
	if err != nil {
		return nil, err
	}

	for _, branch := range cat.Branches {
		if branch.ID != branchID {
			continue
		}
		for _, p := range branch.Products {
			if p.ID != productID {
				continue
			}
			return &PriceQuote{
				RestaurantID:    restaurantID,
				BranchID:        branchID,
				ProductID:       productID,
				BranchProductID: p.BranchProductID,
				Name:            p.Name,
				PriceMode:       p.PriceMode,
				BasePrice:       p.BasePrice,
				TaxRate:         p.TaxRate,
				PriceWithTax:    p.PriceWithTax,
				IsAvailable:     p.IsAvailable,
			}, nil
		}
	}

	logger.Warn("Price quote requested for unknown product", map[string]interface{}{
		"restaurant_id": restaurantID,
		"branch_id":     branchID,
		"product_id":    productID,
	})
	return nil, ErrProductNotFound
}
