package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/foodhub-backend/internal/app/service"
	apperrors "github.com/ikkim/foodhub-backend/internal/errors"
	"github.com/ikkim/foodhub-backend/internal/middleware"
)

type CatalogController struct {
	catalogService service.CatalogService
}

func NewCatalogController(catalogService service.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// GetCatalog returns the resolved catalog of one restaurant
// GET /api/v1/restaurants/:id/catalog?branch_id=&search=&category_id=
func (ctrl *CatalogController) GetCatalog(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	branchID, ok := parseOptionalIDQuery(c, "branch_id")
	if !ok {
		return
	}
	categoryID, ok := parseOptionalIDQuery(c, "category_id")
	if !ok {
		return
	}

	cat, err := ctrl.catalogService.GetCatalog(c.Request.Context(), service.CatalogQuery{
		RestaurantID: restaurantID,
		BranchID:     branchID,
		Search:       strings.TrimSpace(c.Query("search")),
		CategoryID:   categoryID,
	})
	if err != nil {
		respondCatalogError(c, err, "get catalog")
		return
	}

	log.Debug("Catalog served", map[string]interface{}{
		"restaurant_id": restaurantID,
		"products":      len(cat.Products),
	})
	c.JSON(http.StatusOK, cat)
}

// ListCatalogs returns the catalogs of all active restaurants
// GET /api/v1/catalogs?search=
func (ctrl *CatalogController) ListCatalogs(c *gin.Context) {
	catalogs, err := ctrl.catalogService.ListCatalogs(c.Request.Context(), strings.TrimSpace(c.Query("search")))
	if err != nil {
		respondCatalogError(c, err, "list catalogs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"catalogs": catalogs,
		"count":    len(catalogs),
	})
}

// QuotePrice returns the taxed price of a product at a branch
// GET /api/v1/restaurants/:id/branches/:branchId/products/:productId/price
func (ctrl *CatalogController) QuotePrice(c *gin.Context) {
	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	branchID, ok := parseIDParam(c, "branchId")
	if !ok {
		return
	}
	productID, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}

	quote, err := ctrl.catalogService.QuotePrice(c.Request.Context(), restaurantID, branchID, productID)
	if err != nil {
		respondCatalogError(c, err, "quote price")
		return
	}

	c.JSON(http.StatusOK, quote)
}

// InvalidateCache drops every cached catalog of a restaurant (admin)
// DELETE /api/v1/restaurants/:id/catalog/cache
func (ctrl *CatalogController) InvalidateCache(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	restaurantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	deleted, err := ctrl.catalogService.InvalidateCache(c.Request.Context(), restaurantID)
	if err != nil {
		log.Error("Failed to invalidate catalog cache", err, map[string]interface{}{
			"restaurant_id": restaurantID,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.CatalogCacheFailed, "캐시 삭제에 실패했습니다")
		return
	}

	userID, _ := middleware.GetUserID(c)
	log.Info("Catalog cache invalidated by admin", map[string]interface{}{
		"restaurant_id": restaurantID,
		"user_id":       userID,
		"deleted":       deleted,
	})
	c.JSON(http.StatusOK, gin.H{
		"restaurant_id": restaurantID,
		"deleted":       deleted,
	})
}

func respondCatalogError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrRestaurantNotFound):
		apperrors.NotFound(c, apperrors.RestaurantNotFound, "레스토랑을 찾을 수 없습니다")
	case errors.Is(err, service.ErrBranchNotFound):
		apperrors.NotFound(c, apperrors.BranchNotFound, "지점을 찾을 수 없습니다")
	case errors.Is(err, service.ErrProductNotFound):
		apperrors.NotFound(c, apperrors.ProductNotFound, "상품을 찾을 수 없습니다")
	default:
		log.Error("Catalog request failed", err, map[string]interface{}{
			"context": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// parseIDParam reads a positive numeric path parameter, responding 400 otherwise.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID parameter", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.InvalidID(c, name)
		return 0, false
	}
	return uint(id), true
}

// parseOptionalIDQuery is parseIDParam for query strings; absent means nil.
func parseOptionalIDQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID query", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.InvalidID(c, name)
		return nil, false
	}
	v := uint(id)
	return &v, true
}
