package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

type TaxRepository interface {
	FirstOrCreateTemplate(template *model.TaxTemplate) error
	CreateAssignment(assignment *model.TaxAssignment) error
	FindByScope(ctx context.Context, scope model.TaxScope, ids []uint) ([]model.TaxAssignment, error)
}

type taxRepository struct {
	db *gorm.DB
}

func NewTaxRepository(db *gorm.DB) TaxRepository {
	return &taxRepository{db: db}
}

// FirstOrCreateTemplate loads the template with the same code, creating it
// when missing.
func (r *taxRepository) FirstOrCreateTemplate(template *model.TaxTemplate) error {
	err := r.db.Where("code = ?", template.Code).First(template).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to find tax template", err, map[string]interface{}{
			"code": template.Code,
		})
		return err
	}

	if err := r.db.Create(template).Error; err != nil {
		logger.Error("Failed to create tax template", err, map[string]interface{}{
			"code": template.Code,
		})
		return err
	}

	logger.Info("Tax template created", map[string]interface{}{
		"template_id": template.ID,
		"code":        template.Code,
	})
	return nil
}

func (r *taxRepository) CreateAssignment(assignment *model.TaxAssignment) error {
	logger.Debug("Creating tax assignment", map[string]interface{}{
		"scope":         assignment.Scope,
		"restaurant_id": assignment.RestaurantID,
		"branch_id":     assignment.BranchID,
		"product_id":    assignment.ProductID,
	})

	if err := r.db.Create(assignment).Error; err != nil {
		logger.Error("Failed to create tax assignment", err, map[string]interface{}{
			"scope": assignment.Scope,
		})
		return err
	}
	return nil
}

// FindByScope returns the assignments of one scope whose target is in ids:
// restaurant, branch and product scopes match their own column, the
// branch_product scope matches product_id.
func (r *taxRepository) FindByScope(ctx context.Context, scope model.TaxScope, ids []uint) ([]model.TaxAssignment, error) {
	logger.Debug("Finding tax assignments by scope", map[string]interface{}{
		"scope":     scope,
		"ids_count": len(ids),
	})

	var assignments []model.TaxAssignment
	if len(ids) == 0 {
		return assignments, nil
	}

	var column string
	switch scope {
	case model.TaxScopeRestaurant:
		column = "restaurant_id"
	case model.TaxScopeBranch:
		column = "branch_id"
	case model.TaxScopeProduct, model.TaxScopeBranchProduct:
		column = "product_id"
	default:
		return nil, fmt.Errorf("unknown tax scope %q", scope)
	}

	if err := r.db.WithContext(ctx).
		Where("scope = ?", scope).
		Where(column+" IN ?", ids).
		Order("id ASC").
		Find(&assignments).Error; err != nil {
		logger.Error("Failed to find tax assignments", err, map[string]interface{}{
			"scope": scope,
		})
		return nil, err
	}

	logger.Debug("Tax assignments found", map[string]interface{}{
		"scope": scope,
		"count": len(assignments),
	})
	return assignments, nil
}
