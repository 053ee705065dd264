package db

import (
	"errors"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/pkg/logger"
	"gorm.io/gorm"
)

// CatalogModels lists every table the catalog is built from, in dependency
// order.
func CatalogModels() []interface{} {
	return []interface{}{
		&model.Restaurant{},
		&model.Branch{},
		&model.Category{},
		&model.CategoryBranch{},
		&model.Product{},
		&model.BranchProduct{},
		&model.TaxTemplate{},
		&model.TaxAssignment{},
		&model.OptionGroup{},
		&model.OptionItem{},
		&model.ProductOptionGroup{},
		&model.BranchOptionOverride{},
		&model.Combo{},
		&model.ComboGroup{},
		&model.ComboGroupItem{},
		&model.BranchCombo{},
	}
}

// Migrate runs database migrations
func Migrate() error {
	return MigrateDB(DB)
}

// MigrateDB migrates the catalog tables on db and seeds reference data
func MigrateDB(db *gorm.DB) error {
	logger.Info("Running database migrations...")

	models := CatalogModels()
	if err := db.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	if err := seedInitialData(db); err != nil {
		logger.Error("Failed to seed initial data during migration", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds initial data to the database (optional)
func Seed() error {
	return seedInitialData(DB)
}

// DefaultTaxTemplateCode is the template restaurant default rates point at.
const DefaultTaxTemplateCode = "VAT"

func seedInitialData(db *gorm.DB) error {
	logger.Info("Seeding initial data...")

	// 기본 부가세 템플릿 (세율은 레스토랑/지점별 tax_assignments에서 지정)
	if err := seedTaxTemplates(db); err != nil {
		logger.Error("Failed to seed tax templates", err)
		return err
	}

	logger.Info("Initial data seeded successfully")
	return nil
}

func seedTaxTemplates(db *gorm.DB) error {
	var template model.TaxTemplate
	err := db.Where("code = ?", DefaultTaxTemplateCode).First(&template).Error
	if err == nil {
		logger.Info("Tax templates already seeded, skipping...", map[string]interface{}{
			"template_id": template.ID,
		})
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	template = model.TaxTemplate{Code: DefaultTaxTemplateCode, Name: "Value Added Tax"}
	if err := db.Create(&template).Error; err != nil {
		logger.Error("Failed to create tax template", err, map[string]interface{}{
			"code": DefaultTaxTemplateCode,
		})
		return err
	}

	logger.Info("Tax templates seeded successfully", map[string]interface{}{
		"template_id": template.ID,
	})
	return nil
}
