package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ikkim/foodhub-backend/internal/app/model"
	"github.com/ikkim/foodhub-backend/internal/app/repository"
	"github.com/ikkim/foodhub-backend/internal/db"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const defaultSheet = "menu"

var requiredColumns = []string{"restaurant", "product", "base_price"}

// menuRow 시트의 한 행 (헤더 다음부터 1-based 행 번호)
type menuRow struct {
	Line       int
	Restaurant string
	Branch     string
	Category   string
	Product    string
	BasePrice  float64
	TaxRate    *float64
}

type importStats struct {
	Restaurants int
	Branches    int
	Categories  int
	Products    int
	Overrides   int
	Taxes       int
}

// readMenuRows 헤더 이름으로 컬럼을 찾으므로 컬럼 순서는 자유롭다.
// 잘못된 행은 건너뛰고 사유를 skipped에 담는다
func readMenuRows(f *excelize.File, sheet string) (rows []menuRow, skipped []string, err error) {
	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(raw) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheet)
	}

	columns := make(map[string]int)
	for i, header := range raw[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, nil, fmt.Errorf("sheet %q is missing column %q", sheet, name)
		}
	}

	cell := func(row []string, name string) string {
		i, ok := columns[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	for i, row := range raw[1:] {
		line := i + 2
		r := menuRow{
			Line:       line,
			Restaurant: cell(row, "restaurant"),
			Branch:     cell(row, "branch"),
			Category:   cell(row, "category"),
			Product:    cell(row, "product"),
		}
		if r.Restaurant == "" && r.Product == "" {
			continue // 빈 행
		}
		if r.Restaurant == "" || r.Product == "" {
			skipped = append(skipped, fmt.Sprintf("line %d: restaurant and product are required", line))
			continue
		}

		price, err := decimal.NewFromString(cell(row, "base_price"))
		if err != nil || price.IsNegative() {
			skipped = append(skipped, fmt.Sprintf("line %d: invalid base_price %q", line, cell(row, "base_price")))
			continue
		}
		r.BasePrice = price.Round(2).InexactFloat64()

		if s := cell(row, "tax_rate"); s != "" {
			rate, err := decimal.NewFromString(strings.TrimSuffix(s, "%"))
			if err != nil || rate.IsNegative() {
				skipped = append(skipped, fmt.Sprintf("line %d: invalid tax_rate %q", line, s))
				continue
			}
			v := rate.InexactFloat64()
			r.TaxRate = &v
		}

		rows = append(rows, r)
	}
	return rows, skipped, nil
}

// menuImporter 행 단위로 레스토랑/지점/카테고리/상품/세율을 찾거나 생성한다.
// 같은 파일을 다시 넣어도 중복 생성하지 않는다
type menuImporter struct {
	restaurants repository.RestaurantRepository
	branches    repository.BranchRepository
	categories  repository.CategoryRepository
	products    repository.ProductRepository
	taxes       repository.TaxRepository
	template    model.TaxTemplate

	linked map[[2]uint]bool
	taxed  map[uint]bool
	stats  importStats
}

func newMenuImporter(tx *gorm.DB) (*menuImporter, error) {
	m := &menuImporter{
		restaurants: repository.NewRestaurantRepository(tx),
		branches:    repository.NewBranchRepository(tx),
		categories:  repository.NewCategoryRepository(tx),
		products:    repository.NewProductRepository(tx),
		taxes:       repository.NewTaxRepository(tx),
		template:    model.TaxTemplate{Code: db.DefaultTaxTemplateCode, Name: "Value Added Tax"},
		linked:      make(map[[2]uint]bool),
		taxed:       make(map[uint]bool),
	}
	if err := m.taxes.FirstOrCreateTemplate(&m.template); err != nil {
		return nil, err
	}
	return m, nil
}

// importMenu 모든 행을 하나의 트랜잭션으로 저장한다
func importMenu(ctx context.Context, gdb *gorm.DB, rows []menuRow) (importStats, error) {
	var stats importStats
	err := gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m, err := newMenuImporter(tx)
		if err != nil {
			return err
		}
		for _, row := range rows {
			if err := m.importRow(ctx, row); err != nil {
				return fmt.Errorf("line %d: %w", row.Line, err)
			}
		}
		stats = m.stats
		return nil
	})
	return stats, err
}

func (m *menuImporter) importRow(ctx context.Context, row menuRow) error {
	restaurant, err := m.restaurant(ctx, row.Restaurant)
	if err != nil {
		return err
	}
	if row.TaxRate != nil {
		if err := m.restaurantTax(ctx, restaurant.ID, *row.TaxRate); err != nil {
			return err
		}
	}

	var branch *model.Branch
	if row.Branch != "" {
		if branch, err = m.branch(ctx, restaurant.ID, row.Branch); err != nil {
			return err
		}
	}

	var categoryID *uint
	if row.Category != "" {
		category, err := m.category(ctx, restaurant.ID, row.Category)
		if err != nil {
			return err
		}
		categoryID = &category.ID
		if branch != nil {
			if err := m.linkCategory(category, branch.ID); err != nil {
				return err
			}
		}
	}

	product, created, err := m.product(ctx, restaurant.ID, categoryID, row)
	if err != nil {
		return err
	}

	// 같은 상품이 다른 가격으로 다시 나오면 해당 지점 가격으로 지정
	if !created && branch != nil && product.BasePrice != row.BasePrice {
		assigned, err := m.assigned(ctx, product.ID, branch.ID)
		if err != nil || assigned {
			return err
		}
		price := row.BasePrice
		if err := m.products.AssignToBranch(&model.BranchProduct{
			BranchID:          branch.ID,
			ProductID:         product.ID,
			PriceMode:         model.PriceModeOverride,
			BasePriceOverride: &price,
			IsAvailable:       true,
			IsVisible:         true,
		}); err != nil {
			return err
		}
		m.stats.Overrides++
	}
	return nil
}

func (m *menuImporter) assigned(ctx context.Context, productID, branchID uint) (bool, error) {
	existing, err := m.products.FindBranchAssignments(ctx, []uint{productID})
	if err != nil {
		return false, err
	}
	for _, a := range existing {
		if a.BranchID == branchID {
			return true, nil
		}
	}
	return false, nil
}

func (m *menuImporter) restaurant(ctx context.Context, name string) (*model.Restaurant, error) {
	found, err := m.restaurants.FindByName(ctx, name)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	restaurant := &model.Restaurant{Name: name, IsActive: true}
	if err := m.restaurants.Create(restaurant); err != nil {
		return nil, err
	}
	m.stats.Restaurants++
	return restaurant, nil
}

func (m *menuImporter) branch(ctx context.Context, restaurantID uint, name string) (*model.Branch, error) {
	found, err := m.branches.FindByName(ctx, restaurantID, name)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	branch := &model.Branch{RestaurantID: restaurantID, Name: name, IsActive: true}
	if err := m.branches.Create(branch); err != nil {
		return nil, err
	}
	m.stats.Branches++
	return branch, nil
}

func (m *menuImporter) category(ctx context.Context, restaurantID uint, name string) (*model.Category, error) {
	found, err := m.categories.FindByName(ctx, restaurantID, name)
	if err == nil {
		return found, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := &model.Category{RestaurantID: restaurantID, Name: name}
	if err := m.categories.Create(category); err != nil {
		return nil, err
	}
	m.stats.Categories++
	return category, nil
}

func (m *menuImporter) linkCategory(category *model.Category, branchID uint) error {
	key := [2]uint{category.ID, branchID}
	if m.linked[key] {
		return nil
	}
	for _, link := range category.Branches {
		if link.BranchID == branchID {
			m.linked[key] = true
			return nil
		}
	}
	if err := m.categories.LinkBranch(&model.CategoryBranch{
		CategoryID: category.ID,
		BranchID:   branchID,
		IsActive:   true,
		IsVisible:  true,
	}); err != nil {
		return err
	}
	m.linked[key] = true
	return nil
}

func (m *menuImporter) product(ctx context.Context, restaurantID uint, categoryID *uint, row menuRow) (*model.Product, bool, error) {
	found, err := m.products.FindByName(ctx, restaurantID, row.Product)
	if err == nil {
		return found, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	product := &model.Product{
		RestaurantID: restaurantID,
		CategoryID:   categoryID,
		Name:         row.Product,
		BasePrice:    row.BasePrice,
		IsAvailable:  true,
		IsVisible:    true,
	}
	if err := m.products.Create(product); err != nil {
		return nil, false, err
	}
	m.stats.Products++
	return product, true, nil
}

// restaurantTax 레스토랑당 첫 세율만 기본 세율로 등록한다
func (m *menuImporter) restaurantTax(ctx context.Context, restaurantID uint, rate float64) error {
	if m.taxed[restaurantID] {
		return nil
	}
	existing, err := m.taxes.FindByScope(ctx, model.TaxScopeRestaurant, []uint{restaurantID})
	if err != nil {
		return err
	}
	m.taxed[restaurantID] = true
	if len(existing) > 0 {
		return nil
	}

	if err := m.taxes.CreateAssignment(&model.TaxAssignment{
		TaxTemplateID: m.template.ID,
		Scope:         model.TaxScopeRestaurant,
		RestaurantID:  &restaurantID,
		RatePercent:   &rate,
		IsDefault:     true,
		IsActive:      true,
	}); err != nil {
		return err
	}
	m.stats.Taxes++
	return nil
}
