package catalog

import (
	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// BranchProductProjector builds the view of one product at one branch from
// the base product, the branch's assignment record (if any), the tax rate
// and the branch's option overrides.
type BranchProductProjector struct {
	tax       *TaxResolver
	options   *OptionOverrideResolver
	groups    map[uint][]OptionGroupInput
	overrides OverrideIndex
}

func NewBranchProductProjector(tax *TaxResolver, options *OptionOverrideResolver, groups map[uint][]OptionGroupInput, overrides OverrideIndex) *BranchProductProjector {
	if groups == nil {
		groups = map[uint][]OptionGroupInput{}
	}
	return &BranchProductProjector{
		tax:       tax,
		options:   options,
		groups:    groups,
		overrides: overrides,
	}
}

// Project returns the branch view of product. A nil assignment means the
// branch inherits the product unmodified; the view then carries a synthetic
// assignment whose ID is null.
func (p *BranchProductProjector) Project(product model.Product, assignment *model.BranchProduct, branchID uint) BranchProductView {
	productBase := SafeAmount(product.BasePrice)

	view := BranchProductView{
		ID:               product.ID,
		BranchID:         branchID,
		RestaurantID:     product.RestaurantID,
		CategoryID:       product.CategoryID,
		Name:             product.Name,
		Description:      product.Description,
		ImageURL:         product.ImageURL,
		ProductBasePrice: productBase,
		DisplayOrder:     product.DisplayOrder,
	}

	var branchProductID *uint
	if assignment != nil {
		id := assignment.ID
		branchProductID = &id

		mode := assignment.PriceMode
		if mode != model.PriceModeOverride {
			mode = model.PriceModeInherit
		}

		view.BranchProductID = branchProductID
		view.PriceMode = mode
		view.BasePrice = productBase
		if mode == model.PriceModeOverride && assignment.BasePriceOverride != nil {
			view.BasePrice = SafeAmount(*assignment.BasePriceOverride)
		}
		view.IsAvailable = product.IsAvailable && assignment.IsAvailable
		view.IsVisible = product.IsVisible && assignment.IsVisible
		view.Inventory = InventoryView{
			Quantity:   copyInt(assignment.StockQuantity),
			Reserved:   copyInt(assignment.ReservedQuantity),
			DailyLimit: copyInt(assignment.DailyLimit),
		}
		view.Assignment = AssignmentView{
			ID:                branchProductID,
			BranchID:          branchID,
			ProductID:         product.ID,
			PriceMode:         mode,
			BasePriceOverride: copyFloat(assignment.BasePriceOverride),
			IsAvailable:       assignment.IsAvailable,
			IsVisible:         assignment.IsVisible,
		}
	} else {
		view.PriceMode = model.PriceModeInherit
		view.BasePrice = productBase
		view.IsAvailable = product.IsAvailable
		view.IsVisible = product.IsVisible
		view.Assignment = AssignmentView{
			BranchID:    branchID,
			ProductID:   product.ID,
			PriceMode:   model.PriceModeInherit,
			IsAvailable: product.IsAvailable,
			IsVisible:   product.IsVisible,
		}
	}

	view.TaxRate = p.tax.Resolve(branchID, product.ID)
	view.PriceWithTax = PriceWithTax(view.BasePrice, view.TaxRate)
	view.Options = p.options.Apply(p.groups[product.ID], p.overrides, branchID, branchProductID)
	return view
}

// ProjectBase returns the restaurant-level view of product.
func (p *BranchProductProjector) ProjectBase(product model.Product) ProductView {
	base := SafeAmount(product.BasePrice)
	rate := p.tax.ResolveProduct(product.ID)
	return ProductView{
		ID:           product.ID,
		RestaurantID: product.RestaurantID,
		CategoryID:   product.CategoryID,
		Name:         product.Name,
		Description:  product.Description,
		ImageURL:     product.ImageURL,
		BasePrice:    base,
		IsAvailable:  product.IsAvailable,
		IsVisible:    product.IsVisible,
		DisplayOrder: product.DisplayOrder,
		TaxRate:      rate,
		PriceWithTax: PriceWithTax(base, rate),
		Options:      p.options.Base(p.groups[product.ID]),
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}
