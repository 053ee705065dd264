package catalog

import (
	"time"

	"github.com/ikkim/foodhub-backend/internal/app/model"
)

// Catalog is the resolved menu document for one restaurant.
type Catalog struct {
	Restaurant RestaurantView  `json:"restaurant"`
	Categories []CategoryView  `json:"categories"`
	Products   []ProductView   `json:"products"`
	Combos     []ComboView     `json:"combos"`
	Branches   []BranchCatalog `json:"branches"`
}

type RestaurantView struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	LogoURL     string    `json:"logo_url"`
	Currency    string    `json:"currency"`
	IsActive    bool      `json:"is_active"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BranchView struct {
	ID           uint   `json:"id"`
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
	Address      string `json:"address"`
	PhoneNumber  string `json:"phone_number"`
	IsVirtual    bool   `json:"is_virtual"`
	IsActive     bool   `json:"is_active"`
	DisplayOrder int    `json:"display_order"`
}

// BranchCatalog is a branch with its own resolved menu. The branch fields are
// inlined next to categories/products/combos.
type BranchCatalog struct {
	BranchView
	Categories []CategoryView      `json:"categories"`
	Products   []BranchProductView `json:"products"`
	Combos     []ComboView         `json:"combos"`
}

type CategoryView struct {
	ID           uint   `json:"id"`
	RestaurantID uint   `json:"restaurant_id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// ProductView is the restaurant-level (branch independent) product entry.
type ProductView struct {
	ID           uint              `json:"id"`
	RestaurantID uint              `json:"restaurant_id"`
	CategoryID   *uint             `json:"category_id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	ImageURL     string            `json:"image_url"`
	BasePrice    float64           `json:"base_price"`
	IsAvailable  bool              `json:"is_available"`
	IsVisible    bool              `json:"is_visible"`
	DisplayOrder int               `json:"display_order"`
	TaxRate      float64           `json:"tax_rate"`
	PriceWithTax float64           `json:"price_with_tax"`
	Options      []OptionGroupView `json:"options"`
}

// BranchProductView is one product as a specific branch sells it.
type BranchProductView struct {
	ID               uint              `json:"id"`
	BranchID         uint              `json:"branch_id"`
	BranchProductID  *uint             `json:"branch_product_id"`
	RestaurantID     uint              `json:"restaurant_id"`
	CategoryID       *uint             `json:"category_id"`
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	ImageURL         string            `json:"image_url"`
	PriceMode        model.PriceMode   `json:"price_mode"`
	ProductBasePrice float64           `json:"product_base_price"`
	BasePrice        float64           `json:"base_price"`
	IsAvailable      bool              `json:"is_available"`
	IsVisible        bool              `json:"is_visible"`
	DisplayOrder     int               `json:"display_order"`
	Inventory        InventoryView     `json:"inventory"`
	Assignment       AssignmentView    `json:"assignment"`
	TaxRate          float64           `json:"tax_rate"`
	PriceWithTax     float64           `json:"price_with_tax"`
	Options          []OptionGroupView `json:"options"`
}

type InventoryView struct {
	Quantity   *int `json:"quantity"`
	Reserved   *int `json:"reserved"`
	DailyLimit *int `json:"daily_limit"`
}

// AssignmentView mirrors the branch-product record. For products the branch
// inherits without a record, ID is null.
type AssignmentView struct {
	ID                *uint           `json:"id"`
	BranchID          uint            `json:"branch_id"`
	ProductID         uint            `json:"product_id"`
	PriceMode         model.PriceMode `json:"price_mode"`
	BasePriceOverride *float64        `json:"base_price_override"`
	IsAvailable       bool            `json:"is_available"`
	IsVisible         bool            `json:"is_visible"`
}

type OptionGroupView struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	SelectionType model.SelectionType `json:"selection_type"`
	MinSelect     int                 `json:"min_select"`
	MaxSelect     *int                `json:"max_select"`
	IsRequired    bool                `json:"is_required"`
	DisplayOrder  int                 `json:"display_order"`
	Refilled      bool                `json:"refilled,omitempty"`
	Items         []OptionItemView    `json:"items"`
}

type OptionItemView struct {
	ID                  uint    `json:"id"`
	Name                string  `json:"name"`
	PriceDelta          float64 `json:"price_delta"`
	EffectivePriceDelta float64 `json:"effective_price_delta"`
	DisplayOrder        int     `json:"display_order"`
}

type ComboView struct {
	ID             uint             `json:"id"`
	BranchComboID  *uint            `json:"branch_combo_id"`
	RestaurantID   uint             `json:"restaurant_id"`
	Name           string           `json:"name"`
	Description    string           `json:"description"`
	ImageURL       string           `json:"image_url"`
	ComboBasePrice float64          `json:"combo_base_price"`
	BasePrice      float64          `json:"base_price"`
	IsAvailable    bool             `json:"is_available"`
	IsVisible      bool             `json:"is_visible"`
	DisplayOrder   int              `json:"display_order"`
	TaxRate        float64          `json:"tax_rate"`
	PriceWithTax   float64          `json:"price_with_tax"`
	Groups         []ComboGroupView `json:"groups"`
}

type ComboGroupView struct {
	ID           uint            `json:"id"`
	Name         string          `json:"name"`
	MinSelect    int             `json:"min_select"`
	MaxSelect    int             `json:"max_select"`
	IsRequired   bool            `json:"is_required"`
	DisplayOrder int             `json:"display_order"`
	Items        []ComboItemView `json:"items"`
}

type ComboItemView struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"product_id"`
	PriceDelta   float64 `json:"price_delta"`
	DisplayOrder int     `json:"display_order"`
}

func newRestaurantView(r model.Restaurant) RestaurantView {
	return RestaurantView{
		ID:          r.ID,
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		LogoURL:     r.LogoURL,
		Currency:    r.Currency,
		IsActive:    r.IsActive,
		UpdatedAt:   r.UpdatedAt,
	}
}

func newBranchView(b model.Branch) BranchView {
	return BranchView{
		ID:           b.ID,
		RestaurantID: b.RestaurantID,
		Name:         b.Name,
		Address:      b.Address,
		PhoneNumber:  b.PhoneNumber,
		IsVirtual:    b.IsVirtual,
		IsActive:     b.IsActive,
		DisplayOrder: b.DisplayOrder,
	}
}

func newCategoryView(c model.Category) CategoryView {
	return CategoryView{
		ID:           c.ID,
		RestaurantID: c.RestaurantID,
		Name:         c.Name,
		DisplayOrder: c.DisplayOrder,
	}
}
