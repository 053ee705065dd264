package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"` // 소속 레스토랑 ID
	CategoryID   *uint          `gorm:"index" json:"category_id"`            // 카테고리 ID (미분류는 null)
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `json:"image_url"`
	BasePrice    float64        `gorm:"not null;default:0" json:"base_price"` // 레스토랑 기준 가격 (세전)
	IsAvailable  bool           `gorm:"not null" json:"is_available"`         // 판매 가능 여부
	IsVisible    bool           `gorm:"not null" json:"is_visible"`           // 메뉴 노출 여부
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}

type PriceMode string

const (
	PriceModeInherit  PriceMode = "inherit"  // 레스토랑 기준 가격 사용
	PriceModeOverride PriceMode = "override" // 지점 가격 사용
)

// BranchProduct 지점의 상품 채택 정보 (가격/판매 여부/재고)
// 레코드가 없으면 지점은 기준 상품을 그대로 상속한다
type BranchProduct struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	BranchID          uint      `gorm:"not null;uniqueIndex:idx_branch_product" json:"branch_id"`
	ProductID         uint      `gorm:"not null;uniqueIndex:idx_branch_product;index" json:"product_id"`
	PriceMode         PriceMode `gorm:"type:varchar(20);default:'inherit'" json:"price_mode"`
	BasePriceOverride *float64  `json:"base_price_override"` // 지점 가격 (price_mode=override 일 때만 사용)
	IsAvailable       bool      `gorm:"not null" json:"is_available"`
	IsVisible         bool      `gorm:"not null" json:"is_visible"`
	StockQuantity     *int      `json:"stock_quantity"`    // 재고 수량
	ReservedQuantity  *int      `json:"reserved_quantity"` // 주문 대기 중 수량
	DailyLimit        *int      `json:"daily_limit"`       // 일일 판매 한도
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (BranchProduct) TableName() string {
	return "branch_products"
}
