package model

import (
	"time"

	"gorm.io/gorm"
)

type SelectionType string

const (
	SelectionSingle   SelectionType = "single"
	SelectionMultiple SelectionType = "multiple"
)

// OptionGroup 옵션 그룹 (예: "사이즈", "토핑")
type OptionGroup struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	RestaurantID  uint           `gorm:"index;not null" json:"restaurant_id"`
	Name          string         `gorm:"not null" json:"name"`
	SelectionType SelectionType  `gorm:"type:varchar(20);default:'single'" json:"selection_type"`
	MinSelect     *int           `json:"min_select"`
	MaxSelect     *int           `json:"max_select"`
	IsRequired    *bool          `json:"is_required"`
	DisplayOrder  *int           `json:"display_order"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Items []OptionItem `gorm:"foreignKey:GroupID" json:"items,omitempty"`
}

func (OptionGroup) TableName() string {
	return "option_groups"
}

// OptionItem 옵션 그룹 내 선택 항목
type OptionItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	GroupID      uint           `gorm:"index;not null" json:"group_id"`
	Name         string         `gorm:"not null" json:"name"`
	PriceDelta   float64        `gorm:"default:0" json:"price_delta"` // 추가 금액
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (OptionItem) TableName() string {
	return "option_items"
}

// ProductOptionGroup 상품-옵션 그룹 연결. 상품 단위의 min/max/required 값을 가진다
type ProductOptionGroup struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ProductID    uint      `gorm:"not null;uniqueIndex:idx_product_option_group" json:"product_id"`
	GroupID      uint      `gorm:"not null;uniqueIndex:idx_product_option_group" json:"group_id"`
	MinSelect    *int      `json:"min_select"`
	MaxSelect    *int      `json:"max_select"`
	IsRequired   *bool     `json:"is_required"`
	DisplayOrder *int      `json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Group OptionGroup `gorm:"foreignKey:GroupID" json:"group"`
}

func (ProductOptionGroup) TableName() string {
	return "product_option_groups"
}

type OverrideTarget string

const (
	OverrideTargetGroup OverrideTarget = "group"
	OverrideTargetItem  OverrideTarget = "item"
)

// BranchOptionOverride 지점 또는 지점-상품 단위의 옵션 그룹/항목 오버라이드
// branch_product_id가 있으면 branch_id보다 우선한다
// price_delta_override가 null이면 기본 추가 금액으로 되돌린다
type BranchOptionOverride struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	BranchID           *uint          `gorm:"index" json:"branch_id"`
	BranchProductID    *uint          `gorm:"index" json:"branch_product_id"`
	TargetType         OverrideTarget `gorm:"type:varchar(10);not null" json:"target_type"`
	TargetID           uint           `gorm:"index;not null" json:"target_id"`
	IsActive           *bool          `json:"is_active"`
	IsAvailable        *bool          `json:"is_available"`
	IsVisible          *bool          `json:"is_visible"`
	PriceDeltaOverride *float64       `json:"price_delta_override"`
	MinSelect          *int           `json:"min_select"`
	MaxSelect          *int           `json:"max_select"`
	IsRequired         *bool          `json:"is_required"`
	DisplayOrder       *int           `json:"display_order"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
}

func (BranchOptionOverride) TableName() string {
	return "branch_option_overrides"
}
