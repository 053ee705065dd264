package model

import (
	"time"

	"gorm.io/gorm"
)

// Combo 세트 메뉴
type Combo struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"`
	Name         string         `gorm:"not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	ImageURL     string         `json:"image_url"`
	BasePrice    float64        `gorm:"not null;default:0" json:"base_price"`
	IsActive     bool           `gorm:"not null" json:"is_active"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Groups []ComboGroup `gorm:"foreignKey:ComboID" json:"groups,omitempty"`
}

func (Combo) TableName() string {
	return "combos"
}

// ComboGroup 세트 구성 그룹 (예: "메인 선택", "사이드 선택")
type ComboGroup struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ComboID      uint      `gorm:"index;not null" json:"combo_id"`
	Name         string    `gorm:"not null" json:"name"`
	MinSelect    int       `gorm:"default:0" json:"min_select"`
	MaxSelect    int       `gorm:"default:1" json:"max_select"`
	IsRequired   bool      `gorm:"default:false" json:"is_required"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Items []ComboGroupItem `gorm:"foreignKey:ComboGroupID" json:"items,omitempty"`
}

func (ComboGroup) TableName() string {
	return "combo_groups"
}

type ComboGroupItem struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	ComboGroupID uint      `gorm:"index;not null" json:"combo_group_id"`
	ProductID    uint      `gorm:"index;not null" json:"product_id"`
	PriceDelta   float64   `gorm:"default:0" json:"price_delta"`
	DisplayOrder int       `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (ComboGroupItem) TableName() string {
	return "combo_group_items"
}

// BranchCombo 지점별 세트 메뉴 설정. 행이 없으면 해당 지점에 노출되지 않는다
type BranchCombo struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	BranchID          uint      `gorm:"not null;uniqueIndex:idx_branch_combo" json:"branch_id"`
	ComboID           uint      `gorm:"not null;uniqueIndex:idx_branch_combo" json:"combo_id"`
	BasePriceOverride *float64  `json:"base_price_override"`
	IsAvailable       *bool     `json:"is_available"`
	IsVisible         *bool     `json:"is_visible"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (BranchCombo) TableName() string {
	return "branch_combos"
}
