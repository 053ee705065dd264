package model

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"` // 소속 레스토랑 ID
	Name         string         `gorm:"not null" json:"name"`                // 카테고리명 (예: "메인", "음료")
	DisplayOrder int            `gorm:"default:0" json:"display_order"`      // 노출 순서
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Branches []CategoryBranch `gorm:"foreignKey:CategoryID" json:"branches,omitempty"` // 지점별 노출 설정
}

func (Category) TableName() string {
	return "categories"
}

// CategoryBranch 지점별 카테고리 노출 설정
type CategoryBranch struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_category_branch" json:"category_id"`
	BranchID   uint      `gorm:"not null;uniqueIndex:idx_category_branch" json:"branch_id"`
	IsActive   bool      `gorm:"not null" json:"is_active"`
	IsVisible  bool      `gorm:"not null" json:"is_visible"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (CategoryBranch) TableName() string {
	return "category_branches"
}
