package model

import "time"

type TaxScope string

const (
	TaxScopeRestaurant    TaxScope = "restaurant"
	TaxScopeBranch        TaxScope = "branch"
	TaxScopeProduct       TaxScope = "product"
	TaxScopeBranchProduct TaxScope = "branch_product"
)

// TaxTemplate 세금 규칙 템플릿 (예: VAT)
type TaxTemplate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Code      string    `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TaxTemplate) TableName() string {
	return "tax_templates"
}

// TaxAssignment 범위(scope)별 세율 지정
// 동일 대상에 여러 건이 있을 수 있으며 priority가 낮을수록 먼저 적용된다
type TaxAssignment struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	TaxTemplateID uint       `gorm:"index;not null" json:"tax_template_id"`
	Scope         TaxScope   `gorm:"type:varchar(20);index;not null" json:"scope"`
	RestaurantID  *uint      `gorm:"index" json:"restaurant_id"` // scope=restaurant
	BranchID      *uint      `gorm:"index" json:"branch_id"`     // scope=branch, branch_product
	ProductID     *uint      `gorm:"index" json:"product_id"`    // scope=product, branch_product
	RatePercent   *float64   `json:"rate_percent"`               // 세율 (%). null이면 상위 범위로 넘어간다
	Priority      *int       `json:"priority"`                   // null이면 범위별 기본값
	IsDefault     bool       `gorm:"default:false" json:"is_default"`
	IsActive      bool       `gorm:"not null" json:"is_active"`
	ActiveFrom    *time.Time `json:"active_from"` // 적용 시작 (포함)
	ActiveTo      *time.Time `json:"active_to"`   // 적용 종료 (미포함)
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	TaxTemplate *TaxTemplate `gorm:"foreignKey:TaxTemplateID" json:"tax_template,omitempty"`
}

func (TaxAssignment) TableName() string {
	return "tax_assignments"
}
