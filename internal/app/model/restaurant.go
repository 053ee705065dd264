package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID          uint           `gorm:"primarykey" json:"id"`                  // 고유 레스토랑 ID (테넌트)
	Name        string         `gorm:"not null" json:"name"`                  // 레스토랑명
	Slug        string         `gorm:"uniqueIndex" json:"slug"`               // URL용 고유 식별자
	Description string         `gorm:"type:text" json:"description"`          // 소개
	LogoURL     string         `json:"logo_url"`                              // 로고 이미지
	Currency    string         `gorm:"type:varchar(3);default:'KRW'" json:"currency"`
	IsActive    bool           `gorm:"not null;index" json:"is_active"`       // 영업 여부
	CreatedAt   time.Time      `json:"created_at"`                            // 생성 시각
	UpdatedAt   time.Time      `json:"updated_at"`                            // 수정 시각
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                        // 삭제 시각(소프트 삭제)

	Branches []Branch `gorm:"foreignKey:RestaurantID" json:"branches,omitempty"`
}

func (Restaurant) TableName() string {
	return "restaurants"
}

// Branch 레스토랑의 지점 (물리 매장 또는 배달 전용 가상 매장)
type Branch struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	RestaurantID uint           `gorm:"index;not null" json:"restaurant_id"` // 소속 레스토랑 ID
	Name         string         `gorm:"not null" json:"name"`                // 지점명
	Address      string         `gorm:"type:text" json:"address"`            // 주소
	PhoneNumber  string         `gorm:"type:varchar(30)" json:"phone_number"`
	IsVirtual    bool           `gorm:"default:false" json:"is_virtual"` // 배달 전용 지점 여부
	IsActive     bool           `gorm:"not null;index" json:"is_active"`
	DisplayOrder int            `gorm:"default:0" json:"display_order"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Branch) TableName() string {
	return "branches"
}

var (
	slugInvalidChars = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashes       = regexp.MustCompile(`-+`)
)

// generateSlug는 레스토랑명으로 URL용 slug를 생성합니다
func generateSlug(name string) string {
	slug := slugInvalidChars.ReplaceAllString(name, "-")
	slug = slugDashes.ReplaceAllString(slug, "-")
	return strings.ToLower(strings.Trim(slug, "-"))
}

// BeforeCreate는 레스토랑 생성 전에 중복되지 않는 slug를 채웁니다
func (r *Restaurant) BeforeCreate(tx *gorm.DB) error {
	if r.Slug != "" {
		return nil
	}

	base := generateSlug(r.Name)
	if base == "" {
		base = "restaurant"
	}
	slug := base
	for counter := 2; ; counter++ {
		var count int64
		if err := tx.Model(&Restaurant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}

	r.Slug = slug
	return nil
}
