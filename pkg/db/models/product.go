package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry. Images and variants are
// persisted in the same transaction as the product itself.
type Product struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     uuid.UUID        `gorm:"column:store_id;type:uuid;not null;index"`
	CategoryID  *uuid.UUID       `gorm:"column:category_id;type:uuid;index"`
	Title       string           `gorm:"column:title;not null"`
	Description string           `gorm:"column:description"`
	Price       decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	IsAvailable bool             `gorm:"column:is_available;not null;default:true"`
	SortOrder   int              `gorm:"column:sort_order;not null;default:0"`
	Images      []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Variants    []ProductVariant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// PrimaryImageURL returns the URL of the lowest-positioned image, or
// the empty string when the product has none.
func (p *Product) PrimaryImageURL() string {
	if len(p.Images) == 0 {
		return ""
	}
	primary := p.Images[0]
	for _, img := range p.Images[1:] {
		if img.Position < primary.Position {
			primary = img
		}
	}
	return primary.URL
}
