package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductVariant is a single selectable option on a product, for
// example Type "Tamaño" with Value "Grande".
type ProductVariant struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	ProductID       uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	Type            string          `gorm:"column:type;not null"`
	Value           string          `gorm:"column:value;not null"`
	PriceAdjustment decimal.Decimal `gorm:"column:price_adjustment;type:numeric(12,2);not null"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (v *ProductVariant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// Descriptor renders the variant as shown to shoppers.
func (v *ProductVariant) Descriptor() string {
	return fmt.Sprintf("%s: %s", v.Type, v.Value)
}
