package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/enums"
)

// Order is a submitted cart. Items are frozen copies of the catalog
// at submission time, so later product edits never rewrite history.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	StoreID       uuid.UUID         `gorm:"column:store_id;type:uuid;not null;index"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null"`
	CustomerName  string            `gorm:"column:customer_name"`
	CustomerPhone   string            `gorm:"column:customer_phone"`
	CustomerAddress string            `gorm:"column:customer_address"`
	Note            string            `gorm:"column:note"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime;index"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
