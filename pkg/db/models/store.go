package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store represents the canonical tenant model: one storefront per merchant.
type Store struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	OwnerID      uuid.UUID  `gorm:"column:owner_id;type:uuid;not null;uniqueIndex"`
	Slug         string     `gorm:"column:slug;not null;uniqueIndex"`
	Name         string     `gorm:"column:name;not null"`
	Phone        string     `gorm:"column:phone;not null"`
	PrimaryColor string     `gorm:"column:primary_color;not null;default:'#16a34a'"`
	LogoURL      *string    `gorm:"column:logo_url"`
	IsActive     bool       `gorm:"column:is_active;not null;default:true"`
	DeletedAt    *time.Time `gorm:"column:deleted_at"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Store) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Visible reports whether the storefront may be served publicly.
func (s *Store) Visible() bool {
	return s.IsActive && s.DeletedAt == nil
}
