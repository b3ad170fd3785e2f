package stores

import (
	"time"

	"github.com/google/uuid"

	"github.com/tiendalink/backend/pkg/db/models"
)

// StoreDTO exposes safe store data in API responses.
type StoreDTO struct {
	ID           uuid.UUID  `json:"id"`
	OwnerID      uuid.UUID  `json:"owner_id"`
	Slug         string     `json:"slug"`
	Name         string     `json:"name"`
	Phone        string     `json:"phone"`
	PrimaryColor string     `json:"primary_color"`
	LogoURL      *string    `json:"logo_url,omitempty"`
	IsActive     bool       `json:"is_active"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:           m.ID,
		OwnerID:      m.OwnerID,
		Slug:         m.Slug,
		Name:         m.Name,
		Phone:        m.Phone,
		PrimaryColor: m.PrimaryColor,
		IsActive:     m.IsActive,
		DeletedAt:    m.DeletedAt,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.LogoURL != nil {
		cpy := *m.LogoURL
		dto.LogoURL = &cpy
	}
	return dto
}
