package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tiendalink/backend/pkg/db/models"
)

// ProductDTO exposes catalog product data in API responses.
type ProductDTO struct {
	ID          uuid.UUID       `json:"id"`
	StoreID     uuid.UUID       `json:"store_id"`
	CategoryID  *uuid.UUID      `json:"category_id,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
	SortOrder   int             `json:"sort_order"`
	Images      []ImageDTO      `json:"images"`
	Variants    []VariantDTO    `json:"variants"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ImageDTO is one product image with its display position.
type ImageDTO struct {
	ID       uuid.UUID `json:"id"`
	URL      string    `json:"url"`
	Position int       `json:"position"`
}

// VariantDTO is one selectable product option.
type VariantDTO struct {
	ID              uuid.UUID       `json:"id"`
	Type            string          `json:"type"`
	Value           string          `json:"value"`
	PriceAdjustment decimal.Decimal `json:"price_adjustment"`
	Descriptor      string          `json:"descriptor"`
}

// FromModel maps the persisted product into a DTO.
func FromModel(m *models.Product) *ProductDTO {
	if m == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          m.ID,
		StoreID:     m.StoreID,
		CategoryID:  m.CategoryID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		IsAvailable: m.IsAvailable,
		SortOrder:   m.SortOrder,
		Images:      make([]ImageDTO, 0, len(m.Images)),
		Variants:    make([]VariantDTO, 0, len(m.Variants)),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, img := range m.Images {
		dto.Images = append(dto.Images, ImageDTO{ID: img.ID, URL: img.URL, Position: img.Position})
	}
	for i := range m.Variants {
		v := &m.Variants[i]
		dto.Variants = append(dto.Variants, VariantDTO{
			ID:              v.ID,
			Type:            v.Type,
			Value:           v.Value,
			PriceAdjustment: v.PriceAdjustment,
			Descriptor:      v.Descriptor(),
		})
	}
	return dto
}

// FromModels maps a product slice preserving order.
func FromModels(ms []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, 0, len(ms))
	for i := range ms {
		dtos = append(dtos, *FromModel(&ms[i]))
	}
	return dtos
}
