package storefront

import (
	"github.com/google/uuid"

	"github.com/tiendalink/backend/internal/products"
	"github.com/tiendalink/backend/pkg/db/models"
)

// StoreInfo is the public storefront header: no owner or lifecycle
// fields leak to shoppers.
type StoreInfo struct {
	ID           uuid.UUID `json:"id"`
	Slug         string    `json:"slug"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	PrimaryColor string    `json:"primary_color"`
	LogoURL      *string   `json:"logo_url,omitempty"`
}

// Section groups the products shown under one category heading. The
// trailing uncategorized section has a nil category id.
type Section struct {
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	Name       string                `json:"name,omitempty"`
	Products   []products.ProductDTO `json:"products"`
}

// StorefrontDTO is the full public catalog payload for one store.
type StorefrontDTO struct {
	Store    StoreInfo `json:"store"`
	Sections []Section `json:"sections"`
}

func storeInfoFromModel(m *models.Store) StoreInfo {
	info := StoreInfo{
		ID:           m.ID,
		Slug:         m.Slug,
		Name:         m.Name,
		Phone:        m.Phone,
		PrimaryColor: m.PrimaryColor,
	}
	if m.LogoURL != nil {
		cpy := *m.LogoURL
		info.LogoURL = &cpy
	}
	return info
}
