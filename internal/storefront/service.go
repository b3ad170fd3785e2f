package storefront

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/internal/products"
	"github.com/tiendalink/backend/pkg/db/models"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type catalogRepository interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	ListCategories(ctx context.Context, storeID uuid.UUID) ([]models.Category, error)
	ListAvailableProducts(ctx context.Context, storeID uuid.UUID) ([]models.Product, error)
}

// Service serves the public, read-only storefront.
type Service struct {
	repo catalogRepository
}

func NewService(repo catalogRepository) *Service {
	return &Service{repo: repo}
}

// GetBySlug returns the full catalog for a visible store. Hidden
// stores (inactive or soft-deleted) are indistinguishable from
// missing ones.
func (s *Service) GetBySlug(ctx context.Context, slug string) (*StorefrontDTO, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store link is required")
	}

	store, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading store")
	}
	if !store.Visible() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	categories, err := s.repo.ListCategories(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading categories")
	}
	available, err := s.repo.ListAvailableProducts(ctx, store.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading products")
	}

	return &StorefrontDTO{
		Store:    storeInfoFromModel(store),
		Sections: buildSections(categories, available),
	}, nil
}

// buildSections groups products under their categories in category
// order, appending products without a category as a final section.
func buildSections(categories []models.Category, items []models.Product) []Section {
	byCategory := make(map[uuid.UUID][]models.Product)
	for i := range items {
		if items[i].CategoryID != nil {
			byCategory[*items[i].CategoryID] = append(byCategory[*items[i].CategoryID], items[i])
		}
	}

	sections := make([]Section, 0, len(categories)+1)
	listed := make(map[uuid.UUID]bool, len(categories))
	for i := range categories {
		cat := &categories[i]
		listed[cat.ID] = true
		grouped := byCategory[cat.ID]
		if len(grouped) == 0 {
			continue
		}
		id := cat.ID
		sections = append(sections, Section{
			CategoryID: &id,
			Name:       cat.Name,
			Products:   products.FromModels(grouped),
		})
	}
	// products without a category, or pointing at one the store no
	// longer lists, land in a trailing unlabelled section
	var uncategorized []models.Product
	for i := range items {
		if items[i].CategoryID == nil || !listed[*items[i].CategoryID] {
			uncategorized = append(uncategorized, items[i])
		}
	}
	if len(uncategorized) > 0 {
		sections = append(sections, Section{Products: products.FromModels(uncategorized)})
	}
	return sections
}
