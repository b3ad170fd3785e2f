package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/db/models"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog product operations scoped to one store.
type Service interface {
	List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*ProductDTO, error)
	Create(ctx context.Context, storeID uuid.UUID, input ProductInput) (*ProductDTO, error)
	Update(ctx context.Context, storeID, id uuid.UUID, input ProductInput) (*ProductDTO, error)
	SetAvailable(ctx context.Context, storeID, id uuid.UUID, available bool) (*ProductDTO, error)
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a product service with the provided repository
// and transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// ProductInput captures the merchant-editable product fields.
type ProductInput struct {
	Title       string
	Description string
	Price       decimal.Decimal
	CategoryID  *uuid.UUID
	IsAvailable *bool
	SortOrder   int
	Images      []ImageInput
	Variants    []VariantInput
}

// ImageInput is one image URL with its display position.
type ImageInput struct {
	URL      string
	Position int
}

// VariantInput is one selectable option on the product.
type VariantInput struct {
	Type            string
	Value           string
	PriceAdjustment decimal.Decimal
}

func (s *service) List(ctx context.Context, storeID uuid.UUID) ([]ProductDTO, error) {
	products, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return FromModels(products), nil
}

func (s *service) Get(ctx context.Context, storeID, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(product), nil
}

// Create writes the product with its images and variants in a single
// transaction. A product row without its associations never survives
// a partial failure.
func (s *service) Create(ctx context.Context, storeID uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		IsAvailable: true,
		SortOrder:   input.SortOrder,
		Images:      imagesFromInput(input.Images),
		Variants:    variantsFromInput(input.Variants),
	}
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, product)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return FromModel(product), nil
}

func (s *service) Update(ctx context.Context, storeID, id uuid.UUID, input ProductInput) (*ProductDTO, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product, err := s.loadOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	product.Title = strings.TrimSpace(input.Title)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.CategoryID = input.CategoryID
	product.SortOrder = input.SortOrder
	if input.IsAvailable != nil {
		product.IsAvailable = *input.IsAvailable
	}

	images := imagesFromInput(input.Images)
	variants := variantsFromInput(input.Variants)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.Update(ctx, product); err != nil {
			return err
		}
		if err := repo.ReplaceImages(ctx, product.ID, images); err != nil {
			return err
		}
		return repo.ReplaceVariants(ctx, product.ID, variants)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	product.Images = images
	product.Variants = variants
	return FromModel(product), nil
}

func (s *service) SetAvailable(ctx context.Context, storeID, id uuid.UUID, available bool) (*ProductDTO, error) {
	product, err := s.loadOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	product.IsAvailable = available
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return FromModel(product), nil
}

func (s *service) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) loadOwned(ctx context.Context, storeID, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func validateInput(input ProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product title is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	for _, v := range input.Variants {
		if strings.TrimSpace(v.Type) == "" || strings.TrimSpace(v.Value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant type and value are required")
		}
	}
	for _, img := range input.Images {
		if strings.TrimSpace(img.URL) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
		}
	}
	return nil
}

func imagesFromInput(inputs []ImageInput) []models.ProductImage {
	images := make([]models.ProductImage, 0, len(inputs))
	for _, in := range inputs {
		images = append(images, models.ProductImage{
			URL:      strings.TrimSpace(in.URL),
			Position: in.Position,
		})
	}
	return images
}

func variantsFromInput(inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, in := range inputs {
		variants = append(variants, models.ProductVariant{
			Type:            strings.TrimSpace(in.Type),
			Value:           strings.TrimSpace(in.Value),
			PriceAdjustment: in.PriceAdjustment,
		})
	}
	return variants
}
