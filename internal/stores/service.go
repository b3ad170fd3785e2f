package stores

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/db/models"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/phone"
)

var slugRe = regexp.MustCompile(`^[a-z0-9-]+$`)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) error
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
	Update(ctx context.Context, store *models.Store) error
}

// Service exposes store operations for the signed-in merchant.
type Service interface {
	GetMine(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error)
	Upsert(ctx context.Context, ownerID uuid.UUID, input UpsertStoreInput) (*StoreDTO, error)
	SetActive(ctx context.Context, ownerID uuid.UUID, active bool) (*StoreDTO, error)
	SoftDelete(ctx context.Context, ownerID uuid.UUID) error
	Recover(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error)
}

type service struct {
	repo storeRepository
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{repo: repo}, nil
}

// UpsertStoreInput captures the merchant-editable store fields.
type UpsertStoreInput struct {
	Name         string
	Slug         string
	Phone        string
	PrimaryColor *string
	LogoURL      *string
}

func (s *service) GetMine(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return FromModel(store), nil
}

// Upsert creates the merchant's store on first save and updates it on
// subsequent saves. The slug must be unique across all merchants.
func (s *service) Upsert(ctx context.Context, ownerID uuid.UUID, input UpsertStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	slug := strings.ToLower(strings.TrimSpace(input.Slug))

	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}
	if !slugRe.MatchString(slug) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug may only contain lowercase letters, numbers, and hyphens")
	}

	// reject a slug already held by another merchant
	existing, err := s.repo.FindBySlug(ctx, slug)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check slug")
	}
	if existing != nil && existing.OwnerID != ownerID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "that link is already taken")
	}

	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
		}
		store = &models.Store{OwnerID: ownerID}
	}

	store.Name = name
	store.Slug = slug
	store.Phone = phone.Normalize(input.Phone)
	if input.PrimaryColor != nil {
		store.PrimaryColor = *input.PrimaryColor
	}
	if input.LogoURL != nil {
		store.LogoURL = input.LogoURL
	}

	if store.ID == uuid.Nil {
		if err := s.repo.Create(ctx, store); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
		}
	} else if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}

	return FromModel(store), nil
}

func (s *service) SetActive(ctx context.Context, ownerID uuid.UUID, active bool) (*StoreDTO, error) {
	store, err := s.loadOwned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if store.DeletedAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "store is deleted")
	}

	store.IsActive = active
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update store")
	}
	return FromModel(store), nil
}

func (s *service) SoftDelete(ctx context.Context, ownerID uuid.UUID) error {
	store, err := s.loadOwned(ctx, ownerID)
	if err != nil {
		return err
	}
	if store.DeletedAt != nil {
		return nil
	}

	now := time.Now().UTC()
	store.DeletedAt = &now
	store.IsActive = false
	if err := s.repo.Update(ctx, store); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete store")
	}
	return nil
}

func (s *service) Recover(ctx context.Context, ownerID uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadOwned(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if store.DeletedAt == nil {
		return FromModel(store), nil
	}

	store.DeletedAt = nil
	store.IsActive = true
	if err := s.repo.Update(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recover store")
	}
	return FromModel(store), nil
}

func (s *service) loadOwned(ctx context.Context, ownerID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}
