package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/internal/stores"
	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type storeFinder interface {
	FindByOwner(ctx context.Context, ownerID uuid.UUID) (*models.Store, error)
}

type statsRepository interface {
	CountProducts(ctx context.Context, storeID uuid.UUID) (int64, error)
	CountAvailableProducts(ctx context.Context, storeID uuid.UUID) (int64, error)
	CountCategories(ctx context.Context, storeID uuid.UUID) (int64, error)
	CountOrdersByStatus(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus) (int64, error)
}

// StatsDTO is the merchant home-screen summary.
type StatsDTO struct {
	Store           *stores.StoreDTO `json:"store"`
	TotalProducts   int64            `json:"total_products"`
	ActiveProducts  int64            `json:"active_products"`
	TotalCategories int64            `json:"total_categories"`
	PendingOrders   int64            `json:"pending_orders"`
}

// Service aggregates the merchant dashboard counters.
type Service struct {
	stores storeFinder
	repo   statsRepository
}

func NewService(finder storeFinder, repo statsRepository) *Service {
	return &Service{stores: finder, repo: repo}
}

// Stats loads the merchant's store and its catalog and order counts.
func (s *Service) Stats(ctx context.Context, ownerID uuid.UUID) (*StatsDTO, error) {
	store, err := s.stores.FindByOwner(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}

	stats := &StatsDTO{Store: stores.FromModel(store)}

	if stats.TotalProducts, err = s.repo.CountProducts(ctx, store.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	if stats.ActiveProducts, err = s.repo.CountAvailableProducts(ctx, store.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active products")
	}
	if stats.TotalCategories, err = s.repo.CountCategories(ctx, store.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count categories")
	}
	if stats.PendingOrders, err = s.repo.CountOrdersByStatus(ctx, store.ID, enums.OrderStatusPending); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending orders")
	}
	return stats, nil
}
