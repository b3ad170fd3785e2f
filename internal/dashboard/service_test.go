package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
)

type stubStoreFinder struct {
	store *models.Store
	err   error
}

func (s *stubStoreFinder) FindByOwner(_ context.Context, _ uuid.UUID) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

type stubStatsRepo struct {
	products   int64
	available  int64
	categories int64
	pending    int64
	countErr   error
}

func (s *stubStatsRepo) CountProducts(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.products, s.countErr
}

func (s *stubStatsRepo) CountAvailableProducts(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.available, s.countErr
}

func (s *stubStatsRepo) CountCategories(_ context.Context, _ uuid.UUID) (int64, error) {
	return s.categories, s.countErr
}

func (s *stubStatsRepo) CountOrdersByStatus(_ context.Context, _ uuid.UUID, _ enums.OrderStatus) (int64, error) {
	return s.pending, s.countErr
}

func TestStatsAggregatesCounters(t *testing.T) {
	store := &models.Store{ID: uuid.New(), OwnerID: uuid.New(), Slug: "tienda-ana", Name: "Tienda Ana", IsActive: true}
	svc := NewService(
		&stubStoreFinder{store: store},
		&stubStatsRepo{products: 12, available: 9, categories: 3, pending: 2},
	)

	stats, err := svc.Stats(context.Background(), store.OwnerID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Store == nil || stats.Store.ID != store.ID {
		t.Fatalf("expected the merchant's store, got %+v", stats.Store)
	}
	if stats.TotalProducts != 12 || stats.ActiveProducts != 9 || stats.TotalCategories != 3 || stats.PendingOrders != 2 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
}

func TestStatsMissingStore(t *testing.T) {
	svc := NewService(&stubStoreFinder{err: gorm.ErrRecordNotFound}, &stubStatsRepo{})

	_, err := svc.Stats(context.Background(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStatsSurfacesCountFailures(t *testing.T) {
	store := &models.Store{ID: uuid.New(), OwnerID: uuid.New(), Slug: "tienda-ana"}
	svc := NewService(&stubStoreFinder{store: store}, &stubStatsRepo{countErr: errors.New("db down")})

	_, err := svc.Stats(context.Background(), store.OwnerID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
