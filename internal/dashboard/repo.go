package dashboard

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
)

// Repository runs the merchant home-screen count queries.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CountProducts(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountAvailableProducts(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND is_available = ?", storeID, true).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountCategories(ctx context.Context, storeID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("store_id = ?", storeID).
		Count(&count).Error
	return count, err
}

func (r *Repository) CountOrdersByStatus(ctx context.Context, storeID uuid.UUID, status enums.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("store_id = ? AND status = ?", storeID, status).
		Count(&count).Error
	return count, err
}
