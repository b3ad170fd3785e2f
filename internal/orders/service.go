package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/pkg/db/models"
	"github.com/tiendalink/backend/pkg/enums"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes order submission and the merchant order dashboard.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error)
	List(ctx context.Context, storeID uuid.UUID, params ListParams) (*Page, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*OrderDTO, error)
	UpdateStatus(ctx context.Context, storeID, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds an order service with the provided repository and
// transaction runner.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// SubmitInput is a cart snapshot ready to become an order.
type SubmitInput struct {
	StoreID         uuid.UUID
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	Note            string
	Items           []SubmitItem
}

// SubmitItem is one frozen cart line.
type SubmitItem struct {
	ProductID       uuid.UUID
	Title           string
	UnitPrice       decimal.Decimal
	Quantity        int
	SelectedVariant string
}

// ListParams narrows and pages the merchant order list.
type ListParams struct {
	Status string
	Limit  int
	Cursor string
}

// Submit persists the order and its items in a single transaction so
// a failed item write never leaves a headless order behind.
func (s *service) Submit(ctx context.Context, input SubmitInput) (*OrderDTO, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.CustomerAddress = strings.TrimSpace(input.CustomerAddress)
	input.Note = strings.TrimSpace(input.Note)

	if input.StoreID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is required")
	}
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	order := &models.Order{
		StoreID:         input.StoreID,
		Status:          enums.OrderStatusPending,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		Note:            input.Note,
		Items:           make([]models.OrderItem, 0, len(input.Items)),
	}

	total := decimal.Zero
	for _, line := range input.Items {
		if line.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item is missing its product")
		}
		if strings.TrimSpace(line.Title) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item is missing its title")
		}
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item quantity must be positive")
		}
		if line.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order item price cannot be negative")
		}
		item := models.OrderItem{
			ProductID:       line.ProductID,
			Title:           strings.TrimSpace(line.Title),
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			SelectedVariant: strings.TrimSpace(line.SelectedVariant),
		}
		total = total.Add(item.Subtotal())
		order.Items = append(order.Items, item)
	}
	order.Total = total

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Create(ctx, order)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit order")
	}
	return FromModel(order), nil
}

// List pages the store's orders newest first with an optional status
// filter.
func (s *service) List(ctx context.Context, storeID uuid.UUID, params ListParams) (*Page, error) {
	filter := ListFilter{Limit: pagination.LimitWithBuffer(params.Limit)}

	if trimmed := strings.TrimSpace(params.Status); trimmed != "" {
		status := enums.OrderStatus(trimmed)
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
		}
		filter.Status = &status
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	filter.Cursor = cursor

	rows, err := s.repo.ListByStore(ctx, storeID, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	page := &Page{}
	limit := pagination.NormalizeLimit(params.Limit)
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	page.Orders = FromModels(rows)
	return page, nil
}

func (s *service) Get(ctx context.Context, storeID, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.loadOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return FromModel(order), nil
}

// UpdateStatus applies one lifecycle transition. Invalid moves are a
// state conflict, not a validation failure, so callers can tell "bad
// request" apart from "already delivered".
func (s *service) UpdateStatus(ctx context.Context, storeID, id uuid.UUID, next enums.OrderStatus) (*OrderDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}

	order, err := s.loadOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("order cannot move from %s to %s", order.Status, next))
	}

	order.Status = next
	if err := s.repo.UpdateStatus(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	return FromModel(order), nil
}

func (s *service) loadOwned(ctx context.Context, storeID, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, storeID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}
