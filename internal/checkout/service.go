package checkout

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/internal/cart"
	"github.com/tiendalink/backend/internal/orders"
	"github.com/tiendalink/backend/pkg/db/models"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/events"
	"github.com/tiendalink/backend/pkg/logger"
	"github.com/tiendalink/backend/pkg/whatsapp"
)

type storeFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Store, error)
}

type orderSubmitter interface {
	Submit(ctx context.Context, input orders.SubmitInput) (*orders.OrderDTO, error)
}

type eventPublisher interface {
	PublishOrderCreated(ctx context.Context, evt events.OrderCreated) error
}

// Service turns a shopper's cart into a persisted order and the
// WhatsApp deep link that relays it to the merchant.
type Service struct {
	stores    storeFinder
	orders    orderSubmitter
	publisher eventPublisher
	logg      *logger.Logger
}

func NewService(stores storeFinder, submitter orderSubmitter, publisher eventPublisher, logg *logger.Logger) *Service {
	return &Service{stores: stores, orders: submitter, publisher: publisher, logg: logg}
}

// Input is the checkout form plus the open cart it submits.
type Input struct {
	StoreSlug     string
	CustomerName  string
	CustomerPhone string
	Address       string
	Note          string
	Cart          *cart.Store
}

// Result is returned to the shopper after a successful submission.
type Result struct {
	OrderID     uuid.UUID       `json:"order_id"`
	Total       decimal.Decimal `json:"total"`
	WhatsAppURL string          `json:"whatsapp_url"`
}

// Submit validates the form, persists the order atomically, composes
// the WhatsApp link from the same cart snapshot, and clears the cart.
// The cart is left untouched when persistence fails, so the shopper
// can retry.
func (s *Service) Submit(ctx context.Context, input Input) (*Result, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	if input.CustomerName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if input.Cart == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is required")
	}

	items := input.Cart.Items()
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	store, err := s.visibleStore(ctx, input.StoreSlug)
	if err != nil {
		return nil, err
	}

	submitItems := make([]orders.SubmitItem, 0, len(items))
	for _, line := range items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart contains an unknown product")
		}
		submitItems = append(submitItems, orders.SubmitItem{
			ProductID:       productID,
			Title:           line.Title,
			UnitPrice:       line.UnitPrice,
			Quantity:        line.Quantity,
			SelectedVariant: line.SelectedVariant,
		})
	}

	order, err := s.orders.Submit(ctx, orders.SubmitInput{
		StoreID:         store.ID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.Address,
		Note:            input.Note,
		Items:           submitItems,
	})
	if err != nil {
		return nil, err
	}

	link := whatsapp.OrderLink(store.Phone, messageLines(items), whatsapp.Details{
		Name:    input.CustomerName,
		Address: strings.TrimSpace(input.Address),
		Note:    strings.TrimSpace(input.Note),
	})

	if err := input.Cart.Clear(ctx); err != nil && s.logg != nil {
		s.logg.Error(ctx, "clearing cart after checkout", err)
	}

	s.publishOrderCreated(ctx, order)

	return &Result{
		OrderID:     order.ID,
		Total:       order.Total,
		WhatsAppURL: link,
	}, nil
}

func (s *Service) visibleStore(ctx context.Context, slug string) (*models.Store, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store link is required")
	}
	store, err := s.stores.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading store")
	}
	if !store.Visible() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

// publishOrderCreated is fire-and-forget: a broker outage never fails
// a checkout that already committed.
func (s *Service) publishOrderCreated(ctx context.Context, order *orders.OrderDTO) {
	if s.publisher == nil {
		return
	}
	evt := events.OrderCreated{
		OrderID:   order.ID,
		StoreID:   order.StoreID,
		Total:     order.Total,
		ItemCount: len(order.Items),
		CreatedAt: order.CreatedAt,
	}
	if err := s.publisher.PublishOrderCreated(ctx, evt); err != nil && s.logg != nil {
		s.logg.Error(ctx, "publishing order created event", err)
	}
}

func messageLines(items []cart.LineItem) []whatsapp.Line {
	lines := make([]whatsapp.Line, 0, len(items))
	for _, item := range items {
		title := item.Title
		if item.SelectedVariant != "" {
			title = title + " (" + item.SelectedVariant + ")"
		}
		lines = append(lines, whatsapp.Line{
			Title:     title,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return lines
}
