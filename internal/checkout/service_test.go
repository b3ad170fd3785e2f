package checkout

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tiendalink/backend/internal/cart"
	"github.com/tiendalink/backend/internal/orders"
	"github.com/tiendalink/backend/pkg/db/models"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/events"
	"github.com/tiendalink/backend/pkg/logger"
)

type stubStoreFinder struct {
	store *models.Store
	err   error
}

func (s *stubStoreFinder) FindBySlug(_ context.Context, _ string) (*models.Store, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.store, nil
}

type stubSubmitter struct {
	input     orders.SubmitInput
	submitted *orders.OrderDTO
	err       error
}

func (s *stubSubmitter) Submit(_ context.Context, input orders.SubmitInput) (*orders.OrderDTO, error) {
	s.input = input
	if s.err != nil {
		return nil, s.err
	}
	total := decimal.Zero
	items := make([]orders.OrderItemDTO, 0, len(input.Items))
	for _, line := range input.Items {
		subtotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		total = total.Add(subtotal)
		items = append(items, orders.OrderItemDTO{
			ProductID: line.ProductID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  subtotal,
		})
	}
	s.submitted = &orders.OrderDTO{
		ID:           uuid.New(),
		StoreID:      input.StoreID,
		Total:        total,
		CustomerName: input.CustomerName,
		Items:        items,
	}
	return s.submitted, nil
}

type stubPublisher struct {
	events []events.OrderCreated
	err    error
}

func (s *stubPublisher) PublishOrderCreated(_ context.Context, evt events.OrderCreated) error {
	s.events = append(s.events, evt)
	return s.err
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func testStore() *models.Store {
	return &models.Store{
		ID:       uuid.New(),
		OwnerID:  uuid.New(),
		Slug:     "tienda-ana",
		Name:     "Tienda Ana",
		Phone:    "12345678",
		IsActive: true,
	}
}

func openCartWith(t *testing.T, items ...cart.LineItem) *cart.Store {
	t.Helper()
	store, err := cart.Open(context.Background(), cart.NewMemoryKV(), "tl:cart:test")
	require.NoError(t, err)
	for _, item := range items {
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		for i := 0; i < quantity; i++ {
			require.NoError(t, store.AddItem(context.Background(), item))
		}
	}
	return store
}

func TestSubmitEndToEnd(t *testing.T) {
	finder := &stubStoreFinder{store: testStore()}
	submitter := &stubSubmitter{}
	publisher := &stubPublisher{}
	svc := NewService(finder, submitter, publisher, testLogger())

	productA := uuid.New()
	productB := uuid.New()
	shopperCart := openCartWith(t,
		cart.LineItem{ProductID: productA.String(), Title: "Café molido", UnitPrice: decimal.NewFromInt(25), Quantity: 2},
		cart.LineItem{ProductID: productB.String(), Title: "Azúcar", UnitPrice: decimal.NewFromInt(40), Quantity: 1},
	)

	result, err := svc.Submit(context.Background(), Input{
		StoreSlug:    "tienda-ana",
		CustomerName: "Ana",
		Address:      "Zona 1",
		Cart:         shopperCart,
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, result.OrderID)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(90)), "got %s", result.Total)

	// the cart is cleared only after the order committed
	assert.Empty(t, shopperCart.Items())

	// link targets the store's normalized phone and carries the summary
	require.True(t, strings.HasPrefix(result.WhatsAppURL, "https://wa.me/50212345678?text="))
	decoded, err := url.QueryUnescape(strings.TrimPrefix(result.WhatsAppURL, "https://wa.me/50212345678?text="))
	require.NoError(t, err)
	assert.Contains(t, decoded, "Quiero hacer un pedido")
	assert.Contains(t, decoded, "2x Café molido")
	assert.Contains(t, decoded, "TOTAL A PAGAR: Q90")
	assert.Contains(t, decoded, "Nombre: Ana")
	assert.Contains(t, decoded, "Dirección: Zona 1")

	// the address is persisted with the order, not just rendered into the message
	assert.Equal(t, "Zona 1", submitter.input.CustomerAddress)

	// fire-and-forget event carries the committed order
	require.Len(t, publisher.events, 1)
	assert.Equal(t, result.OrderID, publisher.events[0].OrderID)
	assert.Equal(t, 2, publisher.events[0].ItemCount)
}

func TestSubmitRequiresCustomerName(t *testing.T) {
	svc := NewService(&stubStoreFinder{store: testStore()}, &stubSubmitter{}, nil, testLogger())
	shopperCart := openCartWith(t, cart.LineItem{ProductID: uuid.NewString(), Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "  ", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitRejectsEmptyCart(t *testing.T) {
	svc := NewService(&stubStoreFinder{store: testStore()}, &stubSubmitter{}, nil, testLogger())
	shopperCart := openCartWith(t)

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "Ana", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitHiddenStoreIsNotFound(t *testing.T) {
	hidden := testStore()
	hidden.IsActive = false
	svc := NewService(&stubStoreFinder{store: hidden}, &stubSubmitter{}, nil, testLogger())
	shopperCart := openCartWith(t, cart.LineItem{ProductID: uuid.NewString(), Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "Ana", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSubmitMissingStore(t *testing.T) {
	svc := NewService(&stubStoreFinder{err: gorm.ErrRecordNotFound}, &stubSubmitter{}, nil, testLogger())
	shopperCart := openCartWith(t, cart.LineItem{ProductID: uuid.NewString(), Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "no-existe", CustomerName: "Ana", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSubmitKeepsCartWhenPersistenceFails(t *testing.T) {
	submitter := &stubSubmitter{err: pkgerrors.Wrap(pkgerrors.CodeDependency, errors.New("insert failed"), "submit order")}
	publisher := &stubPublisher{}
	svc := NewService(&stubStoreFinder{store: testStore()}, submitter, publisher, testLogger())

	shopperCart := openCartWith(t, cart.LineItem{ProductID: uuid.NewString(), Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "Ana", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeDependency, pkgerrors.As(err).Code())

	// retry still has the items
	assert.Len(t, shopperCart.Items(), 1)
	assert.Empty(t, publisher.events)
}

func TestSubmitRejectsMalformedProductID(t *testing.T) {
	svc := NewService(&stubStoreFinder{store: testStore()}, &stubSubmitter{}, nil, testLogger())
	shopperCart := openCartWith(t, cart.LineItem{ProductID: "not-a-uuid", Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	_, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "Ana", Cart: shopperCart})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSubmitSucceedsWhenPublishFails(t *testing.T) {
	publisher := &stubPublisher{err: errors.New("broker unavailable")}
	svc := NewService(&stubStoreFinder{store: testStore()}, &stubSubmitter{}, publisher, testLogger())

	shopperCart := openCartWith(t, cart.LineItem{ProductID: uuid.NewString(), Title: "Café", UnitPrice: decimal.NewFromInt(10)})

	result, err := svc.Submit(context.Background(), Input{StoreSlug: "tienda-ana", CustomerName: "Ana", Cart: shopperCart})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.OrderID)
}
