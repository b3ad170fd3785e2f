package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tiendalink/backend/api/middleware"
	productsvc "github.com/tiendalink/backend/internal/products"
	"github.com/tiendalink/backend/pkg/logger"
)

type stubProductService struct {
	created   *productsvc.ProductInput
	deleted   bool
	deletedID uuid.UUID
}

func (s *stubProductService) List(ctx context.Context, storeID uuid.UUID) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func (s *stubProductService) Get(ctx context.Context, storeID, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id}, nil
}

func (s *stubProductService) Create(ctx context.Context, storeID uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	s.created = &input
	return &productsvc.ProductDTO{ID: uuid.New(), Title: input.Title}, nil
}

func (s *stubProductService) Update(ctx context.Context, storeID, id uuid.UUID, input productsvc.ProductInput) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id, Title: input.Title}, nil
}

func (s *stubProductService) SetAvailable(ctx context.Context, storeID, id uuid.UUID, available bool) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id, IsAvailable: available}, nil
}

func (s *stubProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	s.deleted = true
	s.deletedID = id
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func storeContext(storeID uuid.UUID) context.Context {
	ctx := middleware.WithUserID(context.Background(), uuid.NewString())
	return middleware.WithStoreID(ctx, storeID.String())
}

func withRouteParam(ctx context.Context, key, value string) context.Context {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
}

func TestProductCreate(t *testing.T) {
	logg := testLogger()
	storeID := uuid.New()

	t.Run("missing store", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/products/", strings.NewReader(`{}`))
		req = req.WithContext(middleware.WithUserID(context.Background(), uuid.NewString()))
		rec := httptest.NewRecorder()
		ProductCreate(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403 when store missing, got %d", rec.Code)
		}
	})

	t.Run("rejects missing title", func(t *testing.T) {
		body := `{"price":"45.00"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/products/", strings.NewReader(body))
		req = req.WithContext(storeContext(storeID))
		rec := httptest.NewRecorder()
		ProductCreate(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for missing title, got %d", rec.Code)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		body := `{"title":"Café","price":"45.00","surprise":true}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/products/", strings.NewReader(body))
		req = req.WithContext(storeContext(storeID))
		rec := httptest.NewRecorder()
		ProductCreate(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
		}
	})

	t.Run("creates with images and variants", func(t *testing.T) {
		body := `{
			"title": "Café molido",
			"description": "Tueste medio",
			"price": "45.00",
			"images": [{"url": "https://cdn.example.com/cafe.jpg", "position": 0}],
			"variants": [{"type": "Tamaño", "value": "500g", "price_adjustment": "10.00"}]
		}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/merchant/products/", strings.NewReader(body))
		req = req.WithContext(storeContext(storeID))

		stub := &stubProductService{}
		rec := httptest.NewRecorder()
		ProductCreate(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201 on create, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.created == nil {
			t.Fatal("expected Create to be invoked")
		}
		if stub.created.Title != "Café molido" {
			t.Fatalf("unexpected title %q", stub.created.Title)
		}
		if len(stub.created.Images) != 1 || len(stub.created.Variants) != 1 {
			t.Fatalf("expected 1 image and 1 variant, got %d/%d",
				len(stub.created.Images), len(stub.created.Variants))
		}
		if stub.created.Variants[0].PriceAdjustment.String() != "10" {
			t.Fatalf("unexpected price adjustment %s", stub.created.Variants[0].PriceAdjustment)
		}
	})
}

func TestProductDelete(t *testing.T) {
	logg := testLogger()
	storeID := uuid.New()
	productID := uuid.New()

	t.Run("invalid product id", func(t *testing.T) {
		ctx := withRouteParam(storeContext(storeID), "productID", "not-a-uuid")
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/merchant/products/not-a-uuid", nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()
		ProductDelete(&stubProductService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for invalid id, got %d", rec.Code)
		}
	})

	t.Run("deletes by id", func(t *testing.T) {
		ctx := withRouteParam(storeContext(storeID), "productID", productID.String())
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/merchant/products/"+productID.String(), nil)
		req = req.WithContext(ctx)

		stub := &stubProductService{}
		rec := httptest.NewRecorder()
		ProductDelete(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 on delete, got %d", rec.Code)
		}
		if !stub.deleted || stub.deletedID != productID {
			t.Fatalf("expected Delete(%s) to be invoked", productID)
		}
	})
}
