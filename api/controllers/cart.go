package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tiendalink/backend/api/middleware"
	"github.com/tiendalink/backend/api/responses"
	"github.com/tiendalink/backend/api/validators"
	"github.com/tiendalink/backend/internal/cart"
	"github.com/tiendalink/backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID       string          `json:"product_id" validate:"required,uuid"`
	Title           string          `json:"title" validate:"required,min=1,max=160"`
	UnitPrice       decimal.Decimal `json:"unit_price" validate:"required"`
	ImageURL        string          `json:"image_url" validate:"omitempty,url"`
	SelectedVariant json.RawMessage `json:"selected_variant"`
}

// variant returns the selected variant when the client sent a plain
// string. Other shapes (objects, numbers) degrade to absent, matching
// how persisted snapshots are rehydrated.
func (r addCartItemRequest) variant() string {
	if len(r.SelectedVariant) == 0 {
		return ""
	}
	var variant string
	if err := json.Unmarshal(r.SelectedVariant, &variant); err != nil {
		return ""
	}
	return variant
}

type cartView struct {
	Items []cart.LineItem `json:"items"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

func viewOf(store *cart.Store) cartView {
	items := store.Items()
	if items == nil {
		items = []cart.LineItem{}
	}
	return cartView{Items: items, Total: store.Total(), Count: store.Count()}
}

func openCart(svc *cart.Service, w http.ResponseWriter, r *http.Request) (*cart.Store, error) {
	store, token, err := svc.Open(r.Context(), middleware.CartTokenFromContext(r.Context()))
	if err != nil {
		return nil, err
	}
	// The shopper stores the echoed token and replays it on every
	// cart request.
	w.Header().Set(middleware.CartTokenHeader, token)
	return store, nil
}

// CartGet returns the shopper's current cart, minting a token when the
// request carried none.
func CartGet(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := openCart(svc, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartAddItem adds a product snapshot or bumps its quantity.
func CartAddItem(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := openCart(svc, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.AddItem(r.Context(), cart.LineItem{
			ProductID:       req.ProductID,
			Title:           req.Title,
			UnitPrice:       req.UnitPrice,
			ImageURL:        req.ImageURL,
			SelectedVariant: req.variant(),
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartRemoveItem drops a product from the cart.
func CartRemoveItem(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := openCart(svc, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.RemoveItem(r.Context(), chi.URLParam(r, "productID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}

// CartClear empties the cart.
func CartClear(svc *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store, err := openCart(svc, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Clear(r.Context()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewOf(store))
	}
}
