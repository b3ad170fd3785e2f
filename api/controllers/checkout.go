package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendalink/backend/api/responses"
	"github.com/tiendalink/backend/api/validators"
	"github.com/tiendalink/backend/internal/cart"
	"github.com/tiendalink/backend/internal/checkout"
	"github.com/tiendalink/backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,min=1,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"max=30"`
	Address       string `json:"address" validate:"max=300"`
	Note          string `json:"note" validate:"max=500"`
}

// CheckoutSubmit turns the shopper's cart into an order and returns
// the WhatsApp handoff link.
func CheckoutSubmit(svc *checkout.Service, carts *cart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		store, err := openCart(carts, w, r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), checkout.Input{
			StoreSlug:     chi.URLParam(r, "slug"),
			CustomerName:  req.CustomerName,
			CustomerPhone: req.CustomerPhone,
			Address:       req.Address,
			Note:          req.Note,
			Cart:          store,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
