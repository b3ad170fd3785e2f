package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendalink/backend/api/responses"
	"github.com/tiendalink/backend/internal/storefront"
	"github.com/tiendalink/backend/pkg/logger"
)

// StorefrontGet serves the public catalog for a store slug.
func StorefrontGet(svc *storefront.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		front, err := svc.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, front)
	}
}
