package middleware

import (
	"net/http"

	"github.com/tiendalink/backend/api/responses"
	pkgerrors "github.com/tiendalink/backend/pkg/errors"
	"github.com/tiendalink/backend/pkg/logger"
)

// StoreContext rejects requests whose token carries no store. Catalog
// and order routes require the merchant to have created a store first.
func StoreContext(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if StoreIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "create your store first"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
