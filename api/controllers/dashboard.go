package controllers

import (
	"net/http"

	"github.com/tiendalink/backend/api/responses"
	"github.com/tiendalink/backend/internal/dashboard"
	"github.com/tiendalink/backend/pkg/logger"
)

// DashboardStats summarizes the merchant's store, catalog, and order
// queue in one shot.
func DashboardStats(svc *dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := userIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		stats, err := svc.Stats(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
