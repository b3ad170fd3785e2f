package middleware

import (
	"net/http"
	"strings"

	"github.com/tiendalink/backend/pkg/logger"
)

// CartTokenHeader carries the shopper's opaque cart identifier. The
// server mints one on first use and echoes it back on every response.
const CartTokenHeader = "X-Cart-Token"

// CartToken lifts the cart token header into the request context.
// Missing tokens are allowed; cart handlers mint one.
func CartToken(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(CartTokenHeader))
			ctx := r.Context()
			if token != "" {
				ctx = WithCartToken(ctx, token)
				if logg != nil {
					ctx = logg.WithCartToken(ctx, token)
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
