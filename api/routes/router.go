package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tiendalink/backend/api/controllers"
	"github.com/tiendalink/backend/api/middleware"
	"github.com/tiendalink/backend/internal/auth"
	"github.com/tiendalink/backend/internal/cart"
	"github.com/tiendalink/backend/internal/categories"
	"github.com/tiendalink/backend/internal/checkout"
	"github.com/tiendalink/backend/internal/dashboard"
	"github.com/tiendalink/backend/internal/orders"
	"github.com/tiendalink/backend/internal/products"
	"github.com/tiendalink/backend/internal/storefront"
	"github.com/tiendalink/backend/internal/stores"
	"github.com/tiendalink/backend/pkg/auth/session"
	"github.com/tiendalink/backend/pkg/config"
	"github.com/tiendalink/backend/pkg/logger"
	"github.com/tiendalink/backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. cmd/api builds one
// after bootstrapping config, storage, and the services.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	Sessions session.AccessSessionChecker
	Metrics  *metrics.HTTPMetrics

	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger

	Auth       *auth.Service
	Stores     stores.Service
	Categories categories.Service
	Products   products.Service
	Orders     orders.Service
	Storefront *storefront.Service
	Carts      *cart.Service
	Checkout   *checkout.Service
	Dashboard  *dashboard.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.Metrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DBPinger, d.RedisPinger))
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.Register(d.Auth, logg))
		r.Post("/login", controllers.Login(d.Auth, logg))
		r.Post("/refresh", controllers.Refresh(d.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
			r.Post("/logout", controllers.Logout(d.Auth, logg))
			r.Post("/change-password", controllers.ChangePassword(d.Auth, logg))
		})
	})

	// Shopper-facing surface. Cart identity rides on the X-Cart-Token
	// header, never on a login.
	r.Route("/api/v1/storefront", func(r chi.Router) {
		r.Get("/{slug}", controllers.StorefrontGet(d.Storefront, logg))
		r.With(middleware.CartToken(logg)).
			Post("/{slug}/checkout", controllers.CheckoutSubmit(d.Checkout, d.Carts, logg))
	})

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(middleware.CartToken(logg))
		r.Get("/", controllers.CartGet(d.Carts, logg))
		r.Post("/items", controllers.CartAddItem(d.Carts, logg))
		r.Delete("/items/{productID}", controllers.CartRemoveItem(d.Carts, logg))
		r.Delete("/", controllers.CartClear(d.Carts, logg))
	})

	// Merchant surface.
	r.Route("/api/v1/merchant", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))

		r.Route("/store", func(r chi.Router) {
			r.Get("/", controllers.StoreMine(d.Stores, logg))
			r.Put("/", controllers.StoreUpsert(d.Stores, logg))
			r.Patch("/active", controllers.StoreSetActive(d.Stores, logg))
			r.Delete("/", controllers.StoreDelete(d.Stores, logg))
			r.Post("/recover", controllers.StoreRecover(d.Stores, logg))
		})
		r.Get("/dashboard", controllers.DashboardStats(d.Dashboard, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.StoreContext(logg))

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", controllers.CategoryList(d.Categories, logg))
				r.Post("/", controllers.CategoryCreate(d.Categories, logg))
				r.Patch("/{categoryID}", controllers.CategoryRename(d.Categories, logg))
				r.Delete("/{categoryID}", controllers.CategoryDelete(d.Categories, logg))
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", controllers.ProductList(d.Products, logg))
				r.Post("/", controllers.ProductCreate(d.Products, logg))
				r.Get("/{productID}", controllers.ProductGet(d.Products, logg))
				r.Put("/{productID}", controllers.ProductUpdate(d.Products, logg))
				r.Patch("/{productID}/available", controllers.ProductSetAvailable(d.Products, logg))
				r.Delete("/{productID}", controllers.ProductDelete(d.Products, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(d.Orders, logg))
				r.Get("/{orderID}", controllers.OrderGet(d.Orders, logg))
				r.Patch("/{orderID}/status", controllers.OrderUpdateStatus(d.Orders, logg))
			})
		})
	})

	return r
}
