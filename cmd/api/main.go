package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/tiendalink/backend/api/routes"
	authsvc "github.com/tiendalink/backend/internal/auth"
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
	"github.com/tiendalink/backend/pkg/db"
	"github.com/tiendalink/backend/pkg/events"
	"github.com/tiendalink/backend/pkg/logger"
	"github.com/tiendalink/backend/pkg/metrics"
	"github.com/tiendalink/backend/pkg/migrate"
	"github.com/tiendalink/backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	publisher, err := events.NewPublisher(context.Background(), cfg.Events, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create event publisher", err)
		os.Exit(1)
	}
	defer publisher.Close()

	gormDB := dbClient.DB()
	storeRepo := stores.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)

	authService, err := authsvc.NewService(
		authsvc.NewRepository(gormDB),
		storeRepo,
		sessionManager,
		redisClient,
		cfg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	storeService, err := stores.NewService(storeRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}

	categoryService, err := categories.NewService(categories.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create category service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(products.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(orderRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	storefrontRepo := storefront.NewRepository(gormDB)
	storefrontService := storefront.NewService(storefrontRepo)
	cartService := cart.NewService(cart.NewRedisKV(redisClient, cfg.Cart.TTL), redisClient)
	checkoutService := checkout.NewService(storefrontRepo, orderService, publisher, logg)
	dashboardService := dashboard.NewService(storeRepo, dashboard.NewRepository(gormDB))

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"events": publisher.Enabled(),
	})
	logg.Info(ctx, "starting api server")

	router := routes.NewRouter(routes.Deps{
		Config:      cfg,
		Logger:      logg,
		Sessions:    sessionManager,
		Metrics:     metrics.NewHTTPMetrics(),
		DBPinger:    dbClient,
		RedisPinger: redisClient,
		Auth:        authService,
		Stores:      storeService,
		Categories:  categoryService,
		Products:    productService,
		Orders:      orderService,
		Storefront:  storefrontService,
		Carts:       cartService,
		Checkout:    checkoutService,
		Dashboard:   dashboardService,
	})

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
