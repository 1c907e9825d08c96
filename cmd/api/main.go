package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sairaahmed/poshaak-backend/api/routes"
	"github.com/sairaahmed/poshaak-backend/internal/cart"
	"github.com/sairaahmed/poshaak-backend/internal/catalog"
	"github.com/sairaahmed/poshaak-backend/internal/customers"
	"github.com/sairaahmed/poshaak-backend/internal/orders"
	"github.com/sairaahmed/poshaak-backend/internal/promotions"
	"github.com/sairaahmed/poshaak-backend/internal/reviews"
	"github.com/sairaahmed/poshaak-backend/internal/seed"
	"github.com/sairaahmed/poshaak-backend/pkg/config"
	"github.com/sairaahmed/poshaak-backend/pkg/db"
	"github.com/sairaahmed/poshaak-backend/pkg/logger"
	"github.com/sairaahmed/poshaak-backend/pkg/metrics"
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

	if err := dbClient.AutoMigrate(context.Background(), logg); err != nil {
		logg.Error(context.Background(), "failed to run migrations", err)
		os.Exit(1)
	}

	if cfg.Seed.Enable {
		seeder, err := seed.New(dbClient.DB(), logg)
		if err != nil {
			logg.Error(context.Background(), "failed to create seeder", err)
			os.Exit(1)
		}
		if err := seeder.Run(context.Background()); err != nil {
			logg.Error(context.Background(), "failed to seed fixtures", err)
			os.Exit(1)
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	commerceMetrics := metrics.NewCommerceMetrics(registry)

	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	promoService, err := promotions.NewService(promotions.NewRepository(dbClient.DB()), dbClient, commerceMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create promotions service", err)
		os.Exit(1)
	}

	customerService, err := customers.NewService(customers.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		dbClient,
		promoService,
		customerService,
		logg,
		commerceMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	reviewService, err := reviews.NewService(reviews.NewRepository(dbClient.DB()), catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":    cfg.App.Env,
		"addr":   addr,
		"driver": cfg.DB.Driver,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			registry,
			catalogService,
			cartService,
			promoService,
			orderService,
			customerService,
			reviewService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
