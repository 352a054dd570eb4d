package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ventaflow/ventaflow-backend/api/routes"
	"github.com/ventaflow/ventaflow-backend/internal/cart"
	"github.com/ventaflow/ventaflow-backend/internal/catalog"
	"github.com/ventaflow/ventaflow-backend/internal/customers"
	"github.com/ventaflow/ventaflow-backend/internal/employees"
	"github.com/ventaflow/ventaflow-backend/internal/expenses"
	"github.com/ventaflow/ventaflow-backend/internal/inventory"
	"github.com/ventaflow/ventaflow-backend/internal/notifications"
	"github.com/ventaflow/ventaflow-backend/internal/permissions"
	"github.com/ventaflow/ventaflow-backend/internal/sales"
	"github.com/ventaflow/ventaflow-backend/internal/suppliers"
	"github.com/ventaflow/ventaflow-backend/pkg/config"
	"github.com/ventaflow/ventaflow-backend/pkg/db"
	"github.com/ventaflow/ventaflow-backend/pkg/env"
	"github.com/ventaflow/ventaflow-backend/pkg/logger"
	"github.com/ventaflow/ventaflow-backend/pkg/metrics"
	"github.com/ventaflow/ventaflow-backend/pkg/migrate"
	"github.com/ventaflow/ventaflow-backend/pkg/redis"
)

const (
	cartSweepInterval = 10 * time.Minute
	cartMaxIdle       = time.Hour
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

	gormDB := dbClient.DB()
	carts := cart.NewStore()
	checkoutMetrics := metrics.NewCheckoutMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(catalog.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	salesService, err := sales.NewService(carts, sales.NewRepository(gormDB), dbClient, cfg.POS, checkoutMetrics, notificationsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create sales service", err)
		os.Exit(1)
	}

	inventoryService, err := inventory.NewService(inventory.NewRepository(gormDB), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}

	customersService, err := customers.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create customers service", err)
		os.Exit(1)
	}

	suppliersService, err := suppliers.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create suppliers service", err)
		os.Exit(1)
	}

	expensesService, err := expenses.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create expenses service", err)
		os.Exit(1)
	}

	employeesService, err := employees.NewService(gormDB)
	if err != nil {
		logg.Error(context.Background(), "failed to create employees service", err)
		os.Exit(1)
	}

	permissionsService, err := permissions.NewService(permissions.NewRepository(gormDB))
	if err != nil {
		logg.Error(context.Background(), "failed to create permissions service", err)
		os.Exit(1)
	}

	// Carts live in process memory only. Abandoned sessions are dropped
	// on a timer so the map cannot grow without bound.
	go func() {
		ticker := time.NewTicker(cartSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			if swept := carts.Sweep(cartMaxIdle); swept > 0 {
				ctx := logg.WithFields(context.Background(), map[string]any{"swept": swept})
				logg.Info(ctx, "cart.sweep")
			}
		}
	}()

	addr := ":" + env.Get("PORT", cfg.App.Port)
	id := env.Get("DYNO", "local")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Carts:         carts,
			Catalog:       catalogService,
			Sales:         salesService,
			Inventory:     inventoryService,
			Customers:     customersService,
			Suppliers:     suppliersService,
			Expenses:      expensesService,
			Employees:     employeesService,
			Notifications: notificationsService,
			Permissions:   permissionsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
