package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mrosales/partsledger-backend/api/routes"
	"github.com/mrosales/partsledger-backend/internal/ledger"
	"github.com/mrosales/partsledger-backend/internal/machines"
	"github.com/mrosales/partsledger-backend/internal/organizations"
	"github.com/mrosales/partsledger-backend/internal/parts"
	"github.com/mrosales/partsledger-backend/internal/scope"
	"github.com/mrosales/partsledger-backend/internal/warehouses"
	"github.com/mrosales/partsledger-backend/pkg/config"
	"github.com/mrosales/partsledger-backend/pkg/db"
	"github.com/mrosales/partsledger-backend/pkg/logger"
	"github.com/mrosales/partsledger-backend/pkg/metrics"
	"github.com/mrosales/partsledger-backend/pkg/migrate"
	"github.com/mrosales/partsledger-backend/pkg/outbox"
	"github.com/mrosales/partsledger-backend/pkg/redis"
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
		ServiceName: cfg.Service.Kind,
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

	scopeService, err := scope.NewService(scope.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create scope service", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)
	ledgerMetrics := metrics.NewLedgerMetrics(prometheus.DefaultRegisterer)

	organizationsService, err := organizations.NewService(
		dbClient,
		organizations.NewRepository(dbClient.DB()),
		outboxService,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create organizations service", err)
		os.Exit(1)
	}

	warehousesService, err := warehouses.NewService(warehouses.NewRepository(dbClient.DB()), scopeService)
	if err != nil {
		logg.Error(context.Background(), "failed to create warehouses service", err)
		os.Exit(1)
	}

	partsService, err := parts.NewService(parts.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create parts service", err)
		os.Exit(1)
	}

	machinesService, err := machines.NewService(machines.NewRepository(dbClient.DB()), scopeService)
	if err != nil {
		logg.Error(context.Background(), "failed to create machines service", err)
		os.Exit(1)
	}

	ledgerService, err := ledger.NewService(
		dbClient,
		ledger.NewRepository(dbClient.DB()),
		scopeService,
		outboxService,
		ledgerMetrics,
		cfg.Inventory,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Organizations: organizationsService,
			Warehouses:    warehousesService,
			Parts:         partsService,
			Machines:      machinesService,
			Ledger:        ledgerService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
