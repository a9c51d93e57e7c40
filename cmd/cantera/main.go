package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/cantera-ops/cantera/internal/app"
	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/observability"
	"github.com/cantera-ops/cantera/internal/platform/cache"
	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/report"
	reporthttp "github.com/cantera-ops/cantera/internal/report/http"
	"github.com/cantera-ops/cantera/internal/shared"
	"github.com/cantera-ops/cantera/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	ids := shared.UUIDAllocator{}

	fleetService := fleet.NewService(fleet.NewRepository(pool), ids)
	consumptionService := consumption.NewService(consumption.NewRepository(pool))
	costsService := costs.NewService(costs.NewRepository(pool))
	fuelService := fuel.NewService(fuel.NewRepository(pool))
	materialsService := materials.NewService(materials.NewRepository(pool), ids)

	metrics := observability.NewMetrics()

	queueClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init queue client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := queueClient.Close(); err != nil {
			logger.Warn("queue client close", slog.Any("error", err))
		}
	}()

	reportCache := report.NewCache(redisClient, cfg.ReportCacheTTL)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}
	reportService := report.NewService(
		report.ServiceSource{
			FleetSvc:       fleetService,
			ConsumptionSvc: consumptionService,
			CostsSvc:       costsService,
			FuelSvc:        fuelService,
			MaterialsSvc:   materialsService,
		},
		report.NewSnapshotRepository(pool),
		reportCache,
		queueClient,
		metrics,
		logger,
	)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		FleetHandler:       fleet.NewHandler(logger, fleetService),
		ConsumptionHandler: consumption.NewHandler(logger, consumptionService),
		CostsHandler:       costs.NewHandler(logger, costsService),
		FuelHandler:        fuel.NewHandler(logger, fuelService),
		MaterialsHandler:   materials.NewHandler(logger, materialsService),
		ReportHandler:      reporthttp.NewHandler(logger, reportService),
		JobHandler:         jobs.NewHandler(inspector, logger),
		Reports:            reportService,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
