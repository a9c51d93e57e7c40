package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"

	"github.com/cantera-ops/cantera/internal/app"
	"github.com/cantera-ops/cantera/internal/consumption"
	"github.com/cantera-ops/cantera/internal/costs"
	"github.com/cantera-ops/cantera/internal/fleet"
	"github.com/cantera-ops/cantera/internal/fuel"
	jobmetrics "github.com/cantera-ops/cantera/internal/jobs"
	"github.com/cantera-ops/cantera/internal/materials"
	"github.com/cantera-ops/cantera/internal/platform/cache"
	"github.com/cantera-ops/cantera/internal/platform/db"
	"github.com/cantera-ops/cantera/internal/report"
	"github.com/cantera-ops/cantera/internal/shared"
	"github.com/cantera-ops/cantera/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		nil,
		nil,
		logger,
	)

	metrics := jobmetrics.NewMetrics(nil)
	snapshotJob := report.NewSnapshotJob(reportService, logger)
	warmupJob := report.NewReportWarmupJob(reportService, logger, metrics)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeReportSnapshot, Handler: snapshotJob.Handle},
			{Type: jobs.TaskTypeReportWarmup, Handler: warmupJob.Handle},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

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

	scheduler := jobs.NewScheduler(queueClient, cfg.SnapshotRefreshSpec, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error("start scheduler", slog.Any("error", err))
		os.Exit(1)
	}
	defer scheduler.Stop()

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
