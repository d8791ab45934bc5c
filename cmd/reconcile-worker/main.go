package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/haulpoint/fleetops-backend/internal/assignments"
	"github.com/haulpoint/fleetops-backend/internal/fleet"
	"github.com/haulpoint/fleetops-backend/internal/jobs"
	"github.com/haulpoint/fleetops-backend/pkg/config"
	"github.com/haulpoint/fleetops-backend/pkg/db"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/metrics"
	"github.com/haulpoint/fleetops-backend/pkg/migrate"
	"github.com/haulpoint/fleetops-backend/pkg/redis"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "reconcile-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "reconcile-worker"

	logg = logger.New(logger.Options{
		ServiceName: "reconcile-worker",
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

	telematicsClient, err := telematics.NewClient(context.Background(), cfg.Telematics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create telematics client", err)
		os.Exit(1)
	}

	reconcileJob, err := jobs.NewReconcileCalculatorsJob(jobs.ReconcileCalculatorsJobParams{
		Logger:  logg,
		Links:   assignments.NewRepository(dbClient.DB()),
		Fleet:   fleet.NewRepository(dbClient.DB()),
		Gateway: telematicsClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile job", err)
		os.Exit(1)
	}

	lock, err := jobs.NewRedisLock(redisClient, redisClient.LockKey("reconcile-worker"), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create worker lock", err)
		os.Exit(1)
	}

	service, err := jobs.NewService(jobs.ServiceParams{
		Logger:   logg,
		Registry: jobs.NewRegistry(reconcileJob),
		Lock:     lock,
		Metrics:  metrics.NewJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Reconcile.Interval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
	})
	logg.Info(ctx, "starting reconcile worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "reconcile worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "reconcile worker shutting down gracefully")
}
