package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/haulpoint/fleetops-backend/api/controllers"
	"github.com/haulpoint/fleetops-backend/api/routes"
	"github.com/haulpoint/fleetops-backend/internal/assignments"
	"github.com/haulpoint/fleetops-backend/internal/catalog"
	"github.com/haulpoint/fleetops-backend/internal/fleet"
	"github.com/haulpoint/fleetops-backend/internal/positions"
	"github.com/haulpoint/fleetops-backend/pkg/config"
	"github.com/haulpoint/fleetops-backend/pkg/db"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	"github.com/haulpoint/fleetops-backend/pkg/metrics"
	"github.com/haulpoint/fleetops-backend/pkg/migrate"
	"github.com/haulpoint/fleetops-backend/pkg/redis"
	"github.com/haulpoint/fleetops-backend/pkg/telematics"
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

	telematicsClient, err := telematics.NewClient(context.Background(), cfg.Telematics, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create telematics client", err)
		os.Exit(1)
	}

	templates, err := catalog.New(cfg.Catalog.SearchRoots)
	if err != nil {
		logg.Error(context.Background(), "failed to create template catalog", err)
		os.Exit(1)
	}

	positionResolver, err := positions.NewResolver(redisClient, telematicsClient, logg, cfg.Positions.CacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create position resolver", err)
		os.Exit(1)
	}

	fleetRepo := fleet.NewRepository(dbClient.DB())
	bindingMetrics := metrics.NewBindingMetrics(prometheus.DefaultRegisterer)

	assignmentsService, err := assignments.NewService(
		assignments.NewRepository(dbClient.DB()),
		fleetRepo,
		templates,
		telematicsClient,
		positionResolver,
		logg,
		bindingMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create assignments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config: cfg,
			Logger: logg,
			Ready: map[string]controllers.Pinger{
				"database": dbClient,
				"redis":    redisClient,
			},
			Idempotency: redisClient,
			Assignments: assignmentsService,
			Fleet:       fleetRepo,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
