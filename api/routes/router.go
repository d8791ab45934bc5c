package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/haulpoint/fleetops-backend/api/controllers"
	"github.com/haulpoint/fleetops-backend/api/middleware"
	"github.com/haulpoint/fleetops-backend/internal/assignments"
	"github.com/haulpoint/fleetops-backend/internal/fleet"
	"github.com/haulpoint/fleetops-backend/pkg/config"
	"github.com/haulpoint/fleetops-backend/pkg/logger"
	pkgredis "github.com/haulpoint/fleetops-backend/pkg/redis"
)

// RouterParams carry everything the HTTP surface needs.
type RouterParams struct {
	Config      *config.Config
	Logger      *logger.Logger
	Ready       map[string]controllers.Pinger
	Idempotency pkgredis.IdempotencyStore
	Assignments assignments.Service
	Fleet       *fleet.Repository
}

func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(params.Logger),
		middleware.RequestID(params.Logger),
		middleware.Logging(params.Logger),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(params.Config))
		r.Get("/ready", controllers.HealthReady(params.Config, params.Logger, params.Ready))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(params.Idempotency, params.Logger))

		r.Route("/bindings", func(r chi.Router) {
			r.Post("/", controllers.BindingCreate(params.Assignments, params.Logger))
			r.Delete("/", controllers.BindingDelete(params.Assignments, params.Logger))
			r.Get("/", controllers.BindingList(params.Assignments, params.Logger))
			r.Post("/{bindingID}/complete", controllers.BindingComplete(params.Assignments, params.Logger))
		})

		r.Get("/devices/{deviceID}", controllers.DeviceGet(params.Fleet, params.Logger))
		r.Get("/operations/{operationID}/zones", controllers.OperationZonesList(params.Fleet, params.Logger))
	})

	return r
}
