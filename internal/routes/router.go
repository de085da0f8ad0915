package routes

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/lotworks/dealersync/internal/api"
	"github.com/lotworks/dealersync/internal/db"
	"github.com/lotworks/dealersync/internal/jobs"
	"github.com/lotworks/dealersync/internal/logging"
	"github.com/lotworks/dealersync/internal/metrics"
	"github.com/lotworks/dealersync/internal/middleware"
)

func RegisterRoutes(upSince time.Time) http.Handler {

	// initialize Chi router
	r := chi.NewRouter()

	// Initialize metrics registry
	metricsReg := metrics.NewMetricsRegistry()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://localhost:8081"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Admin-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	logging.Info("Router initialized with request-id and CORS middleware")

	// health check
	r.Get("/healthCheck", api.HealthCheckHandler(db.DB, upSince))

	// Initialize dependencies using DI pattern
	deps, err := api.InitDependencies()
	if err != nil {
		panic("Failed to initialize dependencies: " + err.Error())
	}

	appEnv := os.Getenv("APP_ENV")

	// Setup the vehicle sync job; the scheduler starts here when configured
	syncJob := jobs.InitializeJobs(
		context.Background(),
		appEnv,
		deps.Services.Reconcile,
		deps.Services.Settings,
		metricsReg,
	)

	syncHandler := api.NewSyncHandler(syncJob, deps.Services.Settings)

	RegisterAPIRoutes(r, metricsReg, deps, syncHandler, middleware.EnvTokenChecker{})

	return r
}
