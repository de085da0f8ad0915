package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/lotworks/dealersync/internal/api"
	"github.com/lotworks/dealersync/internal/metrics"
	"github.com/lotworks/dealersync/internal/middleware"
)

// RegisterAPIRoutes registers all API v1 routes and handlers
// This keeps API route registration separate from the main router setup
func RegisterAPIRoutes(r chi.Router, metricsReg *metrics.MetricsRegistry, deps *api.Dependencies,
	syncHandler *api.SyncHandler, checker middleware.CapabilityChecker) {

	// Public storefront routes with metrics
	r.Group(func(public chi.Router) {
		public.Use(middleware.MetricsMiddleware(metricsReg))
		public.Get("/public/vehicles", api.ListVehicles(deps.Repo.Vehicles, deps.Services.LegacyCache))
	})

	// API v1 admin routes
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.MetricsMiddleware(metricsReg))
		v1.Use(middleware.RequireManageVehicles(checker))

		v1.Route("/admin", func(admin chi.Router) {
			admin.Get("/settings", api.GetSettings(deps.Services.Settings))
			admin.Post("/settings", api.SetSetting(deps.Services.Settings))

			admin.Get("/vehicles/sync/status", syncHandler.GetSyncStatus())

			admin.Group(func(trigger chi.Router) {
				trigger.Use(middleware.RateLimitMiddleware)
				trigger.Post("/vehicles/sync", syncHandler.TriggerSync())
			})
		})
	})
}
