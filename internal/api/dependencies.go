package api

import (
	"os"

	"github.com/lotworks/dealersync/internal/common"
	"github.com/lotworks/dealersync/internal/db"
	"github.com/lotworks/dealersync/internal/db/repositories"
	"github.com/lotworks/dealersync/internal/logging"
	"github.com/lotworks/dealersync/internal/services"
)

type Repositories struct {
	Settings *repositories.SettingsRepository
	Vehicles *repositories.VehicleRepository
}

type Services struct {
	Cache       common.CacheInterface
	LegacyCache *common.CacheService
	Settings    *services.SettingsService
	Reconcile   *services.VehicleReconcileService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services. The settings cache is
// Redis when REDIS_HOST is set, in-memory otherwise.
func InitDependencies() (*Dependencies, error) {

	repos := &Repositories{
		Settings: repositories.NewSettingsRepository(db.DB),
		Vehicles: repositories.NewVehicleRepository(db.PgDB),
	}

	legacyCache := common.NewCacheService(600, 600)

	var cache common.CacheInterface = legacyCache
	if os.Getenv("REDIS_HOST") != "" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			logging.Warn("Redis unavailable, falling back to in-memory cache", "error", err.Error())
		} else {
			cache = redisCache
		}
	}

	svcs := &Services{
		Cache:       cache,
		LegacyCache: legacyCache,
		Settings:    services.NewSettingsService(repos.Settings, cache),
		Reconcile:   services.NewVehicleReconcileService(repos.Vehicles),
	}

	return &Dependencies{
		Repo:     repos,
		Services: svcs,
	}, nil
}
