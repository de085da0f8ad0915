package jobs

import (
	"context"
	"log"

	"github.com/lotworks/dealersync/internal/metrics"
	"github.com/lotworks/dealersync/internal/providers"
	"github.com/lotworks/dealersync/internal/services"
)

// InitializeJobs builds the vehicle sync job and starts the scheduler when
// the deployment allows it. Scheduling is skipped entirely outside production
// execution (appEnv "test") and when the feed is not configured; the manual
// trigger endpoint works either way.
func InitializeJobs(
	ctx context.Context,
	appEnv string,
	reconciler *services.VehicleReconcileService,
	settings *services.SettingsService,
	metricsReg *metrics.MetricsRegistry,
) *VehicleSyncJob {
	syncJob := NewVehicleSyncJob(
		providers.NewXMLFeedProvider(),
		reconciler,
		settings,
		metricsReg,
	)

	if appEnv == "test" {
		log.Printf("[VehicleSyncJob] Test environment, scheduler disabled")
		return syncJob
	}

	cfg, err := settings.GetFeedConfig(ctx)
	if err != nil {
		log.Printf("[VehicleSyncJob] Could not read feed config, scheduler disabled: %v", err)
		return syncJob
	}

	if !cfg.Enabled() {
		log.Printf("[VehicleSyncJob] Feed URL or interval not configured, scheduler disabled")
		return syncJob
	}

	go syncJob.RunScheduled(ctx, cfg.Interval)

	return syncJob
}
