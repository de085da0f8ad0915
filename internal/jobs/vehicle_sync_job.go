package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/metrics"
	"github.com/lotworks/dealersync/internal/models/dtos"
	"github.com/lotworks/dealersync/internal/providers"
	"github.com/lotworks/dealersync/internal/services"
)

// ErrSyncAlreadyRunning is returned when a trigger arrives while a run holds
// the guard. Callers surface it as a conflict; nothing is queued.
var ErrSyncAlreadyRunning = errors.New("sync is already running")

// maxStatusMessageLen bounds the persisted failure message
const maxStatusMessageLen = 500

// FeedFetcher retrieves the raw feed document
type FeedFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Reconciler applies one parsed feed snapshot to the vehicle table
type Reconciler interface {
	Reconcile(ctx context.Context, records []dtos.FeedVehicleRecord) (*dtos.SyncSummary, error)
}

// StatusStore persists run outcomes and serves feed configuration
type StatusStore interface {
	GetFeedConfig(ctx context.Context) (services.FeedConfig, error)
	WriteSyncStatus(ctx context.Context, status dtos.SyncStatus) error
}

// SyncRun is the in-memory state of one execution. It is created when the
// guard is acquired and discarded once its terminal status has been flushed.
type SyncRun struct {
	StartedAt time.Time
	Stage     string
	Summary   dtos.SyncSummary
}

// VehicleSyncJob coordinates the fetch, parse and reconcile pipeline for the
// dealership vehicle feed and enforces that at most one run is in flight.
type VehicleSyncJob struct {
	fetcher    FeedFetcher
	reconciler Reconciler
	settings   StatusStore
	metricsReg *metrics.MetricsRegistry

	guard   *semaphore.Weighted
	syncing atomic.Bool
}

// NewVehicleSyncJob creates a new vehicle sync job instance. metricsReg may
// be nil in tests.
func NewVehicleSyncJob(
	fetcher FeedFetcher,
	reconciler Reconciler,
	settings StatusStore,
	metricsReg *metrics.MetricsRegistry,
) *VehicleSyncJob {
	return &VehicleSyncJob{
		fetcher:    fetcher,
		reconciler: reconciler,
		settings:   settings,
		metricsReg: metricsReg,
		guard:      semaphore.NewWeighted(1),
	}
}

// IsSyncing reports whether a run currently holds the guard. This is the
// only source of the "running" flag; it is never derived from the persisted
// status, so a crashed process can never be stuck showing "running".
func (j *VehicleSyncJob) IsSyncing() bool {
	return j.syncing.Load()
}

// StartAsync accepts a manual trigger. The guard is taken before any network
// or database work; if another run holds it, the call fails immediately with
// ErrSyncAlreadyRunning and performs no side effects. On accept the pipeline
// runs in the background and the caller returns at once.
func (j *VehicleSyncJob) StartAsync() error {
	if !j.guard.TryAcquire(1) {
		return ErrSyncAlreadyRunning
	}
	j.syncing.Store(true)

	// Detached from the request context: the trigger is fire-and-forget and
	// a run always completes and writes a terminal status.
	go j.runLocked(context.Background())

	return nil
}

// Run executes one synchronous run, used by the scheduler. Returns
// ErrSyncAlreadyRunning when a manual run is in flight; the tick is dropped.
func (j *VehicleSyncJob) Run(ctx context.Context) error {
	if !j.guard.TryAcquire(1) {
		return ErrSyncAlreadyRunning
	}
	j.syncing.Store(true)

	return j.runLocked(ctx)
}

// runLocked owns the guard. The guard is released only after the terminal
// status write completes, so a caller observing IsSyncing()==false always
// sees the previous run's outcome in the status store.
func (j *VehicleSyncJob) runLocked(ctx context.Context) error {
	// Registered first so it runs last, after the status flush below
	defer func() {
		j.syncing.Store(false)
		j.guard.Release(1)
	}()

	run := &SyncRun{StartedAt: time.Now(), Stage: constants.SyncStageFetching}

	var runErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				runErr = fmt.Errorf("sync panicked during %s: %v", run.Stage, r)
			}
		}()
		runErr = j.execute(ctx, run)
	}()

	j.flushStatus(ctx, run, runErr)

	if j.metricsReg != nil {
		j.metricsReg.SyncJobDuration.WithLabelValues("vehicle_sync").
			Observe(time.Since(run.StartedAt).Seconds())
	}

	return runErr
}

// execute walks the pipeline stages and fills the run summary
func (j *VehicleSyncJob) execute(ctx context.Context, run *SyncRun) error {
	log.Printf("[VehicleSyncJob] Starting vehicle sync at %s", run.StartedAt.Format(time.RFC3339))

	cfg, err := j.settings.GetFeedConfig(ctx)
	if err != nil {
		return fmt.Errorf("failed to read feed config: %w", err)
	}

	run.Stage = constants.SyncStageFetching
	data, err := j.fetcher.Fetch(ctx, cfg.URL)
	if err != nil {
		return fmt.Errorf("feed fetch failed: %w", err)
	}

	run.Stage = constants.SyncStageParsing
	records, skipped, err := providers.ParseFeed(data)
	if err != nil {
		return fmt.Errorf("feed parse failed: %w", err)
	}
	if skipped > 0 {
		log.Printf("[VehicleSyncJob] Skipped %d unusable feed entries", skipped)
	}

	run.Stage = constants.SyncStageReconciling
	summary, err := j.reconciler.Reconcile(ctx, records)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	run.Summary = *summary
	run.Summary.Errored += skipped
	run.Stage = constants.SyncStageDone

	log.Printf("[VehicleSyncJob] Completed vehicle sync in %s. Created: %d, Updated: %d, Skipped: %d, Retired: %d, Errors: %d",
		time.Since(run.StartedAt).Truncate(time.Millisecond),
		run.Summary.Created, run.Summary.Updated, run.Summary.Skipped, run.Summary.Retired, run.Summary.Errored)

	return nil
}

// flushStatus writes the terminal status. Sync failures are never fatal to
// the host process; a failed flush is only logged.
func (j *VehicleSyncJob) flushStatus(ctx context.Context, run *SyncRun, runErr error) {
	now := time.Now()
	status := dtos.SyncStatus{
		LastSyncAt: &now,
		Count:      run.Summary.Total(),
	}

	switch {
	case runErr != nil:
		run.Stage = constants.SyncStageFailed
		status.Status = constants.SyncOutcomeError
		status.Message = truncateMessage(runErr.Error())
	case run.Summary.Errored > 0:
		status.Status = constants.SyncOutcomePartial
		status.Message = fmt.Sprintf("Completed with %d record errors. Created %d, updated %d, skipped %d, retired %d",
			run.Summary.Errored, run.Summary.Created, run.Summary.Updated, run.Summary.Skipped, run.Summary.Retired)
	default:
		status.Status = constants.SyncOutcomeSuccess
		status.Message = fmt.Sprintf("Created %d, updated %d, skipped %d, retired %d",
			run.Summary.Created, run.Summary.Updated, run.Summary.Skipped, run.Summary.Retired)
	}

	if err := j.settings.WriteSyncStatus(ctx, status); err != nil {
		log.Printf("[VehicleSyncJob] Failed to write sync status: %v", err)
	}

	if j.metricsReg != nil {
		j.metricsReg.SyncRunsTotal.WithLabelValues(status.Status).Inc()
		j.metricsReg.VehiclesImported.Add(float64(run.Summary.Created))
	}
}

// RunScheduled fires the sync on a fixed interval until the context is
// cancelled. A tick that arrives while a run is in progress is dropped, not
// queued; each awaited run finishes before the next tick is considered.
func (j *VehicleSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("[VehicleSyncJob] Scheduled sync every %s", interval)

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				if errors.Is(err, ErrSyncAlreadyRunning) {
					log.Printf("[VehicleSyncJob] Sync in progress, dropping scheduled tick")
					continue
				}
				log.Printf("[VehicleSyncJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[VehicleSyncJob] Shutting down scheduled sync")
			return
		}
	}
}

func truncateMessage(msg string) string {
	if len(msg) > maxStatusMessageLen {
		return msg[:maxStatusMessageLen]
	}
	return msg
}
