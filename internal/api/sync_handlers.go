package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/lotworks/dealersync/internal/jobs"
	"github.com/lotworks/dealersync/internal/models/dtos"
)

// SyncTrigger is the coordinator surface the handlers need
type SyncTrigger interface {
	StartAsync() error
	IsSyncing() bool
}

// SyncStatusReader reads the persisted outcome of the last run
type SyncStatusReader interface {
	ReadSyncStatus(ctx context.Context) (*dtos.SyncStatus, error)
}

// SyncHandler handles the manual sync trigger and the status polling endpoint
type SyncHandler struct {
	job    SyncTrigger
	status SyncStatusReader
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(job SyncTrigger, status SyncStatusReader) *SyncHandler {
	return &SyncHandler{job: job, status: status}
}

type triggerAcceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type triggerConflictResponse struct {
	Error   string `json:"error"`
	Running bool   `json:"running"`
}

// TriggerSync starts a vehicle feed sync in the background. Fire-and-forget:
// the response is sent as soon as the run is accepted. A run already in
// flight yields a conflict, never a queued second run.
func (h *SyncHandler) TriggerSync() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.job.StartAsync(); err != nil {
			if errors.Is(err, jobs.ErrSyncAlreadyRunning) {
				writeJSON(w, http.StatusConflict, triggerConflictResponse{
					Error:   "Sync is already running",
					Running: true,
				})
				return
			}
			log.Printf("[SyncHandler] Failed to start sync: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusAccepted, triggerAcceptedResponse{
			Success: true,
			Message: "Sync started",
		})
	}
}

// GetSyncStatus returns the polling payload for the admin dashboard. The
// running flag comes from the live guard only; while held it overrides the
// persisted outcome.
func (h *SyncHandler) GetSyncStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		persisted, err := h.status.ReadSyncStatus(r.Context())
		if err != nil {
			log.Printf("[SyncHandler] Failed to read sync status: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		running := h.job.IsSyncing()

		resp := dtos.SyncStatusResponse{
			LastSyncAt: persisted.LastSyncAt,
			Status:     persisted.Status,
			Message:    persisted.Message,
			Count:      persisted.Count,
			Running:    running,
		}

		switch {
		case running:
			resp.Status = "running"
		case resp.Status == "":
			resp.Status = "idle"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

var _ SyncTrigger = (*jobs.VehicleSyncJob)(nil)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
