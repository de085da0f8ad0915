package dtos

import "time"

// SyncSummary holds the per-action counters of one reconciliation pass
type SyncSummary struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
	Retired int `json:"retired"`
	Errored int `json:"errored"`
}

// Total returns the number of feed records that resolved to an action
func (s SyncSummary) Total() int {
	return s.Created + s.Updated + s.Skipped
}

// SyncStatus is the persisted outcome of the most recent sync run.
// The running flag is never persisted; it comes from the live guard.
type SyncStatus struct {
	LastSyncAt *time.Time `json:"lastSyncAt"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Count      int        `json:"count"`
}

// SyncStatusResponse is the polling payload for the admin dashboard
type SyncStatusResponse struct {
	LastSyncAt *time.Time `json:"lastSyncAt"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
	Count      int        `json:"count"`
	Running    bool       `json:"running"`
}
