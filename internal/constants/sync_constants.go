package constants

// Sync run outcomes persisted in site_settings
const (
	SyncOutcomeSuccess = "success"
	SyncOutcomePartial = "partial"
	SyncOutcomeError   = "error"
)

// Sync pipeline stages, in order of progression
const (
	SyncStageFetching    = "fetching"
	SyncStageParsing     = "parsing"
	SyncStageReconciling = "reconciling"
	SyncStageDone        = "done"
	SyncStageFailed      = "failed"
)

// Settings keys for the persisted sync status (one logical row, four keys)
const (
	SettingLastSyncAt      = "last_sync_at"
	SettingLastSyncStatus  = "last_sync_status"
	SettingLastSyncMessage = "last_sync_message"
	SettingLastSyncCount   = "last_sync_count"
)

// Settings keys for feed configuration
const (
	SettingFeedURL             = "feed_url"
	SettingFeedSyncIntervalMin = "feed_sync_interval_minutes"
)
