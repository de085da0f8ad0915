package services

import (
	"context"
	"testing"
	"time"

	"github.com/lotworks/dealersync/internal/constants"
	"github.com/lotworks/dealersync/internal/models/dtos"
	"github.com/lotworks/dealersync/internal/models/entities"
)

// Fake settings repository backed by a map, recording every batch write
type fakeSettingsRepo struct {
	values      map[string]string
	batchWrites []map[string]string
	upsertCalls int
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{values: make(map[string]string)}
}

func (r *fakeSettingsRepo) GetAll(ctx context.Context) ([]entities.Setting, error) {
	rows := make([]entities.Setting, 0, len(r.values))
	for k, v := range r.values {
		rows = append(rows, entities.Setting{SettingKey: k, SettingValue: v})
	}
	return rows, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, key string, value string) error {
	r.upsertCalls++
	r.values[key] = value
	return nil
}

func (r *fakeSettingsRepo) UpsertMany(ctx context.Context, values map[string]string) error {
	batch := make(map[string]string, len(values))
	for k, v := range values {
		batch[k] = v
		r.values[k] = v
	}
	r.batchWrites = append(r.batchWrites, batch)
	return nil
}

// Fake cache pre-loaded with a settings map; the loader (and therefore the
// repository) is never reached.
type stubCache struct {
	value any
}

func (c *stubCache) Set(key string, value any, ttl time.Duration)   {}
func (c *stubCache) Get(key string) (any, bool)                     { return c.value, true }
func (c *stubCache) Delete(key string)                              {}
func (c *stubCache) Close() error                                   { return nil }
func (c *stubCache) GetOrSet(key string, ttl time.Duration, loader func() (any, error)) (any, error) {
	return c.value, nil
}

func TestIsValidSettingKey(t *testing.T) {
	for _, key := range AllowedSettingKeys {
		if !IsValidSettingKey(key) {
			t.Errorf("Expected %q to be valid", key)
		}
	}
	if IsValidSettingKey("last_sync_status") {
		t.Error("Status keys must not be admin-settable")
	}
	if IsValidSettingKey("") {
		t.Error("Empty key must not be valid")
	}
}

func TestFeedConfig_Enabled(t *testing.T) {
	if (FeedConfig{}).Enabled() {
		t.Error("Empty config must be disabled")
	}
	if (FeedConfig{URL: "https://feed.example.com/v.xml"}).Enabled() {
		t.Error("Config without interval must be disabled")
	}
	if !(FeedConfig{URL: "https://feed.example.com/v.xml", Interval: time.Hour}).Enabled() {
		t.Error("Config with URL and interval must be enabled")
	}
}

func TestGetFeedConfig(t *testing.T) {
	service := NewSettingsService(nil, &stubCache{value: map[string]string{
		constants.SettingFeedURL:             "https://feed.example.com/v.xml",
		constants.SettingFeedSyncIntervalMin: "30",
	}})

	cfg, err := service.GetFeedConfig(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.URL != "https://feed.example.com/v.xml" {
		t.Errorf("Unexpected URL: %s", cfg.URL)
	}
	if cfg.Interval != 30*time.Minute {
		t.Errorf("Expected 30m interval, got %s", cfg.Interval)
	}
	if !cfg.Enabled() {
		t.Error("Expected config to be enabled")
	}
}

func TestGetFeedConfig_InvalidInterval(t *testing.T) {
	service := NewSettingsService(nil, &stubCache{value: map[string]string{
		constants.SettingFeedURL:             "https://feed.example.com/v.xml",
		constants.SettingFeedSyncIntervalMin: "soon",
	}})

	if _, err := service.GetFeedConfig(context.Background()); err == nil {
		t.Fatal("Expected error for non-numeric interval")
	}
}

func TestWriteSyncStatus_AllKeysInOneBatch(t *testing.T) {
	repo := newFakeSettingsRepo()
	service := NewSettingsService(repo, &stubCache{})

	lastSync := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	err := service.WriteSyncStatus(context.Background(), dtos.SyncStatus{
		LastSyncAt: &lastSync,
		Status:     constants.SyncOutcomePartial,
		Message:    "Completed with 2 record errors",
		Count:      14,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// One transactional write carrying exactly the four status keys
	if len(repo.batchWrites) != 1 {
		t.Fatalf("Expected 1 batch write, got %d", len(repo.batchWrites))
	}
	if repo.upsertCalls != 0 {
		t.Errorf("Expected no per-key writes, got %d", repo.upsertCalls)
	}

	batch := repo.batchWrites[0]
	if len(batch) != 4 {
		t.Errorf("Expected 4 keys in the batch, got %d: %v", len(batch), batch)
	}
	if batch[constants.SettingLastSyncAt] != "2026-03-14T06:30:00Z" {
		t.Errorf("Unexpected timestamp value: %q", batch[constants.SettingLastSyncAt])
	}
	if batch[constants.SettingLastSyncStatus] != constants.SyncOutcomePartial {
		t.Errorf("Unexpected status value: %q", batch[constants.SettingLastSyncStatus])
	}
	if batch[constants.SettingLastSyncMessage] != "Completed with 2 record errors" {
		t.Errorf("Unexpected message value: %q", batch[constants.SettingLastSyncMessage])
	}
	if batch[constants.SettingLastSyncCount] != "14" {
		t.Errorf("Unexpected count value: %q", batch[constants.SettingLastSyncCount])
	}
}

func TestSyncStatusRoundTrip(t *testing.T) {
	repo := newFakeSettingsRepo()
	service := NewSettingsService(repo, &stubCache{})

	lastSync := time.Date(2026, 3, 14, 6, 30, 0, 0, time.UTC)
	written := dtos.SyncStatus{
		LastSyncAt: &lastSync,
		Status:     constants.SyncOutcomeSuccess,
		Message:    "Created 3, updated 0, skipped 11, retired 0",
		Count:      14,
	}

	if err := service.WriteSyncStatus(context.Background(), written); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	read, err := service.ReadSyncStatus(context.Background())
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if read.Status != written.Status || read.Message != written.Message || read.Count != written.Count {
		t.Errorf("Status changed across round trip: wrote %+v, read %+v", written, read)
	}
	if read.LastSyncAt == nil || !read.LastSyncAt.Equal(lastSync) {
		t.Errorf("Expected timestamp %v, got %v", lastSync, read.LastSyncAt)
	}
}

func TestReadSyncStatus_NeverSynced(t *testing.T) {
	service := NewSettingsService(newFakeSettingsRepo(), &stubCache{})

	status, err := service.ReadSyncStatus(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if status.LastSyncAt != nil || status.Status != "" || status.Count != 0 {
		t.Errorf("Expected empty status, got %+v", status)
	}
}

func TestGetFeedConfig_RedisShapedCacheValue(t *testing.T) {
	service := NewSettingsService(nil, &stubCache{value: map[string]interface{}{
		constants.SettingFeedURL:             "https://feed.example.com/v.xml",
		constants.SettingFeedSyncIntervalMin: "15",
	}})

	cfg, err := service.GetFeedConfig(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.Interval != 15*time.Minute {
		t.Errorf("Expected 15m interval, got %s", cfg.Interval)
	}
}
